package domain

import "github.com/shopspring/decimal"

// IncomeSource names a withholding category
type IncomeSource string

const (
	IncomeSourceWages            IncomeSource = "WAGES"
	IncomeSourcePreTaxWithdrawal IncomeSource = "PRE_TAX_WITHDRAWAL"
	IncomeSourceSocialSecurity   IncomeSource = "SOCIAL_SECURITY"
	IncomeSourcePension          IncomeSource = "PENSION"
	IncomeSourceOther            IncomeSource = "OTHER"
)

// TaxableIncome is the year's income broken down the way a tax table needs it
type TaxableIncome struct {
	Year              int
	FilingStatus      FilingStatus
	Wages             decimal.Decimal // Already net of pre-tax contributions
	PreTaxWithdrawals decimal.Decimal
	Pension           decimal.Decimal
	OtherIncome       decimal.Decimal
	SocialSecurity    decimal.Decimal // Gross benefit; the service decides the taxable share
}

// Ordinary is every fully taxable component
func (t TaxableIncome) Ordinary() decimal.Decimal {
	return t.Wages.Add(t.PreTaxWithdrawals).Add(t.Pension).Add(t.OtherIncome)
}

// TaxService supplies withholding rates and the year's tax liability.
// The projection only records the resulting amounts as transactions.
type TaxService interface {
	// WithholdingRate returns the flat rate withheld from income of the given source
	WithholdingRate(source IncomeSource, year int) decimal.Decimal

	// IncomeTax returns the total liability for the year
	IncomeTax(income TaxableIncome) decimal.Decimal
}
