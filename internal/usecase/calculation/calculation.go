package calculation

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/danbrewer/letsretire-backend/internal/domain"
)

// incomeCategories are the deposits into the income account that represent
// new money rather than transfers from the household's own accounts
var incomeCategories = []domain.TransactionCategory{
	domain.CategorySalary,
	domain.CategorySocialSecurity,
	domain.CategoryPension,
	domain.CategoryRetirementDistribution,
	domain.CategoryOtherIncome,
}

// Calculation is one closed year of a projection.
// Every getter re-derives its value from the ledger; nothing is cached.
type Calculation struct {
	fiscalYear int
	yearData   domain.YearData
}

// NewCalculation wraps the result of a processed year
func NewCalculation(yearData domain.YearData) (*Calculation, error) {
	if yearData == nil || yearData.AccountYear() == nil {
		return nil, errors.New("calculation requires year data bound to an accounting year")
	}
	return &Calculation{
		fiscalYear: yearData.AccountYear().Year(),
		yearData:   yearData,
	}, nil
}

func (c *Calculation) FiscalYear() int                   { return c.fiscalYear }
func (c *Calculation) YearData() domain.YearData         { return c.yearData }
func (c *Calculation) Kind() domain.YearKind             { return c.yearData.Kind() }
func (c *Calculation) Demographics() domain.Demographics { return c.yearData.Demographics() }
func (c *Calculation) FiscalData() domain.FiscalData     { return c.yearData.FiscalData() }
func (c *Calculation) Age() int                          { return c.yearData.Demographics().Age }
func (c *Calculation) IsRetired() bool                   { return c.yearData.Demographics().IsRetired }

// The accounting year is always bound to a manager built with the standard
// account set, so lookups of standard identities cannot fail.
func (c *Calculation) deposits(name domain.AccountType, filter domain.Filter) decimal.Decimal {
	amount, _ := c.yearData.AccountYear().GetDeposits(name, filter)
	return amount
}

func (c *Calculation) withdrawals(name domain.AccountType, filter domain.Filter) decimal.Decimal {
	amount, _ := c.yearData.AccountYear().GetWithdrawals(name, filter)
	return amount
}

// grossAndNet returns an income category's gross deposits and gross less its withholding
func (c *Calculation) grossAndNet(category domain.TransactionCategory) (decimal.Decimal, decimal.Decimal) {
	gross := c.deposits(domain.AccountTypeIncome, domain.ByCategory(category))
	withheld := c.deposits(domain.AccountTypeWithholdings, domain.ByCategory(category))
	return gross, domain.RoundCurrency(gross.Sub(withheld))
}

// Salary

func (c *Calculation) SalaryGross() decimal.Decimal {
	return c.deposits(domain.AccountTypeIncome, domain.ByCategory(domain.CategorySalary))
}

func (c *Calculation) SalaryWithholdings() decimal.Decimal {
	return c.deposits(domain.AccountTypeWithholdings, domain.ByCategory(domain.CategorySalary))
}

// EmployeeContributions are the pre-tax and Roth contributions taken out of pay
func (c *Calculation) EmployeeContributions() decimal.Decimal {
	return c.withdrawals(domain.AccountTypeIncome, domain.ByCategory(domain.CategoryContribution))
}

// SalaryNet is take-home pay: gross less withholding and employee contributions
func (c *Calculation) SalaryNet() decimal.Decimal {
	return domain.RoundCurrency(c.SalaryGross().Sub(c.SalaryWithholdings()).Sub(c.EmployeeContributions()))
}

// Benefits and distributions

func (c *Calculation) SocialSecurityGross() decimal.Decimal {
	gross, _ := c.grossAndNet(domain.CategorySocialSecurity)
	return gross
}

func (c *Calculation) SocialSecurityNet() decimal.Decimal {
	_, net := c.grossAndNet(domain.CategorySocialSecurity)
	return net
}

func (c *Calculation) PensionGross() decimal.Decimal {
	gross, _ := c.grossAndNet(domain.CategoryPension)
	return gross
}

func (c *Calculation) PensionNet() decimal.Decimal {
	_, net := c.grossAndNet(domain.CategoryPension)
	return net
}

// Traditional401kGross is every pre-tax distribution, mandatory or voluntary
func (c *Calculation) Traditional401kGross() decimal.Decimal {
	gross, _ := c.grossAndNet(domain.CategoryRetirementDistribution)
	return gross
}

func (c *Calculation) Traditional401kNet() decimal.Decimal {
	_, net := c.grossAndNet(domain.CategoryRetirementDistribution)
	return net
}

func (c *Calculation) RequiredDistribution() decimal.Decimal {
	return c.withdrawals(domain.AccountTypeTraditional401k, domain.ByCategory(domain.CategoryRequiredDistribution))
}

func (c *Calculation) OtherIncomeGross() decimal.Decimal {
	gross, _ := c.grossAndNet(domain.CategoryOtherIncome)
	return gross
}

func (c *Calculation) OtherIncomeNet() decimal.Decimal {
	_, net := c.grossAndNet(domain.CategoryOtherIncome)
	return net
}

// Account movements

func (c *Calculation) SavingsWithdrawal() decimal.Decimal {
	return c.withdrawals(domain.AccountTypeSavings, domain.ByCategory(domain.CategoryCashTransfer))
}

func (c *Calculation) SavingsDeposit() decimal.Decimal {
	return c.deposits(domain.AccountTypeSavings, domain.ByCategory(domain.CategoryCashTransfer))
}

func (c *Calculation) RothWithdrawal() decimal.Decimal {
	return c.withdrawals(domain.AccountTypeRothIRA, domain.ByCategory(domain.CategoryCashTransfer))
}

func (c *Calculation) PreTaxContribution() decimal.Decimal {
	return c.deposits(domain.AccountTypeTraditional401k, domain.ByCategory(domain.CategoryContribution))
}

func (c *Calculation) RothContribution() decimal.Decimal {
	return c.deposits(domain.AccountTypeRothIRA, domain.ByCategory(domain.CategoryContribution))
}

func (c *Calculation) EmployerMatch() decimal.Decimal {
	return c.deposits(domain.AccountTypeTraditional401k, domain.ByCategory(domain.CategoryEmployerMatch))
}

// Totals

// TotalGrossIncome sums every source of new money for the year
func (c *Calculation) TotalGrossIncome() decimal.Decimal {
	total := decimal.Zero
	for _, category := range incomeCategories {
		total = total.Add(c.deposits(domain.AccountTypeIncome, domain.ByCategory(category)))
	}
	return domain.RoundCurrency(total)
}

func (c *Calculation) TotalWithholdings() decimal.Decimal {
	return c.deposits(domain.AccountTypeWithholdings, domain.Filter{})
}

func (c *Calculation) TotalNetIncome() decimal.Decimal {
	return domain.RoundCurrency(c.TotalGrossIncome().Sub(c.TotalWithholdings()))
}

// Taxes

func (c *Calculation) IncomeTax() decimal.Decimal {
	return c.deposits(domain.AccountTypeTaxes, domain.ByCategory(domain.CategoryIncomeTax))
}

func (c *Calculation) TaxRefund() decimal.Decimal {
	return c.deposits(domain.AccountTypeSavings, domain.ByCategory(domain.CategoryTaxRefund))
}

func (c *Calculation) TaxPayment() decimal.Decimal {
	return c.withdrawals(domain.AccountTypeSavings, domain.ByCategory(domain.CategoryTaxPayment))
}

// Spending

func (c *Calculation) SpendingTarget() decimal.Decimal {
	return c.yearData.FiscalData().SpendingTarget
}

func (c *Calculation) Spending() decimal.Decimal {
	return c.deposits(domain.AccountTypeDisbursement, domain.Filter{})
}

// UnmetSpending is the part of the target the household could not fund
func (c *Calculation) UnmetSpending() decimal.Decimal {
	return domain.RoundCurrency(domain.NonNegative(c.SpendingTarget().Sub(c.Spending())))
}

// Balances and interest

func (c *Calculation) StartingBalance(name domain.AccountType) decimal.Decimal {
	amount, _ := c.yearData.AccountYear().StartingBalance(name)
	return amount
}

func (c *Calculation) Balance(name domain.AccountType) decimal.Decimal {
	amount, _ := c.yearData.AccountYear().EndingBalance(name)
	return amount
}

func (c *Calculation) Traditional401kBalance() decimal.Decimal {
	return c.Balance(domain.AccountTypeTraditional401k)
}

func (c *Calculation) RothBalance() decimal.Decimal {
	return c.Balance(domain.AccountTypeRothIRA)
}

func (c *Calculation) SavingsBalance() decimal.Decimal {
	return c.Balance(domain.AccountTypeSavings)
}

func (c *Calculation) PortfolioBalance() decimal.Decimal {
	return c.yearData.AccountYear().Manager().GetPortfolioBalance(c.fiscalYear)
}

func (c *Calculation) InterestEarned(name domain.AccountType) decimal.Decimal {
	return c.deposits(name, domain.ByCategory(domain.CategoryInterest))
}

func (c *Calculation) TotalInterestEarned() decimal.Decimal {
	total := decimal.Zero
	for _, name := range domain.InvestmentAccountTypes {
		total = total.Add(c.InterestEarned(name))
	}
	return domain.RoundCurrency(total)
}

// IsDepleted reports a year in which the drawable accounts ran dry before
// spending was met. It is judged at drawdown time, so a tax refund or
// interest credited later in the year does not mask it.
func (c *Calculation) IsDepleted() bool {
	return c.yearData.FiscalData().DrawdownExhausted && c.UnmetSpending().IsPositive()
}

// Snapshot freezes the derived metrics into a value
func (c *Calculation) Snapshot() domain.YearSnapshot {
	return domain.YearSnapshot{
		FiscalYear:             c.fiscalYear,
		Age:                    c.Age(),
		Kind:                   c.Kind(),
		GrossIncome:            c.TotalGrossIncome(),
		Withholdings:           c.TotalWithholdings(),
		NetIncome:              c.TotalNetIncome(),
		Spending:               c.Spending(),
		UnmetSpending:          c.UnmetSpending(),
		IncomeTax:              c.IncomeTax(),
		RequiredDistribution:   c.RequiredDistribution(),
		Traditional401kBalance: c.Traditional401kBalance(),
		RothBalance:            c.RothBalance(),
		SavingsBalance:         c.SavingsBalance(),
		PortfolioBalance:       c.PortfolioBalance(),
		InterestEarned:         c.TotalInterestEarned(),
	}
}
