package tax

import (
	"github.com/shopspring/decimal"

	"github.com/danbrewer/letsretire-backend/internal/domain"
)

// Bracket is one marginal band, starting at Floor (inclusive of the amount above it)
type Bracket struct {
	Floor decimal.Decimal
	Rate  decimal.Decimal
}

// Table is the tax table for one filing status
type Table struct {
	StandardDeduction decimal.Decimal
	Brackets          []Bracket // Ascending by Floor, first Floor is zero

	// Provisional-income thresholds for the taxable share of Social Security.
	// These are fixed in statute and are not inflation indexed.
	SocialSecurityBase1 decimal.Decimal
	SocialSecurityBase2 decimal.Decimal
}

// Config holds the parameters of the default tax service
type Config struct {
	BaseYear         int
	BracketInflation decimal.Decimal // Annual indexing applied to deductions and bracket floors after BaseYear
	WithholdingRates map[domain.IncomeSource]decimal.Decimal
	Tables           map[domain.FilingStatus]Table
}

// Service implements domain.TaxService with flat withholding rates and
// progressive federal brackets
type Service struct {
	cfg Config
}

// NewService creates a new Service instance
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// DefaultConfig returns 2025 federal brackets and common withholding elections
func DefaultConfig() Config {
	return Config{
		BaseYear:         2025,
		BracketInflation: decimal.NewFromFloat(0.025),
		WithholdingRates: map[domain.IncomeSource]decimal.Decimal{
			domain.IncomeSourceWages:            decimal.NewFromFloat(0.15),
			domain.IncomeSourcePreTaxWithdrawal: decimal.NewFromFloat(0.20),
			domain.IncomeSourceSocialSecurity:   decimal.NewFromFloat(0.10),
			domain.IncomeSourcePension:          decimal.NewFromFloat(0.12),
			domain.IncomeSourceOther:            decimal.NewFromFloat(0.15),
		},
		Tables: map[domain.FilingStatus]Table{
			domain.FilingStatusSingle: {
				StandardDeduction: decimal.NewFromInt(15000),
				Brackets: brackets(
					0, 0.10,
					11925, 0.12,
					48475, 0.22,
					103350, 0.24,
					197300, 0.32,
					250525, 0.35,
					626350, 0.37,
				),
				SocialSecurityBase1: decimal.NewFromInt(25000),
				SocialSecurityBase2: decimal.NewFromInt(34000),
			},
			domain.FilingStatusMarriedFilingJointly: {
				StandardDeduction: decimal.NewFromInt(30000),
				Brackets: brackets(
					0, 0.10,
					23850, 0.12,
					96950, 0.22,
					206700, 0.24,
					394600, 0.32,
					501050, 0.35,
					751600, 0.37,
				),
				SocialSecurityBase1: decimal.NewFromInt(32000),
				SocialSecurityBase2: decimal.NewFromInt(44000),
			},
		},
	}
}

// brackets builds a bracket list from alternating floor/rate pairs
func brackets(pairs ...float64) []Bracket {
	out := make([]Bracket, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Bracket{
			Floor: decimal.NewFromFloat(pairs[i]),
			Rate:  decimal.NewFromFloat(pairs[i+1]),
		})
	}
	return out
}

// WithholdingRate returns the configured flat rate, zero if none is configured
func (s *Service) WithholdingRate(source domain.IncomeSource, year int) decimal.Decimal {
	rate, ok := s.cfg.WithholdingRates[source]
	if !ok {
		return decimal.Zero
	}
	return rate
}

// IncomeTax computes the year's liability:
//  1. Add the taxable share of Social Security to ordinary income
//  2. Subtract the (indexed) standard deduction
//  3. Apply the (indexed) marginal brackets
func (s *Service) IncomeTax(income domain.TaxableIncome) decimal.Decimal {
	table, ok := s.cfg.Tables[income.FilingStatus]
	if !ok {
		table = s.cfg.Tables[domain.FilingStatusSingle]
	}

	index := s.indexFactor(income.Year)
	ordinary := income.Ordinary()
	gross := ordinary.Add(TaxableSocialSecurity(table, ordinary, income.SocialSecurity))
	taxable := domain.NonNegative(gross.Sub(table.StandardDeduction.Mul(index)))

	tax := decimal.Zero
	for i, bracket := range table.Brackets {
		floor := bracket.Floor.Mul(index)
		if taxable.LessThanOrEqual(floor) {
			break
		}
		top := taxable
		if i+1 < len(table.Brackets) {
			top = decimal.Min(taxable, table.Brackets[i+1].Floor.Mul(index))
		}
		tax = tax.Add(top.Sub(floor).Mul(bracket.Rate))
	}

	return domain.RoundCurrency(tax)
}

// indexFactor is (1 + inflation)^(year - base) for years after the base year
func (s *Service) indexFactor(year int) decimal.Decimal {
	if year <= s.cfg.BaseYear || s.cfg.BracketInflation.IsZero() {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(1).Add(s.cfg.BracketInflation).Pow(decimal.NewFromInt(int64(year - s.cfg.BaseYear)))
}

// TaxableSocialSecurity applies the provisional-income rule:
// provisional = other income + half the benefit; up to 50% of the benefit is
// taxable between the two bases and up to 85% above the second.
func TaxableSocialSecurity(table Table, otherIncome, benefit decimal.Decimal) decimal.Decimal {
	if !benefit.IsPositive() {
		return decimal.Zero
	}

	half := decimal.NewFromFloat(0.5)
	maxShare := decimal.NewFromFloat(0.85)
	provisional := otherIncome.Add(benefit.Mul(half))

	if provisional.LessThanOrEqual(table.SocialSecurityBase1) {
		return decimal.Zero
	}

	if provisional.LessThanOrEqual(table.SocialSecurityBase2) {
		return decimal.Min(provisional.Sub(table.SocialSecurityBase1).Mul(half), benefit.Mul(half))
	}

	tier1 := decimal.Min(table.SocialSecurityBase2.Sub(table.SocialSecurityBase1).Mul(half), benefit.Mul(half))
	tier2 := provisional.Sub(table.SocialSecurityBase2).Mul(maxShare)
	return decimal.Min(benefit.Mul(maxShare), tier1.Add(tier2))
}

var _ domain.TaxService = (*Service)(nil)
