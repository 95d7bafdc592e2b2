package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// FilingStatus selects the tax table used for a household
type FilingStatus string

const (
	FilingStatusSingle               FilingStatus = "SINGLE"
	FilingStatusMarriedFilingJointly FilingStatus = "MARRIED_FILING_JOINTLY"
)

// DefaultRequiredDistributionAge is the age mandatory distributions begin
const DefaultRequiredDistributionAge = 73

const defaultEndAge = 95

// IsValid reports whether s is a supported filing status
func (s FilingStatus) IsValid() bool {
	return s == FilingStatusSingle || s == FilingStatusMarriedFilingJointly
}

// Inputs holds every assumption a projection is driven by.
// Amounts are annual and expressed in start-year dollars unless noted.
type Inputs struct {
	StartYear     int
	CurrentAge    int
	RetirementAge int
	EndAge        int

	// Investment accounts
	Traditional401kBalance decimal.Decimal
	Traditional401kRate    decimal.Decimal
	RothBalance            decimal.Decimal
	RothRate               decimal.Decimal
	SavingsBalance         decimal.Decimal
	SavingsRate            decimal.Decimal
	InterestEpoch          InterestEpoch

	// Working years
	Salary                 decimal.Decimal
	SalaryGrowthRate       decimal.Decimal
	PreTaxContributionRate decimal.Decimal // Fraction of salary
	RothContributionRate   decimal.Decimal // Fraction of salary
	EmployerMatchRate      decimal.Decimal // Fraction of the employee's pre-tax contribution
	EmployerMatchCap       decimal.Decimal // Maximum match as a fraction of salary

	// Retirement benefits, first-year gross annual amounts
	SocialSecurityBenefit  decimal.Decimal
	SocialSecurityStartAge int
	SocialSecurityCOLA     decimal.Decimal
	PensionBenefit         decimal.Decimal
	PensionStartAge        int
	PensionCOLA            decimal.Decimal

	// Spending
	AnnualSpending decimal.Decimal // In start-year dollars
	InflationRate  decimal.Decimal

	FilingStatus FilingStatus

	// Drawdown
	WithdrawalOrder          []string
	UseRequiredDistributions bool
	RequiredDistributionAge  int
	SpendingOverrides        map[int]decimal.Decimal // Age -> annual spending, already in that year's dollars
	IncomeOverrides          map[int]decimal.Decimal // Age -> additional taxable income for that year
}

// ApplyDefaults fills zero-valued optional fields
func (in *Inputs) ApplyDefaults() {
	if in.EndAge == 0 {
		in.EndAge = defaultEndAge
	}
	if in.InterestEpoch == "" {
		in.InterestEpoch = EpochAverageBalance
	}
	if in.FilingStatus == "" {
		in.FilingStatus = FilingStatusSingle
	}
	if in.RequiredDistributionAge == 0 {
		in.RequiredDistributionAge = DefaultRequiredDistributionAge
	}
}

// Validate ensures the inputs describe a runnable projection.
// Every error wraps ErrInvalidInputs and names the offending field.
func (in *Inputs) Validate() error {
	if in.StartYear <= 0 {
		return invalidInput("start_year", in.StartYear)
	}
	if in.CurrentAge < 0 {
		return invalidInput("current_age", in.CurrentAge)
	}
	if in.RetirementAge < 0 {
		return invalidInput("retirement_age", in.RetirementAge)
	}
	if in.EndAge < in.CurrentAge {
		return invalidInput("end_age", in.EndAge)
	}
	if !in.InterestEpoch.IsValid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidInputs, ErrInvalidInterestEpoch, string(in.InterestEpoch))
	}
	if !in.FilingStatus.IsValid() {
		return invalidInput("filing_status", in.FilingStatus)
	}

	nonNegative := map[string]decimal.Decimal{
		"traditional_401k_balance":  in.Traditional401kBalance,
		"roth_balance":              in.RothBalance,
		"savings_balance":           in.SavingsBalance,
		"salary":                    in.Salary,
		"pre_tax_contribution_rate": in.PreTaxContributionRate,
		"roth_contribution_rate":    in.RothContributionRate,
		"employer_match_rate":       in.EmployerMatchRate,
		"employer_match_cap":        in.EmployerMatchCap,
		"social_security_benefit":   in.SocialSecurityBenefit,
		"pension_benefit":           in.PensionBenefit,
		"annual_spending":           in.AnnualSpending,
	}
	for _, field := range sortedKeys(nonNegative) {
		if nonNegative[field].IsNegative() {
			return invalidInput(field, nonNegative[field].String())
		}
	}

	contributions := in.PreTaxContributionRate.Add(in.RothContributionRate)
	if contributions.GreaterThan(decimal.NewFromInt(1)) {
		return invalidInput("contribution_rates", contributions.String())
	}

	for age, amount := range in.SpendingOverrides {
		if amount.IsNegative() {
			return invalidInput(fmt.Sprintf("spending_overrides[%d]", age), amount.String())
		}
	}
	for age, amount := range in.IncomeOverrides {
		if amount.IsNegative() {
			return invalidInput(fmt.Sprintf("income_overrides[%d]", age), amount.String())
		}
	}

	return nil
}

// YearCount is the number of fiscal years the projection spans
func (in *Inputs) YearCount() int {
	return in.EndAge - in.CurrentAge + 1
}

// AgeInYear returns the subject's age during fiscal year
func (in *Inputs) AgeInYear(year int) int {
	return in.CurrentAge + (year - in.StartYear)
}

func invalidInput(field string, value any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalidInputs, field, value)
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
