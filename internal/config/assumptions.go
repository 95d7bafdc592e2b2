package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/danbrewer/letsretire-backend/internal/domain"
)

// AssumptionsFile is the on-disk form of a projection's inputs.
// Rates are fractions (0.05 = 5%); money is in start-year dollars.
type AssumptionsFile struct {
	StartYear     int `yaml:"start_year" json:"start_year"`
	CurrentAge    int `yaml:"current_age" json:"current_age"`
	RetirementAge int `yaml:"retirement_age" json:"retirement_age"`
	EndAge        int `yaml:"end_age" json:"end_age"`

	Accounts struct {
		Traditional401k AccountAssumptions `yaml:"traditional_401k" json:"traditional_401k"`
		Roth            AccountAssumptions `yaml:"roth_ira" json:"roth_ira"`
		Savings         AccountAssumptions `yaml:"savings" json:"savings"`
		InterestEpoch   string             `yaml:"interest_epoch" json:"interest_epoch"`
	} `yaml:"accounts" json:"accounts"`

	Employment struct {
		Salary                 float64 `yaml:"salary" json:"salary"`
		SalaryGrowthRate       float64 `yaml:"salary_growth_rate" json:"salary_growth_rate"`
		PreTaxContributionRate float64 `yaml:"pre_tax_contribution_rate" json:"pre_tax_contribution_rate"`
		RothContributionRate   float64 `yaml:"roth_contribution_rate" json:"roth_contribution_rate"`
		EmployerMatchRate      float64 `yaml:"employer_match_rate" json:"employer_match_rate"`
		EmployerMatchCap       float64 `yaml:"employer_match_cap" json:"employer_match_cap"`
	} `yaml:"employment" json:"employment"`

	SocialSecurity BenefitAssumptions `yaml:"social_security" json:"social_security"`
	Pension        BenefitAssumptions `yaml:"pension" json:"pension"`

	Spending struct {
		Annual        float64         `yaml:"annual" json:"annual"`
		InflationRate float64         `yaml:"inflation_rate" json:"inflation_rate"`
		Overrides     map[int]float64 `yaml:"overrides" json:"overrides"`
	} `yaml:"spending" json:"spending"`

	IncomeOverrides map[int]float64 `yaml:"income_overrides" json:"income_overrides"`

	FilingStatus             string   `yaml:"filing_status" json:"filing_status"`
	WithdrawalOrder          []string `yaml:"withdrawal_order" json:"withdrawal_order"`
	UseRequiredDistributions bool     `yaml:"use_required_distributions" json:"use_required_distributions"`
	RequiredDistributionAge  int      `yaml:"required_distribution_age" json:"required_distribution_age"`
}

// AccountAssumptions describes one investment account
type AccountAssumptions struct {
	Balance float64 `yaml:"balance" json:"balance"`
	Rate    float64 `yaml:"rate" json:"rate"`
}

// BenefitAssumptions describes a lifetime income stream
type BenefitAssumptions struct {
	Annual   float64 `yaml:"annual" json:"annual"`
	StartAge int     `yaml:"start_age" json:"start_age"`
	COLA     float64 `yaml:"cola" json:"cola"`
}

// LoadAssumptions reads and validates an assumptions file
func LoadAssumptions(filename string) (*domain.Inputs, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read assumptions: %w", err)
	}
	return ParseAssumptions(data)
}

// ParseAssumptions decodes YAML into validated inputs with defaults applied
func ParseAssumptions(data []byte) (*domain.Inputs, error) {
	var file AssumptionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse assumptions: %w", err)
	}

	in := file.ToInputs()
	in.ApplyDefaults()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// ToInputs converts the file form into domain inputs without validating
func (f *AssumptionsFile) ToInputs() *domain.Inputs {
	return &domain.Inputs{
		StartYear:     f.StartYear,
		CurrentAge:    f.CurrentAge,
		RetirementAge: f.RetirementAge,
		EndAge:        f.EndAge,

		Traditional401kBalance: money(f.Accounts.Traditional401k.Balance),
		Traditional401kRate:    rate(f.Accounts.Traditional401k.Rate),
		RothBalance:            money(f.Accounts.Roth.Balance),
		RothRate:               rate(f.Accounts.Roth.Rate),
		SavingsBalance:         money(f.Accounts.Savings.Balance),
		SavingsRate:            rate(f.Accounts.Savings.Rate),
		InterestEpoch:          domain.InterestEpoch(f.Accounts.InterestEpoch),

		Salary:                 money(f.Employment.Salary),
		SalaryGrowthRate:       rate(f.Employment.SalaryGrowthRate),
		PreTaxContributionRate: rate(f.Employment.PreTaxContributionRate),
		RothContributionRate:   rate(f.Employment.RothContributionRate),
		EmployerMatchRate:      rate(f.Employment.EmployerMatchRate),
		EmployerMatchCap:       rate(f.Employment.EmployerMatchCap),

		SocialSecurityBenefit:  money(f.SocialSecurity.Annual),
		SocialSecurityStartAge: f.SocialSecurity.StartAge,
		SocialSecurityCOLA:     rate(f.SocialSecurity.COLA),
		PensionBenefit:         money(f.Pension.Annual),
		PensionStartAge:        f.Pension.StartAge,
		PensionCOLA:            rate(f.Pension.COLA),

		AnnualSpending: money(f.Spending.Annual),
		InflationRate:  rate(f.Spending.InflationRate),

		FilingStatus: domain.FilingStatus(f.FilingStatus),

		WithdrawalOrder:          f.WithdrawalOrder,
		UseRequiredDistributions: f.UseRequiredDistributions,
		RequiredDistributionAge:  f.RequiredDistributionAge,
		SpendingOverrides:        byAge(f.Spending.Overrides),
		IncomeOverrides:          byAge(f.IncomeOverrides),
	}
}

func money(v float64) decimal.Decimal {
	return domain.RoundCurrency(decimal.NewFromFloat(v))
}

func rate(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func byAge(m map[int]float64) map[int]decimal.Decimal {
	if len(m) == 0 {
		return nil
	}
	out := make(map[int]decimal.Decimal, len(m))
	for age, amount := range m {
		out[age] = money(amount)
	}
	return out
}
