package calculator

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/danbrewer/letsretire-backend/internal/domain"
)

// WorkingYearCalculator processes a year before retirement
type WorkingYearCalculator struct {
	yearBook
}

// NewWorkingYearCalculator creates a new WorkingYearCalculator instance
func NewWorkingYearCalculator(inputs *domain.Inputs, accountYear *domain.AccountingYear, taxes domain.TaxService, logger zerolog.Logger) *WorkingYearCalculator {
	return &WorkingYearCalculator{yearBook{
		inputs: inputs,
		year:   accountYear,
		taxes:  taxes,
		logger: logger,
	}}
}

// ProcessYearData books one working year
// Logic:
//  1. Deposit gross salary (grown from the start year) into income
//  2. Move the pre-tax contribution from income to the 401k, plus employer match up to the cap
//  3. Withhold payroll tax on wages net of the pre-tax contribution
//  4. Book any benefits already being paid, and any income override for this age
//  5. Move the Roth contribution from income to the Roth IRA
//  6. Pay spending from income; draw any shortfall from savings
//  7. Sweep the remaining income into savings
//  8. Settle the year's taxes, then credit interest
func (c *WorkingYearCalculator) ProcessYearData() (domain.YearData, error) {
	in := c.inputs
	year := c.fiscalYear()
	age := in.AgeInYear(year)
	yearsFromStart := year - in.StartYear
	inflation := compound(in.InflationRate, yearsFromStart)

	// 1. Salary
	salary := domain.RoundCurrency(in.Salary.Mul(compound(in.SalaryGrowthRate, yearsFromStart)))
	if err := c.depositIncome(salary, domain.CategorySalary, CounterpartEmployer); err != nil {
		return nil, err
	}

	// 2. Pre-tax contribution and employer match
	preTax := domain.RoundCurrency(salary.Mul(in.PreTaxContributionRate))
	contributed, err := c.transfer(domain.AccountTypeIncome, domain.AccountTypeTraditional401k, preTax, domain.CategoryContribution)
	if err != nil {
		return nil, err
	}

	match := domain.RoundCurrency(decimal.Min(
		contributed.Withdrawn.Mul(in.EmployerMatchRate),
		salary.Mul(in.EmployerMatchCap),
	))
	if match.IsPositive() {
		if _, err := c.account(domain.AccountTypeTraditional401k).Deposit(match, domain.CategoryEmployerMatch, CounterpartEmployer); err != nil {
			return nil, err
		}
	}

	// 3. Payroll withholding
	wages := salary.Sub(contributed.Withdrawn)
	if _, err := c.withhold(domain.IncomeSourceWages, domain.CategorySalary, wages); err != nil {
		return nil, err
	}

	// 4. Benefits and income override
	eligibleSS, eligiblePension, err := c.depositBenefits(age)
	if err != nil {
		return nil, err
	}
	if err := c.depositOtherIncome(age); err != nil {
		return nil, err
	}

	// 5. Roth contribution
	roth := domain.RoundCurrency(salary.Mul(in.RothContributionRate))
	if _, err := c.transfer(domain.AccountTypeIncome, domain.AccountTypeRothIRA, roth, domain.CategoryContribution); err != nil {
		return nil, err
	}

	// 6. Spending, with savings covering any shortfall
	spending, source := c.spendingTarget(age, inflation)
	shortfall := spending.Sub(c.account(domain.AccountTypeIncome).AvailableFunds())
	if shortfall.IsPositive() {
		if _, err := c.transfer(domain.AccountTypeSavings, domain.AccountTypeIncome, shortfall, domain.CategoryCashTransfer); err != nil {
			return nil, err
		}
	}
	unmet, err := c.disburse(spending)
	if err != nil {
		return nil, err
	}
	exhausted := unmet.IsPositive() && c.drained(domain.InvestmentAccountTypes)

	// 7. Surplus
	if err := c.sweepSurplus(); err != nil {
		return nil, err
	}

	// 8. Taxes and interest
	income := c.account(domain.AccountTypeIncome)
	err = c.settleTaxes(domain.TaxableIncome{
		Year:           year,
		FilingStatus:   in.FilingStatus,
		Wages:          wages,
		Pension:        income.Deposits(domain.ByCategory(domain.CategoryPension)),
		OtherIncome:    income.Deposits(domain.ByCategory(domain.CategoryOtherIncome)),
		SocialSecurity: income.Deposits(domain.ByCategory(domain.CategorySocialSecurity)),
	})
	if err != nil {
		return nil, err
	}
	if err := c.creditInterest(); err != nil {
		return nil, err
	}

	demographics := domain.Demographics{
		Age:                       age,
		RetirementAge:             in.RetirementAge,
		IsRetired:                 false,
		FilingStatus:              in.FilingStatus,
		EligibleForSocialSecurity: eligibleSS,
		EligibleForPension:        eligiblePension,
	}
	return domain.NewWorkingYearData(demographics, c.fiscalData(inflation, spending, source, exhausted), c.year), nil
}

var _ YearCalculator = (*WorkingYearCalculator)(nil)
