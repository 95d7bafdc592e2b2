package calculator

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/danbrewer/letsretire-backend/internal/domain"
)

// RetirementYearCalculator processes a year at or after retirement
type RetirementYearCalculator struct {
	yearBook
}

// NewRetirementYearCalculator creates a new RetirementYearCalculator instance
func NewRetirementYearCalculator(inputs *domain.Inputs, accountYear *domain.AccountingYear, taxes domain.TaxService, logger zerolog.Logger) *RetirementYearCalculator {
	return &RetirementYearCalculator{yearBook{
		inputs: inputs,
		year:   accountYear,
		taxes:  taxes,
		logger: logger,
	}}
}

// ProcessYearData books one retirement year
// Logic:
//  1. Deposit Social Security and pension benefits (COLA applied) net of withholding
//  2. Book any income override for this age
//  3. Take the mandatory distribution from the 401k once the threshold age is reached
//  4. Draw the gap between income and spending from the ordered accounts
//  5. Pay spending, sweep any surplus into savings
//  6. Settle the year's taxes, then credit interest
func (c *RetirementYearCalculator) ProcessYearData() (domain.YearData, error) {
	in := c.inputs
	year := c.fiscalYear()
	age := in.AgeInYear(year)
	inflation := compound(in.InflationRate, year-in.StartYear)

	// 1. Benefits
	eligibleSS, eligiblePension, err := c.depositBenefits(age)
	if err != nil {
		return nil, err
	}

	// 2. Income override
	if err := c.depositOtherIncome(age); err != nil {
		return nil, err
	}

	// 3. Mandatory distribution, independent of the spending gap
	rmdRequired := in.UseRequiredDistributions && age >= in.RequiredDistributionAge
	if rmdRequired {
		if err := c.takeRequiredDistribution(age); err != nil {
			return nil, err
		}
	}

	// 4. Drawdown
	spending, source := c.spendingTarget(age, inflation)
	gap := spending.Sub(c.account(domain.AccountTypeIncome).AvailableFunds())
	if gap.IsPositive() {
		if err := c.drawDown(gap); err != nil {
			return nil, err
		}
	}

	// 5. Spending and surplus
	unmet, err := c.disburse(spending)
	if err != nil {
		return nil, err
	}
	exhausted := unmet.IsPositive() && c.drained(c.drawableAccounts())
	if unmet.IsPositive() {
		c.logger.Debug().
			Int("fiscal_year", year).
			Int("age", age).
			Str("unmet", unmet.StringFixed(2)).
			Msg("accounts could not cover spending")
	}
	if err := c.sweepSurplus(); err != nil {
		return nil, err
	}

	// 6. Taxes and interest
	income := c.account(domain.AccountTypeIncome)
	err = c.settleTaxes(domain.TaxableIncome{
		Year:              year,
		FilingStatus:      in.FilingStatus,
		PreTaxWithdrawals: income.Deposits(domain.ByCategory(domain.CategoryRetirementDistribution)),
		Pension:           income.Deposits(domain.ByCategory(domain.CategoryPension)),
		OtherIncome:       income.Deposits(domain.ByCategory(domain.CategoryOtherIncome)),
		SocialSecurity:    income.Deposits(domain.ByCategory(domain.CategorySocialSecurity)),
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
		IsRetired:                 true,
		FilingStatus:              in.FilingStatus,
		EligibleForSocialSecurity: eligibleSS,
		EligibleForPension:        eligiblePension,
		RequiredDistribution:      rmdRequired,
	}
	return domain.NewRetirementYearData(demographics, c.fiscalData(inflation, spending, source, exhausted), c.year), nil
}

// takeRequiredDistribution withdraws starting balance / life-expectancy divisor
// from the 401k into income, withholding at the pre-tax withdrawal rate
func (c *RetirementYearCalculator) takeRequiredDistribution(age int) error {
	divisor, ok := RequiredDistributionDivisor(age)
	if !ok {
		return nil
	}

	trad := c.account(domain.AccountTypeTraditional401k)
	amount := domain.RoundCurrency(trad.StartingBalance().Div(divisor))
	if !amount.IsPositive() {
		return nil
	}

	_, err := c.distributePreTax(amount, domain.CategoryRequiredDistribution)
	return err
}

// drawDown covers gap (a net amount) from the accounts in withdrawal order.
// Exhausted accounts are skipped; whatever cannot be covered stays uncovered.
func (c *RetirementYearCalculator) drawDown(gap decimal.Decimal) error {
	for _, account := range c.year.Manager().GetAccountsInOrder(c.inputs.WithdrawalOrder) {
		if !gap.IsPositive() {
			return nil
		}
		if !account.Name.IsInvestment() {
			continue
		}

		source := c.account(account.Name)
		if !source.AvailableFunds().IsPositive() {
			continue
		}

		if account.Name == domain.AccountTypeTraditional401k {
			net, err := c.distributePreTax(c.grossUp(gap), domain.CategoryRetirementDistribution)
			if err != nil {
				return err
			}
			gap = gap.Sub(net)
			continue
		}

		result, err := c.transfer(account.Name, domain.AccountTypeIncome, gap, domain.CategoryCashTransfer)
		if err != nil {
			return err
		}
		gap = gap.Sub(result.Withdrawn)
	}
	return nil
}

// distributePreTax withdraws gross from the 401k into income and withholds on it.
// Returns the net amount that reached the income account.
func (c *RetirementYearCalculator) distributePreTax(gross decimal.Decimal, category domain.TransactionCategory) (decimal.Decimal, error) {
	result, err := c.account(domain.AccountTypeTraditional401k).Withdraw(gross, category, string(domain.AccountTypeIncome))
	if err != nil {
		return decimal.Zero, err
	}
	c.noteCapacity(domain.AccountTypeTraditional401k, result)

	if err := c.depositIncome(result.Withdrawn, domain.CategoryRetirementDistribution, string(domain.AccountTypeTraditional401k)); err != nil {
		return decimal.Zero, err
	}
	withheld, err := c.withhold(domain.IncomeSourcePreTaxWithdrawal, domain.CategoryRetirementDistribution, result.Withdrawn)
	if err != nil {
		return decimal.Zero, err
	}
	return result.Withdrawn.Sub(withheld), nil
}

// grossUp returns the pre-tax withdrawal that nets net after withholding
func (c *RetirementYearCalculator) grossUp(net decimal.Decimal) decimal.Decimal {
	rate := c.taxes.WithholdingRate(domain.IncomeSourcePreTaxWithdrawal, c.fiscalYear())
	keep := decimal.NewFromInt(1).Sub(rate)
	if !keep.IsPositive() {
		return net
	}
	return domain.RoundCurrency(net.Div(keep))
}

// BenefitForAge applies COLA once per full year since the benefit started
func BenefitForAge(firstYear, cola decimal.Decimal, startAge, age int) decimal.Decimal {
	return domain.RoundCurrency(firstYear.Mul(compound(cola, age-startAge)))
}

var _ YearCalculator = (*RetirementYearCalculator)(nil)
