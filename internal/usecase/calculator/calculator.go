package calculator

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/danbrewer/letsretire-backend/internal/domain"
)

// Counterparts for money entering or leaving the household
const (
	CounterpartEmployer       = "EMPLOYER"
	CounterpartSocialSecurity = "SSA"
	CounterpartPensionPlan    = "PENSION_PLAN"
	CounterpartOtherIncome    = "OTHER"
	CounterpartTaxAuthority   = "IRS"
)

// Spending sources reported on FiscalData
const (
	SpendingSourceInflation = "inflation"
	SpendingSourceOverride  = "override"
)

// YearCalculator processes one simulated year, writing every movement of
// money into the bound AccountingYear. Each instance is used once.
type YearCalculator interface {
	ProcessYearData() (domain.YearData, error)
}

// yearBook is the ledger-writing toolkit shared by both calculators
type yearBook struct {
	inputs *domain.Inputs
	year   *domain.AccountingYear
	taxes  domain.TaxService
	logger zerolog.Logger
}

func (b *yearBook) fiscalYear() int {
	return b.year.Year()
}

func (b *yearBook) account(name domain.AccountType) *domain.TargetedAccount {
	// The manager always holds the standard set; see domain.NewAccountsManager
	account, _ := b.year.Manager().GetAccountByName(name)
	return domain.NewTargetedAccount(account, b.fiscalYear())
}

// depositIncome books gross income into the income account
func (b *yearBook) depositIncome(amount decimal.Decimal, category domain.TransactionCategory, counterpart string) error {
	if !amount.IsPositive() {
		return nil
	}
	_, err := b.account(domain.AccountTypeIncome).Deposit(amount, category, counterpart)
	return err
}

// withhold moves the withheld share of gross from income to withholdings.
// The withholdings deposit is tagged with the income category it came from.
func (b *yearBook) withhold(source domain.IncomeSource, category domain.TransactionCategory, gross decimal.Decimal) (decimal.Decimal, error) {
	rate := b.taxes.WithholdingRate(source, b.fiscalYear())
	amount := domain.RoundCurrency(gross.Mul(rate))
	if !amount.IsPositive() {
		return decimal.Zero, nil
	}

	result, err := b.account(domain.AccountTypeIncome).Withdraw(amount, domain.CategoryWithholdings, string(domain.AccountTypeWithholdings))
	if err != nil {
		return decimal.Zero, err
	}
	b.noteCapacity(domain.AccountTypeIncome, result)

	if _, err := b.account(domain.AccountTypeWithholdings).Deposit(result.Withdrawn, category, string(domain.AccountTypeIncome)); err != nil {
		return decimal.Zero, err
	}
	return result.Withdrawn, nil
}

// transfer moves money between two managed accounts, clamped to what the source holds
func (b *yearBook) transfer(from, to domain.AccountType, amount decimal.Decimal, category domain.TransactionCategory) (domain.WithdrawalResult, error) {
	if !amount.IsPositive() {
		return domain.WithdrawalResult{}, nil
	}
	result, err := b.year.Transfer(from, to, amount, category)
	if err != nil {
		return domain.WithdrawalResult{}, fmt.Errorf("failed to transfer %s from %s to %s: %w", amount.String(), from, to, err)
	}
	b.noteCapacity(from, result)
	return result, nil
}

// depositOtherIncome books any per-age income override and its withholding
func (b *yearBook) depositOtherIncome(age int) error {
	amount, ok := b.inputs.IncomeOverrides[age]
	if !ok || !amount.IsPositive() {
		return nil
	}
	amount = domain.RoundCurrency(amount)
	if err := b.depositIncome(amount, domain.CategoryOtherIncome, CounterpartOtherIncome); err != nil {
		return err
	}
	_, err := b.withhold(domain.IncomeSourceOther, domain.CategoryOtherIncome, amount)
	return err
}

// depositBenefits books Social Security and pension (COLA applied) with
// their withholding for every stream the household is eligible for at age
func (b *yearBook) depositBenefits(age int) (eligibleSS, eligiblePension bool, err error) {
	in := b.inputs

	eligibleSS = in.SocialSecurityBenefit.IsPositive() && age >= in.SocialSecurityStartAge
	if eligibleSS {
		gross := BenefitForAge(in.SocialSecurityBenefit, in.SocialSecurityCOLA, in.SocialSecurityStartAge, age)
		if err := b.depositIncome(gross, domain.CategorySocialSecurity, CounterpartSocialSecurity); err != nil {
			return false, false, err
		}
		if _, err := b.withhold(domain.IncomeSourceSocialSecurity, domain.CategorySocialSecurity, gross); err != nil {
			return false, false, err
		}
	}

	eligiblePension = in.PensionBenefit.IsPositive() && age >= in.PensionStartAge
	if eligiblePension {
		gross := BenefitForAge(in.PensionBenefit, in.PensionCOLA, in.PensionStartAge, age)
		if err := b.depositIncome(gross, domain.CategoryPension, CounterpartPensionPlan); err != nil {
			return false, false, err
		}
		if _, err := b.withhold(domain.IncomeSourcePension, domain.CategoryPension, gross); err != nil {
			return false, false, err
		}
	}

	return eligibleSS, eligiblePension, nil
}

// disburse pays the spending target out of the income account.
// Returns the part of the target that could not be paid.
func (b *yearBook) disburse(target decimal.Decimal) (decimal.Decimal, error) {
	available := b.account(domain.AccountTypeIncome).AvailableFunds()
	result, err := b.transfer(domain.AccountTypeIncome, domain.AccountTypeDisbursement, decimal.Min(target, available), domain.CategoryDisbursement)
	if err != nil {
		return decimal.Zero, err
	}
	return target.Sub(result.Withdrawn), nil
}

// drained reports whether none of the named accounts has funds left to draw
func (b *yearBook) drained(names []domain.AccountType) bool {
	for _, name := range names {
		if b.account(name).AvailableFunds().IsPositive() {
			return false
		}
	}
	return true
}

// drawableAccounts lists the investment accounts in withdrawal order
func (b *yearBook) drawableAccounts() []domain.AccountType {
	order := b.year.Manager().GetAccountsInOrder(b.inputs.WithdrawalOrder)
	names := make([]domain.AccountType, 0, len(order))
	for _, account := range order {
		if account.Name.IsInvestment() {
			names = append(names, account.Name)
		}
	}
	return names
}

// sweepSurplus moves whatever is left in the income account into savings
func (b *yearBook) sweepSurplus() error {
	surplus := b.account(domain.AccountTypeIncome).AvailableFunds()
	_, err := b.transfer(domain.AccountTypeIncome, domain.AccountTypeSavings, surplus, domain.CategoryCashTransfer)
	return err
}

// settleTaxes records the year's liability in the taxes account and squares
// it against what was withheld: a refund lands in savings, a balance due is
// paid from savings as far as savings allows.
func (b *yearBook) settleTaxes(income domain.TaxableIncome) error {
	liability := b.taxes.IncomeTax(income)
	if liability.IsPositive() {
		if _, err := b.account(domain.AccountTypeTaxes).Deposit(liability, domain.CategoryIncomeTax, CounterpartTaxAuthority); err != nil {
			return err
		}
	}

	withheld := b.account(domain.AccountTypeWithholdings).Deposits(domain.Filter{})
	difference := withheld.Sub(liability)
	savings := b.account(domain.AccountTypeSavings)

	switch {
	case difference.IsPositive():
		_, err := savings.Deposit(difference, domain.CategoryTaxRefund, string(domain.AccountTypeTaxes))
		return err
	case difference.IsNegative():
		result, err := savings.Withdraw(difference.Neg(), domain.CategoryTaxPayment, string(domain.AccountTypeTaxes))
		if err != nil {
			return err
		}
		b.noteCapacity(domain.AccountTypeSavings, result)
	}
	return nil
}

// creditInterest accrues each investment account under the configured epoch.
// Interest is computed for every account before any of it is deposited.
func (b *yearBook) creditInterest() error {
	interest := make([]decimal.Decimal, len(domain.InvestmentAccountTypes))
	for i, name := range domain.InvestmentAccountTypes {
		amount, err := b.account(name).Interest(b.inputs.InterestEpoch)
		if err != nil {
			return err
		}
		interest[i] = amount
	}

	for i, name := range domain.InvestmentAccountTypes {
		if !interest[i].IsPositive() {
			continue
		}
		if _, err := b.account(name).Deposit(interest[i], domain.CategoryInterest, ""); err != nil {
			return err
		}
	}
	return nil
}

// spendingTarget returns the year's spending need and where it came from
func (b *yearBook) spendingTarget(age int, inflation decimal.Decimal) (decimal.Decimal, string) {
	if override, ok := b.inputs.SpendingOverrides[age]; ok {
		return domain.RoundCurrency(override), SpendingSourceOverride
	}
	return domain.RoundCurrency(b.inputs.AnnualSpending.Mul(inflation)), SpendingSourceInflation
}

func (b *yearBook) noteCapacity(name domain.AccountType, result domain.WithdrawalResult) {
	if !result.CapacityExceeded {
		return
	}
	b.logger.Debug().
		Int("fiscal_year", b.fiscalYear()).
		Str("account", string(name)).
		Str("requested", result.Requested.StringFixed(2)).
		Str("withdrawn", result.Withdrawn.StringFixed(2)).
		Msg("withdrawal clamped to available funds")
}

func (b *yearBook) fiscalData(inflation, spending decimal.Decimal, spendingSource string, exhausted bool) domain.FiscalData {
	order := b.year.Manager().GetAccountsInOrder(b.inputs.WithdrawalOrder)
	names := make([]domain.AccountType, 0, len(order))
	for _, account := range order {
		names = append(names, account.Name)
	}
	return domain.FiscalData{
		TaxYear:         b.fiscalYear(),
		YearsFromStart:  b.fiscalYear() - b.inputs.StartYear,
		InflationFactor: inflation,
		SpendingTarget:  spending,
		SpendingSource:  spendingSource,
		InterestEpoch:   b.inputs.InterestEpoch,
		WithdrawalOrder: names,

		DrawdownExhausted: exhausted,
	}
}

// compound returns (1 + rate)^years, or 1 for non-positive years
func compound(rate decimal.Decimal, years int) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if years <= 0 {
		return one
	}
	return one.Add(rate).Pow(decimal.NewFromInt(int64(years)))
}
