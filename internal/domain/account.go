package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// AccountType identifies one of the fixed pools of money a household holds
type AccountType string

const (
	AccountTypeTraditional401k AccountType = "TRADITIONAL_401K"
	AccountTypeRothIRA         AccountType = "ROTH_IRA"
	AccountTypeSavings         AccountType = "SAVINGS"
	AccountTypeIncome          AccountType = "INCOME"
	AccountTypeDisbursement    AccountType = "DISBURSEMENT"
	AccountTypeTaxes           AccountType = "TAXES"
	AccountTypeWithholdings    AccountType = "WITHHOLDINGS"
)

// AllAccountTypes lists every account identity in construction order
var AllAccountTypes = []AccountType{
	AccountTypeTraditional401k,
	AccountTypeRothIRA,
	AccountTypeSavings,
	AccountTypeIncome,
	AccountTypeDisbursement,
	AccountTypeTaxes,
	AccountTypeWithholdings,
}

// InvestmentAccountTypes are the accounts that hold the household's assets
var InvestmentAccountTypes = []AccountType{
	AccountTypeTraditional401k,
	AccountTypeRothIRA,
	AccountTypeSavings,
}

// IsValid reports whether a belongs to the closed account identity set
func (a AccountType) IsValid() bool {
	switch a {
	case AccountTypeTraditional401k,
		AccountTypeRothIRA,
		AccountTypeSavings,
		AccountTypeIncome,
		AccountTypeDisbursement,
		AccountTypeTaxes,
		AccountTypeWithholdings:
		return true
	}
	return false
}

// IsInvestment reports whether the account holds invested assets
func (a AccountType) IsInvestment() bool {
	return a == AccountTypeTraditional401k || a == AccountTypeRothIRA || a == AccountTypeSavings
}

// InterestEpoch selects the principal base used to accrue a year's interest
type InterestEpoch string

const (
	EpochStartingBalance   InterestEpoch = "STARTING_BALANCE"
	EpochIgnoreDeposits    InterestEpoch = "IGNORE_DEPOSITS"
	EpochIgnoreWithdrawals InterestEpoch = "IGNORE_WITHDRAWALS"
	EpochAverageBalance    InterestEpoch = "AVERAGE_BALANCE"
	EpochEndingBalance     InterestEpoch = "ENDING_BALANCE"
)

// IsValid reports whether e is one of the five accrual conventions
func (e InterestEpoch) IsValid() bool {
	switch e {
	case EpochStartingBalance, EpochIgnoreDeposits, EpochIgnoreWithdrawals, EpochAverageBalance, EpochEndingBalance:
		return true
	}
	return false
}

// WithdrawalResult reports the outcome of a capacity-clamped withdrawal.
// Callers must book Withdrawn, never Requested.
type WithdrawalResult struct {
	Requested        decimal.Decimal
	Withdrawn        decimal.Decimal
	CapacityExceeded bool
}

// Shortfall is the part of the request that could not be withdrawn
func (r WithdrawalResult) Shortfall() decimal.Decimal {
	return r.Requested.Sub(r.Withdrawn)
}

// Account owns the append-only ledger of one named pool of money.
// Balances are never stored; they are replayed from the ledger on every query.
type Account struct {
	Name           AccountType
	OpeningBalance decimal.Decimal
	InterestRate   decimal.Decimal // Annual rate as a decimal fraction (0.03 = 3%)

	transactions []Transaction
}

// NewAccount creates an account with an empty ledger
func NewAccount(name AccountType, openingBalance, interestRate decimal.Decimal) (*Account, error) {
	if !name.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAccountType, string(name))
	}
	return &Account{
		Name:           name,
		OpeningBalance: openingBalance,
		InterestRate:   interestRate,
	}, nil
}

// Transactions returns a copy of the ledger in insertion order
func (a *Account) Transactions() []Transaction {
	out := make([]Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out
}

// Clone returns an independent account with a copy of the ledger
func (a *Account) Clone() *Account {
	clone := *a
	clone.transactions = a.Transactions()
	return &clone
}

// DepositForYear appends a deposit dated to the fiscal year.
// Deposits are unconstrained. Returns the deposited amount.
func (a *Account) DepositForYear(amount decimal.Decimal, category TransactionCategory, year int, counterpart string) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: cannot deposit %s into %s", ErrInvalidAmount, amount.String(), a.Name)
	}

	tx := NewTransaction(amount, TransactionTypeDeposit, category, year, counterpart)
	if err := tx.Validate(); err != nil {
		return decimal.Zero, err
	}
	a.transactions = append(a.transactions, tx)

	return amount, nil
}

// WithdrawForYear appends a withdrawal dated to the fiscal year, clamped to
// the funds available at the end of that year before this withdrawal.
// Exceeding capacity is not an error; it is reported on the result.
func (a *Account) WithdrawForYear(amount decimal.Decimal, category TransactionCategory, year int, counterpart string) (WithdrawalResult, error) {
	if amount.IsNegative() {
		return WithdrawalResult{}, fmt.Errorf("%w: cannot withdraw %s from %s", ErrInvalidAmount, amount.String(), a.Name)
	}

	available := a.AvailableFundsForYear(year)
	withdrawn := decimal.Min(amount, available)

	tx := NewTransaction(withdrawn, TransactionTypeWithdrawal, category, year, counterpart)
	if err := tx.Validate(); err != nil {
		return WithdrawalResult{}, err
	}
	a.transactions = append(a.transactions, tx)

	return WithdrawalResult{
		Requested:        amount,
		Withdrawn:        withdrawn,
		CapacityExceeded: amount.GreaterThan(available),
	}, nil
}

// AvailableFundsForYear is the ending balance for the year, floored at zero
func (a *Account) AvailableFundsForYear(year int) decimal.Decimal {
	return NonNegative(a.EndingBalanceForYear(year))
}

// StartingBalanceForYear replays every transaction dated before year
func (a *Account) StartingBalanceForYear(year int) decimal.Decimal {
	return RoundCurrency(a.replay(year, false))
}

// EndingBalanceForYear replays every transaction dated up to and including year
func (a *Account) EndingBalanceForYear(year int) decimal.Decimal {
	return RoundCurrency(a.replay(year, true))
}

// replay folds the date-sorted ledger into a balance.
// The fold stops at the first transaction past the target year.
func (a *Account) replay(year int, inclusive bool) decimal.Decimal {
	balance := a.OpeningBalance
	for _, tx := range a.sortedTransactions() {
		txYear := tx.FiscalYear()
		if txYear > year || (!inclusive && txYear == year) {
			break
		}
		balance = applyTransaction(balance, tx)
	}
	return balance
}

// sortedTransactions returns the ledger ordered by date; ties keep insertion order
func (a *Account) sortedTransactions() []Transaction {
	sorted := a.Transactions()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

func applyTransaction(balance decimal.Decimal, tx Transaction) decimal.Decimal {
	if tx.Type == TransactionTypeDeposit {
		return balance.Add(tx.Amount)
	}
	return balance.Sub(tx.Amount)
}

// DepositsForYear sums the year's deposits matching the filter
func (a *Account) DepositsForYear(year int, filter Filter) decimal.Decimal {
	return a.sumForYear(year, TransactionTypeDeposit, filter)
}

// WithdrawalsForYear sums the year's withdrawals matching the filter
func (a *Account) WithdrawalsForYear(year int, filter Filter) decimal.Decimal {
	return a.sumForYear(year, TransactionTypeWithdrawal, filter)
}

func (a *Account) sumForYear(year int, txType TransactionType, filter Filter) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range a.transactions {
		if tx.FiscalYear() != year || tx.Type != txType {
			continue
		}
		if filter.Matches(tx) {
			total = total.Add(tx.Amount)
		}
	}
	return RoundCurrency(total)
}

// CalculateInterestForYear returns base * InterestRate for the chosen epoch:
//   - STARTING_BALANCE:   starting balance
//   - IGNORE_DEPOSITS:    starting balance - this year's withdrawals
//   - IGNORE_WITHDRAWALS: starting balance + this year's deposits
//   - AVERAGE_BALANCE:    (starting + ending) / 2
//   - ENDING_BALANCE:     ending balance
//
// A negative base accrues nothing.
func (a *Account) CalculateInterestForYear(epoch InterestEpoch, year int) (decimal.Decimal, error) {
	starting := a.replay(year, false)

	var base decimal.Decimal
	switch epoch {
	case EpochStartingBalance:
		base = starting
	case EpochIgnoreDeposits:
		base = starting.Sub(a.WithdrawalsForYear(year, Filter{}))
	case EpochIgnoreWithdrawals:
		base = starting.Add(a.DepositsForYear(year, Filter{}))
	case EpochAverageBalance:
		base = starting.Add(a.replay(year, true)).Div(decimal.NewFromInt(2))
	case EpochEndingBalance:
		base = a.replay(year, true)
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidInterestEpoch, string(epoch))
	}

	return RoundCurrency(NonNegative(base).Mul(a.InterestRate)), nil
}
