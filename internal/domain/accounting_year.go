package domain

import "github.com/shopspring/decimal"

// AccountingYear answers per-year ledger questions against a manager.
// It holds nothing but the (manager, year) pair; every call re-derives from
// the ledger, so a write made earlier in the year is visible immediately.
type AccountingYear struct {
	manager *AccountsManager
	year    int
}

// NewAccountingYear binds manager to a fiscal year
func NewAccountingYear(manager *AccountsManager, year int) *AccountingYear {
	return &AccountingYear{manager: manager, year: year}
}

func (y *AccountingYear) Year() int                 { return y.year }
func (y *AccountingYear) Manager() *AccountsManager { return y.manager }

// Target returns a year-bound view of the named account
func (y *AccountingYear) Target(name AccountType) (*TargetedAccount, error) {
	account, err := y.manager.GetAccountByName(name)
	if err != nil {
		return nil, err
	}
	return NewTargetedAccount(account, y.year), nil
}

// GetDeposits sums the named account's deposits for the year
func (y *AccountingYear) GetDeposits(name AccountType, filter Filter) (decimal.Decimal, error) {
	account, err := y.manager.GetAccountByName(name)
	if err != nil {
		return decimal.Zero, err
	}
	return account.DepositsForYear(y.year, filter), nil
}

// GetWithdrawals sums the named account's withdrawals for the year
func (y *AccountingYear) GetWithdrawals(name AccountType, filter Filter) (decimal.Decimal, error) {
	account, err := y.manager.GetAccountByName(name)
	if err != nil {
		return decimal.Zero, err
	}
	return account.WithdrawalsForYear(y.year, filter), nil
}

func (y *AccountingYear) StartingBalance(name AccountType) (decimal.Decimal, error) {
	account, err := y.manager.GetAccountByName(name)
	if err != nil {
		return decimal.Zero, err
	}
	return account.StartingBalanceForYear(y.year), nil
}

func (y *AccountingYear) EndingBalance(name AccountType) (decimal.Decimal, error) {
	account, err := y.manager.GetAccountByName(name)
	if err != nil {
		return decimal.Zero, err
	}
	return account.EndingBalanceForYear(y.year), nil
}

// Transfer withdraws from one account and deposits the amount actually
// withdrawn into another, each side naming the other as counterpart.
func (y *AccountingYear) Transfer(from, to AccountType, amount decimal.Decimal, category TransactionCategory) (WithdrawalResult, error) {
	source, err := y.Target(from)
	if err != nil {
		return WithdrawalResult{}, err
	}
	destination, err := y.Target(to)
	if err != nil {
		return WithdrawalResult{}, err
	}

	result, err := source.Withdraw(amount, category, string(to))
	if err != nil {
		return WithdrawalResult{}, err
	}
	if _, err := destination.Deposit(result.Withdrawn, category, string(from)); err != nil {
		return WithdrawalResult{}, err
	}
	return result, nil
}
