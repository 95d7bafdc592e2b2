package domain

import "github.com/shopspring/decimal"

// TargetedAccount pins an Account to one fiscal year so calculators don't
// have to thread the year through every call. It holds no state of its own.
type TargetedAccount struct {
	account *Account
	year    int
}

// NewTargetedAccount binds account to year
func NewTargetedAccount(account *Account, year int) *TargetedAccount {
	return &TargetedAccount{account: account, year: year}
}

func (t *TargetedAccount) Account() *Account { return t.account }
func (t *TargetedAccount) Year() int         { return t.year }
func (t *TargetedAccount) Name() AccountType { return t.account.Name }

func (t *TargetedAccount) StartingBalance() decimal.Decimal {
	return t.account.StartingBalanceForYear(t.year)
}

func (t *TargetedAccount) EndingBalance() decimal.Decimal {
	return t.account.EndingBalanceForYear(t.year)
}

// AvailableFunds is what a withdrawal issued now could take out
func (t *TargetedAccount) AvailableFunds() decimal.Decimal {
	return t.account.AvailableFundsForYear(t.year)
}

func (t *TargetedAccount) Deposit(amount decimal.Decimal, category TransactionCategory, counterpart string) (decimal.Decimal, error) {
	return t.account.DepositForYear(amount, category, t.year, counterpart)
}

func (t *TargetedAccount) Withdraw(amount decimal.Decimal, category TransactionCategory, counterpart string) (WithdrawalResult, error) {
	return t.account.WithdrawForYear(amount, category, t.year, counterpart)
}

func (t *TargetedAccount) Deposits(filter Filter) decimal.Decimal {
	return t.account.DepositsForYear(t.year, filter)
}

func (t *TargetedAccount) Withdrawals(filter Filter) decimal.Decimal {
	return t.account.WithdrawalsForYear(t.year, filter)
}

func (t *TargetedAccount) Interest(epoch InterestEpoch) (decimal.Decimal, error) {
	return t.account.CalculateInterestForYear(epoch, t.year)
}
