package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultWithdrawalOrder is used when no withdrawal order is supplied
var DefaultWithdrawalOrder = []AccountType{
	AccountTypeSavings,
	AccountTypeTraditional401k,
	AccountTypeRothIRA,
}

// AccountsManager owns the fixed set of accounts that make up a household's
// holdings. Accounts are never added or removed after construction.
type AccountsManager struct {
	accounts map[AccountType]*Account
	order    []AccountType
}

// NewAccountsManager builds a manager from exactly one account per identity
func NewAccountsManager(accounts ...*Account) (*AccountsManager, error) {
	m := &AccountsManager{
		accounts: make(map[AccountType]*Account, len(accounts)),
		order:    make([]AccountType, 0, len(accounts)),
	}

	for _, account := range accounts {
		if account == nil {
			return nil, fmt.Errorf("%w: nil account", ErrInvalidAccountType)
		}
		if !account.Name.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAccountType, string(account.Name))
		}
		if _, exists := m.accounts[account.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate account %s", ErrInvalidAccountType, account.Name)
		}
		m.accounts[account.Name] = account
		m.order = append(m.order, account.Name)
	}

	for _, name := range AllAccountTypes {
		if _, exists := m.accounts[name]; !exists {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
		}
	}

	return m, nil
}

// CreateFromInputs builds the seven standard accounts.
// Investment accounts take their balances and rates from the inputs;
// the bookkeeping accounts start empty and earn nothing.
func CreateFromInputs(in *Inputs) (*AccountsManager, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: nil inputs", ErrInvalidInputs)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	seeds := []struct {
		name    AccountType
		balance decimal.Decimal
		rate    decimal.Decimal
	}{
		{AccountTypeTraditional401k, in.Traditional401kBalance, in.Traditional401kRate},
		{AccountTypeRothIRA, in.RothBalance, in.RothRate},
		{AccountTypeSavings, in.SavingsBalance, in.SavingsRate},
		{AccountTypeIncome, decimal.Zero, decimal.Zero},
		{AccountTypeDisbursement, decimal.Zero, decimal.Zero},
		{AccountTypeTaxes, decimal.Zero, decimal.Zero},
		{AccountTypeWithholdings, decimal.Zero, decimal.Zero},
	}

	accounts := make([]*Account, 0, len(seeds))
	for _, seed := range seeds {
		account, err := NewAccount(seed.name, seed.balance, seed.rate)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return NewAccountsManager(accounts...)
}

// GetAccountByName resolves an identity to its live account
func (m *AccountsManager) GetAccountByName(name AccountType) (*Account, error) {
	account, ok := m.accounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, string(name))
	}
	return account, nil
}

// Accounts returns every managed account in construction order
func (m *AccountsManager) Accounts() []*Account {
	out := make([]*Account, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.accounts[name])
	}
	return out
}

func (m *AccountsManager) Traditional401k() *Account { return m.accounts[AccountTypeTraditional401k] }
func (m *AccountsManager) Roth() *Account            { return m.accounts[AccountTypeRothIRA] }
func (m *AccountsManager) Savings() *Account         { return m.accounts[AccountTypeSavings] }
func (m *AccountsManager) Income() *Account          { return m.accounts[AccountTypeIncome] }
func (m *AccountsManager) Disbursement() *Account    { return m.accounts[AccountTypeDisbursement] }
func (m *AccountsManager) Taxes() *Account           { return m.accounts[AccountTypeTaxes] }
func (m *AccountsManager) Withholdings() *Account    { return m.accounts[AccountTypeWithholdings] }

// Clone returns a manager over independent copies of every account.
// Writes to the clone leave m untouched.
func (m *AccountsManager) Clone() *AccountsManager {
	clone := &AccountsManager{
		accounts: make(map[AccountType]*Account, len(m.accounts)),
		order:    append([]AccountType(nil), m.order...),
	}
	for name, account := range m.accounts {
		clone.accounts[name] = account.Clone()
	}
	return clone
}

// GetAccountsInOrder turns a user-chosen drawdown order into live accounts.
// Tags match case-insensitively; unrecognized and repeated tags are dropped.
// An order that resolves to no investment account falls back to
// DefaultWithdrawalOrder, so loosely-typed external input never fails.
func (m *AccountsManager) GetAccountsInOrder(withdrawalOrder []string) []*Account {
	seen := make(map[AccountType]bool, len(withdrawalOrder))
	out := make([]*Account, 0, len(withdrawalOrder))
	investments := 0
	for _, tag := range withdrawalOrder {
		name := AccountType(strings.ToUpper(strings.TrimSpace(tag)))
		account, ok := m.accounts[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		if name.IsInvestment() {
			investments++
		}
		out = append(out, account)
	}

	if investments == 0 {
		return m.defaultOrder()
	}
	return out
}

func (m *AccountsManager) defaultOrder() []*Account {
	out := make([]*Account, 0, len(DefaultWithdrawalOrder))
	for _, name := range DefaultWithdrawalOrder {
		out = append(out, m.accounts[name])
	}
	return out
}

// GetTotalStartingBalance sums every account's starting balance for year
func (m *AccountsManager) GetTotalStartingBalance(year int) decimal.Decimal {
	return m.fold(func(a *Account) decimal.Decimal { return a.StartingBalanceForYear(year) })
}

// GetTotalBalance sums every account's ending balance for year
func (m *AccountsManager) GetTotalBalance(year int) decimal.Decimal {
	return m.fold(func(a *Account) decimal.Decimal { return a.EndingBalanceForYear(year) })
}

// GetTotalDeposits sums matching deposits across every account for year
func (m *AccountsManager) GetTotalDeposits(year int, filter Filter) decimal.Decimal {
	return m.fold(func(a *Account) decimal.Decimal { return a.DepositsForYear(year, filter) })
}

// GetTotalWithdrawals sums matching withdrawals across every account for year
func (m *AccountsManager) GetTotalWithdrawals(year int, filter Filter) decimal.Decimal {
	return m.fold(func(a *Account) decimal.Decimal { return a.WithdrawalsForYear(year, filter) })
}

// GetTotalInterestEarned accrues every account under the same epoch
func (m *AccountsManager) GetTotalInterestEarned(epoch InterestEpoch, year int) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, account := range m.Accounts() {
		interest, err := account.CalculateInterestForYear(epoch, year)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(interest)
	}
	return RoundCurrency(total), nil
}

// GetPortfolioBalance sums the ending balances of the investment accounts
func (m *AccountsManager) GetPortfolioBalance(year int) decimal.Decimal {
	total := decimal.Zero
	for _, name := range InvestmentAccountTypes {
		total = total.Add(m.accounts[name].EndingBalanceForYear(year))
	}
	return RoundCurrency(total)
}

func (m *AccountsManager) fold(query func(*Account) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, account := range m.Accounts() {
		total = total.Add(query(account))
	}
	return RoundCurrency(total)
}
