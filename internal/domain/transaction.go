package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a ledger entry
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
)

// TransactionCategory tags what a transaction represents
type TransactionCategory string

const (
	CategorySalary                 TransactionCategory = "SALARY"
	CategorySocialSecurity         TransactionCategory = "SOCIAL_SECURITY"
	CategoryPension                TransactionCategory = "PENSION"
	CategoryRetirementDistribution TransactionCategory = "RETIREMENT_DISTRIBUTION"
	CategoryOtherIncome            TransactionCategory = "OTHER_INCOME"
	CategoryContribution           TransactionCategory = "CONTRIBUTION"
	CategoryEmployerMatch          TransactionCategory = "EMPLOYER_MATCH"
	CategoryRequiredDistribution   TransactionCategory = "REQUIRED_DISTRIBUTION"
	CategoryWithholdings           TransactionCategory = "WITHHOLDINGS"
	CategoryIncomeTax              TransactionCategory = "INCOME_TAX"
	CategoryTaxRefund              TransactionCategory = "TAX_REFUND"
	CategoryTaxPayment             TransactionCategory = "TAX_PAYMENT"
	CategoryDisbursement           TransactionCategory = "DISBURSEMENT"
	CategoryCashTransfer           TransactionCategory = "CASH_TRANSFER"
	CategoryInterest               TransactionCategory = "INTEREST"
)

// IsValid reports whether c belongs to the closed category set
func (c TransactionCategory) IsValid() bool {
	switch c {
	case CategorySalary,
		CategorySocialSecurity,
		CategoryPension,
		CategoryRetirementDistribution,
		CategoryOtherIncome,
		CategoryContribution,
		CategoryEmployerMatch,
		CategoryRequiredDistribution,
		CategoryWithholdings,
		CategoryIncomeTax,
		CategoryTaxRefund,
		CategoryTaxPayment,
		CategoryDisbursement,
		CategoryCashTransfer,
		CategoryInterest:
		return true
	}
	return false
}

// Transaction is one monetary movement recorded against an account ledger.
// Amount is always non-negative; direction is carried by Type.
// Transactions are values and are never modified once appended.
type Transaction struct {
	ID          uuid.UUID
	Amount      decimal.Decimal
	Type        TransactionType
	Category    TransactionCategory
	Date        time.Time // Jan 1 of the fiscal year
	Counterpart string    // Optional: the other side of the movement
}

// NewTransaction creates a transaction dated to the first day of the fiscal year
func NewTransaction(amount decimal.Decimal, txType TransactionType, category TransactionCategory, year int, counterpart string) Transaction {
	return Transaction{
		ID:          uuid.New(),
		Amount:      amount,
		Type:        txType,
		Category:    category,
		Date:        FiscalYearDate(year),
		Counterpart: counterpart,
	}
}

// FiscalYearDate returns the date used for every transaction in year
func FiscalYearDate(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// FiscalYear returns the year bucket the transaction belongs to
func (t Transaction) FiscalYear() int {
	return t.Date.Year()
}

// Validate ensures the transaction adheres to domain rules
func (t Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return errors.New("transaction amount must not be negative")
	}

	if t.Type != TransactionTypeDeposit && t.Type != TransactionTypeWithdrawal {
		return errors.New("transaction type must be DEPOSIT or WITHDRAWAL")
	}

	if !t.Category.IsValid() {
		return errors.New("transaction category " + string(t.Category) + " is not recognized")
	}

	return nil
}

// Filter selects transactions by category and/or counterpart.
// Zero-valued fields match everything.
type Filter struct {
	Category    TransactionCategory
	Counterpart string
}

// ByCategory returns a filter matching a single category
func ByCategory(category TransactionCategory) Filter {
	return Filter{Category: category}
}

// ByCounterpart returns a filter matching a single counterpart
func ByCounterpart(counterpart string) Filter {
	return Filter{Counterpart: counterpart}
}

// Matches reports whether the transaction satisfies the filter
func (f Filter) Matches(t Transaction) bool {
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Counterpart != "" && t.Counterpart != f.Counterpart {
		return false
	}
	return true
}
