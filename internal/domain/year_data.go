package domain

import "github.com/shopspring/decimal"

// YearKind distinguishes the two yearly regimes
type YearKind string

const (
	YearKindWorking    YearKind = "WORKING"
	YearKindRetirement YearKind = "RETIREMENT"
)

// Demographics describes the subject during one fiscal year
type Demographics struct {
	Age                       int
	RetirementAge             int
	IsRetired                 bool
	FilingStatus              FilingStatus
	EligibleForSocialSecurity bool
	EligibleForPension        bool
	RequiredDistribution      bool
}

// FiscalData holds the year's economic parameters
type FiscalData struct {
	TaxYear         int
	YearsFromStart  int
	InflationFactor decimal.Decimal // Cumulative inflation since the start year
	SpendingTarget  decimal.Decimal
	SpendingSource  string // "inflation" or "override"
	InterestEpoch   InterestEpoch
	WithdrawalOrder []AccountType

	// DrawdownExhausted is set when spending went unmet after every
	// account the year could draw from had been emptied
	DrawdownExhausted bool
}

// YearData is the result of processing one simulated year.
// All money values live in the ledger behind AccountYear.
type YearData interface {
	Kind() YearKind
	Demographics() Demographics
	FiscalData() FiscalData
	AccountYear() *AccountingYear
}

type baseYearData struct {
	demographics Demographics
	fiscal       FiscalData
	accountYear  *AccountingYear
}

func (d *baseYearData) Demographics() Demographics   { return d.demographics }
func (d *baseYearData) FiscalData() FiscalData       { return d.fiscal }
func (d *baseYearData) AccountYear() *AccountingYear { return d.accountYear }

// WorkingYearData is produced by a working-year calculation
type WorkingYearData struct {
	baseYearData
}

// NewWorkingYearData creates a working year result
func NewWorkingYearData(demographics Demographics, fiscal FiscalData, accountYear *AccountingYear) *WorkingYearData {
	return &WorkingYearData{baseYearData{demographics: demographics, fiscal: fiscal, accountYear: accountYear}}
}

func (*WorkingYearData) Kind() YearKind { return YearKindWorking }

// RetirementYearData is produced by a retirement-year calculation
type RetirementYearData struct {
	baseYearData
}

// NewRetirementYearData creates a retirement year result
func NewRetirementYearData(demographics Demographics, fiscal FiscalData, accountYear *AccountingYear) *RetirementYearData {
	return &RetirementYearData{baseYearData{demographics: demographics, fiscal: fiscal, accountYear: accountYear}}
}

func (*RetirementYearData) Kind() YearKind { return YearKindRetirement }
