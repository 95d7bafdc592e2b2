package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Projection is a completed run, frozen for storage and transport
type Projection struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	StartYear    int
	EndYear      int
	DepletionAge *int // NULL if the portfolio lasts the whole plan
	Years        []YearSnapshot
}

// YearSnapshot captures one year's derived metrics at the moment it closed
type YearSnapshot struct {
	FiscalYear             int
	Age                    int
	Kind                   YearKind
	GrossIncome            decimal.Decimal
	Withholdings           decimal.Decimal
	NetIncome              decimal.Decimal
	Spending               decimal.Decimal
	UnmetSpending          decimal.Decimal
	IncomeTax              decimal.Decimal
	RequiredDistribution   decimal.Decimal
	Traditional401kBalance decimal.Decimal
	RothBalance            decimal.Decimal
	SavingsBalance         decimal.Decimal
	PortfolioBalance       decimal.Decimal
	InterestEarned         decimal.Decimal
}

// Validate ensures the projection adheres to domain rules
func (p *Projection) Validate() error {
	if p.EndYear < p.StartYear {
		return errors.New("projection end year must not precede start year")
	}

	previous := 0
	for i, year := range p.Years {
		if i > 0 && year.FiscalYear <= previous {
			return errors.New("projection years must be in ascending fiscal year order")
		}
		if year.FiscalYear < p.StartYear || year.FiscalYear > p.EndYear {
			return errors.New("projection year lies outside the projection range")
		}
		previous = year.FiscalYear
	}

	return nil
}
