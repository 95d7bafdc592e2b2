package calculation

import "github.com/danbrewer/letsretire-backend/internal/domain"

// Calculations is the ordered sequence of closed years.
// Insertion order is simulation order; there is no removal.
type Calculations struct {
	items []*Calculation
}

// NewCalculations creates an empty sequence
func NewCalculations() *Calculations {
	return &Calculations{}
}

// AddCalculation appends a closed year. Nil is ignored.
func (c *Calculations) AddCalculation(calc *Calculation) {
	if calc == nil {
		return
	}
	c.items = append(c.items, calc)
}

// GetLastCalculation returns the most recently appended year
func (c *Calculations) GetLastCalculation() (*Calculation, bool) {
	if len(c.items) == 0 {
		return nil, false
	}
	return c.items[len(c.items)-1], true
}

// GetAllCalculations returns a copy of the sequence
func (c *Calculations) GetAllCalculations() []*Calculation {
	out := make([]*Calculation, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Calculations) Len() int { return len(c.items) }

// ForYear finds the calculation for a fiscal year
func (c *Calculations) ForYear(year int) (*Calculation, bool) {
	for _, calc := range c.items {
		if calc.FiscalYear() == year {
			return calc, true
		}
	}
	return nil, false
}

// Snapshots freezes every year in order
func (c *Calculations) Snapshots() []domain.YearSnapshot {
	out := make([]domain.YearSnapshot, 0, len(c.items))
	for _, calc := range c.items {
		out = append(out, calc.Snapshot())
	}
	return out
}
