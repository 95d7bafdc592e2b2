package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/danbrewer/letsretire-backend/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_IncomeTax(t *testing.T) {
	service := NewService(DefaultConfig())

	tests := []struct {
		name   string
		income domain.TaxableIncome
		want   string
	}{
		{
			name:   "no income",
			income: domain.TaxableIncome{Year: 2025, FilingStatus: domain.FilingStatusSingle},
			want:   "0",
		},
		{
			name:   "income below the standard deduction",
			income: domain.TaxableIncome{Year: 2025, FilingStatus: domain.FilingStatusSingle, Wages: d("14000")},
			want:   "0",
		},
		{
			name:   "single across two brackets",
			income: domain.TaxableIncome{Year: 2025, FilingStatus: domain.FilingStatusSingle, Wages: d("50000")},
			want:   "3961.50",
		},
		{
			name:   "married filing jointly",
			income: domain.TaxableIncome{Year: 2025, FilingStatus: domain.FilingStatusMarriedFilingJointly, Wages: d("100000")},
			want:   "7923",
		},
		{
			name:   "brackets indexed after the base year",
			income: domain.TaxableIncome{Year: 2026, FilingStatus: domain.FilingStatusSingle, Wages: d("50000")},
			want:   "3910.54",
		},
		{
			name: "taxable social security is added",
			income: domain.TaxableIncome{
				Year:           2025,
				FilingStatus:   domain.FilingStatusSingle,
				Pension:        d("40000"),
				SocialSecurity: d("20000"),
			},
			want: "4801.50",
		},
		{
			name:   "unknown filing status uses the single table",
			income: domain.TaxableIncome{Year: 2025, FilingStatus: domain.FilingStatus("HEAD_OF_HOUSEHOLD"), OtherIncome: d("50000")},
			want:   "3961.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.IncomeTax(tt.income)
			assert.True(t, got.Equal(d(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestTaxableSocialSecurity(t *testing.T) {
	single := DefaultConfig().Tables[domain.FilingStatusSingle]

	tests := []struct {
		name    string
		other   string
		benefit string
		want    string
	}{
		{name: "below first base", other: "10000", benefit: "20000", want: "0"},
		{name: "between bases", other: "20000", benefit: "20000", want: "2500"},
		{name: "capped at 85 percent", other: "40000", benefit: "20000", want: "17000"},
		{name: "no benefit", other: "90000", benefit: "0", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TaxableSocialSecurity(single, d(tt.other), d(tt.benefit))
			assert.True(t, got.Equal(d(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestService_WithholdingRate(t *testing.T) {
	service := NewService(DefaultConfig())

	assert.True(t, service.WithholdingRate(domain.IncomeSourceWages, 2030).Equal(d("0.15")))
	assert.True(t, service.WithholdingRate(domain.IncomeSourcePreTaxWithdrawal, 2030).Equal(d("0.20")))

	empty := NewService(Config{})
	assert.True(t, empty.WithholdingRate(domain.IncomeSourcePension, 2030).IsZero())
}
