package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danbrewer/letsretire-backend/internal/domain"
)

const sampleAssumptions = `
start_year: 2025
current_age: 60
retirement_age: 65
end_age: 90
accounts:
  traditional_401k: {balance: 600000, rate: 0.05}
  roth_ira: {balance: 100000, rate: 0.06}
  savings: {balance: 50000.456, rate: 0.02}
  interest_epoch: ENDING_BALANCE
employment:
  salary: 120000
  salary_growth_rate: 0.03
  pre_tax_contribution_rate: 0.10
  employer_match_rate: 0.5
  employer_match_cap: 0.03
social_security: {annual: 30000, start_age: 67, cola: 0.02}
spending:
  annual: 70000
  inflation_rate: 0.025
  overrides:
    70: 90000
income_overrides:
  66: 15000
filing_status: MARRIED_FILING_JOINTLY
withdrawal_order: [TRADITIONAL_401K, SAVINGS, ROTH_IRA]
use_required_distributions: true
`

func TestParseAssumptions(t *testing.T) {
	in, err := ParseAssumptions([]byte(sampleAssumptions))
	require.NoError(t, err)

	assert.Equal(t, 2025, in.StartYear)
	assert.Equal(t, 60, in.CurrentAge)
	assert.Equal(t, 65, in.RetirementAge)
	assert.Equal(t, 90, in.EndAge)

	assert.True(t, in.Traditional401kBalance.Equal(decimal.NewFromInt(600000)))
	assert.True(t, in.Traditional401kRate.Equal(decimal.RequireFromString("0.05")))
	assert.True(t, in.SavingsBalance.Equal(decimal.RequireFromString("50000.46")), "money is rounded to cents")
	assert.Equal(t, domain.EpochEndingBalance, in.InterestEpoch)

	assert.True(t, in.Salary.Equal(decimal.NewFromInt(120000)))
	assert.True(t, in.EmployerMatchCap.Equal(decimal.RequireFromString("0.03")))
	assert.True(t, in.SocialSecurityBenefit.Equal(decimal.NewFromInt(30000)))
	assert.Equal(t, 67, in.SocialSecurityStartAge)

	assert.Equal(t, domain.FilingStatusMarriedFilingJointly, in.FilingStatus)
	assert.Equal(t, []string{"TRADITIONAL_401K", "SAVINGS", "ROTH_IRA"}, in.WithdrawalOrder)
	assert.True(t, in.UseRequiredDistributions)
	assert.Equal(t, domain.DefaultRequiredDistributionAge, in.RequiredDistributionAge)

	require.Contains(t, in.SpendingOverrides, 70)
	assert.True(t, in.SpendingOverrides[70].Equal(decimal.NewFromInt(90000)))
	require.Contains(t, in.IncomeOverrides, 66)
	assert.True(t, in.IncomeOverrides[66].Equal(decimal.NewFromInt(15000)))
}

func TestParseAssumptions_AppliesDefaults(t *testing.T) {
	in, err := ParseAssumptions([]byte("start_year: 2025\ncurrent_age: 50\nretirement_age: 60\n"))
	require.NoError(t, err)

	assert.Equal(t, 95, in.EndAge)
	assert.Equal(t, domain.EpochAverageBalance, in.InterestEpoch)
	assert.Equal(t, domain.FilingStatusSingle, in.FilingStatus)
	assert.Nil(t, in.SpendingOverrides)
}

func TestParseAssumptions_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		errMsg string
	}{
		{name: "malformed yaml", data: "start_year: [", errMsg: "failed to parse assumptions"},
		{name: "missing start year", data: "current_age: 50\nretirement_age: 60\n", errMsg: "start_year"},
		{name: "unknown epoch", data: "start_year: 2025\naccounts:\n  interest_epoch: MONTHLY\n", errMsg: "invalid interest epoch"},
		{name: "negative balance", data: "start_year: 2025\naccounts:\n  savings: {balance: -1}\n", errMsg: "savings_balance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAssumptions([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseAssumptions_InvalidInputsSentinel(t *testing.T) {
	_, err := ParseAssumptions([]byte("start_year: 2025\ncurrent_age: 70\nend_age: 60\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInputs)
}

func TestLoadAssumptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleAssumptions), 0o600))

	in, err := LoadAssumptions(path)
	require.NoError(t, err)
	assert.Equal(t, 2025, in.StartYear)

	_, err = LoadAssumptions(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read assumptions")
}
