package cashflow_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxdesk/tradebook/internal/apperrors"
	"github.com/fxdesk/tradebook/internal/core/cashflow"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseTenor(t *testing.T) {
	tests := []struct {
		code   string
		months int
	}{
		{"1M", 1},
		{"3M", 3},
		{"6M", 6},
		{"1Y", 12},
		{"2Y", 24},
		{"2y", 24},
		{" 1m ", 1},
	}
	for _, tc := range tests {
		months, err := cashflow.ParseTenor(tc.code)
		require.NoError(t, err, "tenor %q", tc.code)
		assert.Equal(t, tc.months, months, "tenor %q", tc.code)
	}
}

func TestParseTenor_Invalid(t *testing.T) {
	for _, code := range []string{"", "M", "1W", "XYZ", "1.5M", "-1M"} {
		_, err := cashflow.ParseTenor(code)
		require.Error(t, err, "tenor %q", code)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestParseTenor_ZeroLength(t *testing.T) {
	_, err := cashflow.ParseTenor("0M")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGenerate_MonthlyCounts(t *testing.T) {
	start := date(2025, time.January, 1)
	tests := []struct {
		name     string
		maturity time.Time
		count    int
	}{
		{"two months", date(2025, time.March, 1), 2},
		{"four months", date(2025, time.May, 1), 4},
		{"one year", date(2026, time.January, 1), 12},
		{"two years two months", date(2027, time.March, 1), 26},
		{"one year plus two days", date(2026, time.January, 3), 13},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			flows, err := cashflow.Generate(start, tc.maturity, "1M", decimal.NewFromInt(1_000_000))
			require.NoError(t, err)
			assert.Len(t, flows, tc.count)
		})
	}
}

func TestGenerate_FinalCashflowAtMaturity(t *testing.T) {
	start := date(2025, time.January, 1)
	maturity := date(2026, time.January, 3)

	flows, err := cashflow.Generate(start, maturity, "1M", decimal.NewFromInt(500))
	require.NoError(t, err)
	require.NotEmpty(t, flows)

	last := flows[len(flows)-1]
	assert.True(t, last.ValueDate.Equal(maturity), "last cashflow must fall on maturity")
	for i, flow := range flows {
		assert.Equal(t, i, flow.SequenceIndex)
		assert.True(t, flow.Notional.Equal(decimal.NewFromInt(500)))
		if i > 0 {
			assert.True(t, flows[i-1].ValueDate.Before(flow.ValueDate), "value dates must be strictly increasing")
		}
	}
}

func TestGenerate_StartEqualsMaturity(t *testing.T) {
	day := date(2025, time.June, 15)
	flows, err := cashflow.Generate(day, day, "1M", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Len(t, flows, 1)
	assert.True(t, flows[0].ValueDate.Equal(day))
}

func TestGenerate_TenorLongerThanTrade(t *testing.T) {
	start := date(2025, time.January, 1)
	maturity := date(2025, time.March, 1)
	flows, err := cashflow.Generate(start, maturity, "1Y", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Len(t, flows, 1)
	assert.True(t, flows[0].ValueDate.Equal(maturity))
}

func TestGenerate_MonthEndClamping(t *testing.T) {
	// Jan 31 steps to the last day of shorter months instead of spilling over.
	start := date(2024, time.January, 31)
	maturity := date(2024, time.June, 30)

	flows, err := cashflow.Generate(start, maturity, "1M", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Len(t, flows, 5)

	assert.True(t, flows[0].ValueDate.Equal(date(2024, time.February, 29)), "leap-year February clamps to the 29th")
	assert.True(t, flows[1].ValueDate.Equal(date(2024, time.March, 31)))
	assert.True(t, flows[2].ValueDate.Equal(date(2024, time.April, 30)))
	assert.True(t, flows[3].ValueDate.Equal(date(2024, time.May, 31)))
	assert.True(t, flows[4].ValueDate.Equal(maturity))
}

func TestGenerate_QuarterlySchedule(t *testing.T) {
	start := date(2025, time.January, 1)
	maturity := date(2026, time.January, 1)
	flows, err := cashflow.Generate(start, maturity, "3M", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Len(t, flows, 4)
}

func TestGenerate_MalformedTenor(t *testing.T) {
	_, err := cashflow.Generate(date(2025, time.January, 1), date(2026, time.January, 1), "weekly", decimal.NewFromInt(100))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
