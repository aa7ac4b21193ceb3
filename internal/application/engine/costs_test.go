package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeCosts(t *testing.T) {
	now := time.Date(2026, time.February, 17, 9, 30, 0, 0, time.UTC)
	window := []time.Time{
		month(2025, time.September),
		month(2025, time.October),
		month(2025, time.November),
		month(2025, time.December),
		month(2026, time.January),
		month(2026, time.February),
	}

	tests := []struct {
		name      string
		records   []entity.RawCostRecord
		wantCost  []float64
		wantCurrs []string
	}{
		{
			name:      "empty input is six zero months in USD",
			records:   nil,
			wantCost:  []float64{0, 0, 0, 0, 0, 0},
			wantCurrs: []string{"USD", "USD", "USD", "USD", "USD", "USD"},
		},
		{
			name: "missing months take the batch currency",
			records: []entity.RawCostRecord{
				{PeriodStart: month(2025, time.November), TotalCost: 120.5, CurrencyCode: "EUR"},
				{PeriodStart: month(2026, time.February), TotalCost: 30, CurrencyCode: "eur"},
			},
			wantCost:  []float64{0, 0, 120.5, 0, 0, 30},
			wantCurrs: []string{"EUR", "EUR", "EUR", "EUR", "EUR", "EUR"},
		},
		{
			name: "currency is kept per month",
			records: []entity.RawCostRecord{
				{PeriodStart: month(2025, time.September), TotalCost: 10, CurrencyCode: "GBP"},
				{PeriodStart: month(2025, time.October), TotalCost: 11, CurrencyCode: "USD"},
			},
			wantCost:  []float64{10, 11, 0, 0, 0, 0},
			wantCurrs: []string{"GBP", "USD", "GBP", "GBP", "GBP", "GBP"},
		},
		{
			name: "period starts are truncated to the month and summed",
			records: []entity.RawCostRecord{
				{PeriodStart: time.Date(2026, time.January, 14, 0, 0, 0, 0, time.UTC), TotalCost: 5, CurrencyCode: "USD"},
				{PeriodStart: month(2026, time.January), TotalCost: 7.25, CurrencyCode: "USD"},
			},
			wantCost:  []float64{0, 0, 0, 0, 12.25, 0},
			wantCurrs: []string{"USD", "USD", "USD", "USD", "USD", "USD"},
		},
		{
			name: "rows outside the window and malformed rows are ignored",
			records: []entity.RawCostRecord{
				{PeriodStart: month(2025, time.August), TotalCost: 999, CurrencyCode: "USD"},
				{PeriodStart: month(2026, time.March), TotalCost: 999, CurrencyCode: "USD"},
				{TotalCost: 999, CurrencyCode: "USD"},
				{PeriodStart: month(2025, time.December), TotalCost: 42, CurrencyCode: "USD"},
			},
			wantCost:  []float64{0, 0, 0, 42, 0, 0},
			wantCurrs: []string{"USD", "USD", "USD", "USD", "USD", "USD"},
		},
		{
			name: "a second currency in the same month is dropped",
			records: []entity.RawCostRecord{
				{PeriodStart: month(2025, time.October), TotalCost: 3, CurrencyCode: "USD"},
				{PeriodStart: month(2025, time.October), TotalCost: 4, CurrencyCode: "EUR"},
			},
			wantCost:  []float64{0, 3, 0, 0, 0, 0},
			wantCurrs: []string{"USD", "USD", "USD", "USD", "USD", "USD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCosts(testContext(t), tt.records, now)
			require.NoError(t, err)
			require.Len(t, got, CostWindowMonths)

			for i, entry := range got {
				assert.Equal(t, window[i], entry.Month, "month %d", i)
				assert.InDelta(t, tt.wantCost[i], entry.Cost, 0.0001, "cost %d", i)
				assert.Equal(t, tt.wantCurrs[i], entry.Currency, "currency %d", i)
			}
		})
	}
}

func TestCostQueryPeriod(t *testing.T) {
	now := time.Date(2026, time.February, 17, 9, 30, 0, 0, time.UTC)

	start, end := CostQueryPeriod(now)

	assert.Equal(t, month(2026, time.February).AddDate(0, 0, -180), start)
	assert.Equal(t, now, end)

	first, last := CostWindow(now)
	assert.True(t, start.Before(first))
	assert.Equal(t, month(2026, time.February), last)
}
