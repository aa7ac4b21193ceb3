package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

const (
	// CostWindowMonths is the length of the cost series.
	CostWindowMonths = 6
	// CostHistoryDays is how far back fetchers are asked to look.
	CostHistoryDays = 180
	// DefaultCurrency is used when the provider returned no rows at all.
	DefaultCurrency = "USD"
)

// MonthStart truncates t to the first instant of its calendar month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// CostWindow returns the first and last month of the series ending at now.
func CostWindow(now time.Time) (time.Time, time.Time) {
	current := MonthStart(now)
	return current.AddDate(0, -(CostWindowMonths - 1), 0), current
}

// CostQueryPeriod is the billing query range handed to cost fetchers: 180
// days back from the first of the current month, up to now.
func CostQueryPeriod(now time.Time) (time.Time, time.Time) {
	start := MonthStart(now).AddDate(0, 0, -CostHistoryDays)
	return start, now.UTC()
}

type costBucket struct {
	cost     float64
	currency string
}

// NormalizeCosts buckets billing rows by month and returns one entry per
// month of the six-month window ending at the month of now, ascending.
// Months without rows are filled with a zero cost in the batch currency.
func NormalizeCosts(ctx context.Context, records []entity.RawCostRecord, now time.Time) ([]entity.CostInventoryEntry, error) {
	logger := zerolog.Ctx(ctx).With().Str("stage", "costs").Logger()

	first, last := CostWindow(now)
	buckets := make(map[time.Time]*costBucket)
	fallbackCurrency := ""

	for _, rec := range records {
		if rec.PeriodStart.IsZero() || math.IsNaN(rec.TotalCost) || math.IsInf(rec.TotalCost, 0) {
			logger.Debug().Err(types.ErrMalformedInput).Time("period", rec.PeriodStart).Msg("Skipping cost record")
			continue
		}
		currency := strings.ToUpper(strings.TrimSpace(rec.CurrencyCode))
		if currency != "" && fallbackCurrency == "" {
			fallbackCurrency = currency
		}

		month := MonthStart(rec.PeriodStart)
		if month.Before(first) || month.After(last) {
			logger.Debug().Time("month", month).Msg("Cost record outside window")
			continue
		}

		b, ok := buckets[month]
		if !ok {
			buckets[month] = &costBucket{cost: rec.TotalCost, currency: currency}
			continue
		}
		if b.currency == "" {
			b.currency = currency
		}
		if currency != "" && currency != b.currency {
			logger.Warn().
				Time("month", month).
				Str("currency", currency).
				Str("kept", b.currency).
				Msg("Mixed currencies in one month, dropping row")
			continue
		}
		b.cost += rec.TotalCost
	}

	if fallbackCurrency == "" {
		fallbackCurrency = DefaultCurrency
	}

	series := make([]entity.CostInventoryEntry, 0, CostWindowMonths)
	for month := first; !month.After(last); month = month.AddDate(0, 1, 0) {
		entry := entity.CostInventoryEntry{Month: month, Cost: 0, Currency: fallbackCurrency}
		if b, ok := buckets[month]; ok {
			entry.Cost = b.cost
			if b.currency != "" {
				entry.Currency = b.currency
			}
		}
		series = append(series, entry)
	}

	if len(series) != CostWindowMonths {
		return nil, fmt.Errorf("%w: got %d months, want %d", types.ErrIncompleteCostSeries, len(series), CostWindowMonths)
	}

	logger.Info().Int("records", len(records)).Int("months_with_data", len(buckets)).Msg("Cost inventory normalized")
	return series, nil
}
