package azure

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement"
	"github.com/rs/zerolog"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
)

// The API accepts Monthly although the SDK only declares Daily.
const granularityMonthly = armcostmanagement.GranularityType("Monthly")

func costQueryDefinition(start, end time.Time) armcostmanagement.QueryDefinition {
	exportType := armcostmanagement.ExportTypeUsage
	timeframe := armcostmanagement.TimeframeTypeCustom
	granularity := granularityMonthly
	sum := armcostmanagement.FunctionTypeSum

	from := start.UTC()
	until := end.UTC()

	return armcostmanagement.QueryDefinition{
		Type:      &exportType,
		Timeframe: &timeframe,
		TimePeriod: &armcostmanagement.QueryTimePeriod{
			From: &from,
			To:   &until,
		},
		Dataset: &armcostmanagement.QueryDataset{
			Granularity: &granularity,
			Aggregation: map[string]*armcostmanagement.QueryAggregation{
				"totalCost": {Name: to.Ptr("Cost"), Function: &sum},
			},
		},
	}
}

// costColumns locates the cost, month and currency columns. Without column
// metadata the rows are read as [cost, month, currency].
type costColumns struct {
	cost, month, currency int
}

func resolveColumns(columns []*armcostmanagement.QueryColumn) costColumns {
	idx := costColumns{cost: 0, month: 1, currency: 2}
	found := costColumns{cost: -1, month: -1, currency: -1}

	for i, col := range columns {
		if col == nil || col.Name == nil {
			continue
		}
		switch strings.ToLower(*col.Name) {
		case "cost", "pretaxcost", "totalcost", "costusd":
			if found.cost < 0 {
				found.cost = i
			}
		case "billingmonth", "usagedate":
			if found.month < 0 {
				found.month = i
			}
		case "currency":
			if found.currency < 0 {
				found.currency = i
			}
		}
	}

	if found.cost >= 0 && found.month >= 0 {
		idx.cost, idx.month = found.cost, found.month
		if found.currency >= 0 {
			idx.currency = found.currency
		} else {
			idx.currency = -1
		}
	}
	return idx
}

// costRecords converts query rows into raw cost records. Rows that cannot be
// read are skipped.
func costRecords(ctx context.Context, columns []*armcostmanagement.QueryColumn, rows [][]any) []entity.RawCostRecord {
	logger := zerolog.Ctx(ctx)
	idx := resolveColumns(columns)

	records := make([]entity.RawCostRecord, 0, len(rows))
	for _, row := range rows {
		if idx.cost >= len(row) || idx.month >= len(row) {
			logger.Debug().Int("columns", len(row)).Msg("Skipping short cost row")
			continue
		}
		cost, err := toFloat(row[idx.cost])
		if err != nil {
			logger.Debug().Err(err).Msg("Skipping cost row with invalid amount")
			continue
		}
		month, err := parseMonth(row[idx.month])
		if err != nil {
			logger.Debug().Err(err).Msg("Skipping cost row with invalid month")
			continue
		}
		currency := ""
		if idx.currency >= 0 && idx.currency < len(row) {
			currency = fmt.Sprint(row[idx.currency])
		}
		records = append(records, entity.RawCostRecord{
			PeriodStart:  month,
			TotalCost:    cost,
			CurrencyCode: currency,
		})
	}
	return records
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unsupported cost value %T", v)
	}
}

var monthLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseMonth reads BillingMonth strings and numeric UsageDate values such
// as 20250901.
func parseMonth(v any) (time.Time, error) {
	switch m := v.(type) {
	case string:
		s := strings.TrimSpace(m)
		for _, layout := range monthLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		if t, err := time.Parse("20060102", s); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("unrecognised month %q", s)
	case float64:
		return time.Parse("20060102", strconv.FormatInt(int64(m), 10))
	case int64:
		return time.Parse("20060102", strconv.FormatInt(m, 10))
	case int:
		return time.Parse("20060102", strconv.Itoa(m))
	default:
		return time.Time{}, fmt.Errorf("unsupported month value %T", v)
	}
}
