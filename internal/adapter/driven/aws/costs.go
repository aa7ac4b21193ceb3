package aws

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/rs/zerolog"
	"github.com/ubuntu/decorate"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

const (
	costMetric = "UnblendedCost"
	dateLayout = "2006-01-02"
)

func costQuery(start, end time.Time, region string, token *string) *costexplorer.GetCostAndUsageInput {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(start.Format(dateLayout)),
			End:   aws.String(end.Format(dateLayout)),
		},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{costMetric},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
		NextPageToken: token,
	}
	if region != "" {
		input.Filter = &ceTypes.Expression{
			Dimensions: &ceTypes.DimensionValues{
				Key:    ceTypes.DimensionRegion,
				Values: []string{region},
			},
		}
	}
	return input
}

// FetchCosts returns one record per month reported by Cost Explorer, with
// the per-service groups summed.
func (r *Repository) FetchCosts(ctx context.Context, details types.ProviderDetails, start, end time.Time) (records []entity.RawCostRecord, err error) {
	defer decorate.OnError(&err, "fetching AWS costs")

	c, err := r.clientsFor(ctx, details)
	if err != nil {
		return nil, err
	}

	if !end.After(start) {
		return nil, fmt.Errorf("%w: empty cost period", types.ErrMalformedInput)
	}

	var results []ceTypes.ResultByTime
	var token *string
	for {
		out, err := c.ce.GetCostAndUsage(ctx, costQuery(start, end, details.Region, token))
		if err != nil {
			return nil, fmt.Errorf("error getting cost and usage: %w", err)
		}
		results = append(results, out.ResultsByTime...)
		if out.NextPageToken == nil || *out.NextPageToken == "" {
			break
		}
		token = out.NextPageToken
	}

	records = costRecordsFromResults(ctx, results)
	zerolog.Ctx(ctx).Info().Int("months", len(records)).Msg("AWS cost query complete")
	return records, nil
}

// costRecordsFromResults merges result pages into one record per period.
// Group amounts are summed; the total is used when the period has no groups.
func costRecordsFromResults(ctx context.Context, results []ceTypes.ResultByTime) []entity.RawCostRecord {
	logger := zerolog.Ctx(ctx)

	var records []entity.RawCostRecord
	index := make(map[time.Time]int)

	for _, result := range results {
		if result.TimePeriod == nil {
			continue
		}
		start, err := time.Parse(dateLayout, aws.ToString(result.TimePeriod.Start))
		if err != nil {
			logger.Debug().Err(err).Msg("Skipping cost period with invalid start")
			continue
		}

		amount, currency := 0.0, ""
		for _, group := range result.Groups {
			v, unit, ok := metricAmount(group.Metrics)
			if !ok {
				continue
			}
			amount += v
			if currency == "" {
				currency = unit
			}
		}
		if len(result.Groups) == 0 {
			if v, unit, ok := metricAmount(result.Total); ok {
				amount, currency = v, unit
			}
		}

		if i, ok := index[start]; ok {
			records[i].TotalCost += amount
			continue
		}
		index[start] = len(records)
		records = append(records, entity.RawCostRecord{
			PeriodStart:  start,
			TotalCost:    amount,
			CurrencyCode: currency,
		})
	}
	return records
}

func metricAmount(metrics map[string]ceTypes.MetricValue) (float64, string, bool) {
	m, ok := metrics[costMetric]
	if !ok || m.Amount == nil {
		return 0, "", false
	}
	v, err := strconv.ParseFloat(*m.Amount, 64)
	if err != nil {
		return 0, "", false
	}
	return v, aws.ToString(m.Unit), true
}

// checkCostAccess issues a minimal Cost Explorer query to confirm billing access.
func (c *clients) checkCostAccess(ctx context.Context) error {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -1)
	input := costQuery(start, end, "", nil)
	input.GroupBy = nil
	_, err := c.ce.GetCostAndUsage(ctx, input)
	return err
}
