package engine

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

const (
	UnknownResourceName = "Unknown Resource"
	DefaultIcon         = "assets/icons/default.png"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"GBP": "£",
	"EUR": "€",
}

// CurrencySymbol returns the display symbol of a currency code, or the code
// itself when no symbol is known.
func CurrencySymbol(code string) string {
	if s, ok := currencySymbols[strings.ToUpper(code)]; ok {
		return s
	}
	return code
}

// ReportInput gathers the outputs of the earlier stages.
type ReportInput struct {
	AssessmentID   string
	Provider       entity.Provider
	ExitStrategy   entity.ExitStrategy
	AssessmentType entity.AssessmentType
	AccountRef     string
	GeneratedAt    time.Time

	Inventory    []entity.ResourceInventoryEntry
	Costs        []entity.CostInventoryEntry
	Findings     []entity.RiskFinding
	Alternatives entity.AlternativeMatches
}

// AssembleReport joins the stage outputs with catalogue names and icons into
// the model handed to the exporters. Findings whose risk is missing from the
// catalogue are dropped.
func AssembleReport(ctx context.Context, in ReportInput, catalogue *entity.Catalogue) *entity.ReportData {
	logger := zerolog.Ctx(ctx).With().Str("stage", "report").Logger()

	report := &entity.ReportData{
		Summary: entity.ReportSummary{
			AssessmentID:   in.AssessmentID,
			Provider:       in.Provider,
			ExitStrategy:   in.ExitStrategy,
			AssessmentType: in.AssessmentType,
			AccountRef:     in.AccountRef,
			GeneratedAt:    in.GeneratedAt,
		},
		Inventory:    in.Inventory,
		Costs:        in.Costs,
		Findings:     in.Findings,
		Alternatives: in.Alternatives,
	}

	report.RiskRows, report.SeverityCounts = riskRows(in.Findings, catalogue, logger)
	report.ResourceRows = resourceRows(in.Inventory, catalogue)
	report.CostSeries = costSeries(in.Costs)
	report.AlternativeRows = alternativeRows(in.Alternatives, catalogue)

	return report
}

type riskAccumulator struct {
	row         entity.RiskRow
	names       map[string]struct{}
	count       int
	accountWide bool
}

func riskRows(findings []entity.RiskFinding, catalogue *entity.Catalogue, logger zerolog.Logger) ([]entity.RiskRow, entity.SeverityCounts) {
	var counts entity.SeverityCounts
	var order []string
	acc := make(map[string]*riskAccumulator)

	for _, f := range findings {
		a, ok := acc[f.RiskID]
		if !ok {
			def, found := catalogue.Risk(f.RiskID)
			if !found {
				logger.Debug().Err(types.ErrUnknownReference).Str("risk", f.RiskID).Msg("Dropping finding")
				continue
			}
			a = &riskAccumulator{
				row: entity.RiskRow{
					RiskID:      def.ID,
					Name:        def.Name,
					Description: def.Description,
					Severity:    def.Severity,
				},
				names: make(map[string]struct{}),
			}
			acc[f.RiskID] = a
			order = append(order, f.RiskID)

			switch def.Severity {
			case entity.SeverityHigh:
				counts.High++
			case entity.SeverityMedium:
				counts.Medium++
			case entity.SeverityLow:
				counts.Low++
			}
		}

		if f.AccountWide() {
			a.accountWide = true
			continue
		}
		a.names[resourceName(*f.ResourceTypeID, catalogue)] = struct{}{}
		a.count++
	}

	rows := make([]entity.RiskRow, 0, len(order))
	for _, id := range order {
		a := acc[id]
		row := a.row
		row.ImpactedResourceNames = make([]string, 0, len(a.names))
		if !a.accountWide {
			for name := range a.names {
				row.ImpactedResourceNames = append(row.ImpactedResourceNames, name)
			}
			sort.Strings(row.ImpactedResourceNames)
			n := a.count
			row.ImpactedResourceCount = &n
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Severity.Rank() > rows[j].Severity.Rank()
	})

	return rows, counts
}

func resourceRows(inventory []entity.ResourceInventoryEntry, catalogue *entity.Catalogue) []entity.ResourceRow {
	rows := make([]entity.ResourceRow, 0, len(inventory))
	for _, entry := range inventory {
		row := entity.ResourceRow{
			ResourceTypeID: entry.ResourceTypeID,
			Code:           "N/A",
			Name:           UnknownResourceName,
			Icon:           DefaultIcon,
			Location:       entry.Location,
			Count:          entry.Count,
		}
		if def, ok := catalogue.ResourceType(entry.ResourceTypeID); ok {
			row.Code = def.Code
			row.Name = displayName(def)
			row.Icon = displayIcon(def)
		}
		rows = append(rows, row)
	}
	return rows
}

func costSeries(costs []entity.CostInventoryEntry) entity.CostSeries {
	sorted := append([]entity.CostInventoryEntry(nil), costs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Month.Before(sorted[j].Month) })
	if len(sorted) > CostWindowMonths {
		sorted = sorted[len(sorted)-CostWindowMonths:]
	}

	series := entity.CostSeries{
		Points:   make([]entity.CostPoint, 0, len(sorted)),
		Currency: DefaultCurrency,
	}
	if len(sorted) > 0 && sorted[0].Currency != "" {
		series.Currency = sorted[0].Currency
	}
	series.CurrencySymbol = CurrencySymbol(series.Currency)

	var total float64
	for _, c := range sorted {
		series.Points = append(series.Points, entity.CostPoint{
			Month:    c.Month,
			Label:    c.Month.Format("Jan"),
			Cost:     c.Cost,
			Currency: c.Currency,
		})
		total += c.Cost
	}
	series.Total = math.Round(total*100) / 100

	return series
}

func alternativeRows(matches entity.AlternativeMatches, catalogue *entity.Catalogue) []entity.AlternativeRow {
	rows := make([]entity.AlternativeRow, 0, len(matches))
	for _, m := range matches {
		row := entity.AlternativeRow{
			ResourceTypeID: m.ResourceTypeID,
			ResourceName:   UnknownResourceName,
			Icon:           DefaultIcon,
			Technologies:   m.Technologies,
		}
		if def, ok := catalogue.ResourceType(m.ResourceTypeID); ok {
			row.ResourceName = displayName(def)
			row.Icon = displayIcon(def)
		}
		rows = append(rows, row)
	}
	return rows
}

func resourceName(resourceTypeID string, catalogue *entity.Catalogue) string {
	if def, ok := catalogue.ResourceType(resourceTypeID); ok {
		return displayName(def)
	}
	return UnknownResourceName
}

func displayName(def entity.ResourceTypeDef) string {
	if strings.TrimSpace(def.Name) == "" {
		return UnknownResourceName
	}
	return def.Name
}

func displayIcon(def entity.ResourceTypeDef) string {
	if strings.TrimSpace(def.Icon) == "" {
		return DefaultIcon
	}
	return def.Icon
}

// Anonymize masks an identifier for display, keeping four characters
// visible at each end. Short values are masked entirely.
func Anonymize(s string) string {
	const visible = 4
	r := []rune(s)
	if len(r) <= visible*2 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:visible]) + strings.Repeat("*", len(r)-visible*2) + string(r[len(r)-visible:])
}
