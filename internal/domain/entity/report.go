package entity

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// SeverityCounts counts distinct risks per severity.
type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Total is the number of distinct risks with at least one finding.
func (s SeverityCounts) Total() int { return s.High + s.Medium + s.Low }

// RiskRow is the display projection of one risk. ImpactedResourceCount is
// nil for account-wide risks.
type RiskRow struct {
	RiskID                string   `json:"id"`
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	Severity              Severity `json:"severity"`
	ImpactedResourceNames []string `json:"impacted_resource_names"`
	ImpactedResourceCount *int     `json:"impacted_resource_count"`
}

// ResourceRow is the display projection of one inventory entry.
type ResourceRow struct {
	ResourceTypeID string `json:"resource_type"`
	Code           string `json:"code"`
	Name           string `json:"resource_name"`
	Icon           string `json:"icon"`
	Location       string `json:"location"`
	Count          int    `json:"count"`
}

// CostPoint is one column of the six-month cost chart.
type CostPoint struct {
	Month    time.Time `json:"month"`
	Label    string    `json:"label"`
	Cost     float64   `json:"cost"`
	Currency string    `json:"currency"`
}

// CostSeries is the chart-ready cost history.
type CostSeries struct {
	Points         []CostPoint `json:"points"`
	Total          float64     `json:"total"`
	Currency       string      `json:"currency"`
	CurrencySymbol string      `json:"currency_symbol"`
}

// AlternativeRow lists the alternatives of one resource type.
type AlternativeRow struct {
	ResourceTypeID string                  `json:"resource_type"`
	ResourceName   string                  `json:"resource_name"`
	Icon           string                  `json:"icon"`
	Technologies   []AlternativeTechnology `json:"technologies"`
}

// ReportSummary holds the headline values of the report.
type ReportSummary struct {
	AssessmentID   string         `json:"assessment_id"`
	Provider       Provider       `json:"provider"`
	ExitStrategy   ExitStrategy   `json:"exit_strategy"`
	AssessmentType AssessmentType `json:"assessment_type"`
	AccountRef     string         `json:"account_ref"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// ReportData is the presentation-ready model consumed by the exporters.
type ReportData struct {
	Summary         ReportSummary    `json:"summary"`
	SeverityCounts  SeverityCounts   `json:"severity_counts"`
	RiskRows        []RiskRow        `json:"risk_rows"`
	ResourceRows    []ResourceRow    `json:"resource_rows"`
	CostSeries      CostSeries       `json:"cost_series"`
	AlternativeRows []AlternativeRow `json:"alternative_rows"`

	Inventory    []ResourceInventoryEntry `json:"resource_inventory"`
	Costs        []CostInventoryEntry     `json:"cost_inventory"`
	Findings     []RiskFinding            `json:"risk_inventory"`
	Alternatives AlternativeMatches       `json:"alternatives"`
}

// ReportDocument is the JSON export of an assessment.
type ReportDocument struct {
	Meta DocumentMeta `json:"meta"`
	Data DocumentData `json:"data"`
}

type DocumentMeta struct {
	AssessmentID         string `json:"assessment_id"`
	CloudServiceProvider int    `json:"cloud_service_provider"`
	ExitStrategy         int    `json:"exit_strategy"`
	AssessmentType       int    `json:"assessment_type"`
	Timestamp            string `json:"timestamp"`
}

type DocumentData struct {
	ResourceInventory       []DocumentResource              `json:"resource_inventory"`
	CostInventory           []DocumentCost                  `json:"cost_inventory"`
	RiskInventory           []DocumentRisk                  `json:"risk_inventory"`
	AlternativeTechnologies map[string][]DocumentTechnology `json:"alternative_technologies"`
}

type DocumentResource struct {
	ID           int    `json:"id"`
	Code         string `json:"code"`
	ResourceName string `json:"resource_name"`
	Location     string `json:"location"`
	Count        int    `json:"count"`
}

type DocumentCost struct {
	Month    string  `json:"month"`
	Cost     float64 `json:"cost"`
	Currency string  `json:"currency"`
}

type DocumentRisk struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Description            string   `json:"description"`
	Severity               Severity `json:"severity"`
	ImpactedResources      []int    `json:"impacted_resources"`
	ImpactedResourcesCount *int     `json:"impacted_resources_count"`
}

type DocumentTechnology struct {
	ID                 int    `json:"id"`
	ProductName        string `json:"product_name"`
	ProductDescription string `json:"product_description"`
	ProductURL         string `json:"product_url"`
	OpenSource         bool   `json:"open_source"`
	SupportPlan        bool   `json:"support_plan"`
}

// Document flattens the report into the JSON export layout. Resources are
// numbered from 1 in inventory order; risks and alternatives reference
// those numbers.
func (r *ReportData) Document() ReportDocument {
	doc := ReportDocument{
		Meta: DocumentMeta{
			AssessmentID:         r.Summary.AssessmentID,
			CloudServiceProvider: int(r.Summary.Provider),
			ExitStrategy:         int(r.Summary.ExitStrategy),
			AssessmentType:       int(r.Summary.AssessmentType),
			Timestamp:            r.Summary.GeneratedAt.UTC().Format("20060102_150405"),
		},
		Data: DocumentData{
			ResourceInventory:       make([]DocumentResource, 0, len(r.ResourceRows)),
			CostInventory:           make([]DocumentCost, 0, len(r.Costs)),
			RiskInventory:           make([]DocumentRisk, 0, len(r.RiskRows)),
			AlternativeTechnologies: make(map[string][]DocumentTechnology, len(r.ResourceRows)),
		},
	}

	rowsByType := make(map[string][]int)
	for i, row := range r.ResourceRows {
		id := i + 1
		rowsByType[row.ResourceTypeID] = append(rowsByType[row.ResourceTypeID], id)
		doc.Data.ResourceInventory = append(doc.Data.ResourceInventory, DocumentResource{
			ID:           id,
			Code:         row.Code,
			ResourceName: row.Name,
			Location:     row.Location,
			Count:        row.Count,
		})

		techs, _ := r.Alternatives.For(row.ResourceTypeID)
		docTechs := make([]DocumentTechnology, 0, len(techs))
		for j, t := range techs {
			docTechs = append(docTechs, DocumentTechnology{
				ID:                 j + 1,
				ProductName:        t.ProductName,
				ProductDescription: t.ProductDescription,
				ProductURL:         t.ProductURL,
				OpenSource:         t.OpenSource,
				SupportPlan:        t.HasSupportPlan,
			})
		}
		doc.Data.AlternativeTechnologies[strconv.Itoa(id)] = docTechs
	}

	for _, c := range r.Costs {
		doc.Data.CostInventory = append(doc.Data.CostInventory, DocumentCost{
			Month:    c.Month.Format("2006-01-02"),
			Cost:     roundCents(c.Cost),
			Currency: c.Currency,
		})
	}

	impacted := make(map[string]map[int]struct{})
	for _, f := range r.Findings {
		if f.AccountWide() {
			continue
		}
		set, ok := impacted[f.RiskID]
		if !ok {
			set = make(map[int]struct{})
			impacted[f.RiskID] = set
		}
		for _, id := range rowsByType[*f.ResourceTypeID] {
			set[id] = struct{}{}
		}
	}

	for _, row := range r.RiskRows {
		ids := make([]int, 0, len(impacted[row.RiskID]))
		for id := range impacted[row.RiskID] {
			ids = append(ids, id)
		}
		sort.Ints(ids)

		var count *int
		if len(ids) > 0 {
			n := len(ids)
			count = &n
		}
		doc.Data.RiskInventory = append(doc.Data.RiskInventory, DocumentRisk{
			ID:                     row.RiskID,
			Name:                   row.Name,
			Description:            row.Description,
			Severity:               row.Severity,
			ImpactedResources:      ids,
			ImpactedResourcesCount: count,
		})
	}

	return doc
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
