package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
)

var generatedAt = time.Date(2026, 2, 17, 10, 30, 0, 0, time.UTC)

func sampleReport() *entity.ReportData {
	vm := "1"
	two := 2
	proxmox := entity.AlternativeTechnology{ID: "7", ProductName: "Proxmox VE", ProductURL: "https://proxmox.com", OpenSource: true, HasSupportPlan: true, Active: true}

	var points []entity.CostPoint
	var costs []entity.CostInventoryEntry
	for i := 0; i < 6; i++ {
		month := time.Date(2025, time.September+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		points = append(points, entity.CostPoint{Month: month, Label: month.Format("Jan"), Cost: 10.5, Currency: "EUR"})
		costs = append(costs, entity.CostInventoryEntry{Month: month, Cost: 10.5, Currency: "EUR"})
	}

	return &entity.ReportData{
		Summary: entity.ReportSummary{
			AssessmentID:   "3f1c2d9e-0000-4000-8000-000000000001",
			Provider:       entity.ProviderAWS,
			ExitStrategy:   entity.StrategyRepatriation,
			AssessmentType: entity.AssessmentBasic,
			AccountRef:     "1234****9012",
			GeneratedAt:    generatedAt,
		},
		SeverityCounts: entity.SeverityCounts{High: 1, Medium: 1},
		RiskRows: []entity.RiskRow{
			{RiskID: "2", Name: "No alternatives", Severity: entity.SeverityHigh, ImpactedResourceNames: []string{"EC2 Instance"}, ImpactedResourceCount: &two},
			{RiskID: "5", Name: "High resource count", Severity: entity.SeverityMedium, Description: "[bold]More than 15[/bold] resources"},
		},
		ResourceRows: []entity.ResourceRow{
			{ResourceTypeID: "1", Code: "AWS.ec2.DescribeInstances.Reservations", Name: "EC2 Instance", Icon: "assets/icons/default.png", Location: "eu-west-1", Count: 12},
			{ResourceTypeID: "1", Code: "AWS.ec2.DescribeInstances.Reservations", Name: "EC2 Instance", Icon: "assets/icons/default.png", Location: "us-east-1", Count: 4},
		},
		CostSeries: entity.CostSeries{Points: points, Total: 63, Currency: "EUR", CurrencySymbol: "€"},
		AlternativeRows: []entity.AlternativeRow{
			{ResourceTypeID: "1", ResourceName: "EC2 Instance", Technologies: []entity.AlternativeTechnology{proxmox}},
		},
		Inventory: []entity.ResourceInventoryEntry{
			{ResourceTypeID: "1", Location: "eu-west-1", Count: 12},
			{ResourceTypeID: "1", Location: "us-east-1", Count: 4},
		},
		Costs: costs,
		Findings: []entity.RiskFinding{
			{ResourceTypeID: &vm, RiskID: "2"},
			{ResourceTypeID: &vm, RiskID: "2"},
			{RiskID: "5"},
		},
		Alternatives: entity.AlternativeMatches{{ResourceTypeID: "1", Technologies: []entity.AlternativeTechnology{proxmox}}},
	}
}

func newTestExporter() *ExportRepositoryImpl {
	return &ExportRepositoryImpl{now: func() time.Time { return generatedAt }}
}

func TestExportToJSON(t *testing.T) {
	dir := t.TempDir()
	path, err := newTestExporter().ExportToJSON(sampleReport(), "assessment", dir)
	require.NoError(t, err)
	assert.Equal(t, "assessment_20260217_103000.json", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc entity.ReportDocument
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, 2, doc.Meta.CloudServiceProvider)
	assert.Equal(t, 1, doc.Meta.ExitStrategy)
	assert.Equal(t, "20260217_103000", doc.Meta.Timestamp)
	require.Len(t, doc.Data.ResourceInventory, 2)
	assert.Len(t, doc.Data.CostInventory, 6)

	require.Len(t, doc.Data.RiskInventory, 2)
	assert.Equal(t, []int{1, 2}, doc.Data.RiskInventory[0].ImpactedResources)
	assert.Nil(t, doc.Data.RiskInventory[1].ImpactedResourcesCount)
	assert.Len(t, doc.Data.AlternativeTechnologies["1"], 1)

	var generic map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Contains(t, generic["data"], "alternative_technologies")
}

func TestExportToCSV(t *testing.T) {
	path, err := newTestExporter().ExportToCSV(sampleReport(), "assessment", t.TempDir())
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Risk ID", "Risk", "Severity", "Description", "Impacted Resources", "Impacted Count"}, records[0])
	assert.Equal(t, []string{"2", "No alternatives", "high", "", "EC2 Instance", "2"}, records[1])
	assert.Equal(t, []string{"5", "High resource count", "medium", "More than 15 resources", "", "account-wide"}, records[2])
	assert.Contains(t, records, []string{"1", "EC2 Instance", "AWS.ec2.DescribeInstances.Reservations", "us-east-1", "4"})
	assert.Contains(t, records, []string{"2025-09", "10.50", "EUR"})
}

func TestExportToPDF(t *testing.T) {
	path, err := newTestExporter().ExportToPDF(sampleReport(), "assessment", t.TempDir())
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(raw) > 4 && string(raw[:4]) == "%PDF")
}

func TestExportToHTML(t *testing.T) {
	path, err := newTestExporter().ExportToHTML(sampleReport(), "assessment", t.TempDir())
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(raw)

	assert.Contains(t, html, "Cloud Exit Assessment: Amazon Web Services")
	assert.Contains(t, html, "1234****9012")
	assert.Contains(t, html, "Proxmox VE")
	assert.Contains(t, html, "€63.00")
	assert.NotContains(t, html, "[bold]")
}

func TestExportRawData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw_data")
	path, err := newTestExporter().ExportRawData([]map[string]int{{"count": 3}}, "resource_inventory_raw_data", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "resource_inventory_raw_data.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"count": 3}]`, string(raw))
}

func TestCleanRichTags(t *testing.T) {
	assert.Equal(t, "plain text", cleanRichTags("[red]plain[/red] \x1b[1mtext\x1b[0m"))
}
