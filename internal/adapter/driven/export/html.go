package export

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money":    formatMoney,
	"impacted": impactedLabel,
	"clean":    cleanRichTags,
	"year":     func(p entity.CostPoint) string { return p.Month.Format("2006") },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Cloud Exit Assessment - {{.Summary.Provider}}</title>
<style>
body { font-family: Arial, sans-serif; color: #323232; margin: 2em; }
header { background: #282828; color: #fff; padding: 1em; }
table { border-collapse: collapse; width: 100%; margin-bottom: 2em; }
th, td { text-align: left; padding: 4px 8px; border-bottom: 1px solid #c8c8c8; }
th { background: #f0f0f0; }
.high { color: #c00000; } .medium { color: #d68910; } .low { color: #008000; }
.counts span { font-size: 1.4em; font-weight: bold; margin-right: 2em; }
</style>
</head>
<body>
<header>
<h1>Cloud Exit Assessment: {{.Summary.Provider}}</h1>
<p>Assessment {{.Summary.AssessmentID}} | Account {{.Summary.AccountRef}} | {{.Summary.ExitStrategy}} | {{.Summary.AssessmentType}}</p>
<p>Generated {{.Summary.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>
</header>

<h2>Risk Summary</h2>
<p class="counts"><span class="high">High: {{.SeverityCounts.High}}</span><span class="medium">Medium: {{.SeverityCounts.Medium}}</span><span class="low">Low: {{.SeverityCounts.Low}}</span></p>

<h2>Risks</h2>
<table>
<tr><th>Risk</th><th>Severity</th><th>Description</th><th>Impacted resources</th></tr>
{{range .RiskRows}}<tr><td>{{.Name}}</td><td class="{{.Severity}}">{{.Severity}}</td><td>{{clean .Description}}</td><td>{{impacted .}}</td></tr>
{{end}}</table>

<h2>Resource Inventory</h2>
<table>
<tr><th></th><th>Resource</th><th>Code</th><th>Location</th><th>Count</th></tr>
{{range .ResourceRows}}<tr><td><img src="{{.Icon}}" alt="" width="24" height="24"></td><td>{{.Name}}</td><td>{{.Code}}</td><td>{{.Location}}</td><td>{{.Count}}</td></tr>
{{end}}</table>

<h2>Cost History</h2>
<table>
<tr><th>Month</th><th>Cost</th></tr>
{{$symbol := .CostSeries.CurrencySymbol}}{{range .CostSeries.Points}}<tr><td>{{.Label}} {{year .}}</td><td>{{money $symbol .Cost}}</td></tr>
{{end}}<tr><th>Total</th><th>{{money .CostSeries.CurrencySymbol .CostSeries.Total}}</th></tr>
</table>

<h2>Alternative Technologies</h2>
{{range .AlternativeRows}}<h3>{{.ResourceName}}</h3>
{{if .Technologies}}<table>
<tr><th>Product</th><th>Description</th><th>Open source</th><th>Support plan</th></tr>
{{range .Technologies}}<tr><td>{{if .ProductURL}}<a href="{{.ProductURL}}">{{.ProductName}}</a>{{else}}{{.ProductName}}{{end}}</td><td>{{clean .ProductDescription}}</td><td>{{if .OpenSource}}yes{{else}}no{{end}}</td><td>{{if .HasSupportPlan}}yes{{else}}no{{end}}</td></tr>
{{end}}</table>
{{else}}<p>No alternatives found.</p>
{{end}}{{end}}
</body>
</html>
`))

// ExportToHTML renders the report as a standalone HTML page.
func (r *ExportRepositoryImpl) ExportToHTML(report *entity.ReportData, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "html")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating HTML file: %w", err)
	}
	defer file.Close()

	if err := reportTemplate.Execute(file, report); err != nil {
		return "", fmt.Errorf("error rendering HTML report: %w", err)
	}

	return filepath.Abs(outputFilename)
}
