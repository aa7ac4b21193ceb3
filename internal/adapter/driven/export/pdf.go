package export

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
)

var (
	headerColor       = [3]int{40, 40, 40}
	headerTextColor   = [3]int{255, 255, 255}
	sectionTitleColor = [3]int{0, 0, 0}
	bodyTextColor     = [3]int{50, 50, 50}
	lineColor         = [3]int{200, 200, 200}

	severityColors = map[entity.Severity][3]int{
		entity.SeverityHigh:   {192, 0, 0},
		entity.SeverityMedium: {214, 137, 16},
		entity.SeverityLow:    {0, 128, 0},
	}
)

type pdfWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (w *pdfWriter) sectionTitle(title string) {
	w.pdf.SetFont("Arial", "B", 12)
	w.pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
	w.pdf.Cell(0, 8, w.tr(title))
	w.pdf.Ln(7)

	w.pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	w.pdf.Line(w.pdf.GetX(), w.pdf.GetY(), w.pdf.GetX()+190, w.pdf.GetY())
	w.pdf.Ln(4)
}

// table draws a header row and body rows with fixed column widths.
func (w *pdfWriter) table(widths []float64, header []string, rows [][]string) {
	w.pdf.SetFont("Arial", "B", 9)
	w.pdf.SetFillColor(240, 240, 240)
	w.pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	for i, h := range header {
		w.pdf.CellFormat(widths[i], 7, w.tr(h), "B", 0, "L", true, 0, "")
	}
	w.pdf.Ln(-1)

	w.pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		for i, cell := range row {
			w.pdf.CellFormat(widths[i], 6, w.tr(truncate(cell, widths[i])), "", 0, "L", false, 0, "")
		}
		w.pdf.Ln(-1)
	}
	w.pdf.Ln(6)
}

// truncate keeps a cell within its column at roughly 2mm per character.
func truncate(s string, width float64) string {
	limit := int(width / 2)
	if limit < 4 || len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}

// ExportToPDF writes a one-document summary: headline values, risks,
// resources, cost history and alternatives.
func (r *ExportRepositoryImpl) ExportToPDF(report *entity.ReportData, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Cloud Exit Assessment | %s", report.Summary.GeneratedAt.Format("2006-01-02"))
		pdf.CellFormat(0, 10, w.tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, w.tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	s := report.Summary
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, w.tr(fmt.Sprintf("  Cloud Exit Assessment: %s", s.Provider)), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	for _, line := range []string{
		fmt.Sprintf("  Assessment ID: %s", s.AssessmentID),
		fmt.Sprintf("  Account: %s", s.AccountRef),
		fmt.Sprintf("  Exit strategy: %s | Assessment: %s", s.ExitStrategy, s.AssessmentType),
	} {
		pdf.CellFormat(0, 7, w.tr(line), "", 1, "L", true, 0, "")
	}
	pdf.Ln(8)

	w.sectionTitle("Risk Summary")
	counts := report.SeverityCounts
	for _, sc := range []struct {
		severity entity.Severity
		label    string
		value    int
	}{
		{entity.SeverityHigh, "High", counts.High},
		{entity.SeverityMedium, "Medium", counts.Medium},
		{entity.SeverityLow, "Low", counts.Low},
	} {
		c := severityColors[sc.severity]
		pdf.SetTextColor(c[0], c[1], c[2])
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(63, 10, w.tr(fmt.Sprintf("%s: %d", sc.label, sc.value)), "", 0, "L", false, 0, "")
	}
	pdf.Ln(16)

	w.sectionTitle("Risks")
	riskRows := make([][]string, 0, len(report.RiskRows))
	for _, row := range report.RiskRows {
		riskRows = append(riskRows, []string{row.Name, string(row.Severity), impactedLabel(row)})
	}
	w.table([]float64{70, 25, 95}, []string{"Risk", "Severity", "Impacted resources"}, riskRows)

	w.sectionTitle("Resource Inventory")
	resourceRows := make([][]string, 0, len(report.ResourceRows))
	for _, row := range report.ResourceRows {
		resourceRows = append(resourceRows, []string{row.Name, row.Location, strconv.Itoa(row.Count)})
	}
	w.table([]float64{110, 55, 25}, []string{"Resource", "Location", "Count"}, resourceRows)

	w.sectionTitle("Cost History")
	series := report.CostSeries
	costRows := make([][]string, 0, len(series.Points)+1)
	for _, p := range series.Points {
		costRows = append(costRows, []string{p.Label + " " + p.Month.Format("2006"), formatMoney(series.CurrencySymbol, p.Cost)})
	}
	costRows = append(costRows, []string{"Total", formatMoney(series.CurrencySymbol, series.Total)})
	w.table([]float64{95, 95}, []string{"Month", "Cost"}, costRows)

	w.sectionTitle("Alternative Technologies")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	for _, row := range report.AlternativeRows {
		names := make([]string, 0, len(row.Technologies))
		for _, tech := range row.Technologies {
			names = append(names, tech.ProductName)
		}
		content := "No alternatives found"
		if len(names) > 0 {
			content = strings.Join(names, ", ")
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.MultiCell(190, 5, w.tr(row.ResourceName), "", "L", false)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 5, w.tr(cleanRichTags(content)), "", "L", false)
		pdf.Ln(3)
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}
