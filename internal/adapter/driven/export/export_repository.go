package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/domain/repository"
)

// ExportRepositoryImpl implements repository.ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository creates an ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

// ExportToJSON writes the report document: meta block plus the numbered
// inventories keyed the way downstream tooling reads them.
func (r *ExportRepositoryImpl) ExportToJSON(report *entity.ReportData, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}
	if err := writeJSON(outputFilename, report.Document()); err != nil {
		return "", err
	}
	return filepath.Abs(outputFilename)
}

// ExportToCSV writes the risk rows followed by the resource inventory.
func (r *ExportRepositoryImpl) ExportToCSV(report *entity.ReportData, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	records := [][]string{{"Risk ID", "Risk", "Severity", "Description", "Impacted Resources", "Impacted Count"}}
	for _, row := range report.RiskRows {
		count := "account-wide"
		if row.ImpactedResourceCount != nil {
			count = strconv.Itoa(*row.ImpactedResourceCount)
		}
		records = append(records, []string{
			row.RiskID,
			row.Name,
			string(row.Severity),
			cleanRichTags(row.Description),
			strings.Join(row.ImpactedResourceNames, "; "),
			count,
		})
	}

	records = append(records, nil, []string{"Resource Type", "Resource", "Code", "Location", "Count"})
	for _, row := range report.ResourceRows {
		records = append(records, []string{
			row.ResourceTypeID,
			row.Name,
			row.Code,
			row.Location,
			strconv.Itoa(row.Count),
		})
	}

	records = append(records, nil, []string{"Month", "Cost", "Currency"})
	for _, p := range report.CostSeries.Points {
		records = append(records, []string{
			p.Month.Format("2006-01"),
			strconv.FormatFloat(p.Cost, 'f', 2, 64),
			p.Currency,
		})
	}

	for _, rec := range records {
		if rec == nil {
			rec = []string{}
		}
		if err := writer.Write(rec); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportRawData writes a provider payload verbatim under its exact name.
func (r *ExportRepositoryImpl) ExportRawData(data any, filename, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", outputDir, err)
	}
	outputFilename := filepath.Join(outputDir, filename)
	if filepath.Ext(outputFilename) == "" {
		outputFilename += ".json"
	}
	if err := writeJSON(outputFilename, data); err != nil {
		return "", err
	}
	return filepath.Abs(outputFilename)
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("error encoding JSON data: %w", err)
	}
	return nil
}

// generateFilename builds a timestamped file name and makes sure the
// directory exists.
func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

// Console markup and ANSI sequences that may leak into catalogue text.
var richTagRegex = regexp.MustCompile(`\[/?([a-zA-Z]+|#[0-9a-fA-F]{6})\]`)
var ansiRegex = regexp.MustCompile(`\x1B\[[0-9;]*[A-Za-z]`)

func cleanRichTags(text string) string {
	text = richTagRegex.ReplaceAllString(text, "")
	text = ansiRegex.ReplaceAllString(text, "")
	return text
}

func impactedLabel(row entity.RiskRow) string {
	if row.ImpactedResourceCount == nil {
		return "Account-wide"
	}
	return fmt.Sprintf("%d: %s", *row.ImpactedResourceCount, strings.Join(row.ImpactedResourceNames, ", "))
}

func formatMoney(symbol string, v float64) string {
	return fmt.Sprintf("%s%.2f", symbol, v)
}
