package repository

import (
	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
)

// ExportRepository writes an assessment report to files. Each method
// returns the absolute path of the file it created.
type ExportRepository interface {
	ExportToJSON(report *entity.ReportData, filename string, outputDir string) (string, error)
	ExportToCSV(report *entity.ReportData, filename string, outputDir string) (string, error)
	ExportToPDF(report *entity.ReportData, filename string, outputDir string) (string, error)
	ExportToHTML(report *entity.ReportData, filename string, outputDir string) (string, error)

	// Raw fetcher payloads, kept for auditing.
	ExportRawData(data any, filename string, outputDir string) (string, error)
}
