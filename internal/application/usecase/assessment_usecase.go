package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diillson/cloud-exit-assessment/internal/application/engine"
	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/domain/repository"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
	"github.com/diillson/cloud-exit-assessment/pkg/console"
)

const (
	DefaultReportName = "cloudexit_assessment"
	rawDataDir        = "raw_data"
	timestampLayout   = "20060102_150405"
	datasetFile       = "data.db"
)

// DefaultReportTypes is used when neither the flags nor the profile name
// any report type.
var DefaultReportTypes = []string{"json", "pdf"}

// AssessmentRequest is a validated profile plus the run options.
type AssessmentRequest struct {
	Config            types.Config
	CatalogueSource   string
	DatasetDir        string
	SkipDatasetUpdate bool
	ReportName        string
	ReportTypes       []string
	Dir               string
	Anonymize         bool
}

// AssessmentResult points at what a run produced.
type AssessmentResult struct {
	Report    *entity.ReportData
	OutputDir string
	Files     []string
}

// AssessmentUseCase runs the assessment pipeline for one account.
type AssessmentUseCase struct {
	clouds        map[entity.Provider]repository.CloudRepository
	catalogueRepo repository.CatalogueRepository
	datasetRepo   repository.DatasetRepository
	exportRepo    repository.ExportRepository
	configRepo    repository.ConfigRepository
	console       types.ConsoleInterface

	now   func() time.Time
	newID func() string
}

// NewAssessmentUseCase creates a new assessment use case. Each cloud
// repository serves the provider it reports.
func NewAssessmentUseCase(
	catalogueRepo repository.CatalogueRepository,
	datasetRepo repository.DatasetRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
	clouds ...repository.CloudRepository,
) *AssessmentUseCase {
	byProvider := make(map[entity.Provider]repository.CloudRepository, len(clouds))
	for _, c := range clouds {
		byProvider[c.Provider()] = c
	}

	return &AssessmentUseCase{
		clouds:        byProvider,
		catalogueRepo: catalogueRepo,
		datasetRepo:   datasetRepo,
		exportRepo:    exportRepo,
		configRepo:    configRepo,
		console:       console,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         func() string { return uuid.NewString() },
	}
}

// BuildRequest loads the profile file named by args and lets non-zero flags
// override it. The merged profile is validated. Report types and the output
// directory fall back to DefaultReportTypes and the working directory.
func (uc *AssessmentUseCase) BuildRequest(args *types.CLIArgs) (AssessmentRequest, error) {
	var cfg types.Config
	if args.ConfigFile != "" {
		loaded, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return AssessmentRequest{}, fmt.Errorf("%w: %w", types.ErrInvalidConfig, err)
		}
		cfg = *loaded
	}

	if args.Provider != 0 {
		cfg.CloudServiceProvider = args.Provider
	}
	if args.ExitStrategy != 0 {
		cfg.ExitStrategy = args.ExitStrategy
	}
	if args.AssessmentType != 0 {
		cfg.AssessmentType = args.AssessmentType
	}
	if len(args.ReportType) > 0 {
		cfg.ReportType = args.ReportType
	}
	if args.Dir != "" {
		cfg.Dir = args.Dir
	}

	if err := cfg.Validate(); err != nil {
		return AssessmentRequest{}, err
	}

	if len(cfg.ReportType) == 0 {
		cfg.ReportType = append([]string(nil), DefaultReportTypes...)
	}
	dir, err := reportDir(cfg.Dir)
	if err != nil {
		return AssessmentRequest{}, err
	}
	cfg.Dir = dir

	reportName := args.ReportName
	if reportName == "" {
		reportName = DefaultReportName
	}

	return AssessmentRequest{
		Config:            cfg,
		CatalogueSource:   args.Catalogue,
		DatasetDir:        args.DatasetDir,
		SkipDatasetUpdate: args.SkipDatasetUpdate,
		ReportName:        reportName,
		ReportTypes:       cfg.ReportType,
		Dir:               cfg.Dir,
		Anonymize:         args.Anonymize,
	}, nil
}

func reportDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving report directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving report directory: %w", err)
	}
	return abs, nil
}

// Run executes authorization, catalogue loading, the six engine stages and
// the exports, then prints a summary.
func (uc *AssessmentUseCase) Run(ctx context.Context, req AssessmentRequest) (*AssessmentResult, error) {
	cfg := req.Config
	provider := entity.Provider(cfg.CloudServiceProvider)
	strategy := entity.ExitStrategy(cfg.ExitStrategy)
	details := cfg.ProviderDetails

	cloud, ok := uc.clouds[provider]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter for provider %d", types.ErrInvalidConfig, cfg.CloudServiceProvider)
	}

	logger := zerolog.Ctx(ctx).With().Str("provider", provider.String()).Logger()
	ctx = logger.WithContext(ctx)
	now := uc.now()

	status := uc.console.Status("Checking credentials...")
	auth, err := cloud.CheckAuthorization(ctx, details)
	status.Stop()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrAuthorization, err)
	}
	if !auth.Authorized {
		return nil, fmt.Errorf("%w: %s", types.ErrAuthorization, auth.Reason)
	}
	uc.console.LogSuccess("Credentials accepted for %s", provider)

	catalogue, err := uc.loadCatalogue(ctx, req)
	if err != nil {
		return nil, err
	}

	status = uc.console.Status("Fetching resources...")
	rawResources, err := cloud.FetchResources(ctx, details, catalogue.ActiveCodes(provider))
	status.Stop()
	if err != nil {
		return nil, fmt.Errorf("fetching resources: %w", err)
	}
	inventory := engine.NormalizeResources(ctx, provider, rawResources, catalogue)

	status = uc.console.Status("Fetching costs...")
	start, end := engine.CostQueryPeriod(now)
	rawCosts, err := cloud.FetchCosts(ctx, details, start, end)
	status.Stop()
	if err != nil {
		return nil, fmt.Errorf("fetching costs: %w", err)
	}
	costs, err := engine.NormalizeCosts(ctx, rawCosts, now)
	if err != nil {
		return nil, err
	}

	status = uc.console.Status("Assessing risks...")
	findings, err := engine.AssessRisks(inventory, strategy, catalogue)
	if err != nil {
		status.Stop()
		return nil, err
	}
	alternatives := engine.MatchAlternatives(ctx, inventory, strategy, catalogue)
	status.Stop()

	accountRef := auth.AccountID
	if accountRef == "" {
		accountRef = details.SubscriptionID
	}
	if req.Anonymize {
		accountRef = engine.Anonymize(accountRef)
	}

	report := engine.AssembleReport(ctx, engine.ReportInput{
		AssessmentID:   uc.newID(),
		Provider:       provider,
		ExitStrategy:   strategy,
		AssessmentType: entity.AssessmentType(cfg.AssessmentType),
		AccountRef:     accountRef,
		GeneratedAt:    now,
		Inventory:      inventory,
		Costs:          costs,
		Findings:       findings,
		Alternatives:   alternatives,
	}, catalogue)

	result := &AssessmentResult{
		Report:    report,
		OutputDir: filepath.Join(req.Dir, now.Format(timestampLayout)),
	}

	status = uc.console.Status("Writing reports...")
	result.Files, err = uc.export(report, req, result.OutputDir, rawResources, rawCosts)
	status.Stop()
	if err != nil {
		return nil, err
	}

	uc.displaySummary(report)
	for _, f := range result.Files {
		uc.console.LogSuccess("Saved %s", f)
	}

	return result, nil
}

// loadCatalogue reads an explicit catalogue source, or the local dataset,
// refreshed unless updates are skipped.
func (uc *AssessmentUseCase) loadCatalogue(ctx context.Context, req AssessmentRequest) (*entity.Catalogue, error) {
	source := req.CatalogueSource
	if source == "" {
		source = filepath.Join(req.DatasetDir, datasetFile)
		if !req.SkipDatasetUpdate {
			status := uc.console.Status("Updating reference dataset...")
			path, err := uc.datasetRepo.EnsureDataset(ctx, req.DatasetDir)
			status.Stop()
			if err != nil {
				return nil, err
			}
			source = path
		}
	}

	status := uc.console.Status("Loading reference catalogue...")
	defer status.Stop()

	catalogue, err := uc.catalogueRepo.LoadCatalogue(ctx, source)
	if err != nil {
		if !errors.Is(err, types.ErrCatalogueUnavailable) {
			err = fmt.Errorf("%w: %w", types.ErrCatalogueUnavailable, err)
		}
		return nil, err
	}
	return catalogue, nil
}

// export writes every requested report type and the raw fetcher payloads.
// An unknown report type is skipped with a warning.
func (uc *AssessmentUseCase) export(report *entity.ReportData, req AssessmentRequest, outputDir string, rawResources []entity.RawResourceRecord, rawCosts []entity.RawCostRecord) ([]string, error) {
	var files []string

	for _, reportType := range req.ReportTypes {
		var path string
		var err error

		switch strings.ToLower(strings.TrimSpace(reportType)) {
		case "json":
			path, err = uc.exportRepo.ExportToJSON(report, req.ReportName, outputDir)
		case "csv":
			path, err = uc.exportRepo.ExportToCSV(report, req.ReportName, outputDir)
		case "pdf":
			path, err = uc.exportRepo.ExportToPDF(report, req.ReportName, outputDir)
		case "html":
			path, err = uc.exportRepo.ExportToHTML(report, req.ReportName, outputDir)
		default:
			uc.console.LogWarning("Unsupported report type %q skipped", reportType)
			continue
		}
		if err != nil {
			return files, fmt.Errorf("exporting %s report: %w", reportType, err)
		}
		files = append(files, path)
	}

	rawDir := filepath.Join(outputDir, rawDataDir)
	for _, raw := range []struct {
		name string
		data any
	}{
		{"resource_inventory_raw_data", rawResources},
		{"cost_inventory_raw_data", rawCosts},
	} {
		path, err := uc.exportRepo.ExportRawData(raw.data, raw.name, rawDir)
		if err != nil {
			return files, fmt.Errorf("exporting %s: %w", raw.name, err)
		}
		files = append(files, path)
	}

	return files, nil
}

// displaySummary prints severity counts, the risk table and the cost trend.
func (uc *AssessmentUseCase) displaySummary(report *entity.ReportData) {
	counts := report.SeverityCounts
	uc.console.Println()
	uc.console.Println(fmt.Sprintf("%s  High: %s  Medium: %s  Low: %s",
		console.BrightCyan(report.Summary.ExitStrategy.String()),
		console.BoldRed(counts.High),
		console.BrightYellow(counts.Medium),
		console.BrightGreen(counts.Low)))

	if len(report.RiskRows) > 0 {
		table := uc.console.CreateTable()
		table.AddColumn("Risk")
		table.AddColumn("Severity")
		table.AddColumn("Impacted Resources")
		for _, row := range report.RiskRows {
			impacted := "Account-wide"
			if row.ImpactedResourceCount != nil {
				impacted = fmt.Sprintf("%d: %s", *row.ImpactedResourceCount, strings.Join(row.ImpactedResourceNames, ", "))
			}
			table.AddRow(row.Name, console.Severity(string(row.Severity)), impacted)
		}
		uc.console.Println(table.Render())
	} else {
		uc.console.LogSuccess("No risks found")
	}

	series := report.CostSeries
	monthly := make([]types.MonthlyCost, 0, len(series.Points))
	for _, p := range series.Points {
		monthly = append(monthly, types.MonthlyCost{Month: p.Label + " " + p.Month.Format("2006"), Cost: p.Cost})
	}
	title := fmt.Sprintf("%s Cost Trend (total %s%.2f)", report.Summary.Provider, series.CurrencySymbol, series.Total)
	uc.console.DisplayTrendBars(title, series.CurrencySymbol, monthly)
}
