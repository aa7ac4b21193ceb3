package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/diillson/cloud-exit-assessment/internal/application/usecase"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
	"github.com/diillson/cloud-exit-assessment/pkg/version"
)

const cmdName = "cloudexit"

// UseCaseFactory builds the assessment use case once the arguments are
// known.
type UseCaseFactory func(args *types.CLIArgs) *usecase.AssessmentUseCase

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	viper      *viper.Viper
	newUseCase UseCaseFactory
	version    string
}

// NewCLIApp creates a new CLI application.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
		viper:   viper.New(),
	}

	rootCmd := &cobra.Command{
		Use:   cmdName,
		Short: "Cloud exit assessment CLI",
		Long: `Assess how hard it is to leave an AWS or Azure account: inventory the
provisioned resources, collect six months of spend, score exit risks and
suggest alternative technologies for the chosen exit strategy.`,
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initViperConfig(cmdName, app.viper)
		},
		RunE: app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "Cloud Exit Assessment version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON assessment profile")
	flags.IntP("provider", "p", 0, "Cloud service provider: 1 (Azure) or 2 (AWS); overrides the profile")
	flags.IntP("exit-strategy", "s", 0, "Exit strategy: 1 (Repatriation) or 3 (Alternate Cloud); overrides the profile")
	flags.IntP("assessment-type", "t", 0, "Assessment type: 1 (Basic); overrides the profile")
	flags.String("catalogue", "", "Read the reference catalogue from this SQLite, JSON, YAML or TOML file")
	flags.String("dataset-dir", "", "Directory of the local reference dataset (default: user cache dir)")
	flags.String("dataset-url", "", "Base URL the reference dataset is published under")
	flags.Bool("skip-dataset-update", false, "Use the local dataset without checking for a newer one")
	flags.StringP("report-name", "n", usecase.DefaultReportName, "Base name for the report files (without extension)")
	flags.StringSliceP("report-type", "y", nil, "Report types: json, csv, pdf, html (default: profile, else json,pdf)")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: profile, else current directory)")
	flags.Bool("anonymize", true, "Mask the account identifier in reports")
	flags.CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")

	if err := app.viper.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("binding flags: %v", err))
	}

	app.rootCmd = rootCmd
	return app
}

// ExecuteContext runs the CLI application. Cancelling ctx aborts the
// running assessment.
func (app *CLIApp) ExecuteContext(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// SetUseCaseFactory sets how the CLI builds its assessment use case.
func (app *CLIApp) SetUseCaseFactory(factory UseCaseFactory) {
	app.newUseCase = factory
}

// parseArgs reads flags, environment and defaults into a CLIArgs struct.
// Report types and the output directory stay empty unless given, so the
// profile values can apply.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	vip := app.viper

	var dir string
	if vip.IsSet("dir") && vip.GetString("dir") != "" {
		abs, err := filepath.Abs(vip.GetString("dir"))
		if err != nil {
			return nil, fmt.Errorf("resolving report directory: %w", err)
		}
		dir = abs
	}

	var reportType []string
	if vip.IsSet("report-type") {
		reportType = vip.GetStringSlice("report-type")
	}

	datasetDir := vip.GetString("dataset-dir")
	if datasetDir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolving dataset directory: %w", err)
		}
		datasetDir = filepath.Join(cacheDir, cmdName)
	}

	return &types.CLIArgs{
		ConfigFile:        vip.GetString("config-file"),
		Provider:          vip.GetInt("provider"),
		ExitStrategy:      vip.GetInt("exit-strategy"),
		AssessmentType:    vip.GetInt("assessment-type"),
		Catalogue:         vip.GetString("catalogue"),
		DatasetDir:        datasetDir,
		DatasetURL:        vip.GetString("dataset-url"),
		SkipDatasetUpdate: vip.GetBool("skip-dataset-update"),
		ReportName:        vip.GetString("report-name"),
		ReportType:        reportType,
		Dir:               dir,
		Anonymize:         vip.GetBool("anonymize"),
		Verbosity:         vip.GetInt("verbose"),
	}, nil
}

// runCommand is the main entry point of the CLI command.
func (app *CLIApp) runCommand(cmd *cobra.Command, _ []string) error {
	displayWelcomeBanner(app.version)

	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	logger := newLogger(cliArgs.Verbosity)
	ctx := logger.WithContext(cmd.Context())

	go version.CheckLatestVersion(ctx, app.version)

	if app.newUseCase == nil {
		return fmt.Errorf("no assessment use case configured")
	}
	uc := app.newUseCase(cliArgs)

	req, err := uc.BuildRequest(cliArgs)
	if err != nil {
		return err
	}

	logger.Debug().
		Int("provider", req.Config.CloudServiceProvider).
		Int("exit_strategy", req.Config.ExitStrategy).
		Str("dir", req.Dir).
		Msg("Starting assessment")

	_, err = uc.Run(ctx, req)
	return err
}
