package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/diillson/cloud-exit-assessment/internal/adapter/driven/aws"
	"github.com/diillson/cloud-exit-assessment/internal/adapter/driven/azure"
	"github.com/diillson/cloud-exit-assessment/internal/adapter/driven/catalogue"
	"github.com/diillson/cloud-exit-assessment/internal/adapter/driven/config"
	"github.com/diillson/cloud-exit-assessment/internal/adapter/driven/dataset"
	"github.com/diillson/cloud-exit-assessment/internal/adapter/driven/export"
	"github.com/diillson/cloud-exit-assessment/internal/adapter/driving/cli"
	"github.com/diillson/cloud-exit-assessment/internal/application/usecase"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
	"github.com/diillson/cloud-exit-assessment/pkg/console"
	"github.com/diillson/cloud-exit-assessment/pkg/version"
)

func main() {
	app := cli.NewCLIApp(version.Version)

	app.SetUseCaseFactory(func(args *types.CLIArgs) *usecase.AssessmentUseCase {
		return usecase.NewAssessmentUseCase(
			catalogue.NewCatalogueRepository(),
			dataset.NewRepository(args.DatasetURL),
			export.NewExportRepository(),
			config.NewConfigRepository(),
			console.NewConsole(),
			aws.NewRepository(),
			azure.NewRepository(),
		)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
