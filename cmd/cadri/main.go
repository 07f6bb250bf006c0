package main

import (
	"fmt"
	"os"

	"github.com/diillson/aws-anomaly-rca-go/internal/adapter/driven/aws"
	"github.com/diillson/aws-anomaly-rca-go/internal/adapter/driven/config"
	"github.com/diillson/aws-anomaly-rca-go/internal/adapter/driven/export"
	"github.com/diillson/aws-anomaly-rca-go/internal/adapter/driving/cli"
	"github.com/diillson/aws-anomaly-rca-go/internal/application/usecase"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
	"github.com/diillson/aws-anomaly-rca-go/pkg/console"
	"github.com/diillson/aws-anomaly-rca-go/pkg/logger"
	"github.com/diillson/aws-anomaly-rca-go/pkg/version"
)

// newServices liga os repositórios AWS aos casos de uso.
func newServices(cfg *types.Config, log *logger.Logger) (*cli.Services, error) {
	clients := aws.NewClients(cfg.AWS)

	queryRepo := aws.NewAthenaRepository(clients)
	eventRepo := aws.NewEventBridgeRepository(clients)
	emailRepo := aws.NewSESRepository(clients)
	topicRepo := aws.NewSNSRepository(clients)
	identityRepo := aws.NewIdentityRepository(clients)
	anomalyRepo := aws.NewCostExplorerRepository(clients)

	coordinator := usecase.NewQueryCoordinator(queryRepo, cfg.Athena, log)
	enhance := usecase.NewEnhanceUseCase(coordinator, eventRepo, cfg.Athena, cfg.EventBridge, log)

	return &cli.Services{
		Enhance:   enhance,
		Notify:    usecase.NewNotifyUseCase(emailRepo, topicRepo, cfg.Notification, log),
		Preflight: usecase.NewPreflightUseCase(identityRepo, emailRepo, cfg),
		Replay:    usecase.NewReplayUseCase(anomalyRepo, enhance, log),
	}, nil
}

func main() {
	app := cli.NewCLIApp(
		version.Version,
		config.NewConfigRepository(),
		export.NewExportRepository(),
		console.NewConsole(),
		newServices,
	)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
