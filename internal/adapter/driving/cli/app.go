package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"github.com/diillson/aws-anomaly-rca-go/internal/adapter/driving/handler"
	"github.com/diillson/aws-anomaly-rca-go/internal/application/usecase"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
	"github.com/diillson/aws-anomaly-rca-go/pkg/logger"
	"github.com/diillson/aws-anomaly-rca-go/pkg/version"
)

// Services são os casos de uso montados a partir da configuração carregada.
type Services struct {
	Enhance   *usecase.EnhanceUseCase
	Notify    *usecase.NotifyUseCase
	Preflight *usecase.PreflightUseCase
	Replay    *usecase.ReplayUseCase
}

// ServiceFactory monta os casos de uso para uma configuração.
type ServiceFactory func(cfg *types.Config, log *logger.Logger) (*Services, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd     *cobra.Command
	configRepo  repository.ConfigRepository
	exportRepo  repository.ExportRepository
	console     types.ConsoleInterface
	factory     ServiceFactory
	version     string
	startLambda func(interface{})
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(
	versionStr string,
	configRepo repository.ConfigRepository,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
	factory ServiceFactory,
) *CLIApp {
	app := &CLIApp{
		version:     versionStr,
		configRepo:  configRepo,
		exportRepo:  exportRepo,
		console:     console,
		factory:     factory,
		startLambda: lambda.Start,
	}

	rootCmd := &cobra.Command{
		Use:           "cadri",
		Short:         "Cost anomaly root-cause analysis for AWS",
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "AWS Anomaly RCA version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides configuration)")

	rootCmd.AddCommand(
		app.enhanceCommand(),
		app.notifyCommand(),
		app.replayCommand(),
		app.lambdaCommand(),
		app.checkCommand(),
		app.versionCommand(),
	)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// SetArgs substitui os argumentos da linha de comando.
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

func (app *CLIApp) enhanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enhance",
		Short: "Find the resources behind an anomaly alert and publish the enriched report",
		RunE:  app.runEnhance,
	}
	cmd.Flags().StringP("event", "e", "", "File with an SNS event or a raw anomaly alert (required)")
	cmd.Flags().Bool("dry-run", false, "Build the reports without publishing them")
	cmd.Flags().StringP("report-name", "n", "", "Base name for exported report files (without extension)")
	cmd.Flags().StringSliceP("report-type", "y", []string{"csv"}, "Report types to export: csv, json, pdf")
	cmd.Flags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

func (app *CLIApp) notifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Dispatch an enriched report to the configured recipients",
		RunE:  app.runNotify,
	}
	cmd.Flags().StringP("event", "e", "", "File with an EventBridge event or a raw enriched report (required)")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

func (app *CLIApp) replayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Run recently detected anomalies from Cost Explorer through the enhance pipeline",
		Args:  cobra.NoArgs,
		RunE:  app.runReplay,
	}
	cmd.Flags().Int("days", 7, "Look back this many days for detected anomalies")
	cmd.Flags().String("monitor-arn", "", "Only replay anomalies of this monitor")
	cmd.Flags().Bool("dry-run", false, "Build the reports without publishing them")
	cmd.Flags().StringP("report-name", "n", "", "Base name for exported report files (without extension)")
	cmd.Flags().StringSliceP("report-type", "y", []string{"csv"}, "Report types to export: csv, json, pdf")
	cmd.Flags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	return cmd
}

func (app *CLIApp) lambdaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run as an AWS Lambda function",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "enhance",
			Short: "Handle SNS anomaly alerts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				h, err := app.handler(cmd)
				if err != nil {
					return err
				}
				app.startLambda(h.Enhance)
				return nil
			},
		},
		&cobra.Command{
			Use:   "notify",
			Short: "Handle EventBridge enriched reports",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				h, err := app.handler(cmd)
				if err != nil {
					return err
				}
				app.startLambda(h.Notify)
				return nil
			},
		},
	)
	return cmd
}

func (app *CLIApp) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration and AWS access",
		Args:  cobra.NoArgs,
		RunE:  app.runCheck,
	}
}

func (app *CLIApp) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			displayWelcomeBanner(version.FormatVersion())
			version.CheckLatestVersion(commandContext(cmd), app.version)
		},
	}
}

// parseArgs lê as flags do comando em execução.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	configFile, _ := cmd.Flags().GetString("config-file")
	logLevel, _ := cmd.Flags().GetString("log-level")
	eventFile, _ := cmd.Flags().GetString("event")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	reportName, _ := cmd.Flags().GetString("report-name")
	reportType, _ := cmd.Flags().GetStringSlice("report-type")
	dir, _ := cmd.Flags().GetString("dir")

	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	} else {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	return &types.CLIArgs{
		ConfigFile: configFile,
		EventFile:  eventFile,
		ReportName: reportName,
		ReportType: reportType,
		Dir:        dir,
		LogLevel:   logLevel,
		DryRun:     dryRun,
	}, nil
}

// setup carrega a configuração e monta os casos de uso.
func (app *CLIApp) setup(cmd *cobra.Command) (*types.CLIArgs, *types.Config, *Services, *logger.Logger, error) {
	args, err := app.parseArgs(cmd)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	cfg, err := app.configRepo.Load(args.ConfigFile)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("error loading configuration: %w", err)
	}
	if args.LogLevel != "" {
		cfg.Logging.Level = args.LogLevel
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: os.Stderr})
	services, err := app.factory(cfg, log)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return args, cfg, services, log, nil
}

func (app *CLIApp) handler(cmd *cobra.Command) (*handler.Handler, error) {
	_, _, services, log, err := app.setup(cmd)
	if err != nil {
		return nil, err
	}
	return handler.New(services.Enhance, services.Notify, log), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
