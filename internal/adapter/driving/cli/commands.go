package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diillson/aws-anomaly-rca-go/internal/adapter/driving/handler"
	"github.com/diillson/aws-anomaly-rca-go/internal/application/render"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
	"github.com/diillson/aws-anomaly-rca-go/pkg/console"
)

func (app *CLIApp) runEnhance(cmd *cobra.Command, _ []string) error {
	args, _, services, _, err := app.setup(cmd)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args.EventFile)
	if err != nil {
		return fmt.Errorf("error reading event file: %w", err)
	}
	messages, err := handler.DecodeAlertMessages(raw)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return types.ErrNoRecords
	}

	services.Enhance.SetDryRun(args.DryRun)
	status := app.console.Status(fmt.Sprintf("Analyzing %d anomaly alert(s)...", len(messages)))
	batch := services.Enhance.ProcessBatch(commandContext(cmd), messages)
	status.Stop()

	return app.finishBatch(batch, args)
}

func (app *CLIApp) runReplay(cmd *cobra.Command, _ []string) error {
	args, _, services, _, err := app.setup(cmd)
	if err != nil {
		return err
	}
	days, _ := cmd.Flags().GetInt("days")
	monitorARN, _ := cmd.Flags().GetString("monitor-arn")

	services.Enhance.SetDryRun(args.DryRun)
	status := app.console.Status(fmt.Sprintf("Replaying anomalies from the last %d day(s)...", days))
	batch, err := services.Replay.Run(commandContext(cmd), days, monitorARN)
	status.Stop()
	if err != nil {
		return err
	}
	if len(batch.Records) == 0 {
		app.console.LogInfo("No anomalies detected in the last %d day(s)", days)
		return nil
	}

	return app.finishBatch(batch, args)
}

// finishBatch exibe o resultado do lote e exporta os relatórios pedidos.
func (app *CLIApp) finishBatch(batch entity.BatchReport, args *types.CLIArgs) error {
	app.displayBatch(batch)
	for _, report := range batch.Reports() {
		app.displayReport(report)
	}

	if args.ReportName != "" {
		app.exportReports(batch.Reports(), args)
	}

	if batch.Failed > 0 {
		return fmt.Errorf("%d of %d records failed", batch.Failed, len(batch.Records))
	}
	return nil
}

func (app *CLIApp) displayBatch(batch entity.BatchReport) {
	table := app.console.CreateTable()
	for _, col := range []string{"#", "Anomaly", "Status", "Stage", "Resources", "Event / Error"} {
		table.AddColumn(col)
	}
	for _, r := range batch.Records {
		status := console.BrightGreen(string(r.Status))
		detail := r.EventID
		if r.Status == entity.RecordFailed {
			status = console.BoldRed(string(r.Status))
			detail = r.Error
		}
		table.AddRow(r.Index, r.AnomalyID, status, r.Stage, r.AnomalyCount, detail)
	}
	app.console.Println(table.Render())
}

func (app *CLIApp) displayReport(report entity.EnrichedAnomalyReport) {
	if report.AnomalyCount == 0 {
		app.console.LogWarning("No resource with a cost increase was found for this anomaly")
		return
	}

	table := app.console.CreateTable()
	for _, col := range render.Columns {
		table.AddColumn(col)
	}
	bars := make([]types.Bar, 0, len(report.Anomalies))
	for _, a := range report.Anomalies {
		table.AddRow(a.AccountID, a.ServiceName, a.ResourceID,
			render.Currency(a.CurrentPeriodCost), render.Currency(a.PriorPeriodCost), render.Percent(a.PercentGrowth))
		increase, _ := a.CostIncrease.Float64()
		bars = append(bars, types.Bar{Label: a.ResourceID, Value: increase})
	}
	app.console.Println(table.Render())
	app.console.DisplayIncreaseBars("Cost increase by resource", bars)
	app.console.LogInfo("Total cost increase: %s", console.BrightYellow(render.Currency(entity.TotalCostIncrease(report.Anomalies))))
}

func (app *CLIApp) exportReports(reports []entity.EnrichedAnomalyReport, args *types.CLIArgs) {
	for _, reportType := range args.ReportType {
		var path string
		var err error
		switch strings.ToLower(reportType) {
		case "csv":
			path, err = app.exportRepo.ExportToCSV(reports, args.ReportName, args.Dir)
		case "json":
			path, err = app.exportRepo.ExportToJSON(reports, args.ReportName, args.Dir)
		case "pdf":
			path, err = app.exportRepo.ExportToPDF(reports, args.ReportName, args.Dir)
		default:
			app.console.LogWarning("Unsupported report type: %s", reportType)
			continue
		}
		if err != nil {
			app.console.LogError("Failed to export %s report: %v", reportType, err)
			continue
		}
		app.console.LogSuccess("%s report saved: %s", strings.ToUpper(reportType), path)
	}
}

func (app *CLIApp) runNotify(cmd *cobra.Command, _ []string) error {
	args, _, services, _, err := app.setup(cmd)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args.EventFile)
	if err != nil {
		return fmt.Errorf("error reading event file: %w", err)
	}
	report, err := handler.DecodeNotifyEvent(raw)
	if err != nil {
		return err
	}

	ids, err := services.Notify.Dispatch(commandContext(cmd), report)
	for _, id := range ids {
		app.console.LogSuccess("Message accepted: %s", id)
	}
	return err
}

func (app *CLIApp) runCheck(cmd *cobra.Command, _ []string) error {
	_, _, services, _, err := app.setup(cmd)
	if err != nil {
		return err
	}

	status := app.console.Status("Running preflight checks...")
	results := services.Preflight.Run(commandContext(cmd))
	status.Stop()

	table := app.console.CreateTable()
	table.AddColumn("Check")
	table.AddColumn("Result")
	table.AddColumn("Detail")

	failed := 0
	for _, r := range results {
		result := console.BrightGreen("OK")
		if !r.OK {
			result = console.BoldRed("FAIL")
			failed++
		}
		table.AddRow(r.Name, result, r.Detail)
	}
	app.console.Println(table.Render())

	if failed > 0 {
		return fmt.Errorf("%d preflight check(s) failed", failed)
	}
	app.console.LogSuccess("All preflight checks passed")
	return nil
}
