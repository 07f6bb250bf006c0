package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/diillson/aws-anomaly-rca-go/internal/application/analysis"
	"github.com/diillson/aws-anomaly-rca-go/internal/application/render"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
	"github.com/diillson/aws-anomaly-rca-go/pkg/logger"
)

// AlertMessage is one inbound alert record, typically an SNS notification.
type AlertMessage struct {
	MessageID string
	Body      string
}

// EnhanceUseCase resolves the root causes of anomaly alerts and publishes the
// enriched reports.
type EnhanceUseCase struct {
	coordinator *QueryCoordinator
	publisher   repository.EventPublisher
	athena      types.AthenaConfig
	events      types.EventBridgeConfig
	log         *logger.Logger
	dryRun      bool
}

// NewEnhanceUseCase creates a new enhance use case.
func NewEnhanceUseCase(
	coordinator *QueryCoordinator,
	publisher repository.EventPublisher,
	athena types.AthenaConfig,
	events types.EventBridgeConfig,
	log *logger.Logger,
) *EnhanceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &EnhanceUseCase{
		coordinator: coordinator,
		publisher:   publisher,
		athena:      athena,
		events:      events,
		log:         log,
	}
}

// SetDryRun makes the use case assemble reports without publishing them.
func (uc *EnhanceUseCase) SetDryRun(dryRun bool) {
	uc.dryRun = dryRun
}

// ProcessBatch runs every message through the pipeline. A failing record is
// logged and recorded in the report; it never stops the records after it.
func (uc *EnhanceUseCase) ProcessBatch(ctx context.Context, messages []AlertMessage) entity.BatchReport {
	var batch entity.BatchReport
	for i, msg := range messages {
		result := uc.ProcessRecord(ctx, i, msg)
		if result.Status == entity.RecordFailed {
			uc.log.WithFields(map[string]interface{}{
				"record":     i,
				"message_id": msg.MessageID,
				"stage":      result.Stage,
			}).ErrorWithErr(result.Err, "error processing record")
			uc.log.Debugf("failed record body: %s", msg.Body)
		}
		batch.Add(result)
	}
	uc.log.Infof("batch finished: %d published, %d failed", batch.Succeeded, batch.Failed)
	return batch
}

// ProcessRecord runs one alert through intake, query, reduction, rendering and publication.
func (uc *EnhanceUseCase) ProcessRecord(ctx context.Context, index int, msg AlertMessage) entity.RecordResult {
	result := entity.RecordResult{Index: index, MessageID: msg.MessageID}
	fail := func(stage string, err error) entity.RecordResult {
		result.Status = entity.RecordFailed
		result.Stage = stage
		result.Err = err
		result.Error = err.Error()
		return result
	}

	alert, err := ParseAnomalyAlert([]byte(msg.Body))
	if err != nil {
		return fail(entity.StageIntake, err)
	}
	result.AnomalyID = alert.AnomalyID
	uc.log.Infof("processing anomaly %s (%s to %s, %d root causes)", alert.AnomalyID,
		alert.AnomalyStartDate.Format("2006-01-02"), alert.AnomalyEndDate.Format("2006-01-02"), len(alert.RootCauses))

	query, err := analysis.BuildRootCauseQuery(alert, uc.athena.Table)
	if err != nil {
		return fail(entity.StageQuery, err)
	}
	uc.log.Debugf("generated query %s with parameters %v", query.Text, query.Parameters)

	outcome, err := uc.coordinator.Execute(ctx, query)
	if err != nil {
		return fail(entity.StageQuery, err)
	}
	if err := outcome.Err(); err != nil {
		return fail(entity.StageQuery, err)
	}

	records, err := analysis.ReduceRows(outcome.Rows)
	if err != nil {
		return fail(entity.StageReduce, err)
	}

	report := AssembleReport(alert, entity.RankRootCauses(records))
	result.AnomalyCount = report.AnomalyCount
	result.Report = &report

	if uc.dryRun {
		result.Status = entity.RecordPublished
		return result
	}

	eventID, err := uc.Publish(ctx, report)
	if err != nil {
		return fail(entity.StagePublish, err)
	}
	result.EventID = eventID
	result.Status = entity.RecordPublished
	return result
}

// AssembleReport merges the ranked records, their rendered tables and the
// untouched original alert.
func AssembleReport(alert entity.AnomalyAlert, records []entity.RootCauseRecord) entity.EnrichedAnomalyReport {
	if records == nil {
		records = []entity.RootCauseRecord{}
	}
	original := alert.Raw
	if len(original) == 0 {
		original = json.RawMessage("null")
	}
	return entity.EnrichedAnomalyReport{
		Anomalies:     records,
		AnomalyCount:  len(records),
		EmailTable:    render.TextTable(records),
		HTMLTable:     render.HTMLTable(records),
		OriginalAlert: original,
	}
}

// Publish sends the report to the configured event bus.
func (uc *EnhanceUseCase) Publish(ctx context.Context, report entity.EnrichedAnomalyReport) (string, error) {
	switch {
	case uc.events.BusName == "":
		return "", types.MissingConfig("event_bridge.bus_name")
	case uc.events.Source == "":
		return "", types.MissingConfig("event_bridge.source")
	case uc.events.DetailType == "":
		return "", types.MissingConfig("event_bridge.detail_type")
	}

	detail, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("error encoding enriched report: %w", err)
	}

	eventID, err := uc.publisher.Publish(ctx, uc.events.BusName, uc.events.Source, uc.events.DetailType, detail)
	if err != nil {
		return "", err
	}
	uc.log.Infof("published enriched report as event %s", eventID)
	return eventID, nil
}
