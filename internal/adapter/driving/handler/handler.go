// Package handler exposes the use cases as Lambda functions: one triggered by
// the anomaly SNS topic, the other by the EventBridge rule on enriched reports.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/diillson/aws-anomaly-rca-go/internal/application/usecase"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
	"github.com/diillson/aws-anomaly-rca-go/pkg/logger"
)

// Response is the status/body pair returned by both functions.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type errorBody struct {
	Error      string   `json:"error"`
	MessageIDs []string `json:"message_ids,omitempty"`
}

type notifyBody struct {
	MessageIDs []string `json:"message_ids"`
}

// Handler binds the enhance and notify use cases to Lambda events.
type Handler struct {
	enhance *usecase.EnhanceUseCase
	notify  *usecase.NotifyUseCase
	log     *logger.Logger
}

// New creates a Handler. Either use case may be nil when the function only
// serves the other event.
func New(enhance *usecase.EnhanceUseCase, notify *usecase.NotifyUseCase, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{enhance: enhance, notify: notify, log: log}
}

// Enhance processes every SNS record of the event independently. The response
// is 200 with the batch report even when some records failed.
func (h *Handler) Enhance(ctx context.Context, event events.SNSEvent) (Response, error) {
	messages := AlertMessagesFromSNS(event)
	if len(messages) == 0 {
		h.log.ErrorWithErr(types.ErrNoRecords, "enhance invoked without records")
		return errorResponse(http.StatusInternalServerError, types.ErrNoRecords, nil), nil
	}

	batch := h.enhance.ProcessBatch(ctx, messages)
	return jsonResponse(http.StatusOK, batch), nil
}

// Notify dispatches the enriched report carried in the event detail.
func (h *Handler) Notify(ctx context.Context, event events.CloudWatchEvent) (Response, error) {
	report, err := DecodeReport(event.Detail)
	if err != nil {
		h.log.ErrorWithErr(err, "invalid event detail")
		return errorResponse(http.StatusInternalServerError, err, nil), nil
	}

	ids, err := h.notify.Dispatch(ctx, report)
	if err != nil {
		h.log.ErrorWithErr(err, "error dispatching notification")
		return errorResponse(http.StatusInternalServerError, err, ids), nil
	}
	return jsonResponse(http.StatusOK, notifyBody{MessageIDs: ids}), nil
}

// AlertMessagesFromSNS extracts the alert body of each SNS record.
func AlertMessagesFromSNS(event events.SNSEvent) []usecase.AlertMessage {
	messages := make([]usecase.AlertMessage, 0, len(event.Records))
	for _, record := range event.Records {
		messages = append(messages, usecase.AlertMessage{
			MessageID: record.SNS.MessageID,
			Body:      record.SNS.Message,
		})
	}
	return messages
}

// DecodeAlertMessages accepts either a full SNS event or a bare alert.
func DecodeAlertMessages(raw []byte) ([]usecase.AlertMessage, error) {
	var probe struct {
		Records json.RawMessage `json:"Records"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedAlert, err)
	}
	if probe.Records == nil {
		return []usecase.AlertMessage{{Body: string(bytes.TrimSpace(raw))}}, nil
	}

	var event events.SNSEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedAlert, err)
	}
	return AlertMessagesFromSNS(event), nil
}

// DecodeReport reads an enriched report from an EventBridge detail.
func DecodeReport(detail json.RawMessage) (entity.EnrichedAnomalyReport, error) {
	var report entity.EnrichedAnomalyReport
	if len(bytes.TrimSpace(detail)) == 0 {
		return report, fmt.Errorf("event has no detail")
	}
	if err := json.Unmarshal(detail, &report); err != nil {
		return report, fmt.Errorf("error decoding enriched report: %w", err)
	}
	return report, nil
}

// DecodeNotifyEvent accepts either a full EventBridge event or a bare report.
func DecodeNotifyEvent(raw []byte) (entity.EnrichedAnomalyReport, error) {
	var event events.CloudWatchEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return entity.EnrichedAnomalyReport{}, fmt.Errorf("error decoding event: %w", err)
	}
	if len(event.Detail) > 0 {
		return DecodeReport(event.Detail)
	}
	return DecodeReport(raw)
}

func jsonResponse(status int, body interface{}) Response {
	encoded, err := json.Marshal(body)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err, nil)
	}
	return Response{StatusCode: status, Body: string(encoded)}
}

func errorResponse(status int, err error, ids []string) Response {
	encoded, _ := json.Marshal(errorBody{Error: err.Error(), MessageIDs: ids})
	return Response{StatusCode: status, Body: string(encoded)}
}
