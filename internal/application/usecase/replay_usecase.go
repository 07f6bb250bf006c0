package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
	"github.com/diillson/aws-anomaly-rca-go/pkg/logger"
)

// ReplayUseCase runs anomalies that were already detected back through the
// enhance pipeline, as if their alerts had just arrived.
type ReplayUseCase struct {
	source  repository.AnomalyRepository
	enhance *EnhanceUseCase
	log     *logger.Logger
	now     func() time.Time
}

// NewReplayUseCase creates a new replay use case.
func NewReplayUseCase(source repository.AnomalyRepository, enhance *EnhanceUseCase, log *logger.Logger) *ReplayUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReplayUseCase{source: source, enhance: enhance, log: log, now: time.Now}
}

// Run processes the anomalies that started in the last days days.
func (uc *ReplayUseCase) Run(ctx context.Context, days int, monitorARN string) (entity.BatchReport, error) {
	if days <= 0 {
		return entity.BatchReport{}, fmt.Errorf("days must be positive, got %d", days)
	}
	end := uc.now().UTC()
	start := end.AddDate(0, 0, -days)

	alerts, err := uc.source.ListAnomalies(ctx, start, end, monitorARN)
	if err != nil {
		return entity.BatchReport{}, err
	}
	uc.log.Infof("replaying %d anomalies detected since %s", len(alerts), start.Format("2006-01-02"))

	messages := make([]AlertMessage, 0, len(alerts))
	for _, alert := range alerts {
		body, err := EncodeAlert(alert)
		if err != nil {
			return entity.BatchReport{}, err
		}
		messages = append(messages, AlertMessage{MessageID: alert.AnomalyID, Body: string(body)})
	}
	return uc.enhance.ProcessBatch(ctx, messages), nil
}

// alertNotification mirrors the payload Cost Anomaly Detection publishes to SNS.
type alertNotification struct {
	AccountID          string             `json:"accountId,omitempty"`
	AnomalyID          string             `json:"anomalyId"`
	AnomalyStartDate   string             `json:"anomalyStartDate"`
	AnomalyEndDate     string             `json:"anomalyEndDate"`
	AnomalyDetailsLink string             `json:"anomalyDetailsLink,omitempty"`
	Impact             *alertImpact       `json:"impact,omitempty"`
	RootCauses         []entity.RootCause `json:"rootCauses"`
}

type alertImpact struct {
	TotalImpact float64 `json:"totalImpact"`
}

// EncodeAlert renders alert in the SNS notification format read by ParseAnomalyAlert.
func EncodeAlert(alert entity.AnomalyAlert) ([]byte, error) {
	n := alertNotification{
		AccountID:          alert.AccountID,
		AnomalyID:          alert.AnomalyID,
		AnomalyStartDate:   alert.AnomalyStartDate.UTC().Format(time.RFC3339),
		AnomalyEndDate:     alert.AnomalyEndDate.UTC().Format(time.RFC3339),
		AnomalyDetailsLink: alert.AnomalyDetailsLink,
		RootCauses:         alert.RootCauses,
	}
	if alert.TotalImpact != 0 {
		n.Impact = &alertImpact{TotalImpact: alert.TotalImpact}
	}
	body, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("error encoding anomaly %s: %w", alert.AnomalyID, err)
	}
	return body, nil
}
