package repository

import (
	"context"
	"time"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
)

// AnomalyRepository lists anomalies already detected by AWS Cost Anomaly Detection.
type AnomalyRepository interface {
	// ListAnomalies returns anomalies that started in [start, end]. An empty
	// monitorARN lists anomalies of every monitor.
	ListAnomalies(ctx context.Context, start, end time.Time, monitorARN string) ([]entity.AnomalyAlert, error)
}
