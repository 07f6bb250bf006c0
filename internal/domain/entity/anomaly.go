package entity

import (
	"encoding/json"
	"time"
)

// RootCause is an (account, usage type) pair that AWS Cost Anomaly Detection
// reported as responsible for part of an anomaly.
type RootCause struct {
	LinkedAccount     string `json:"linkedAccount"`
	UsageType         string `json:"usageType"`
	Service           string `json:"service,omitempty"`
	Region            string `json:"region,omitempty"`
	LinkedAccountName string `json:"linkedAccountName,omitempty"`
}

// AnomalyAlert is the validated, normalized form of an inbound anomaly notification.
type AnomalyAlert struct {
	AnomalyID          string          `json:"anomalyId,omitempty"`
	AccountID          string          `json:"accountId,omitempty"`
	RootCauses         []RootCause     `json:"rootCauses"`
	AnomalyStartDate   time.Time       `json:"anomalyStartDate"`
	AnomalyEndDate     time.Time       `json:"anomalyEndDate"`
	AnomalyDetailsLink string          `json:"anomalyDetailsLink"`
	TotalImpact        float64         `json:"totalImpact,omitempty"`
	Raw                json.RawMessage `json:"-"`
}
