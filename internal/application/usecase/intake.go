package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Layouts accepted for anomalyStartDate and anomalyEndDate.
var alertDateLayouts = []string{time.RFC3339, "2006-01-02"}

type rootCausePayload struct {
	LinkedAccount     string `json:"linkedAccount" validate:"required"`
	UsageType         string `json:"usageType" validate:"required"`
	Service           string `json:"service"`
	Region            string `json:"region"`
	LinkedAccountName string `json:"linkedAccountName"`
}

type alertPayload struct {
	AnomalyID          string             `json:"anomalyId"`
	AccountID          string             `json:"accountId"`
	AnomalyStartDate   string             `json:"anomalyStartDate" validate:"required"`
	AnomalyEndDate     string             `json:"anomalyEndDate" validate:"required"`
	AnomalyDetailsLink string             `json:"anomalyDetailsLink"`
	RootCauses         []rootCausePayload `json:"rootCauses" validate:"required,min=1,dive"`
	Impact             *struct {
		TotalImpact float64 `json:"totalImpact"`
	} `json:"impact"`
}

// ParseAnomalyAlert validates a Cost Anomaly Detection notification and
// normalizes it into an AnomalyAlert. Every failure wraps types.ErrMalformedAlert.
func ParseAnomalyAlert(raw []byte) (entity.AnomalyAlert, error) {
	var payload alertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return entity.AnomalyAlert{}, fmt.Errorf("%w: %v", types.ErrMalformedAlert, err)
	}

	if err := validate.Struct(payload); err != nil {
		return entity.AnomalyAlert{}, fmt.Errorf("%w: %s", types.ErrMalformedAlert, describeValidation(err))
	}

	start, err := parseAlertDate(payload.AnomalyStartDate)
	if err != nil {
		return entity.AnomalyAlert{}, fmt.Errorf("%w: anomalyStartDate: %v", types.ErrMalformedAlert, err)
	}
	end, err := parseAlertDate(payload.AnomalyEndDate)
	if err != nil {
		return entity.AnomalyAlert{}, fmt.Errorf("%w: anomalyEndDate: %v", types.ErrMalformedAlert, err)
	}
	if end.Before(start) {
		return entity.AnomalyAlert{}, fmt.Errorf("%w: anomalyEndDate %s is before anomalyStartDate %s",
			types.ErrMalformedAlert, payload.AnomalyEndDate, payload.AnomalyStartDate)
	}

	alert := entity.AnomalyAlert{
		AnomalyID:          payload.AnomalyID,
		AccountID:          payload.AccountID,
		AnomalyStartDate:   start,
		AnomalyEndDate:     end,
		AnomalyDetailsLink: payload.AnomalyDetailsLink,
		Raw:                json.RawMessage(raw),
	}
	if payload.Impact != nil {
		alert.TotalImpact = payload.Impact.TotalImpact
	}
	for _, rc := range payload.RootCauses {
		alert.RootCauses = append(alert.RootCauses, entity.RootCause{
			LinkedAccount:     strings.TrimSpace(rc.LinkedAccount),
			UsageType:         strings.TrimSpace(rc.UsageType),
			Service:           rc.Service,
			Region:            rc.Region,
			LinkedAccountName: rc.LinkedAccountName,
		})
	}
	return alert, nil
}

func parseAlertDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range alertDateLayouts {
		t, err := time.Parse(layout, strings.TrimSpace(value))
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
