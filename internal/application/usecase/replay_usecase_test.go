package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
)

type fakeAnomalies struct {
	alerts     []entity.AnomalyAlert
	err        error
	start, end time.Time
	monitor    string
}

func (f *fakeAnomalies) ListAnomalies(_ context.Context, start, end time.Time, monitorARN string) ([]entity.AnomalyAlert, error) {
	f.start, f.end, f.monitor = start, end, monitorARN
	return f.alerts, f.err
}

func TestReplayUseCase_Run(t *testing.T) {
	source := &fakeAnomalies{alerts: []entity.AnomalyAlert{
		{
			AnomalyID:        "a-1",
			AnomalyStartDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			AnomalyEndDate:   time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
			TotalImpact:      12,
			RootCauses:       []entity.RootCause{{LinkedAccount: "111", UsageType: "BoxUsage"}},
		},
		{AnomalyID: "a-2", AnomalyStartDate: time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)},
	}}
	pub := &fakePublisher{}
	uc := NewReplayUseCase(source, newEnhance(successfulRepo(), pub), nil)
	uc.now = func() time.Time { return time.Date(2024, 1, 13, 9, 0, 0, 0, time.UTC) }

	batch, err := uc.Run(context.Background(), 7, "arn:monitor")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC), source.start)
	assert.Equal(t, "arn:monitor", source.monitor)
	assert.Equal(t, 1, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, "a-1", batch.Records[0].MessageID)
	assert.Equal(t, entity.StageIntake, batch.Records[1].Stage)
	assert.Len(t, pub.events, 1)
}

func TestReplayUseCase_Errors(t *testing.T) {
	uc := NewReplayUseCase(&fakeAnomalies{err: errors.New("denied")}, newEnhance(successfulRepo(), &fakePublisher{}), nil)

	_, err := uc.Run(context.Background(), 0, "")
	assert.ErrorContains(t, err, "days must be positive")

	_, err = uc.Run(context.Background(), 3, "")
	assert.ErrorContains(t, err, "denied")
}

func TestEncodeAlert_RoundTripsThroughIntake(t *testing.T) {
	alert := entity.AnomalyAlert{
		AnomalyID:          "a-1",
		AccountID:          "123",
		AnomalyStartDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		AnomalyEndDate:     time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		AnomalyDetailsLink: "https://example.com",
		TotalImpact:        9.5,
		RootCauses:         []entity.RootCause{{LinkedAccount: "111", UsageType: "BoxUsage", Region: "us-east-1"}},
	}

	body, err := EncodeAlert(alert)
	require.NoError(t, err)

	parsed, err := ParseAnomalyAlert(body)
	require.NoError(t, err)
	parsed.Raw = nil
	assert.Equal(t, alert, parsed)
}
