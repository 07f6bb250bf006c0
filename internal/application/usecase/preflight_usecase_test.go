package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
)

func completeConfig() *types.Config {
	cfg := types.DefaultConfig()
	cfg.Athena = athenaSettings()
	cfg.EventBridge = eventSettings()
	cfg.Notification = notifySettings()
	return cfg
}

func TestMissingKeys(t *testing.T) {
	assert.Empty(t, MissingKeys(completeConfig()))

	cfg := completeConfig()
	cfg.Athena.Table = ""
	cfg.Notification.Recipients = ""
	assert.Equal(t, []string{"athena.table", "notification.recipients"}, MissingKeys(cfg))

	cfg = completeConfig()
	cfg.Notification.Channel = types.ChannelTopic
	cfg.Notification.Sender = ""
	cfg.Notification.TopicARN = ""
	assert.Equal(t, []string{"notification.topic_arn"}, MissingKeys(cfg))
}

func TestPreflightUseCase_Run(t *testing.T) {
	identity := &fakeIdentity{account: "123456789012"}
	email := &fakeEmail{verified: map[string]bool{"finops@example.com": true}}

	results := NewPreflightUseCase(identity, email, completeConfig()).Run(context.Background())
	assert.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.OK, r.Name)
	}
	assert.Equal(t, []string{"athena-results"}, identity.buckets)
}

func TestPreflightUseCase_ReportsEveryFailure(t *testing.T) {
	identity := &fakeIdentity{bucketErr: errors.New("forbidden")}
	cfg := completeConfig()
	cfg.EventBridge.BusName = ""

	results := NewPreflightUseCase(identity, &fakeEmail{}, cfg).Run(context.Background())

	failed := map[string]string{}
	for _, r := range results {
		if !r.OK {
			failed[r.Name] = r.Detail
		}
	}
	assert.Contains(t, failed, "config event_bridge.bus_name")
	assert.Equal(t, "no credentials", failed["caller identity"])
	assert.Equal(t, "forbidden", failed["athena output bucket"])
	assert.Contains(t, failed["sender identity"], "is not verified")
}
