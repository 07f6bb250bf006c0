package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
)

func sampleReport(t *testing.T) entity.EnrichedAnomalyReport {
	t.Helper()
	repo := successfulRepo()
	result := newEnhance(repo, &fakePublisher{}).ProcessRecord(context.Background(), 0, AlertMessage{Body: sampleAlert})
	require.NotNil(t, result.Report)
	return *result.Report
}

func notifySettings() types.NotificationConfig {
	return types.NotificationConfig{
		Channel:    types.ChannelEmail,
		Sender:     "finops@example.com",
		Recipients: "a@example.com, b@example.com",
		TopicARN:   "arn:aws:sns:us-east-1:123456789012:anomalies",
	}
}

func TestNotifyUseCase_FallbackForUnverifiedRecipients(t *testing.T) {
	email := &fakeEmail{verified: map[string]bool{"a@example.com": true}}
	uc := NewNotifyUseCase(email, &fakeTopic{}, notifySettings(), nil)

	ids, err := uc.Dispatch(context.Background(), sampleReport(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"msg-1", "msg-2"}, ids)
	require.Len(t, email.sent, 2)

	direct := email.sent[0]
	assert.Equal(t, []string{"a@example.com"}, direct.To)
	assert.Equal(t, "finops@example.com", direct.From)
	assert.Equal(t, types.DefaultSubject, direct.Subject)
	assert.NotContains(t, direct.TextBody, "b@example.com")
	assert.Contains(t, direct.TextBody, "2024-01-10T00:00:00Z")
	assert.Contains(t, direct.HTMLBody, "i-big")

	fallback := email.sent[1]
	assert.Equal(t, []string{"finops@example.com"}, fallback.To)
	assert.Equal(t, "[Undelivered] "+types.DefaultSubject, fallback.Subject)
	assert.Contains(t, fallback.TextBody, "b@example.com")
	assert.Contains(t, fallback.HTMLBody, "b@example.com")
	assert.Contains(t, fallback.TextBody, "i-big")
}

func TestNotifyUseCase_AllVerifiedSendsOnce(t *testing.T) {
	email := &fakeEmail{verified: map[string]bool{"a@example.com": true, "b@example.com": true}}
	uc := NewNotifyUseCase(email, &fakeTopic{}, notifySettings(), nil)

	ids, err := uc.Dispatch(context.Background(), sampleReport(t))
	require.NoError(t, err)
	assert.Len(t, ids, 1)
	require.Len(t, email.sent, 1)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, email.sent[0].To)
}

func TestNotifyUseCase_NoRecipients(t *testing.T) {
	email := &fakeEmail{}
	settings := notifySettings()
	settings.Recipients = " , "
	uc := NewNotifyUseCase(email, &fakeTopic{}, settings, nil)

	_, err := uc.Dispatch(context.Background(), sampleReport(t))
	assert.ErrorIs(t, err, types.ErrNoRecipients)
	assert.Empty(t, email.sent)
	assert.Zero(t, email.lookups)
}

func TestNotifyUseCase_MissingSender(t *testing.T) {
	settings := notifySettings()
	settings.Sender = ""
	_, err := NewNotifyUseCase(&fakeEmail{}, &fakeTopic{}, settings, nil).Dispatch(context.Background(), sampleReport(t))
	assert.ErrorIs(t, err, types.ErrMissingConfiguration)
}

func TestNotifyUseCase_LookupFailureTreatedAsUnverified(t *testing.T) {
	email := &fakeEmail{
		verified: map[string]bool{"a@example.com": true},
		failing:  map[string]bool{"b@example.com": true},
	}
	uc := NewNotifyUseCase(email, &fakeTopic{}, notifySettings(), nil)

	set := uc.ResolveRecipients(context.Background(), []string{"a@example.com", "b@example.com"})
	assert.Equal(t, []string{"a@example.com"}, set.Verified)
	require.Len(t, set.Unverified, 1)
	assert.Equal(t, "b@example.com", set.Unverified[0].Address)
	assert.Contains(t, set.Unverified[0].Reason, "verification lookup failed")

	_, err := uc.Dispatch(context.Background(), sampleReport(t))
	require.NoError(t, err)
	assert.Len(t, email.sent, 2)
}

func TestNotifyUseCase_SendErrorsAreReturned(t *testing.T) {
	email := &fakeEmail{verified: map[string]bool{"a@example.com": true}, sendErr: errors.New("rejected")}
	_, err := NewNotifyUseCase(email, &fakeTopic{}, notifySettings(), nil).Dispatch(context.Background(), sampleReport(t))
	assert.ErrorContains(t, err, "rejected")
}

func TestNotifyUseCase_TopicChannel(t *testing.T) {
	topic := &fakeTopic{}
	email := &fakeEmail{}
	settings := notifySettings()
	settings.Channel = types.ChannelTopic

	ids, err := NewNotifyUseCase(email, topic, settings, nil).Dispatch(context.Background(), sampleReport(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"sns-1"}, ids)
	require.Len(t, topic.published, 1)
	assert.Contains(t, topic.published[0], settings.TopicARN)
	assert.Contains(t, topic.published[0], "i-big")
	assert.Empty(t, email.sent)
}

func TestNotifyUseCase_BothChannels(t *testing.T) {
	topic := &fakeTopic{}
	email := &fakeEmail{verified: map[string]bool{"a@example.com": true, "b@example.com": true}}
	settings := notifySettings()
	settings.Channel = types.ChannelBoth

	ids, err := NewNotifyUseCase(email, topic, settings, nil).Dispatch(context.Background(), sampleReport(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"msg-1", "sns-1"}, ids)
}

func TestNotifyUseCase_UnknownChannel(t *testing.T) {
	settings := notifySettings()
	settings.Channel = "pager"
	_, err := NewNotifyUseCase(&fakeEmail{}, &fakeTopic{}, settings, nil).Dispatch(context.Background(), sampleReport(t))
	assert.ErrorIs(t, err, types.ErrMissingConfiguration)
}

func TestNotifyUseCase_ToleratesNonObjectOriginalAlert(t *testing.T) {
	report := sampleReport(t)
	report.OriginalAlert = json.RawMessage(`"plain text"`)
	email := &fakeEmail{verified: map[string]bool{"a@example.com": true, "b@example.com": true}}

	_, err := NewNotifyUseCase(email, &fakeTopic{}, notifySettings(), nil).Dispatch(context.Background(), report)
	require.NoError(t, err)
	assert.Len(t, email.sent, 1)
}

func TestParseRecipients(t *testing.T) {
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, ParseRecipients(" a@x.com,,b@x.com , A@X.com"))
	assert.Empty(t, ParseRecipients(""))
}
