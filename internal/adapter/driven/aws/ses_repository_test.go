package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sesTypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
)

type fakeSES struct {
	identities map[string]bool
	failWith   error
	sent       *sesv2.SendEmailInput
}

func (f *fakeSES) GetEmailIdentity(_ context.Context, in *sesv2.GetEmailIdentityInput, _ ...func(*sesv2.Options)) (*sesv2.GetEmailIdentityOutput, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	verified, ok := f.identities[aws.ToString(in.EmailIdentity)]
	if !ok {
		return nil, &sesTypes.NotFoundException{Message: aws.String("not found")}
	}
	return &sesv2.GetEmailIdentityOutput{VerifiedForSendingStatus: verified}, nil
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.sent = in
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESRepository_IsVerified(t *testing.T) {
	fake := &fakeSES{identities: map[string]bool{
		"ops@example.com":     true,
		"pending@example.com": false,
		"corp.example":        true,
	}}
	repo := &SESRepositoryImpl{api: fake}
	ctx := context.Background()

	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"verified address", "ops@example.com", true},
		{"pending address", "pending@example.com", false},
		{"verified domain", "anyone@corp.example", true},
		{"unknown address and domain", "who@nowhere.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.IsVerified(ctx, tt.address)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSESRepository_IsVerified_PropagatesLookupErrors(t *testing.T) {
	repo := &SESRepositoryImpl{api: &fakeSES{failWith: errors.New("throttled")}}

	_, err := repo.IsVerified(context.Background(), "ops@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestSESRepository_SendEmail(t *testing.T) {
	fake := &fakeSES{}
	repo := &SESRepositoryImpl{api: fake}

	id, err := repo.SendEmail(context.Background(), entity.EmailMessage{
		From:     "sender@example.com",
		To:       []string{"a@example.com", "b@example.com"},
		Subject:  "Alert",
		HTMLBody: "<p>hi</p>",
		TextBody: "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, "sender@example.com", aws.ToString(fake.sent.FromEmailAddress))
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, fake.sent.Destination.ToAddresses)
	assert.Equal(t, "Alert", aws.ToString(fake.sent.Content.Simple.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(fake.sent.Content.Simple.Body.Html.Data))
	assert.Equal(t, "hi", aws.ToString(fake.sent.Content.Simple.Body.Text.Data))
}
