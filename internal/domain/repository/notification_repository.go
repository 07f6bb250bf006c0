package repository

import (
	"context"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
)

// EmailRepository defines the transactional email operations used by the dispatcher.
type EmailRepository interface {
	IsVerified(ctx context.Context, address string) (bool, error)
	SendEmail(ctx context.Context, msg entity.EmailMessage) (string, error)
}

// TopicRepository publishes a plain-text message to a notification topic.
type TopicRepository interface {
	Publish(ctx context.Context, topicARN, subject, message string) (string, error)
}

// IdentityRepository exposes the preflight checks run by the CLI.
type IdentityRepository interface {
	CallerAccount(ctx context.Context) (string, error)
	BucketReachable(ctx context.Context, bucket string) error
}
