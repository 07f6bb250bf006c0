package usecase

import (
	"context"
	"fmt"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
)

// CheckResult is the outcome of one preflight check.
type CheckResult struct {
	Name   string
	OK     bool
	Detail string
}

// PreflightUseCase verifies that configuration and AWS access are in place
// before the pipeline is deployed.
type PreflightUseCase struct {
	identityRepo repository.IdentityRepository
	emailRepo    repository.EmailRepository
	cfg          *types.Config
}

// NewPreflightUseCase creates a new preflight use case.
func NewPreflightUseCase(identityRepo repository.IdentityRepository, emailRepo repository.EmailRepository, cfg *types.Config) *PreflightUseCase {
	return &PreflightUseCase{identityRepo: identityRepo, emailRepo: emailRepo, cfg: cfg}
}

// Run executes every check; a failing check does not skip the others.
func (uc *PreflightUseCase) Run(ctx context.Context) []CheckResult {
	var results []CheckResult

	for _, key := range MissingKeys(uc.cfg) {
		results = append(results, CheckResult{Name: "config " + key, OK: false, Detail: "not set"})
	}

	if account, err := uc.identityRepo.CallerAccount(ctx); err != nil {
		results = append(results, CheckResult{Name: "caller identity", Detail: err.Error()})
	} else {
		results = append(results, CheckResult{Name: "caller identity", OK: true, Detail: "account " + account})
	}

	if bucket := OutputBucket(uc.cfg.Athena.OutputLocation); bucket != "" {
		if err := uc.identityRepo.BucketReachable(ctx, bucket); err != nil {
			results = append(results, CheckResult{Name: "athena output bucket", Detail: err.Error()})
		} else {
			results = append(results, CheckResult{Name: "athena output bucket", OK: true, Detail: bucket})
		}
	}

	if sender := uc.cfg.Notification.Sender; sender != "" {
		verified, err := uc.emailRepo.IsVerified(ctx, sender)
		switch {
		case err != nil:
			results = append(results, CheckResult{Name: "sender identity", Detail: err.Error()})
		case !verified:
			results = append(results, CheckResult{Name: "sender identity", Detail: fmt.Sprintf("%s is not verified in Amazon SES", sender)})
		default:
			results = append(results, CheckResult{Name: "sender identity", OK: true, Detail: sender})
		}
	}

	return results
}

// MissingKeys lists the required settings that are unset for the configured channel.
func MissingKeys(cfg *types.Config) []string {
	required := []struct {
		key   string
		value string
	}{
		{"athena.table", cfg.Athena.Table},
		{"athena.database", cfg.Athena.Database},
		{"athena.output_location", cfg.Athena.OutputLocation},
		{"event_bridge.bus_name", cfg.EventBridge.BusName},
		{"event_bridge.source", cfg.EventBridge.Source},
		{"event_bridge.detail_type", cfg.EventBridge.DetailType},
	}

	channel := cfg.Notification.Channel
	if channel == "" || channel == types.ChannelEmail || channel == types.ChannelBoth {
		required = append(required,
			struct{ key, value string }{"notification.sender", cfg.Notification.Sender},
			struct{ key, value string }{"notification.recipients", cfg.Notification.Recipients},
		)
	}
	if channel == types.ChannelTopic || channel == types.ChannelBoth {
		required = append(required, struct{ key, value string }{"notification.topic_arn", cfg.Notification.TopicARN})
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	return missing
}
