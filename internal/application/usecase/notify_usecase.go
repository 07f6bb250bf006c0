package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/diillson/aws-anomaly-rca-go/internal/application/render"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
	"github.com/diillson/aws-anomaly-rca-go/pkg/logger"
)

const fallbackSubjectPrefix = "[Undelivered] "

// NotifyUseCase delivers enriched reports by email and/or topic.
type NotifyUseCase struct {
	emailRepo repository.EmailRepository
	topicRepo repository.TopicRepository
	settings  types.NotificationConfig
	log       *logger.Logger
}

// NewNotifyUseCase creates a new notify use case.
func NewNotifyUseCase(
	emailRepo repository.EmailRepository,
	topicRepo repository.TopicRepository,
	settings types.NotificationConfig,
	log *logger.Logger,
) *NotifyUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if settings.Subject == "" {
		settings.Subject = types.DefaultSubject
	}
	return &NotifyUseCase{emailRepo: emailRepo, topicRepo: topicRepo, settings: settings, log: log}
}

// originalAlertFields are the parts of the inbound alert quoted in the message.
type originalAlertFields struct {
	AnomalyStartDate   string `json:"anomalyStartDate"`
	AnomalyEndDate     string `json:"anomalyEndDate"`
	AnomalyDetailsLink string `json:"anomalyDetailsLink"`
}

// Dispatch sends report through the configured channel and returns the ids of
// the messages that were accepted.
func (uc *NotifyUseCase) Dispatch(ctx context.Context, report entity.EnrichedAnomalyReport) ([]string, error) {
	var alert originalAlertFields
	if len(report.OriginalAlert) > 0 {
		if err := json.Unmarshal(report.OriginalAlert, &alert); err != nil {
			uc.log.Warnf("original alert is not an object, dates and link will be blank: %v", err)
		}
	}
	data := render.NewEmailData(report, alert.AnomalyStartDate, alert.AnomalyEndDate, alert.AnomalyDetailsLink)

	switch strings.ToLower(uc.settings.Channel) {
	case types.ChannelTopic:
		return uc.dispatchTopic(ctx, data)
	case types.ChannelBoth:
		ids, emailErr := uc.dispatchEmail(ctx, data)
		topicIDs, topicErr := uc.dispatchTopic(ctx, data)
		return append(ids, topicIDs...), errors.Join(emailErr, topicErr)
	case "", types.ChannelEmail:
		return uc.dispatchEmail(ctx, data)
	default:
		return nil, &types.MissingConfigError{Key: "notification.channel", Reason: fmt.Sprintf("unknown channel %q", uc.settings.Channel)}
	}
}

func (uc *NotifyUseCase) dispatchEmail(ctx context.Context, data render.EmailData) ([]string, error) {
	addresses := ParseRecipients(uc.settings.Recipients)
	if len(addresses) == 0 {
		return nil, types.ErrNoRecipients
	}
	if uc.settings.Sender == "" {
		return nil, types.MissingConfig("notification.sender")
	}

	recipients := uc.ResolveRecipients(ctx, addresses)
	if recipients.Empty() {
		return nil, types.ErrNoRecipients
	}

	var ids []string
	var errs []error

	if len(recipients.Verified) > 0 {
		id, err := uc.send(ctx, recipients.Verified, uc.settings.Subject, data)
		if err != nil {
			errs = append(errs, err)
		} else {
			uc.log.Infof("sent report to %d verified recipients, message %s", len(recipients.Verified), id)
			ids = append(ids, id)
		}
	}

	if len(recipients.Unverified) > 0 {
		fallback := data
		fallback.Unreachable = recipients.Unverified
		id, err := uc.send(ctx, []string{uc.settings.Sender}, fallbackSubjectPrefix+uc.settings.Subject, fallback)
		if err != nil {
			errs = append(errs, err)
		} else {
			uc.log.Warnf("sent fallback report to %s naming %d unreachable recipients, message %s",
				uc.settings.Sender, len(recipients.Unverified), id)
			ids = append(ids, id)
		}
	}

	return ids, errors.Join(errs...)
}

func (uc *NotifyUseCase) send(ctx context.Context, to []string, subject string, data render.EmailData) (string, error) {
	htmlBody, err := render.HTMLBody(data)
	if err != nil {
		return "", err
	}
	textBody, err := render.TextBody(data)
	if err != nil {
		return "", err
	}
	return uc.emailRepo.SendEmail(ctx, entity.EmailMessage{
		From:     uc.settings.Sender,
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
}

func (uc *NotifyUseCase) dispatchTopic(ctx context.Context, data render.EmailData) ([]string, error) {
	if uc.settings.TopicARN == "" {
		return nil, types.MissingConfig("notification.topic_arn")
	}
	textBody, err := render.TextBody(data)
	if err != nil {
		return nil, err
	}
	id, err := uc.topicRepo.Publish(ctx, uc.settings.TopicARN, uc.settings.Subject, textBody)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("published report to topic %s, message %s", uc.settings.TopicARN, id)
	return []string{id}, nil
}

// ResolveRecipients looks up each address. A failed lookup marks that address
// unverified instead of failing the dispatch.
func (uc *NotifyUseCase) ResolveRecipients(ctx context.Context, addresses []string) entity.RecipientSet {
	var set entity.RecipientSet
	for _, addr := range addresses {
		verified, err := uc.emailRepo.IsVerified(ctx, addr)
		switch {
		case err != nil:
			uc.log.Warnf("verification lookup failed for %s: %v", addr, err)
			set.Unverified = append(set.Unverified, entity.UnverifiedRecipient{
				Address: addr,
				Reason:  "verification lookup failed: " + err.Error(),
			})
		case verified:
			set.Verified = append(set.Verified, addr)
		default:
			set.Unverified = append(set.Unverified, entity.UnverifiedRecipient{
				Address: addr,
				Reason:  "address is not verified in Amazon SES",
			})
		}
	}
	return set
}

// ParseRecipients splits a comma-separated list, dropping blanks and duplicates.
func ParseRecipients(list string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(list, ",") {
		addr := strings.TrimSpace(part)
		if addr == "" || seen[strings.ToLower(addr)] {
			continue
		}
		seen[strings.ToLower(addr)] = true
		out = append(out, addr)
	}
	return out
}
