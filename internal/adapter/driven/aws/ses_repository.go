package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sesTypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
)

const charsetUTF8 = "UTF-8"

type sesAPI interface {
	GetEmailIdentity(ctx context.Context, params *sesv2.GetEmailIdentityInput, optFns ...func(*sesv2.Options)) (*sesv2.GetEmailIdentityOutput, error)
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESRepositoryImpl implementa o EmailRepository sobre o Amazon SES v2.
type SESRepositoryImpl struct {
	clients *Clients
	api     sesAPI
}

// NewSESRepository cria uma nova implementação do EmailRepository.
func NewSESRepository(clients *Clients) repository.EmailRepository {
	return &SESRepositoryImpl{clients: clients}
}

func (r *SESRepositoryImpl) client(ctx context.Context) (sesAPI, error) {
	if r.api != nil {
		return r.api, nil
	}
	client, err := r.clients.getServiceClient(ctx, "sesv2")
	if err != nil {
		return nil, err
	}
	return client.(*sesv2.Client), nil
}

// IsVerified reports whether SES may send to address. An address without its
// own identity is still deliverable when its domain is verified.
func (r *SESRepositoryImpl) IsVerified(ctx context.Context, address string) (bool, error) {
	client, err := r.client(ctx)
	if err != nil {
		return false, err
	}

	verified, err := identityVerified(ctx, client, address)
	if err == nil {
		return verified, nil
	}

	var notFound *sesTypes.NotFoundException
	if !errors.As(err, &notFound) {
		return false, fmt.Errorf("error getting SES identity %s: %w", address, err)
	}

	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return false, nil
	}
	verified, err = identityVerified(ctx, client, address[at+1:])
	if err != nil {
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("error getting SES identity %s: %w", address[at+1:], err)
	}
	return verified, nil
}

func identityVerified(ctx context.Context, client sesAPI, identity string) (bool, error) {
	output, err := client.GetEmailIdentity(ctx, &sesv2.GetEmailIdentityInput{EmailIdentity: aws.String(identity)})
	if err != nil {
		return false, err
	}
	return output.VerifiedForSendingStatus, nil
}

func (r *SESRepositoryImpl) SendEmail(ctx context.Context, msg entity.EmailMessage) (string, error) {
	client, err := r.client(ctx)
	if err != nil {
		return "", err
	}

	body := &sesTypes.Body{}
	if msg.HTMLBody != "" {
		body.Html = &sesTypes.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String(charsetUTF8)}
	}
	if msg.TextBody != "" {
		body.Text = &sesTypes.Content{Data: aws.String(msg.TextBody), Charset: aws.String(charsetUTF8)}
	}

	output, err := client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination:      &sesTypes.Destination{ToAddresses: msg.To},
		Content: &sesTypes.EmailContent{
			Simple: &sesTypes.Message{
				Subject: &sesTypes.Content{Data: aws.String(msg.Subject), Charset: aws.String(charsetUTF8)},
				Body:    body,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("error sending email to %s: %w", strings.Join(msg.To, ","), err)
	}
	return aws.ToString(output.MessageId), nil
}
