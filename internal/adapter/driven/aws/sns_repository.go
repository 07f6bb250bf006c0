package aws

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
)

// SNS rejects subjects longer than 100 characters.
const maxSubjectLength = 100

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSRepositoryImpl implementa o TopicRepository sobre o Amazon SNS.
type SNSRepositoryImpl struct {
	clients *Clients
	api     snsAPI
}

// NewSNSRepository cria uma nova implementação do TopicRepository.
func NewSNSRepository(clients *Clients) repository.TopicRepository {
	return &SNSRepositoryImpl{clients: clients}
}

func (r *SNSRepositoryImpl) client(ctx context.Context) (snsAPI, error) {
	if r.api != nil {
		return r.api, nil
	}
	client, err := r.clients.getServiceClient(ctx, "sns")
	if err != nil {
		return nil, err
	}
	return client.(*sns.Client), nil
}

func (r *SNSRepositoryImpl) Publish(ctx context.Context, topicARN, subject, message string) (string, error) {
	client, err := r.client(ctx)
	if err != nil {
		return "", err
	}

	if utf8.RuneCountInString(subject) > maxSubjectLength {
		subject = string([]rune(subject)[:maxSubjectLength])
	}

	output, err := client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return "", fmt.Errorf("error publishing to SNS topic %s: %w", topicARN, err)
	}
	return aws.ToString(output.MessageId), nil
}
