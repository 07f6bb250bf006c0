package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebTypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
)

type eventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// EventBridgeRepositoryImpl implementa o EventPublisher sobre o Amazon EventBridge.
type EventBridgeRepositoryImpl struct {
	clients *Clients
	api     eventBridgeAPI
}

// NewEventBridgeRepository cria uma nova implementação do EventPublisher.
func NewEventBridgeRepository(clients *Clients) repository.EventPublisher {
	return &EventBridgeRepositoryImpl{clients: clients}
}

func (r *EventBridgeRepositoryImpl) client(ctx context.Context) (eventBridgeAPI, error) {
	if r.api != nil {
		return r.api, nil
	}
	client, err := r.clients.getServiceClient(ctx, "eventbridge")
	if err != nil {
		return nil, err
	}
	return client.(*eventbridge.Client), nil
}

func (r *EventBridgeRepositoryImpl) Publish(ctx context.Context, busName, source, detailType string, detail []byte) (string, error) {
	client, err := r.client(ctx)
	if err != nil {
		return "", err
	}

	output, err := client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []ebTypes.PutEventsRequestEntry{
			{
				EventBusName: aws.String(busName),
				Source:       aws.String(source),
				DetailType:   aws.String(detailType),
				Detail:       aws.String(string(detail)),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("error publishing event to bus %s: %w", busName, err)
	}

	if output.FailedEntryCount > 0 || len(output.Entries) == 0 {
		if len(output.Entries) > 0 {
			entry := output.Entries[0]
			return "", fmt.Errorf("event rejected by bus %s: %s: %s", busName, aws.ToString(entry.ErrorCode), aws.ToString(entry.ErrorMessage))
		}
		return "", fmt.Errorf("event rejected by bus %s", busName)
	}
	return aws.ToString(output.Entries[0].EventId), nil
}
