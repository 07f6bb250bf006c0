package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
)

// Clients carrega a configuração AWS uma única vez e mantém um cache de clientes por serviço.
// Every client retries transient failures with the SDK's adaptive mode.
type Clients struct {
	settings    types.AWSConfig
	cfg         *aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
}

// NewClients cria a fábrica de clientes compartilhada pelos repositórios AWS.
func NewClients(settings types.AWSConfig) *Clients {
	return &Clients{
		settings:    settings,
		clientCache: make(map[string]interface{}),
	}
}

func (c *Clients) getAWSConfig(ctx context.Context) (aws.Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg != nil {
		return *c.cfg, nil
	}

	maxAttempts := c.settings.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = types.DefaultMaxAttempts
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRetryMaxAttempts(maxAttempts),
		config.WithRetryMode(aws.RetryModeAdaptive),
	}
	if c.settings.Region != "" {
		opts = append(opts, config.WithRegion(c.settings.Region))
	}
	if c.settings.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(c.settings.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	c.cfg = &cfg
	return cfg, nil
}

func (c *Clients) getServiceClient(ctx context.Context, service string) (interface{}, error) {
	c.mu.Lock()
	if client, ok := c.clientCache[service]; ok {
		c.mu.Unlock()
		return client, nil
	}
	c.mu.Unlock()

	cfg, err := c.getAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	var client interface{}
	switch service {
	case "athena":
		client = athena.NewFromConfig(cfg)
	case "costexplorer":
		// Cost Explorer só responde em us-east-1
		client = costexplorer.NewFromConfig(cfg, func(o *costexplorer.Options) {
			o.Region = "us-east-1"
		})
	case "eventbridge":
		client = eventbridge.NewFromConfig(cfg)
	case "sesv2":
		client = sesv2.NewFromConfig(cfg)
	case "sns":
		client = sns.NewFromConfig(cfg)
	case "sts":
		client = sts.NewFromConfig(cfg)
	case "s3":
		client = s3.NewFromConfig(cfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	c.mu.Lock()
	c.clientCache[service] = client
	c.mu.Unlock()

	return client, nil
}
