package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
)

// IdentityRepositoryImpl implementa as verificações de preflight (STS e S3).
type IdentityRepositoryImpl struct {
	clients *Clients
}

// NewIdentityRepository cria uma nova implementação do IdentityRepository.
func NewIdentityRepository(clients *Clients) repository.IdentityRepository {
	return &IdentityRepositoryImpl{clients: clients}
}

func (r *IdentityRepositoryImpl) CallerAccount(ctx context.Context) (string, error) {
	client, err := r.clients.getServiceClient(ctx, "sts")
	if err != nil {
		return "", err
	}
	stsClient := client.(*sts.Client)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting caller identity: %w", err)
	}
	return aws.ToString(result.Account), nil
}

func (r *IdentityRepositoryImpl) BucketReachable(ctx context.Context, bucket string) error {
	client, err := r.clients.getServiceClient(ctx, "s3")
	if err != nil {
		return err
	}
	s3Client := client.(*s3.Client)

	if _, err := s3Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return fmt.Errorf("bucket %s is not reachable: %w", bucket, err)
	}
	return nil
}
