package repository

import (
	"context"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
)

// QueryRequest is a parameterized query submission.
type QueryRequest struct {
	QueryText      string
	Parameters     []string
	Database       string
	OutputLocation string
	WorkGroup      string
}

// QueryRepository defines the interface for the asynchronous query service.
type QueryRepository interface {
	StartQuery(ctx context.Context, req QueryRequest) (string, error)
	GetQueryExecution(ctx context.Context, executionID string) (entity.QueryExecution, error)
	// GetQueryResults returns every result row; row 0 holds the column headers.
	GetQueryResults(ctx context.Context, executionID string) ([][]string, error)
	StopQuery(ctx context.Context, executionID string) error
}
