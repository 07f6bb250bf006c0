package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diillson/aws-anomaly-rca-go/internal/application/analysis"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
	"github.com/diillson/aws-anomaly-rca-go/pkg/logger"
)

const stopQueryTimeout = 10 * time.Second

// QueryCoordinator submits a query, waits for a terminal state and fetches its rows.
type QueryCoordinator struct {
	queryRepo repository.QueryRepository
	settings  types.AthenaConfig
	log       *logger.Logger
}

// NewQueryCoordinator creates a new query coordinator.
func NewQueryCoordinator(queryRepo repository.QueryRepository, settings types.AthenaConfig, log *logger.Logger) *QueryCoordinator {
	if log == nil {
		log = logger.Nop()
	}
	return &QueryCoordinator{queryRepo: queryRepo, settings: settings, log: log}
}

// Execute runs query to completion. A Failed or Cancelled query is returned as
// an outcome with a nil error; errors are reserved for configuration problems,
// remote call failures, cancellation and the wait deadline.
func (c *QueryCoordinator) Execute(ctx context.Context, query analysis.Query) (entity.QueryOutcome, error) {
	if c.settings.Database == "" {
		return entity.QueryOutcome{}, types.MissingConfig("athena.database")
	}
	outputLocation := NormalizeOutputLocation(c.settings.OutputLocation)
	if outputLocation == "" {
		return entity.QueryOutcome{}, types.MissingConfig("athena.output_location")
	}

	executionID, err := c.queryRepo.StartQuery(ctx, repository.QueryRequest{
		QueryText:      query.Text,
		Parameters:     query.Parameters,
		Database:       c.settings.Database,
		OutputLocation: outputLocation,
		WorkGroup:      c.settings.WorkGroup,
	})
	if err != nil {
		return entity.QueryOutcome{}, err
	}
	c.log.Debugf("started query %s", executionID)

	execution, err := c.waitForCompletion(ctx, executionID)
	if err != nil {
		return entity.QueryOutcome{}, err
	}

	outcome := entity.QueryOutcome{Execution: execution}
	if !outcome.Succeeded() {
		c.log.Warnf("query %s finished with status %s: %s", executionID, execution.State, execution.StateReason)
		return outcome, nil
	}

	rows, err := c.queryRepo.GetQueryResults(ctx, executionID)
	if err != nil {
		return entity.QueryOutcome{}, err
	}
	outcome.Rows = rows
	c.log.Debugf("query %s returned %d rows", executionID, len(rows))
	return outcome, nil
}

func (c *QueryCoordinator) waitForCompletion(ctx context.Context, executionID string) (entity.QueryExecution, error) {
	interval := c.settings.PollInterval.Std()
	if interval <= 0 {
		interval = types.DefaultPollInterval
	}
	timeout := c.settings.QueryTimeout.Std()
	if timeout <= 0 {
		timeout = types.DefaultQueryTimeout
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		execution, err := c.queryRepo.GetQueryExecution(waitCtx, executionID)
		if err != nil {
			if waitCtx.Err() != nil {
				return entity.QueryExecution{}, c.abandon(ctx, executionID, timeout)
			}
			return entity.QueryExecution{}, err
		}
		if execution.State.Terminal() {
			return execution, nil
		}

		select {
		case <-waitCtx.Done():
			return entity.QueryExecution{}, c.abandon(ctx, executionID, timeout)
		case <-ticker.C:
		}
	}
}

// abandon stops a query the caller is no longer waiting for and returns the
// error that explains why.
func (c *QueryCoordinator) abandon(ctx context.Context, executionID string, timeout time.Duration) error {
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopQueryTimeout)
	defer cancel()
	if err := c.queryRepo.StopQuery(stopCtx, executionID); err != nil {
		c.log.Warnf("could not stop query %s: %v", executionID, err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("waiting for query %s: %w", executionID, err)
	}
	return fmt.Errorf("%w: query %s still running after %s", types.ErrQueryTimeout, executionID, timeout)
}

// NormalizeOutputLocation turns a bucket name (optionally with a prefix) into an
// s3:// URI. Values that already are s3:// URIs are returned unchanged.
func NormalizeOutputLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" || strings.HasPrefix(location, "s3://") {
		return location
	}
	return "s3://" + strings.TrimSuffix(location, "/") + "/"
}

// OutputBucket extracts the bucket name from an output location.
func OutputBucket(location string) string {
	location = strings.TrimPrefix(NormalizeOutputLocation(location), "s3://")
	if i := strings.Index(location, "/"); i >= 0 {
		return location[:i]
	}
	return location
}
