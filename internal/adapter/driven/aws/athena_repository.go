package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenaTypes "github.com/aws/aws-sdk-go-v2/service/athena/types"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
)

type athenaAPI interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
	StopQueryExecution(ctx context.Context, params *athena.StopQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StopQueryExecutionOutput, error)
}

// AthenaRepositoryImpl implementa o QueryRepository sobre o Amazon Athena.
type AthenaRepositoryImpl struct {
	clients *Clients
	api     athenaAPI
}

// NewAthenaRepository cria uma nova implementação do QueryRepository.
func NewAthenaRepository(clients *Clients) repository.QueryRepository {
	return &AthenaRepositoryImpl{clients: clients}
}

func (r *AthenaRepositoryImpl) client(ctx context.Context) (athenaAPI, error) {
	if r.api != nil {
		return r.api, nil
	}
	client, err := r.clients.getServiceClient(ctx, "athena")
	if err != nil {
		return nil, err
	}
	return client.(*athena.Client), nil
}

func (r *AthenaRepositoryImpl) StartQuery(ctx context.Context, req repository.QueryRequest) (string, error) {
	client, err := r.client(ctx)
	if err != nil {
		return "", err
	}

	input := &athena.StartQueryExecutionInput{
		QueryString:           aws.String(req.QueryText),
		QueryExecutionContext: &athenaTypes.QueryExecutionContext{Database: aws.String(req.Database)},
		ResultConfiguration:   &athenaTypes.ResultConfiguration{OutputLocation: aws.String(req.OutputLocation)},
	}
	if len(req.Parameters) > 0 {
		input.ExecutionParameters = req.Parameters
	}
	if req.WorkGroup != "" {
		input.WorkGroup = aws.String(req.WorkGroup)
	}

	output, err := client.StartQueryExecution(ctx, input)
	if err != nil {
		return "", fmt.Errorf("error starting Athena query: %w", err)
	}
	return aws.ToString(output.QueryExecutionId), nil
}

func (r *AthenaRepositoryImpl) GetQueryExecution(ctx context.Context, executionID string) (entity.QueryExecution, error) {
	client, err := r.client(ctx)
	if err != nil {
		return entity.QueryExecution{}, err
	}

	output, err := client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{QueryExecutionId: aws.String(executionID)})
	if err != nil {
		return entity.QueryExecution{}, fmt.Errorf("error getting status of Athena query %s: %w", executionID, err)
	}

	execution := entity.QueryExecution{ExecutionID: executionID, State: entity.QuerySubmitted}
	if output.QueryExecution != nil && output.QueryExecution.Status != nil {
		status := output.QueryExecution.Status
		execution.State = mapQueryState(status.State)
		execution.StateReason = aws.ToString(status.StateChangeReason)
	}
	return execution, nil
}

func mapQueryState(state athenaTypes.QueryExecutionState) entity.QueryState {
	switch state {
	case athenaTypes.QueryExecutionStateRunning:
		return entity.QueryRunning
	case athenaTypes.QueryExecutionStateSucceeded:
		return entity.QuerySucceeded
	case athenaTypes.QueryExecutionStateFailed:
		return entity.QueryFailed
	case athenaTypes.QueryExecutionStateCancelled:
		return entity.QueryCancelled
	default:
		return entity.QuerySubmitted
	}
}

func (r *AthenaRepositoryImpl) GetQueryResults(ctx context.Context, executionID string) ([][]string, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	var nextToken *string
	for {
		output, err := client.GetQueryResults(ctx, &athena.GetQueryResultsInput{
			QueryExecutionId: aws.String(executionID),
			NextToken:        nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("error getting results of Athena query %s: %w", executionID, err)
		}

		if output.ResultSet != nil {
			for _, row := range output.ResultSet.Rows {
				values := make([]string, len(row.Data))
				for i, datum := range row.Data {
					values[i] = aws.ToString(datum.VarCharValue)
				}
				rows = append(rows, values)
			}
		}

		if aws.ToString(output.NextToken) == "" {
			break
		}
		nextToken = output.NextToken
	}
	return rows, nil
}

func (r *AthenaRepositoryImpl) StopQuery(ctx context.Context, executionID string) error {
	client, err := r.client(ctx)
	if err != nil {
		return err
	}
	if _, err := client.StopQueryExecution(ctx, &athena.StopQueryExecutionInput{QueryExecutionId: aws.String(executionID)}); err != nil {
		return fmt.Errorf("error stopping Athena query %s: %w", executionID, err)
	}
	return nil
}
