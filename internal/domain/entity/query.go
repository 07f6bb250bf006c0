package entity

import "github.com/diillson/aws-anomaly-rca-go/internal/shared/types"

// QueryState is the lifecycle state of an asynchronous query execution.
type QueryState string

const (
	QuerySubmitted QueryState = "SUBMITTED"
	QueryRunning   QueryState = "RUNNING"
	QuerySucceeded QueryState = "SUCCEEDED"
	QueryFailed    QueryState = "FAILED"
	QueryCancelled QueryState = "CANCELLED"
)

// Terminal reports whether no further transition can happen from s.
func (s QueryState) Terminal() bool {
	return s == QuerySucceeded || s == QueryFailed || s == QueryCancelled
}

// QueryExecution is the observed state of one submitted query.
type QueryExecution struct {
	ExecutionID string     `json:"execution_id"`
	State       QueryState `json:"state"`
	StateReason string     `json:"state_reason,omitempty"`
}

// QueryOutcome is what the coordinator returns once a query reached a terminal state.
// Rows is only populated when the query succeeded; row 0 holds the column headers.
type QueryOutcome struct {
	Execution QueryExecution
	Rows      [][]string
}

// Succeeded reports whether the query finished successfully.
func (o QueryOutcome) Succeeded() bool {
	return o.Execution.State == QuerySucceeded
}

// Err returns a *types.QueryTerminalError for failed or cancelled queries, nil otherwise.
func (o QueryOutcome) Err() error {
	if o.Succeeded() {
		return nil
	}
	return &types.QueryTerminalError{
		ExecutionID: o.Execution.ExecutionID,
		State:       string(o.Execution.State),
		Reason:      o.Execution.StateReason,
	}
}
