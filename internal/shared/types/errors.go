package types

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedAlert       = errors.New("malformed anomaly alert")
	ErrMissingConfiguration = errors.New("missing configuration")
	ErrMalformedResult      = errors.New("malformed query result")
	ErrQueryTerminalFailure = errors.New("query ended in a terminal failure state")
	ErrQueryTimeout         = errors.New("query did not finish before the deadline")
	ErrNoRecipients         = errors.New("no deliverable recipients")
	ErrNoRecords            = errors.New("no records found in event")
)

// MissingConfigError identifies the configuration key that was required but unset.
type MissingConfigError struct {
	Key    string
	Reason string
}

func (e *MissingConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", ErrMissingConfiguration, e.Key, e.Reason)
	}
	return fmt.Sprintf("%s: %s is not set", ErrMissingConfiguration, e.Key)
}

func (e *MissingConfigError) Is(target error) bool {
	return target == ErrMissingConfiguration
}

// MissingConfig builds a MissingConfigError for key.
func MissingConfig(key string) error {
	return &MissingConfigError{Key: key}
}

// QueryTerminalError carries the terminal state of a query that did not succeed.
type QueryTerminalError struct {
	ExecutionID string
	State       string
	Reason      string
}

func (e *QueryTerminalError) Error() string {
	msg := fmt.Sprintf("query %s finished with status %s", e.ExecutionID, e.State)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *QueryTerminalError) Is(target error) bool {
	return target == ErrQueryTerminalFailure
}
