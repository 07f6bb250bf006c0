package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
)

// fakeQueryRepo walks through states, one per status poll; the last state repeats.
type fakeQueryRepo struct {
	mu       sync.Mutex
	states   []entity.QueryState
	reason   string
	rows     [][]string
	startErr error
	requests []repository.QueryRequest
	polls    int
	stopped  []string
}

func (f *fakeQueryRepo) StartQuery(_ context.Context, req repository.QueryRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return "", f.startErr
	}
	f.requests = append(f.requests, req)
	return "qe-1", nil
}

func (f *fakeQueryRepo) GetQueryExecution(ctx context.Context, id string) (entity.QueryExecution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return entity.QueryExecution{}, err
	}
	state := f.states[len(f.states)-1]
	if f.polls < len(f.states) {
		state = f.states[f.polls]
	}
	f.polls++
	return entity.QueryExecution{ExecutionID: id, State: state, StateReason: f.reason}, nil
}

func (f *fakeQueryRepo) GetQueryResults(_ context.Context, _ string) ([][]string, error) {
	return f.rows, nil
}

func (f *fakeQueryRepo) StopQuery(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, id)
	return nil
}

type publishedEvent struct {
	bus, source, detailType string
	detail                  []byte
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, bus, source, detailType string, detail []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.events = append(f.events, publishedEvent{bus, source, detailType, detail})
	return "evt-" + string(rune('0'+len(f.events))), nil
}

type fakeEmail struct {
	verified map[string]bool
	failing  map[string]bool
	sent     []entity.EmailMessage
	sendErr  error
	lookups  int
}

func (f *fakeEmail) IsVerified(_ context.Context, address string) (bool, error) {
	f.lookups++
	if f.failing[address] {
		return false, errors.New("throttled")
	}
	return f.verified[address], nil
}

func (f *fakeEmail) SendEmail(_ context.Context, msg entity.EmailMessage) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, msg)
	return "msg-" + string(rune('0'+len(f.sent))), nil
}

type fakeTopic struct {
	published []string
}

func (f *fakeTopic) Publish(_ context.Context, topicARN, subject, message string) (string, error) {
	f.published = append(f.published, topicARN+"|"+subject+"|"+message)
	return "sns-1", nil
}

type fakeIdentity struct {
	account   string
	bucketErr error
	buckets   []string
}

func (f *fakeIdentity) CallerAccount(_ context.Context) (string, error) {
	if f.account == "" {
		return "", errors.New("no credentials")
	}
	return f.account, nil
}

func (f *fakeIdentity) BucketReachable(_ context.Context, bucket string) error {
	f.buckets = append(f.buckets, bucket)
	return f.bucketErr
}
