package webauth

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventInit               ActivityEventType = "webauth.init"
	ActivityEventLoginSuccess       ActivityEventType = "webauth.login.success"
	ActivityEventLoginFailure       ActivityEventType = "webauth.login.failure"
	ActivityEventLogout             ActivityEventType = "webauth.logout"
	ActivityEventTransactionSigned  ActivityEventType = "webauth.transaction.signed"
	ActivityEventTransactionFailure ActivityEventType = "webauth.transaction.failure"
)

// ActivityEvent captures audit-friendly information about an action.
type ActivityEvent struct {
	EventType  ActivityEventType
	Actor      string
	Permission string
	ChainID    string
	SessionID  string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
