package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	webauth "github.com/goliatone/go-ual-webauth"
	"github.com/goliatone/go-ual-webauth/activitymap"
	"github.com/uptrace/bun"
)

// Manager groups the webauth repositories and records activity events.
// It implements webauth.ActivitySink.
type Manager struct {
	db         *bun.DB
	activities *ActivityRepository
	sessions   *SessionRepository
	normalize  []activitymap.Option
}

var _ webauth.ActivitySink = (*Manager)(nil)

// NewManager creates a manager over db. opts are applied when events are
// normalized.
func NewManager(db *bun.DB, opts ...activitymap.Option) *Manager {
	return &Manager{
		db:         db,
		activities: NewActivityRepository(db),
		sessions:   NewSessionRepository(db),
		normalize:  opts,
	}
}

func (m *Manager) Validate() error {
	if m.db == nil {
		return errors.New("repository db should be initialized")
	}

	if m.activities == nil {
		return errors.New("repository activities should be initialized")
	}

	if m.sessions == nil {
		return errors.New("repository sessions should be initialized")
	}

	return nil
}

func (m *Manager) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

// CreateSchema creates the tables used by the repositories.
func (m *Manager) CreateSchema(ctx context.Context) error {
	for _, model := range []any{(*ActivityModel)(nil), (*SessionModel)(nil)} {
		if _, err := m.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m *Manager) Activities() *ActivityRepository {
	return m.activities
}

func (m *Manager) Sessions() *SessionRepository {
	return m.sessions
}

// Record stores the normalized event and keeps the live session table in
// step with it: init, login and signing refresh the session, logout
// removes it.
func (m *Manager) Record(ctx context.Context, event webauth.ActivityEvent) error {
	record := activitymap.Normalize(event, m.normalize...)

	return m.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := m.activities.WithTx(tx).Insert(ctx, record); err != nil {
			return err
		}

		if event.SessionID == "" {
			return nil
		}

		sessions := m.sessions.WithTx(tx)
		switch event.EventType {
		case webauth.ActivityEventLogout:
			return sessions.Delete(ctx, event.SessionID)
		case webauth.ActivityEventInit,
			webauth.ActivityEventLoginSuccess,
			webauth.ActivityEventTransactionSigned:
			return sessions.Touch(ctx, &SessionModel{
				SessionID:  event.SessionID,
				Actor:      event.Actor,
				Permission: event.Permission,
				ChainID:    event.ChainID,
				LastSeenAt: record.OccurredAt,
			})
		}
		return nil
	})
}
