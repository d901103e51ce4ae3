package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// SessionModel tracks wallet sessions that are currently logged in.
type SessionModel struct {
	bun.BaseModel `bun:"table:webauth_sessions"`

	SessionID  string    `bun:"session_id,pk"`
	Actor      string    `bun:"actor,notnull"`
	Permission string    `bun:"permission"`
	ChainID    string    `bun:"chain_id,notnull"`
	StartedAt  time.Time `bun:"started_at,notnull"`
	LastSeenAt time.Time `bun:"last_seen_at,notnull"`
}

// SessionRepository stores the set of live wallet sessions.
type SessionRepository struct {
	db bun.IDB
}

// NewSessionRepository creates a new repository.
func NewSessionRepository(db bun.IDB) *SessionRepository {
	return &SessionRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *SessionRepository) WithTx(tx bun.IDB) *SessionRepository {
	return &SessionRepository{db: tx}
}

// Touch inserts the session or refreshes its last seen time.
func (r *SessionRepository) Touch(ctx context.Context, session *SessionModel) error {
	model := *session
	if model.StartedAt.IsZero() {
		model.StartedAt = model.LastSeenAt
	}
	model.StartedAt = model.StartedAt.UTC()
	model.LastSeenAt = model.LastSeenAt.UTC()

	_, err := r.db.NewInsert().
		Model(&model).
		On("CONFLICT (session_id) DO UPDATE").
		Set("last_seen_at = EXCLUDED.last_seen_at").
		Exec(ctx)
	return err
}

// Find returns a live session. IsNotFound reports true for the error when
// the session is unknown or logged out.
func (r *SessionRepository) Find(ctx context.Context, sessionID string) (*SessionModel, error) {
	var model SessionModel
	err := r.db.NewSelect().
		Model(&model).
		Where("session_id = ?", sessionID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// FindByActor returns the live sessions of an account on a chain.
func (r *SessionRepository) FindByActor(ctx context.Context, actor, chainID string) ([]*SessionModel, error) {
	var models []*SessionModel
	err := r.db.NewSelect().
		Model(&models).
		Where("actor = ? AND chain_id = ?", actor, chainID).
		Order("started_at ASC").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*SessionModel{}, nil
		}
		return nil, err
	}
	return models, nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.NewDelete().
		Model((*SessionModel)(nil)).
		Where("session_id = ?", sessionID).
		Exec(ctx)
	return err
}
