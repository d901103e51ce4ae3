package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-ual-webauth/activitymap"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ActivityModel is the Bun model for normalized webauth activity.
type ActivityModel struct {
	bun.BaseModel `bun:"table:webauth_activities"`

	ID         uuid.UUID      `bun:"id,pk,nullzero,type:uuid"`
	ActorID    string         `bun:"actor_id,notnull"`
	Verb       string         `bun:"verb,notnull"`
	ObjectType string         `bun:"object_type"`
	ObjectID   string         `bun:"object_id"`
	Channel    string         `bun:"channel"`
	Metadata   map[string]any `bun:"metadata,type:jsonb"`
	OccurredAt time.Time      `bun:"occurred_at,notnull"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// ActivityRepository stores normalized activity records. Writes and id
// lookups go through the generic repository; list queries use bun directly.
type ActivityRepository struct {
	records repository.Repository[*ActivityModel]
	db      bun.IDB
}

// NewActivityRepository creates a new repository.
func NewActivityRepository(db *bun.DB) *ActivityRepository {
	handlers := repository.ModelHandlers[*ActivityModel]{
		NewRecord: func() *ActivityModel {
			return &ActivityModel{}
		},
		GetID: func(record *ActivityModel) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *ActivityModel, id uuid.UUID) {
			if record != nil {
				record.ID = id
			}
		},
	}

	return &ActivityRepository{
		records: repository.NewRepository(db, handlers),
		db:      db,
	}
}

// WithTx returns a repository bound to tx.
func (r *ActivityRepository) WithTx(tx bun.IDB) *ActivityRepository {
	return &ActivityRepository{records: r.records, db: tx}
}

// Insert stores record and returns the stored row.
func (r *ActivityRepository) Insert(ctx context.Context, record activitymap.Normalized) (*ActivityModel, error) {
	return r.records.CreateTx(ctx, r.db, fromNormalized(record))
}

// GetByID returns a single activity record.
func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*ActivityModel, error) {
	return r.records.GetByID(ctx, id)
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows)
}

// FindByActor returns the activity of an account, oldest first. A limit of
// zero or less returns every record.
func (r *ActivityRepository) FindByActor(ctx context.Context, actorID string, limit int) ([]activitymap.Normalized, error) {
	var models []ActivityModel
	q := r.db.NewSelect().
		Model(&models).
		Where("actor_id = ?", actorID).
		Order("occurred_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return toNormalized(models), nil
}

// FindByObject returns the activity recorded against objectID, usually a
// wallet session id, oldest first.
func (r *ActivityRepository) FindByObject(ctx context.Context, objectID string) ([]activitymap.Normalized, error) {
	var models []ActivityModel
	err := r.db.NewSelect().
		Model(&models).
		Where("object_id = ?", objectID).
		Order("occurred_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toNormalized(models), nil
}

func fromNormalized(n activitymap.Normalized) *ActivityModel {
	metadata := map[string]any{}
	for k, v := range n.Metadata {
		metadata[k] = v
	}

	return &ActivityModel{
		ID:         uuid.New(),
		ActorID:    n.ActorID,
		Verb:       n.Verb,
		ObjectType: n.ObjectType,
		ObjectID:   n.ObjectID,
		Channel:    n.Channel,
		Metadata:   metadata,
		OccurredAt: n.OccurredAt.UTC(),
	}
}

func toNormalized(models []ActivityModel) []activitymap.Normalized {
	out := make([]activitymap.Normalized, len(models))
	for i, m := range models {
		out[i] = activitymap.Normalized{
			ActorID:    m.ActorID,
			Verb:       m.Verb,
			ObjectType: m.ObjectType,
			ObjectID:   m.ObjectID,
			Channel:    m.Channel,
			Metadata:   m.Metadata,
			OccurredAt: m.OccurredAt,
		}
	}
	return out
}
