package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	webauth "github.com/goliatone/go-ual-webauth"
	"github.com/goliatone/go-ual-webauth/activitymap"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

const testChainID = "384da888112027f0321850a169f737c33e53b388aad48b5adace4bab97f437e0"

func setupManager(t *testing.T, opts ...activitymap.Option) (*Manager, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	mngr := NewManager(bunDB, opts...)
	mngr.MustValidate()
	require.NoError(t, mngr.CreateSchema(context.Background()))

	cleanup := func() {
		_ = bunDB.Close()
		_ = db.Close()
	}

	return mngr, cleanup
}

func event(eventType webauth.ActivityEventType, at time.Time) webauth.ActivityEvent {
	return webauth.ActivityEvent{
		EventType:  eventType,
		Actor:      "alice",
		Permission: "active",
		ChainID:    testChainID,
		SessionID:  "session-1",
		OccurredAt: at,
	}
}

func TestManagerRecordsSessionLifecycle(t *testing.T) {
	mngr, cleanup := setupManager(t)
	defer cleanup()

	ctx := context.Background()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, mngr.Record(ctx, event(webauth.ActivityEventLoginSuccess, start)))

	session, err := mngr.Sessions().Find(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Actor)
	assert.Equal(t, "active", session.Permission)
	assert.Equal(t, testChainID, session.ChainID)
	assert.WithinDuration(t, start, session.StartedAt, time.Second)

	signed := event(webauth.ActivityEventTransactionSigned, start.Add(time.Minute))
	signed.Metadata = map[string]any{"transaction_id": "abc123", "broadcast": true}
	require.NoError(t, mngr.Record(ctx, signed))

	session, err = mngr.Sessions().Find(ctx, "session-1")
	require.NoError(t, err)
	assert.WithinDuration(t, start, session.StartedAt, time.Second)
	assert.WithinDuration(t, start.Add(time.Minute), session.LastSeenAt, time.Second)

	live, err := mngr.Sessions().FindByActor(ctx, "alice", testChainID)
	require.NoError(t, err)
	require.Len(t, live, 1)

	require.NoError(t, mngr.Record(ctx, event(webauth.ActivityEventLogout, start.Add(2*time.Minute))))

	_, err = mngr.Sessions().Find(ctx, "session-1")
	assert.True(t, IsNotFound(err))

	records, err := mngr.Activities().FindByObject(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, string(webauth.ActivityEventLoginSuccess), records[0].Verb)
	assert.Equal(t, string(webauth.ActivityEventTransactionSigned), records[1].Verb)
	assert.Equal(t, string(webauth.ActivityEventLogout), records[2].Verb)

	assert.Equal(t, "alice", records[1].ActorID)
	assert.Equal(t, "session", records[1].ObjectType)
	assert.Equal(t, "webauth", records[1].Channel)
	assert.Equal(t, "abc123", records[1].Metadata["transaction_id"])
	assert.Equal(t, true, records[1].Metadata["broadcast"])
	assert.Equal(t, testChainID, records[1].Metadata[activitymap.MetadataKeyChainID])
}

func TestManagerRecordsAnonymousFailures(t *testing.T) {
	mngr, cleanup := setupManager(t, activitymap.WithActorFallback("dapp"))
	defer cleanup()

	ctx := context.Background()
	failure := webauth.ActivityEvent{
		EventType:  webauth.ActivityEventLoginFailure,
		ChainID:    testChainID,
		Metadata:   map[string]any{"error": "user rejected the request"},
		OccurredAt: time.Now(),
	}
	require.NoError(t, mngr.Record(ctx, failure))

	records, err := mngr.Activities().FindByActor(ctx, "dapp", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "user rejected the request", records[0].Metadata["error"])

	live, err := mngr.Sessions().FindByActor(ctx, "dapp", testChainID)
	require.NoError(t, err)
	assert.Empty(t, live)
}

func TestActivityRepositoryFindByActorLimit(t *testing.T) {
	mngr, cleanup := setupManager(t)
	defer cleanup()

	ctx := context.Background()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		e := event(webauth.ActivityEventTransactionSigned, start.Add(time.Duration(i)*time.Minute))
		require.NoError(t, mngr.Record(ctx, e))
	}

	records, err := mngr.Activities().FindByActor(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.WithinDuration(t, start, records[0].OccurredAt, time.Second)
}

func TestManagerRunInTxHonoursCancelledContext(t *testing.T) {
	mngr, cleanup := setupManager(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mngr.Record(ctx, event(webauth.ActivityEventLoginSuccess, time.Now()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManagerValidate(t *testing.T) {
	assert.Error(t, (&Manager{}).Validate())
}

func TestManagerAsActivitySink(t *testing.T) {
	mngr, cleanup := setupManager(t)
	defer cleanup()

	var sink webauth.ActivitySink = mngr
	require.NoError(t, sink.Record(context.Background(), event(webauth.ActivityEventInit, time.Now())))

	session, err := mngr.Sessions().Find(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Actor)
}

func TestActivityRepositoryInsertAndGetByID(t *testing.T) {
	mngr, cleanup := setupManager(t)
	defer cleanup()

	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	stored, err := mngr.Activities().Insert(ctx, activitymap.Normalize(event(webauth.ActivityEventLoginSuccess, at)))
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotEqual(t, uuid.Nil, stored.ID)

	found, err := mngr.Activities().GetByID(ctx, stored.ID.String())
	require.NoError(t, err)
	assert.Equal(t, string(webauth.ActivityEventLoginSuccess), found.Verb)
	assert.Equal(t, "alice", found.ActorID)
	assert.Equal(t, "session-1", found.ObjectID)
	assert.WithinDuration(t, at, found.OccurredAt, time.Second)

	_, err = mngr.Activities().GetByID(ctx, uuid.New().String())
	assert.True(t, IsNotFound(err))
}
