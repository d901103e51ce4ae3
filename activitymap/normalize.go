package activitymap

import (
	"maps"
	"strings"
	"time"

	webauth "github.com/goliatone/go-ual-webauth"
)

const (
	// MetadataKeyChainID stores the chain the session belongs to.
	MetadataKeyChainID = "chain_id"
	// MetadataKeyPermission stores the permission the session acts with.
	MetadataKeyPermission = "permission"
)

const (
	defaultChannel    = "webauth"
	defaultObjectType = "session"
	defaultActorID    = "anonymous"
)

// Normalized is a transport-agnostic activity shape for downstream systems.
type Normalized struct {
	ActorID    string         `json:"actor_id"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type,omitempty"`
	ObjectID   string         `json:"object_id,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Option customizes normalization behavior.
type Option func(*normalizeOptions)

type normalizeOptions struct {
	actorFallback    string
	objectIDResolver func(webauth.ActivityEvent) string
}

// Normalize converts a webauth.ActivityEvent into a generic normalized shape.
// Login failures carry no account, so the actor falls back to "anonymous".
func Normalize(event webauth.ActivityEvent, opts ...Option) Normalized {
	options := normalizeOptions{actorFallback: defaultActorID}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	actorID := strings.TrimSpace(event.Actor)
	if actorID == "" {
		actorID = options.actorFallback
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return Normalized{
		ActorID:    actorID,
		Verb:       string(event.EventType),
		ObjectType: defaultObjectType,
		ObjectID:   resolveObjectID(event, options.objectIDResolver),
		Channel:    defaultChannel,
		Metadata:   normalizeMetadata(event),
		OccurredAt: occurredAt,
	}
}

// WithObjectIDResolver overrides object-id extraction, which defaults to the
// event session id.
func WithObjectIDResolver(resolver func(webauth.ActivityEvent) string) Option {
	return func(opts *normalizeOptions) {
		if opts == nil {
			return
		}
		opts.objectIDResolver = resolver
	}
}

// WithActorFallback sets the actor id used when the event has no account.
func WithActorFallback(actorID string) Option {
	return func(opts *normalizeOptions) {
		if opts == nil {
			return
		}
		opts.actorFallback = strings.TrimSpace(actorID)
	}
}

func resolveObjectID(event webauth.ActivityEvent, resolver func(webauth.ActivityEvent) string) string {
	if resolver != nil {
		return strings.TrimSpace(resolver(event))
	}
	return strings.TrimSpace(event.SessionID)
}

func normalizeMetadata(event webauth.ActivityEvent) map[string]any {
	metadata := maps.Clone(event.Metadata)

	set := func(key, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if metadata == nil {
			metadata = map[string]any{}
		}
		if _, exists := metadata[key]; !exists {
			metadata[key] = value
		}
	}

	set(MetadataKeyChainID, event.ChainID)
	set(MetadataKeyPermission, event.Permission)

	return metadata
}
