package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"later/internal/domain/services"
)

// publishTimeout bounds a single publish so a slow broker cannot stall writers
const publishTimeout = 2 * time.Second

// RedisPublisher publishes scope changes as JSON on <prefix>scope-changed so
// other server processes can refresh their clients.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger
}

// NewRedisPublisher creates a publisher on an existing client
func NewRedisPublisher(client redis.UniversalClient, prefix string, logger *slog.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: Channel(prefix),
		logger:  logger,
	}
}

// Channel is the pub/sub channel name for prefix
func Channel(prefix string) string {
	return prefix + "scope-changed"
}

// ConnectRedis parses url, pings the server and returns a client
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// event is the wire form of a scope change
type event struct {
	ScopeKey    string    `json:"scope_key"`
	WorkspaceID string    `json:"workspace_id"`
	ContainerID string    `json:"container_id,omitempty"`
	Kind        string    `json:"kind"`
	EntityKind  string    `json:"entity_kind,omitempty"`
	EntityID    string    `json:"entity_id,omitempty"`
	At          time.Time `json:"at"`
}

// EncodeChange renders the wire form shared by Redis and SSE subscribers
func EncodeChange(change services.ScopeChange) ([]byte, error) {
	e := event{
		ScopeKey:    change.ScopeKey,
		WorkspaceID: change.Scope.WorkspaceID,
		ContainerID: change.Scope.ContainerID,
		Kind:        string(change.Kind),
		At:          change.At.UTC(),
	}
	if change.Ref != nil {
		e.EntityKind = string(change.Ref.Kind)
		e.EntityID = change.Ref.ID
	}
	return json.Marshal(e)
}

// ScopeChanged implements services.ChangeNotifier. Failures are logged; the
// mutation has already committed.
func (p *RedisPublisher) ScopeChanged(ctx context.Context, change services.ScopeChange) {
	payload, err := EncodeChange(change)
	if err != nil {
		p.logger.Error("failed to encode scope change", "scope", change.ScopeKey, "error", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.client.Publish(pubCtx, p.channel, payload).Err(); err != nil {
		p.logger.Warn("failed to publish scope change",
			"channel", p.channel,
			"scope", change.ScopeKey,
			"error", err,
		)
		return
	}

	p.logger.Debug("scope change published", "channel", p.channel, "scope", change.ScopeKey, "kind", change.Kind)
}
