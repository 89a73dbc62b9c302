package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conversation is the per-session agent state. The last-created segment
// pointer lives here so concurrent sessions never clobber each other.
type Conversation struct {
	SessionID       string    `json:"session_id"`
	LastSegmentID   string    `json:"last_segment_id,omitempty"`
	LastSegmentName string    `json:"last_segment_name,omitempty"`
	MessageCount    int       `json:"message_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ConversationStore persists per-session conversations.
type ConversationStore interface {
	Get(ctx context.Context, sessionID string) (*Conversation, error)
	Save(ctx context.Context, conv *Conversation) error
}

// MemoryStore keeps conversations in process memory. Suitable for a
// single-instance deployment; state is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[string]Conversation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{convs: map[string]Conversation{}}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if conv, ok := m.convs[sessionID]; ok {
		return &conv, nil
	}
	return &Conversation{SessionID: sessionID}, nil
}

func (m *MemoryStore) Save(_ context.Context, conv *Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convs[conv.SessionID] = *conv
	return nil
}

// RedisStore keeps conversations in Redis so sessions survive restarts
// and are shared across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps a redis client. ttl <= 0 defaults to 24h.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func conversationKey(sessionID string) string {
	return "conversation:" + sessionID
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Conversation, error) {
	data, err := r.client.Get(ctx, conversationKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Conversation{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", sessionID, err)
	}
	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("parse conversation %s: %w", sessionID, err)
	}
	return &conv, nil
}

func (r *RedisStore) Save(ctx context.Context, conv *Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("marshal conversation %s: %w", conv.SessionID, err)
	}
	if err := r.client.Set(ctx, conversationKey(conv.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save conversation %s: %w", conv.SessionID, err)
	}
	return nil
}
