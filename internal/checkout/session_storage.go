package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
)

var ErrSessionNotFound = errors.New("checkout session not found")

// SessionStorage holds the in-flight checkout drafts.
type SessionStorage interface {
	Get(ctx context.Context, sessionID string) (*domain.CheckoutSession, error)
	Save(ctx context.Context, session *domain.CheckoutSession) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStorage keeps drafts under checkout:<id>. The TTL doubles as
// the abandonment cutoff; an expired draft simply disappears.
type RedisSessionStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStorage(client *redis.Client, ttl time.Duration) *RedisSessionStorage {
	return &RedisSessionStorage{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisSessionStorage) key(sessionID string) string {
	return fmt.Sprintf("checkout:%s", sessionID)
}

func (s *RedisSessionStorage) Get(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}

		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}

	var session domain.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	return &session, nil
}

func (s *RedisSessionStorage) Save(ctx context.Context, session *domain.CheckoutSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(session.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save checkout session: %w", err)
	}

	return nil
}

func (s *RedisSessionStorage) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete checkout session: %w", err)
	}

	return nil
}

// MemorySessionStorage is the test double for SessionStorage.
type MemorySessionStorage struct {
	sessions map[string]*domain.CheckoutSession
}

func NewMemorySessionStorage() *MemorySessionStorage {
	return &MemorySessionStorage{sessions: make(map[string]*domain.CheckoutSession)}
}

func (s *MemorySessionStorage) Get(_ context.Context, sessionID string) (*domain.CheckoutSession, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	clone := *session
	return &clone, nil
}

func (s *MemorySessionStorage) Save(_ context.Context, session *domain.CheckoutSession) error {
	clone := *session
	s.sessions[session.ID] = &clone
	return nil
}

func (s *MemorySessionStorage) Delete(_ context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}
