package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using Redis.
// Session records live at "session:<token>" with a TTL matching their expiry;
// a per-user sorted set scored by last-activity time serves the
// least-recently-active ordering needed for concurrent-session eviction.
type SessionRepositoryImpl struct {
	client *redis.Client
	prefix string
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(client *redis.Client) domain.SessionRepository {
	return &SessionRepositoryImpl{
		client: client,
		prefix: "session:",
	}
}

func (r *SessionRepositoryImpl) key(token string) string {
	return r.prefix + token
}

func (r *SessionRepositoryImpl) indexKey(userID uint) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session expiry must be in the future")
	}

	if err := r.client.Set(ctx, r.key(session.Token), data, ttl).Err(); err != nil {
		return err
	}

	return r.client.ZAdd(ctx, r.indexKey(session.UserID), redis.Z{
		Score:  float64(session.LastActivity.UnixNano()),
		Member: session.Token,
	}).Err()
}

// FindByToken implements domain.SessionRepository. Inactive or expired
// sessions are returned as stored; the caller decides their semantics.
func (r *SessionRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.key(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Touch implements domain.SessionRepository. It bumps last_activity on the
// record and its index score without extending the session's expiry.
func (r *SessionRepositoryImpl) Touch(ctx context.Context, token string, at time.Time) error {
	session, err := r.FindByToken(ctx, token)
	if err != nil {
		return err
	}

	session.LastActivity = at
	if err := r.save(ctx, session); err != nil {
		return err
	}

	return r.client.ZAdd(ctx, r.indexKey(session.UserID), redis.Z{
		Score:  float64(at.UnixNano()),
		Member: session.Token,
	}).Err()
}

// Deactivate implements domain.SessionRepository. The record is kept as a
// tombstone until its natural TTL so later validates report "inactive"
// rather than "not found"; the token is removed from the active index and is
// never reactivated.
func (r *SessionRepositoryImpl) Deactivate(ctx context.Context, token string) error {
	session, err := r.FindByToken(ctx, token)
	if err != nil {
		return err
	}

	session.IsActive = false
	if err := r.save(ctx, session); err != nil {
		return err
	}

	return r.client.ZRem(ctx, r.indexKey(session.UserID), token).Err()
}

// ListActiveByUser implements domain.SessionRepository, most-recently-active
// first. Index members whose record has expired out of Redis are pruned.
func (r *SessionRepositoryImpl) ListActiveByUser(ctx context.Context, userID uint) ([]*domain.Session, error) {
	tokens, err := r.client.ZRevRange(ctx, r.indexKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sessions := make([]*domain.Session, 0, len(tokens))
	for _, token := range tokens {
		session, err := r.FindByToken(ctx, token)
		if err != nil {
			if err == domain.ErrSessionNotFound {
				r.client.ZRem(ctx, r.indexKey(userID), token)
				continue
			}
			return nil, err
		}
		if !session.Usable(now) {
			r.client.ZRem(ctx, r.indexKey(userID), token)
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// DeleteExpired implements domain.SessionRepository. Redis evicts expired
// records via TTL; stale index members are pruned lazily in ListActiveByUser.
func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context) error {
	return nil
}

// save rewrites a session record preserving its remaining TTL.
func (r *SessionRepositoryImpl) save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.key(session.Token), data, redis.KeepTTL).Err()
}
