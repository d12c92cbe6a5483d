package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes tokens before they expire. Entries only need to live
// as long as the token they revoke, so every write carries a TTL.
type TokenBlacklist interface {
	// Revoke blacklists a single token by its jti
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeUser rejects every token of the user issued before now, e.g. after
	// a password change or deactivation
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	// IsUserRevoked reports whether a token issued at issuedAt predates the
	// user's last RevokeUser. Token iat has second precision, so the
	// comparison is done in whole seconds.
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const defaultKeyPrefix = "feed:auth:revoked:"

// RedisTokenBlacklist implements TokenBlacklist using Redis, shared by every replica
type RedisTokenBlacklist struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisTokenBlacklist creates a token blacklist over an existing Redis client
func NewRedisTokenBlacklist(client redis.UniversalClient) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client, keyPrefix: defaultKeyPrefix}
}

func (b *RedisTokenBlacklist) jtiKey(jti string) string {
	return b.keyPrefix + "jti:" + jti
}

func (b *RedisTokenBlacklist) userKey(userID string) string {
	return b.keyPrefix + "user:" + userID
}

// Revoke adds a token's jti to the blacklist
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks whether a jti is blacklisted
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check token blacklist: %w", err)
	}
	return n > 0, nil
}

// RevokeUser stores the revocation second for the user
func (b *RedisTokenBlacklist) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevoked compares issuedAt with the stored revocation second
func (b *RedisTokenBlacklist) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := b.client.Get(ctx, b.userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user revocation: %w", err)
	}
	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse user revocation: %w", err)
	}
	return issuedAt.Unix() < revokedAt, nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist is used when Redis is disabled. Revocations are
// local to the process, so it only suits a single replica.
type InMemoryTokenBlacklist struct {
	mu    sync.Mutex
	jtis  map[string]time.Time // jti -> entry expiry
	users map[string]userRevocation
	now   func() time.Time
}

type userRevocation struct {
	at      time.Time
	expires time.Time
}

// NewInMemoryTokenBlacklist creates a new in-memory token blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		jtis:  make(map[string]time.Time),
		users: make(map[string]userRevocation),
		now:   time.Now,
	}
}

// Revoke adds a token's jti to the blacklist
func (b *InMemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jtis[jti] = b.now().Add(ttl)
	return nil
}

// IsRevoked checks whether a jti is blacklisted, dropping expired entries
func (b *InMemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	expires, ok := b.jtis[jti]
	if !ok {
		return false, nil
	}
	if b.now().After(expires) {
		delete(b.jtis, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser records the revocation time for the user
func (b *InMemoryTokenBlacklist) RevokeUser(_ context.Context, userID string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	b.users[userID] = userRevocation{at: now, expires: now.Add(ttl)}
	return nil
}

// IsUserRevoked compares issuedAt with the recorded revocation second
func (b *InMemoryTokenBlacklist) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rev, ok := b.users[userID]
	if !ok {
		return false, nil
	}
	if b.now().After(rev.expires) {
		delete(b.users, userID)
		return false, nil
	}
	return issuedAt.Unix() < rev.at.Unix(), nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
