package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_Revoke(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_EntriesExpire(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()
	now := time.Now()
	blacklist.now = func() time.Time { return now }

	require.NoError(t, blacklist.Revoke(ctx, "short", time.Minute))
	require.NoError(t, blacklist.Revoke(ctx, "already-expired", 0))

	blacklist.now = func() time.Time { return now.Add(2 * time.Minute) }
	revoked, err := blacklist.IsRevoked(ctx, "short")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, blacklist.jtis)
}

func TestInMemoryTokenBlacklist_RevokeUser(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()
	revokedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	blacklist.now = func() time.Time { return revokedAt }

	revoked, err := blacklist.IsUserRevoked(ctx, "user-1", revokedAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked, "nothing recorded yet")

	require.NoError(t, blacklist.RevokeUser(ctx, "user-1", 24*time.Hour))

	tests := []struct {
		name     string
		issuedAt time.Time
		want     bool
	}{
		{"issued an hour before", revokedAt.Add(-time.Hour), true},
		{"issued a second before", revokedAt.Add(-time.Second), true},
		{"issued in the same second", revokedAt, false},
		{"issued after", revokedAt.Add(time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := blacklist.IsUserRevoked(ctx, "user-1", tt.issuedAt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	other, err := blacklist.IsUserRevoked(ctx, "user-2", revokedAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, other)
}
