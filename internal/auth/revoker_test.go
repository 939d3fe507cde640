package auth

import (
	"context"
	"testing"
	"time"
)

func TestRedisRevokerKey(t *testing.T) {
	r := NewRedisRevoker(RedisConfig{Addr: "127.0.0.1:1"})
	defer r.Close()

	if got := r.key("abc"); got != "clientmgr:revoked:abc" {
		t.Errorf("key = %q", got)
	}
}

func TestRedisRevokerSkipsExpiredTokens(t *testing.T) {
	r := NewRedisRevoker(RedisConfig{Addr: "127.0.0.1:1"})
	defer r.Close()

	if err := r.Revoke(context.Background(), "abc", time.Now().Add(-time.Minute)); err != nil {
		t.Errorf("revoking an expired token should not reach redis: %v", err)
	}
}

func TestRedisRevokerUnreachable(t *testing.T) {
	r := NewRedisRevoker(RedisConfig{Addr: "127.0.0.1:1"})
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.IsRevoked(ctx, "abc"); err == nil {
		t.Error("expected an error from an unreachable server")
	}
}
