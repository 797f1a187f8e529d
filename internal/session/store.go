// Package session keeps the ephemeral per-login state (role, name, email)
// that the original system held in browser session storage. Records are keyed
// by the token ID, so deleting one revokes that login.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Session struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type Store interface {
	// Enabled reports whether session records are being kept at all. With no
	// Redis configured the auth flow falls back to stateless tokens.
	Enabled() bool
	Save(ctx context.Context, tokenID string, sess Session, ttl time.Duration) error
	Get(ctx context.Context, tokenID string) (*Session, error)
	// Refresh overwrites the stored fields while keeping the record's TTL.
	Refresh(ctx context.Context, tokenID string, sess Session) error
	Delete(ctx context.Context, tokenID string) error
}

type redisStore struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func sessionKey(tokenID string) string {
	return fmt.Sprintf("session:%s", tokenID)
}

func (s *redisStore) Enabled() bool {
	return s.rdb != nil
}

func (s *redisStore) Save(ctx context.Context, tokenID string, sess Session, ttl time.Duration) error {
	if s.rdb == nil {
		return nil
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, sessionKey(tokenID), payload, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, tokenID string) (*Session, error) {
	if s.rdb == nil {
		return nil, redis.Nil
	}

	payload, err := s.rdb.Get(ctx, sessionKey(tokenID)).Bytes()
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, err
	}

	return &sess, nil
}

func (s *redisStore) Refresh(ctx context.Context, tokenID string, sess Session) error {
	if s.rdb == nil {
		return nil
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, sessionKey(tokenID), payload, redis.KeepTTL).Err()
}

func (s *redisStore) Delete(ctx context.Context, tokenID string) error {
	if s.rdb == nil {
		return nil
	}

	return s.rdb.Del(ctx, sessionKey(tokenID)).Err()
}
