package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyFormat = "session:%s"

// ErrNotFound 会话不存在或已过期
var ErrNotFound = errors.New("session not found")

// SessionKey 会话在Redis中的键
func SessionKey(id string) string {
	return fmt.Sprintf(sessionKeyFormat, id)
}

// Store 基于Redis的会话存储
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore 创建会话存储
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL 会话有效期
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Load 读取会话并顺延有效期
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	data, err := s.rdb.GetEx(ctx, SessionKey(id), s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sess := &Session{}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.ID = id
	return sess, nil
}

// Save 写回会话
func (s *Store) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, SessionKey(sess.ID), data, s.ttl).Err(); err != nil {
		return err
	}
	sess.modified = false
	return nil
}

// Delete 删除会话
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, SessionKey(id)).Err()
}
