package session

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type Cmdable interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
}

// SessionManagerRedis signs tokens with jwt and keeps the session id in redis,
// so a token stops working as soon as its session is destroyed.
type SessionManagerRedis struct {
	rdb Cmdable
	jwt SessionManager
	ttl time.Duration
}

func NewSessionManagerRedis(rdb Cmdable, jwt SessionManager, ttl time.Duration) *SessionManagerRedis {
	return &SessionManagerRedis{rdb: rdb, jwt: jwt, ttl: ttl}
}

func (sm *SessionManagerRedis) Create(ctx context.Context, u *User, sessID string, expiresAt int64) (string, error) {
	token, err := sm.jwt.Create(ctx, u, sessID, expiresAt)
	if err != nil {
		return "", err
	}

	err = sm.rdb.Set(ctx, sessID, u.ID, sm.ttl).Err()
	if err != nil {
		return "", err
	}

	err = sm.rdb.SAdd(ctx, userKey(u.ID), sessID).Err()
	if err != nil {
		return "", err
	}

	return token, nil
}

func (sm *SessionManagerRedis) Check(ctx context.Context, r *http.Request) (*Session, error) {
	sess, err := sm.jwt.Check(ctx, r)
	if err != nil {
		return nil, err
	}

	userIDStr, err := sm.rdb.Get(ctx, sess.SessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return nil, err
	}
	if userID != sess.User.ID {
		return nil, errors.New("wrong user")
	}

	return sess, nil
}

func (sm *SessionManagerRedis) Destroy(ctx context.Context, sess *Session) error {
	return sm.rdb.Del(ctx, sess.SessionID).Err()
}

func (sm *SessionManagerRedis) DestroyAll(ctx context.Context, user *User) error {
	sessionIDs, err := sm.rdb.SMembers(ctx, userKey(user.ID)).Result()
	if err != nil {
		return err
	}

	return sm.rdb.Del(ctx, append(sessionIDs, userKey(user.ID))...).Err()
}

func userKey(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}
