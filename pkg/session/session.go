package session

import (
	"context"
	"errors"

	"github.com/dgrijalva/jwt-go"
)

type key int

const (
	SessionKey key = 1
)

var ErrNoSession = errors.New("session not found")

type Session struct {
	User      *User `json:"user"`
	SessionID string
	jwt.StandardClaims
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func SessionFromContext(ctx context.Context) (*Session, error) {
	sess, ok := ctx.Value(SessionKey).(*Session)
	if !ok {
		return nil, ErrNoSession
	}

	return sess, nil
}

func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}
