package session

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
)

const Schema = `CREATE TABLE IF NOT EXISTS sessions (
	id VARCHAR(36) NOT NULL,
	user_id int(11) unsigned NOT NULL,
	expires_at BIGINT NOT NULL,
	PRIMARY KEY (id),
	KEY user_id (user_id)
) ENGINE=INNODB DEFAULT CHARSET=utf8;`

// SessionManagerSQL keeps session ids in the sessions table of the users
// database, for deployments without redis.
type SessionManagerSQL struct {
	db  *sql.DB
	jwt SessionManager
}

func NewSessionManagerSQL(db *sql.DB, jwt SessionManager) *SessionManagerSQL {
	return &SessionManagerSQL{db: db, jwt: jwt}
}

func (sm *SessionManagerSQL) Create(ctx context.Context, u *User, sessID string, expiresAt int64) (string, error) {
	token, err := sm.jwt.Create(ctx, u, sessID, expiresAt)
	if err != nil {
		return "", err
	}

	_, err = sm.db.ExecContext(ctx, "INSERT INTO sessions (`id`, `user_id`, `expires_at`) VALUES (?, ?, ?)", sessID, u.ID, expiresAt)
	if err != nil {
		return "", err
	}

	return token, nil
}

func (sm *SessionManagerSQL) Check(ctx context.Context, r *http.Request) (*Session, error) {
	sess, err := sm.jwt.Check(ctx, r)
	if err != nil {
		return nil, err
	}

	var userID int64
	err = sm.db.QueryRowContext(ctx, "SELECT `user_id` FROM sessions WHERE id = ?", sess.SessionID).Scan(&userID)
	if err == sql.ErrNoRows {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	if userID != sess.User.ID {
		return nil, errors.New("wrong user")
	}

	return sess, nil
}

func (sm *SessionManagerSQL) Destroy(ctx context.Context, sess *Session) error {
	_, err := sm.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sess.SessionID)
	return err
}

func (sm *SessionManagerSQL) DestroyAll(ctx context.Context, user *User) error {
	_, err := sm.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", user.ID)
	return err
}
