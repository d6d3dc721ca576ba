package user

import (
	"context"
	"database/sql"
)

const Schema = `CREATE TABLE IF NOT EXISTS users (
	id int(11) unsigned NOT NULL AUTO_INCREMENT,
	password VARBINARY(100) NOT NULL,
	username VARCHAR(50) NOT NULL,
	PRIMARY KEY (id),
	UNIQUE KEY username (username)
) ENGINE=INNODB DEFAULT CHARSET=utf8;`

type UserRepoSQL struct {
	db *sql.DB
}

func NewUserRepoSQL(db *sql.DB) *UserRepoSQL {
	return &UserRepoSQL{db: db}
}

// GetByID returns nil, nil when there is no such user.
func (repo *UserRepoSQL) GetByID(ctx context.Context, id int64) (*User, error) {
	query := "SELECT `id`, `username`, `password` FROM users WHERE id = ?"
	return repo.getOne(ctx, query, id)
}

// GetByUsername returns nil, nil when there is no such user.
func (repo *UserRepoSQL) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := "SELECT `id`, `username`, `password` FROM users WHERE username = ?"
	return repo.getOne(ctx, query, username)
}

func (repo *UserRepoSQL) Add(ctx context.Context, user *User) (int64, error) {
	query := "INSERT INTO users (`username`, `password`) VALUES (?, ?)"
	r, err := repo.db.ExecContext(ctx, query, user.Username, user.Password)
	if err != nil {
		return 0, err
	}

	return r.LastInsertId()
}

func (repo *UserRepoSQL) getOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	u := User{}
	err := repo.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Password)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}
