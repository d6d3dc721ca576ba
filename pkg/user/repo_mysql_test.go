package user

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

type getByFieldTestCase struct {
	name  string
	getBy func(*UserRepoSQL, interface{}) (*User, error)
	param interface{}
}

var id = int64(25)
var u = &User{ID: id, Username: "vectoreal", Password: []byte("secretPASSW0rd")}

var cases = []getByFieldTestCase{
	{
		name: "GetByID",
		getBy: func(r *UserRepoSQL, id interface{}) (*User, error) {
			return r.GetByID(context.Background(), id.(int64))
		},
		param: u.ID,
	},
	{
		name: "GetByUsername",
		getBy: func(r *UserRepoSQL, username interface{}) (*User, error) {
			return r.GetByUsername(context.Background(), username.(string))
		},
		param: u.Username,
	},
}

func TestGetByField(t *testing.T) {
	for _, tc := range cases {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}

		repo := NewUserRepoSQL(db)

		rows := sqlmock.NewRows([]string{"id", "username", "password"}).
			AddRow(id, u.Username, u.Password)

		mock.
			ExpectQuery("SELECT `id`, `username`, `password` FROM users WHERE").
			WithArgs(tc.param).
			WillReturnRows(rows)

		res, err := tc.getBy(repo, tc.param)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err.Error())
		}

		if !reflect.DeepEqual(u, res) {
			t.Fatalf("%s: expected %v, but was %v", tc.name, u, res)
		}

		// error
		mock.
			ExpectQuery("SELECT `id`, `username`, `password` FROM users WHERE").
			WithArgs(tc.param).
			WillReturnError(errors.New("db_error"))

		res, err = tc.getBy(repo, tc.param)

		if res != nil {
			t.Fatalf("%s: unexpected result: %v", tc.name, res)
		}

		if err == nil {
			t.Fatalf("%s: expected error but was nil", tc.name)
		}

		// no rows
		mock.
			ExpectQuery("SELECT `id`, `username`, `password` FROM users WHERE").
			WithArgs(tc.param).
			WillReturnError(sql.ErrNoRows)

		res, err = tc.getBy(repo, tc.param)

		if res != nil || err != nil {
			t.Fatalf("%s: wrong result, expected both nil but was %v, %v", tc.name, res, err)
		}

		if err = mock.ExpectationsWereMet(); err != nil {
			t.Errorf("%s: there were unfulfilled expectations: %s", tc.name, err)
		}
		db.Close()
	}
}

func TestAdd(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := NewUserRepoSQL(db)
	mock.
		ExpectExec("INSERT INTO users").
		WithArgs(u.Username, u.Password).
		WillReturnResult(sqlmock.NewResult(u.ID, int64(1)))

	id, err := repo.Add(ctx, u)
	if err != nil {
		t.Fatalf("unexpected error while adding user: %v", err.Error())
	}
	if id != u.ID {
		t.Fatalf("expected %v but was %v", u.ID, id)
	}

	// error
	mock.
		ExpectExec("INSERT INTO users").
		WithArgs(u.Username, u.Password).
		WillReturnError(errors.New("db_error"))

	_, err = repo.Add(ctx, u)

	if err == nil {
		t.Fatalf("expected error but was nil")
	}
	if err.Error() != "db_error" {
		t.Fatalf("unexpected error: %v", err.Error())
	}

	mock.
		ExpectExec("INSERT INTO users").
		WithArgs(u.Username, u.Password).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("db_error")))

	_, err = repo.Add(ctx, u)
	if err == nil {
		t.Fatalf("expected error but was nil")
	}
	if err.Error() != "db_error" {
		t.Fatalf("unexpected error: %v", err.Error())
	}
}
