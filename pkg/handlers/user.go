package handlers

//go:generate mockgen -source=user.go -destination=users_repo_mock.go -package=handlers UsersRepo

import (
	"bytes"
	"context"
	"crypto/rand"
	"net/http"
	"time"

	"socialfeed/pkg/session"
	"socialfeed/pkg/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
)

const saltLen = 8

type UserHandler struct {
	Sm       session.SessionManager
	Repo     UsersRepo
	Logger   *zap.SugaredLogger
	TokenTTL time.Duration
}

type UsersRepo interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	Add(ctx context.Context, user *user.User) (int64, error)
}

type AuthResponse struct {
	Token string `json:"token"`
}

func (u *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	authReq, ok := u.authInput(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	usr, err := u.Repo.GetByUsername(ctx, authReq.Username)
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if usr == nil {
		WriteResponse(w, "user not found", http.StatusUnauthorized)
		return
	}

	if !checkPass(usr.Password, authReq.Password) {
		WriteResponse(w, "invalid password", http.StatusUnauthorized)
		return
	}

	u.writeAuthResponse(ctx, w, usr, http.StatusOK)
}

func (u *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	authReq, ok := u.authInput(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	existUser, err := u.Repo.GetByUsername(ctx, authReq.Username)
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if existUser != nil {
		writeJSON(w, map[string]string{"username": "Username already exists"}, http.StatusBadRequest)
		return
	}

	salt := make([]byte, saltLen)
	if _, err = rand.Read(salt); err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	usr := &user.User{
		Username: authReq.Username,
		Password: HashPass(salt, authReq.Password),
	}

	usr.ID, err = u.Repo.Add(ctx, usr)
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	u.Logger.Infow("user registered", "id", usr.ID, "username", usr.Username)
	u.writeAuthResponse(ctx, w, usr, http.StatusCreated)
}

func (u *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, sess.User, http.StatusOK)
}

func (u *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err = u.Sm.Destroy(ctx, sess); err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

func (u *UserHandler) authInput(w http.ResponseWriter, r *http.Request) (*AuthReq, bool) {
	authReq := &AuthReq{}
	if err := readJSON(w, r, authReq); err != nil {
		writeReadError(w, err)
		return nil, false
	}

	if errs, ok := ValidateAuthInput(authReq); !ok {
		writeJSON(w, errs, http.StatusBadRequest)
		return nil, false
	}

	return authReq, true
}

func HashPass(salt []byte, plainPassword string) []byte {
	hashedPass := argon2.IDKey([]byte(plainPassword), salt, 1, 64*1024, 4, 32)
	res := make([]byte, 0, len(salt)+len(hashedPass))
	res = append(res, salt...)
	return append(res, hashedPass...)
}

func checkPass(passHash []byte, plainPassword string) bool {
	if len(passHash) < saltLen {
		return false
	}
	return bytes.Equal(HashPass(passHash[:saltLen], plainPassword), passHash)
}

func (u *UserHandler) writeAuthResponse(ctx context.Context, w http.ResponseWriter, usr *user.User, status int) {
	sessID := uuid.New().String()
	expiresAt := time.Now().Add(u.TokenTTL).Unix()
	token, err := u.Sm.Create(ctx, &session.User{ID: usr.ID, Username: usr.Username}, sessID, expiresAt)
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, &AuthResponse{Token: token}, status)
}
