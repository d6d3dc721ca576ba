package handlers

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"socialfeed/pkg/session"
	"socialfeed/pkg/user"

	"github.com/golang/mock/gomock"
	"go.uber.org/zap"
)

var username = "vectoreal"
var password = "secret_password"
var token = "test_token"
var passwordDB = HashPass(getSalt(), password)

func getSalt() []byte {
	salt := make([]byte, saltLen)
	rand.Read(salt)
	return salt
}

type userCase struct {
	name             string
	body             map[string]string
	expectedRepoUser *user.User
	repoErr          error
	execHandler      func(h *UserHandler, w http.ResponseWriter, r *http.Request)
	expectCreate     bool
	expectAdd        bool
	expectedResponse string
	expectedStatus   int
}

var userCases = []userCase{
	{
		name:             "LoginHappyCase",
		body:             map[string]string{"username": username, "password": password},
		expectedRepoUser: &user.User{Username: username, Password: passwordDB, ID: int64(1)},
		execHandler:      (*UserHandler).Login,
		expectCreate:     true,
		expectedResponse: `{"token":"test_token"}`,
		expectedStatus:   http.StatusOK,
	},
	{
		name:             "LoginUserNotExistCase",
		body:             map[string]string{"username": username, "password": password},
		execHandler:      (*UserHandler).Login,
		expectedResponse: `{"message":"user not found"}`,
		expectedStatus:   http.StatusUnauthorized,
	},
	{
		name:             "LoginWrongPasswordCase",
		body:             map[string]string{"username": username, "password": "another_password"},
		expectedRepoUser: &user.User{Username: username, Password: passwordDB, ID: int64(1)},
		execHandler:      (*UserHandler).Login,
		expectedResponse: `{"message":"invalid password"}`,
		expectedStatus:   http.StatusUnauthorized,
	},
	{
		name:             "LoginRepoErrorCase",
		body:             map[string]string{"username": username, "password": password},
		repoErr:          errors.New("connection refused"),
		execHandler:      (*UserHandler).Login,
		expectedResponse: ``,
		expectedStatus:   http.StatusInternalServerError,
	},
	{
		name:             "RegisterHappyCase",
		body:             map[string]string{"username": username, "password": password},
		execHandler:      (*UserHandler).Register,
		expectCreate:     true,
		expectAdd:        true,
		expectedResponse: `{"token":"test_token"}`,
		expectedStatus:   http.StatusCreated,
	},
	{
		name:             "RegisterUserAlreadyExistCase",
		body:             map[string]string{"username": username, "password": password},
		expectedRepoUser: &user.User{Username: username, Password: passwordDB, ID: int64(1)},
		execHandler:      (*UserHandler).Register,
		expectedResponse: `{"username":"Username already exists"}`,
		expectedStatus:   http.StatusBadRequest,
	},
	{
		name:             "RegisterInvalidCase",
		body:             map[string]string{"username": "bad name", "password": "short"},
		execHandler:      (*UserHandler).Register,
		expectedResponse: `{"password":"Password must be between 8 and 72 characters","username":"Username may only contain letters, digits, _ and -"}`,
		expectedStatus:   http.StatusBadRequest,
	},
}

func TestUserHandlers(t *testing.T) {
	for _, tc := range userCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockUsersRepo(ctrl)
			sm := session.NewMockSessionManager(ctrl)
			h := &UserHandler{Sm: sm, Repo: repo, Logger: zap.NewNop().Sugar(), TokenTTL: time.Hour}
			w := httptest.NewRecorder()

			bodyBytes, _ := json.Marshal(tc.body)
			r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBuffer(bodyBytes))

			if _, valid := ValidateAuthInput(&AuthReq{Username: tc.body["username"], Password: tc.body["password"]}); valid {
				repo.EXPECT().GetByUsername(gomock.Any(), tc.body["username"]).Return(tc.expectedRepoUser, tc.repoErr)
			}
			if tc.expectAdd {
				repo.EXPECT().Add(gomock.Any(), gomock.AssignableToTypeOf(&user.User{})).Return(int64(1), nil)
			}
			if tc.expectCreate {
				sm.EXPECT().
					Create(gomock.Any(), &session.User{ID: int64(1), Username: username}, gomock.Any(), gomock.Any()).
					Return(token, nil)
			}

			tc.execHandler(h, w, r)

			if w.Result().StatusCode != tc.expectedStatus {
				t.Fatalf("wrong status code: %d, but expected %d", w.Result().StatusCode, tc.expectedStatus)
			}

			res, err := ioutil.ReadAll(w.Body)
			if err != nil {
				t.Fatalf("unexpected error while reading response body: %s", err.Error())
			}

			if string(res) != tc.expectedResponse {
				t.Fatalf("unexpected response: %s but expected %s", res, tc.expectedResponse)
			}
		})
	}
}

func TestRegisterBadJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := &UserHandler{Sm: session.NewMockSessionManager(ctrl), Repo: NewMockUsersRepo(ctrl), Logger: zap.NewNop().Sugar()}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{"))

	h.Register(w, r)

	if w.Code != http.StatusBadRequest || w.Body.String() != `{"message":"bad request"}` {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestCurrentAndLogout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sm := session.NewMockSessionManager(ctrl)
	h := &UserHandler{Sm: sm, Repo: NewMockUsersRepo(ctrl), Logger: zap.NewNop().Sugar()}
	sess := &session.Session{User: &session.User{ID: 7, Username: username}, SessionID: "sid"}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(session.ContextWithSession(r.Context(), sess))
	h.Current(w, r)

	if w.Code != http.StatusOK || w.Body.String() != `{"id":7,"username":"vectoreal"}` {
		t.Fatalf("unexpected current response %d %s", w.Code, w.Body.String())
	}

	sm.EXPECT().Destroy(gomock.Any(), sess).Return(nil)
	w = httptest.NewRecorder()
	h.Logout(w, r)

	if w.Code != http.StatusOK || w.Body.String() != `{"success":true}` {
		t.Fatalf("unexpected logout response %d %s", w.Code, w.Body.String())
	}
}

func TestCurrentWithoutSession(t *testing.T) {
	h := &UserHandler{Logger: zap.NewNop().Sugar()}
	w := httptest.NewRecorder()
	h.Current(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestCheckPass(t *testing.T) {
	if !checkPass(passwordDB, password) {
		t.Fatal("stored hash should match its password")
	}
	if checkPass(passwordDB, "wrong") {
		t.Fatal("wrong password matched")
	}
	if checkPass([]byte{1, 2}, password) {
		t.Fatal("truncated hash matched")
	}
}
