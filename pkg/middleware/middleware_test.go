package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialfeed/pkg/session"

	"github.com/golang/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuthRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	sm := session.NewMockSessionManager(ctrl)

	r := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	sm.EXPECT().Check(gomock.Any(), r).Return(nil, errors.New("invalid token"))

	called := false
	h := Auth(zap.NewNop().Sugar(), sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if called {
		t.Error("handler should not run for unauthorized request")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d but was %d", http.StatusUnauthorized, w.Code)
	}
	if body := w.Body.String(); body != `{"message":"unauthorized"}` {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestAuthPassesSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	sm := session.NewMockSessionManager(ctrl)

	sess := &session.Session{User: &session.User{ID: 7, Username: "vectoreal"}, SessionID: "sess"}
	r := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	sm.EXPECT().Check(gomock.Any(), r).Return(sess, nil)

	var got *session.Session
	h := Auth(zap.NewNop().Sugar(), sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = session.SessionFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got != sess {
		t.Errorf("expected session %v in context but was %v", sess, got)
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d but was %d", http.StatusOK, w.Code)
	}
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop().Sugar(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d but was %d", http.StatusInternalServerError, w.Code)
	}
	if body := w.Body.String(); body != `{"error":"Internal server error"}` {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := Log(zap.New(core).Sugar(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/test", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry but was %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) || fields["url"] != "/api/posts/test" || fields["method"] != http.MethodGet {
		t.Errorf("unexpected log fields: %v", fields)
	}
}
