package middleware

import (
	"encoding/json"
	"net/http"

	"socialfeed/pkg/session"

	"go.uber.org/zap"
)

// Auth rejects requests without a valid session before next runs. It is
// applied per route, public routes are registered without it.
func Auth(logger *zap.SugaredLogger, sm session.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sm.Check(r.Context(), r)
			if err != nil {
				logger.Infow("unauthorized request",
					"method", r.Method,
					"url", r.URL.Path,
					"error", err.Error(),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				errorBody, _ := json.Marshal(map[string]string{"message": "unauthorized"})
				w.Write(errorBody)
				return
			}

			ctx := session.ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
