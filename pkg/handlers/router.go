package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter mounts the users and posts APIs. auth guards the routes that
// need a session.
func NewRouter(ph *PostHandler, uh *UserHandler, auth func(http.Handler) http.Handler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	api.HandleFunc("/users/register", uh.Register).Methods(http.MethodPost)
	api.HandleFunc("/users/login", uh.Login).Methods(http.MethodPost)
	api.Handle("/users/current", protected(uh.Current)).Methods(http.MethodGet)
	api.Handle("/users/logout", protected(uh.Logout)).Methods(http.MethodPost)

	// before /posts/{post_id}
	api.HandleFunc("/posts/test", ph.Test).Methods(http.MethodGet)

	for _, root := range []string{"/posts", "/posts/"} {
		api.HandleFunc(root, ph.GetAll).Methods(http.MethodGet)
		api.Handle(root, protected(ph.Create)).Methods(http.MethodPost)
	}

	api.HandleFunc("/posts/{post_id}", ph.GetByID).Methods(http.MethodGet)
	api.Handle("/posts/{post_id}", protected(ph.Delete)).Methods(http.MethodDelete)

	api.Handle("/posts/like/{post_id}", protected(ph.Like)).Methods(http.MethodPost)
	api.Handle("/posts/unlike/{post_id}", protected(ph.Unlike)).Methods(http.MethodPost)

	api.Handle("/posts/comment/{post_id}", protected(ph.AddComment)).Methods(http.MethodPost)
	api.Handle("/posts/comment/{post_id}/{comment_id}", protected(ph.DeleteComment)).Methods(http.MethodDelete)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteResponse(w, "not found", http.StatusNotFound)
	})
	api.NotFoundHandler = notFound
	r.NotFoundHandler = notFound

	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	})
	api.MethodNotAllowedHandler = methodNotAllowed
	r.MethodNotAllowedHandler = methodNotAllowed

	return r
}
