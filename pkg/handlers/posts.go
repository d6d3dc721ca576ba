package handlers

//go:generate mockgen -source=posts.go -destination=posts_repo_mock.go -package=handlers PostsRepo

import (
	"context"
	"errors"
	"net/http"

	"socialfeed/pkg/comments"
	"socialfeed/pkg/posts"
	"socialfeed/pkg/session"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type PostHandler struct {
	PostsRepo PostsRepo
	Logger    *zap.SugaredLogger
}

type PostsRepo interface {
	GetAll(context.Context) ([]*posts.Post, error)
	GetByID(context.Context, primitive.ObjectID) (*posts.Post, error)
	Add(context.Context, *posts.Post) (*posts.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID, userID int64) error
	Like(ctx context.Context, id primitive.ObjectID, userID int64) (*posts.Post, error)
	Unlike(ctx context.Context, id primitive.ObjectID, userID int64) (*posts.Post, error)
	AddComment(ctx context.Context, id primitive.ObjectID, c *comments.Comment) (*posts.Post, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID, commentID string) (*posts.Post, error)

	ParseID(string) (primitive.ObjectID, error)
}

// not found bodies differ between routes
var (
	noPostWithID    = map[string]string{"nopostfound": "No post found with that ID"}
	postNotFound    = map[string]string{"postnotfound": "No post found"}
	noPostToComment = map[string]string{"nopostfound": "No post found"}
	noPostOrComment = map[string]string{"nopostfound": "No post-comment found"}
)

func (h *PostHandler) Test(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"msg": "Posts Works"}, http.StatusOK)
}

func (h *PostHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	all, err := h.PostsRepo.GetAll(ctx)
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}

	writeJSON(w, all, http.StatusOK)
}

func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := h.PostsRepo.ParseID(mux.Vars(r)["post_id"])
	if err != nil {
		h.writeError(w, r, posts.ErrNotFound, noPostWithID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := h.PostsRepo.GetByID(ctx, id)
	if err != nil {
		h.writeError(w, r, err, noPostWithID)
		return
	}

	writeJSON(w, post, http.StatusOK)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	in, ok := h.postInput(w, r)
	if !ok {
		return
	}

	post := &posts.Post{
		Text:   in.Text,
		Name:   in.Name,
		Avatar: in.Avatar,
		User:   sess.User.ID,
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := h.PostsRepo.Add(ctx, post)
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}

	writeJSON(w, post, http.StatusOK)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	id, err := h.PostsRepo.ParseID(mux.Vars(r)["post_id"])
	if err != nil {
		h.writeError(w, r, posts.ErrNotFound, postNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err = h.PostsRepo.Delete(ctx, id, sess.User.ID); err != nil {
		h.writeError(w, r, err, postNotFound)
		return
	}

	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.likes(w, r, h.PostsRepo.Like)
}

func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.likes(w, r, h.PostsRepo.Unlike)
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	in, ok := h.postInput(w, r)
	if !ok {
		return
	}

	id, err := h.PostsRepo.ParseID(mux.Vars(r)["post_id"])
	if err != nil {
		h.writeError(w, r, posts.ErrNotFound, noPostToComment)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := h.PostsRepo.AddComment(ctx, id, comments.New(in.Text, in.Name, in.Avatar, sess.User.ID))
	if err != nil {
		h.writeError(w, r, err, noPostToComment)
		return
	}

	writeJSON(w, post, http.StatusOK)
}

func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := h.PostsRepo.ParseID(vars["post_id"])
	if err != nil {
		h.writeError(w, r, posts.ErrNotFound, noPostOrComment)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := h.PostsRepo.DeleteComment(ctx, id, vars["comment_id"])
	if err != nil {
		h.writeError(w, r, err, noPostOrComment)
		return
	}

	writeJSON(w, post, http.StatusOK)
}

func (h *PostHandler) likes(w http.ResponseWriter, r *http.Request,
	likeRepo func(context.Context, primitive.ObjectID, int64) (*posts.Post, error)) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	id, err := h.PostsRepo.ParseID(mux.Vars(r)["post_id"])
	if err != nil {
		h.writeError(w, r, posts.ErrNotFound, postNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := likeRepo(ctx, id, sess.User.ID)
	if err != nil {
		h.writeError(w, r, err, postNotFound)
		return
	}

	writeJSON(w, post, http.StatusOK)
}

func (h *PostHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return nil, false
	}

	return sess, true
}

func (h *PostHandler) postInput(w http.ResponseWriter, r *http.Request) (*PostInput, bool) {
	in := &PostInput{}
	if err := readJSON(w, r, in); err != nil {
		h.Logger.Infow("can't read post input", "url", r.URL.Path, "error", err.Error())
		writeReadError(w, err)
		return nil, false
	}

	if errs, ok := ValidatePostInput(in); !ok {
		writeJSON(w, errs, http.StatusBadRequest)
		return nil, false
	}

	return in, true
}

// writeError maps repository errors to responses. notFound is the body used
// when the post itself does not exist.
func (h *PostHandler) writeError(w http.ResponseWriter, r *http.Request, err error, notFound map[string]string) {
	status, body := http.StatusBadRequest, map[string]string{"error": err.Error()}

	switch {
	case errors.Is(err, posts.ErrNotFound):
		status, body = http.StatusNotFound, notFound
	case errors.Is(err, posts.ErrCommentNotFound):
		status, body = http.StatusNotFound, map[string]string{"commentnotfound": "Comment not found"}
	case errors.Is(err, posts.ErrNotAuthorized):
		status, body = http.StatusUnauthorized, map[string]string{"notauthorized": "User not authorized"}
	case errors.Is(err, posts.ErrAlreadyLiked):
		body = map[string]string{"alreadyliked": "User already liked this post"}
	case errors.Is(err, posts.ErrNotLiked):
		body = map[string]string{"notliked": "You have not yet liked this post"}
	case errors.Is(err, posts.ErrConflict):
		status, body = http.StatusConflict, map[string]string{"conflict": "Post was modified concurrently, retry the request"}
	default:
		h.Logger.Errorw("store failure", "method", r.Method, "url", r.URL.Path, "error", err.Error())
		writeJSON(w, body, status)
		return
	}

	h.Logger.Infow("request failed", "method", r.Method, "url", r.URL.Path, "error", err.Error())
	writeJSON(w, body, status)
}
