package posts

import (
	"errors"
	"time"

	"socialfeed/pkg/comments"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound        = errors.New("post not found")
	ErrNotAuthorized   = errors.New("user not authorized")
	ErrAlreadyLiked    = errors.New("user already liked this post")
	ErrNotLiked        = errors.New("user has not yet liked this post")
	ErrCommentNotFound = errors.New("comment not found")
	ErrConflict        = errors.New("post was modified concurrently")
)

type Like struct {
	User int64 `json:"user" bson:"user"`
}

type Post struct {
	ID       primitive.ObjectID  `json:"id" bson:"_id"`
	Text     string              `json:"text" bson:"text"`
	Name     string              `json:"name,omitempty" bson:"name,omitempty"`
	Avatar   string              `json:"avatar,omitempty" bson:"avatar,omitempty"`
	User     int64               `json:"user" bson:"user"`
	Likes    []Like              `json:"likes" bson:"likes"`
	Comments []*comments.Comment `json:"comments" bson:"comments"`
	Date     time.Time           `json:"date" bson:"date"`
	Version  int64               `json:"-" bson:"version"`
}

func (p *Post) HasLike(userID int64) bool {
	return p.likeIndex(userID) >= 0
}

// AddLike puts the like first, most recent likes lead the list.
func (p *Post) AddLike(userID int64) error {
	if p.HasLike(userID) {
		return ErrAlreadyLiked
	}

	p.Likes = append([]Like{{User: userID}}, p.Likes...)
	return nil
}

func (p *Post) RemoveLike(userID int64) error {
	i := p.likeIndex(userID)
	if i < 0 {
		return ErrNotLiked
	}

	p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
	return nil
}

func (p *Post) AddComment(c *comments.Comment) {
	p.Comments = append([]*comments.Comment{c}, p.Comments...)
}

// RemoveComment matches on the hex form of the id, so a malformed id is
// simply not found.
func (p *Post) RemoveComment(commentID string) error {
	for i, c := range p.Comments {
		if c.ID.Hex() == commentID {
			p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
			return nil
		}
	}

	return ErrCommentNotFound
}

func (p *Post) likeIndex(userID int64) int {
	for i, l := range p.Likes {
		if l.User == userID {
			return i
		}
	}

	return -1
}
