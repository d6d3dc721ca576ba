package posts

import (
	"testing"

	"socialfeed/pkg/comments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikes(t *testing.T) {
	p := &Post{Likes: []Like{}}

	require.NoError(t, p.AddLike(1))
	require.NoError(t, p.AddLike(2))
	assert.Equal(t, []Like{{User: 2}, {User: 1}}, p.Likes, "new likes go first")

	assert.ErrorIs(t, p.AddLike(1), ErrAlreadyLiked)
	assert.Len(t, p.Likes, 2)

	require.NoError(t, p.RemoveLike(2))
	assert.Equal(t, []Like{{User: 1}}, p.Likes)
	assert.False(t, p.HasLike(2))

	assert.ErrorIs(t, p.RemoveLike(3), ErrNotLiked)
	assert.Len(t, p.Likes, 1)
}

func TestRemoveLikeKeepsOrder(t *testing.T) {
	p := &Post{Likes: []Like{{User: 3}, {User: 2}, {User: 1}}}
	orig := p.Likes

	require.NoError(t, p.RemoveLike(2))
	assert.Equal(t, []Like{{User: 3}, {User: 1}}, p.Likes)
	assert.Equal(t, []Like{{User: 3}, {User: 2}, {User: 1}}, orig, "backing array of the old slice is untouched")
}

func TestComments(t *testing.T) {
	p := &Post{Comments: []*comments.Comment{}}
	first := comments.New("first comment", "Jane", "", 1)
	second := comments.New("second comment", "John", "", 2)

	p.AddComment(first)
	p.AddComment(second)
	require.Len(t, p.Comments, 2)
	assert.Equal(t, second.ID, p.Comments[0].ID)

	assert.ErrorIs(t, p.RemoveComment("not-an-id"), ErrCommentNotFound)
	assert.ErrorIs(t, p.RemoveComment(comments.New("x", "", "", 1).ID.Hex()), ErrCommentNotFound)
	assert.Len(t, p.Comments, 2)

	require.NoError(t, p.RemoveComment(second.ID.Hex()))
	require.Len(t, p.Comments, 1)
	assert.Equal(t, first.ID, p.Comments[0].ID)
}
