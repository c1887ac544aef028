package tutorsync

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	e := newOfflineEngine(t)

	post := e.CreatePost("S1", "passed my #Math exam #finally")

	assert.True(t, strings.HasPrefix(post.ID, "post_"))
	assert.Equal(t, []string{"math", "finally"}, post.Tags)
	require.Len(t, e.Store().Posts(), 1)
}

func TestAddReaction(t *testing.T) {
	e := newOfflineEngine(t)
	post := e.CreatePost("S1", "hello")

	t.Run("sets the reaction", func(t *testing.T) {
		e.AddReaction(post.ID, "like", "S2")
		assert.Equal(t, "like", e.Store().Posts()[0].Reactions["S2"])
	})

	t.Run("a different type replaces, not accumulates", func(t *testing.T) {
		e.AddReaction(post.ID, "celebrate", "S2")

		reactions := e.Store().Posts()[0].Reactions
		assert.Equal(t, "celebrate", reactions["S2"])
		assert.Len(t, reactions, 1)
	})

	t.Run("the same type toggles off", func(t *testing.T) {
		e.AddReaction(post.ID, "celebrate", "S2")
		assert.NotContains(t, e.Store().Posts()[0].Reactions, "S2")
	})

	t.Run("unknown post is a no-op", func(t *testing.T) {
		e.AddReaction("post_unknown", "like", "S2")
		assert.Len(t, e.Store().Posts(), 1)
	})
}

func TestAddComment(t *testing.T) {
	e := newOfflineEngine(t)
	post := e.CreatePost("S1", "hello")

	comment := e.AddComment(post.ID, "T1", "congrats")
	require.NotNil(t, comment)
	assert.Equal(t, "T1", comment.AuthorID)
	require.Len(t, e.Store().Posts()[0].Comments, 1)

	assert.Nil(t, e.AddComment("post_unknown", "T1", "congrats"))
}

func TestEditPost(t *testing.T) {
	e := newOfflineEngine(t)
	post := e.CreatePost("S1", "studying #math")

	e.EditPost(post.ID, "done with #chemistry")

	edited := e.Store().Posts()[0]
	assert.Equal(t, "done with #chemistry", edited.Text)
	assert.Equal(t, []string{"chemistry"}, edited.Tags)
}

func TestDeletePost(t *testing.T) {
	e := newOfflineEngine(t)
	post := e.CreatePost("S1", "hello")

	e.DeletePost("post_unknown")
	assert.Len(t, e.Store().Posts(), 1)

	e.DeletePost(post.ID)
	assert.Empty(t, e.Store().Posts())
}

func TestBookmarkPost(t *testing.T) {
	e := newOfflineEngine(t)
	post := e.CreatePost("S1", "hello")

	e.BookmarkPost(post.ID, "S2")
	assert.Equal(t, []string{"S2"}, e.Store().Posts()[0].Bookmarks)

	// Toggling again removes the bookmark.
	e.BookmarkPost(post.ID, "S2")
	assert.Empty(t, e.Store().Posts()[0].Bookmarks)
}
