package tutorsync

import (
	"github.com/tutorlink/tutorsync/pkg/event"
	"github.com/tutorlink/tutorsync/pkg/models"
	"github.com/tutorlink/tutorsync/pkg/store"
)

// CreatePost publishes a feed entry with tags derived from the text.
func (e *Engine) CreatePost(authorID, text string) models.Post {
	post := models.NewPost(authorID, text)

	e.store.Update(func(d *store.Data) []store.Collection {
		d.Posts = append(d.Posts, post)
		return []store.Collection{store.Posts}
	})

	e.emit(event.CreatePost, post)

	return post
}

// AddReaction sets the user's reaction on a post. A user holds at most one
// reaction; reacting with the same type again removes it. The forwarded
// event carries the resulting reaction type, empty when removed, so replicas
// can apply it as an assignment.
func (e *Engine) AddReaction(postID, reactionType, userID string) {
	var (
		found     bool
		resulting string
	)

	e.store.Update(func(d *store.Data) []store.Collection {
		post := d.Post(postID)
		if post == nil {
			return nil
		}
		found = true

		if post.Reactions == nil {
			post.Reactions = make(map[string]string)
		}
		if post.Reactions[userID] == reactionType {
			delete(post.Reactions, userID)
			resulting = ""
		} else {
			post.Reactions[userID] = reactionType
			resulting = reactionType
		}
		return []store.Collection{store.Posts}
	})

	if found {
		e.emit(event.AddReaction, event.ReactionPayload{
			PostID:       postID,
			ReactionType: resulting,
			UserID:       userID,
		})
	}
}

// AddComment appends a comment to a post. Returns nil when the post is
// unknown.
func (e *Engine) AddComment(postID, authorID, text string) *models.Comment {
	comment := models.NewComment(authorID, text)

	found := false
	e.store.Update(func(d *store.Data) []store.Collection {
		post := d.Post(postID)
		if post == nil {
			return nil
		}
		post.Comments = append(post.Comments, comment)
		found = true
		return []store.Collection{store.Posts}
	})

	if !found {
		return nil
	}

	e.emit(event.AddComment, event.CommentPayload{
		PostID:  postID,
		Comment: comment,
	})

	return &comment
}

// EditPost replaces the post text and re-derives its tag list.
func (e *Engine) EditPost(postID, newText string) {
	found := false
	e.store.Update(func(d *store.Data) []store.Collection {
		post := d.Post(postID)
		if post == nil {
			return nil
		}
		post.Text = newText
		post.Tags = models.ExtractTags(newText)
		found = true
		return []store.Collection{store.Posts}
	})

	if found {
		e.emit(event.EditPost, event.EditPostPayload{
			PostID:  postID,
			NewText: newText,
		})
	}
}

// DeletePost removes a post. Unknown IDs are a silent no-op.
func (e *Engine) DeletePost(postID string) {
	removed := false
	e.store.Update(func(d *store.Data) []store.Collection {
		if !d.RemovePost(postID) {
			return nil
		}
		removed = true
		return []store.Collection{store.Posts}
	})

	if removed {
		e.emit(event.DeletePost, event.PostRefPayload{PostID: postID})
	}
}

// BookmarkPost toggles the user's membership in the post's bookmark set.
func (e *Engine) BookmarkPost(postID, userID string) {
	found := false
	e.store.Update(func(d *store.Data) []store.Collection {
		post := d.Post(postID)
		if post == nil {
			return nil
		}
		found = true
		toggleBookmark(post, userID)
		return []store.Collection{store.Posts}
	})

	if found {
		e.emit(event.BookmarkPost, event.BookmarkPayload{
			PostID: postID,
			UserID: userID,
		})
	}
}

func toggleBookmark(post *models.Post, userID string) {
	for i, id := range post.Bookmarks {
		if id == userID {
			post.Bookmarks = append(post.Bookmarks[:i], post.Bookmarks[i+1:]...)
			return
		}
	}
	post.Bookmarks = append(post.Bookmarks, userID)
}
