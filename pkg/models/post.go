package models

import (
	"strings"
	"time"
	"unicode"
)

// Comment is an append-only entry under a post.
type Comment struct {
	ID        string `json:"id"`
	AuthorID  string `json:"authorId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Post is a social feed entry.
//
// Reactions holds at most one reaction type per user. Bookmarks is a set of
// user IDs. Tags is derived from the post text and recomputed on every edit.
type Post struct {
	ID        string            `json:"id"`
	AuthorID  string            `json:"authorId"`
	Text      string            `json:"text"`
	CreatedAt int64             `json:"createdAt"`
	Reactions map[string]string `json:"reactions,omitempty"`
	Comments  []Comment         `json:"comments,omitempty"`
	Bookmarks []string          `json:"bookmarks,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
}

// NewPost creates a post with a generated ID and tags derived from the text.
func NewPost(authorID, text string) Post {
	return Post{
		ID:        NewID("post"),
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now().UnixMilli(),
		Tags:      ExtractTags(text),
	}
}

// NewComment creates a comment with a generated ID and the current timestamp.
func NewComment(authorID, text string) Comment {
	return Comment{
		ID:        NewID("comment"),
		AuthorID:  authorID,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ExtractTags returns the distinct "#tag" tokens found in text, lowercased,
// in order of first appearance, without the leading '#'.
func ExtractTags(text string) []string {
	var tags []string
	seen := make(map[string]struct{})

	for _, field := range strings.Fields(text) {
		if !strings.HasPrefix(field, "#") {
			continue
		}
		tag := strings.TrimFunc(field[1:], func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if tag == "" {
			continue
		}
		tag = strings.ToLower(tag)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}
