package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// summaryLength caps the auto-derived summary in runes.
const summaryLength = 200

// Post is a single content unit.
type Post struct {
	ID         string   `json:"id" bson:"_id,omitempty"`
	Title      string   `json:"title" bson:"title"`
	Content    string   `json:"content" bson:"content"`
	Summary    string   `json:"summary" bson:"summary"`
	CoverImage string   `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	AuthorID   string   `json:"author_id" bson:"author_id"`
	CategoryID string   `json:"category_id" bson:"category_id"`
	Tags       []string `json:"tags,omitempty" bson:"tags,omitempty"`

	Published   bool      `json:"published" bson:"published"`
	PublishedAt time.Time `json:"published_at,omitempty" bson:"published_at,omitempty"`

	ViewCount    int64 `json:"view_count" bson:"view_count"`
	CommentCount int64 `json:"comment_count" bson:"comment_count"`
	LikeCount    int64 `json:"like_count" bson:"like_count"`

	MetaTitle       string `json:"meta_title,omitempty" bson:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty" bson:"meta_description,omitempty"`

	Pinned     bool `json:"pinned" bson:"pinned"`
	SortWeight int  `json:"sort_weight" bson:"sort_weight"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// VisibleTo reports whether the post may be served to the given viewer.
// Unpublished posts are visible only to their owner or an admin; everyone
// else gets the same answer as for a post that does not exist.
func (p *Post) VisibleTo(viewerID string, isAdmin bool) bool {
	if p.Published {
		return true
	}
	return isAdmin || (viewerID != "" && viewerID == p.AuthorID)
}

// Category groups posts under a unique name. PostCount is denormalized and
// maintained by the post service.
type Category struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Color       string    `json:"color,omitempty" bson:"color,omitempty"`
	PostCount   int64     `json:"post_count" bson:"post_count"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// DeriveSummary returns summary unchanged when non-empty; otherwise it strips
// markup from content and returns a prefix of the plain text. The result is
// always non-empty for non-empty content.
func DeriveSummary(summary, content string) string {
	if s := strings.TrimSpace(summary); s != "" {
		return s
	}
	plain := StripTags(content)
	if utf8.RuneCountInString(plain) <= summaryLength {
		return plain
	}
	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:summaryLength])) + "..."
}

// StripTags removes HTML tags from s and collapses runs of whitespace.
func StripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteByte(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
