package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// Comment is a publicly submitted reaction to a post, optionally threaded via
// ParentID. Comments are created unapproved and never edited.
type Comment struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	PostID   string `json:"post_id" bson:"post_id"`
	ParentID string `json:"parent_id,omitempty" bson:"parent_id,omitempty"`

	Content       string `json:"content" bson:"content"`
	AuthorName    string `json:"author_name" bson:"author_name"`
	AuthorEmail   string `json:"-" bson:"author_email"`
	AuthorWebsite string `json:"author_website,omitempty" bson:"author_website,omitempty"`
	AuthorAvatar  string `json:"author_avatar" bson:"author_avatar"`

	Approved    bool      `json:"approved" bson:"approved"`
	IPAddress   string    `json:"-" bson:"ip_address,omitempty"`
	IsSpam      bool      `json:"-" bson:"is_spam"`
	SpamScore   float64   `json:"-" bson:"spam_score"`
	ModeratedBy string    `json:"-" bson:"moderated_by,omitempty"`
	ModeratedAt time.Time `json:"-" bson:"moderated_at,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// CommentNode is a comment with its nested replies, as served to clients.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}

// BuildCommentTree assembles a reply tree from a flat slice of comments,
// preserving the slice order at every level. A comment whose parent is not
// present in the slice is neither nested nor emitted as a root (this happens
// when pagination splits a child from its parent; the child is dropped from
// the page). Runs in O(n).
func BuildCommentTree(comments []*Comment) []*CommentNode {
	nodes := make(map[string]*CommentNode, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &CommentNode{Comment: *c, Replies: []*CommentNode{}}
	}

	roots := make([]*CommentNode, 0, len(comments))
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID == "" {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[c.ParentID]; ok {
			parent.Replies = append(parent.Replies, node)
		}
	}
	return roots
}

// AvatarForEmail derives a deterministic gravatar URL from the normalized
// email address.
func AvatarForEmail(email string) string {
	sum := md5.Sum([]byte(NormalizeEmail(email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon", hex.EncodeToString(sum[:]))
}
