package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// SubmitCommentInput carries a public comment submission.
type SubmitCommentInput struct {
	PostID        string
	ParentID      string // optional; must reference an existing comment
	Content       string
	AuthorName    string
	AuthorEmail   string
	AuthorWebsite string
	IPAddress     string
}

// CommentPage is one page of flat comments plus pagination metadata.
type CommentPage struct {
	Items      []*domain.Comment
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CommentTreePage is one page of assembled comment trees.
type CommentTreePage struct {
	Roots      []*domain.CommentNode
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CommentService implements public submission and admin moderation of
// threaded comments.
type CommentService interface {
	Submit(ctx context.Context, in SubmitCommentInput) (*domain.Comment, error)
	// ListForPost pages the flat approved set newest-first and assembles the
	// reply tree from that page only.
	ListForPost(ctx context.Context, postID string, page, limit int) (*CommentTreePage, error)
	ListPending(ctx context.Context, page, limit int) (*CommentPage, error)
	Approve(ctx context.Context, id, moderatorID string) error
	// Delete removes the comment and its direct children, decrementing the
	// post's comment counter by children+1.
	Delete(ctx context.Context, id string) error
}
