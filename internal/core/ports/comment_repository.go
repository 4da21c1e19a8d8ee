package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	// ListApprovedByPost returns one page of the flat approved set for a
	// post, newest first, plus the total approved count.
	ListApprovedByPost(ctx context.Context, postID string, page, limit int) ([]*domain.Comment, int64, error)
	// ListPending returns unapproved comments across all posts, newest first.
	ListPending(ctx context.Context, page, limit int) ([]*domain.Comment, int64, error)
	// Approve flips the approval flag. It reports domain.ErrCommentNotFound
	// when no comment has the id; re-approving is a no-op, not an error.
	Approve(ctx context.Context, id, moderatorID string) error
	Delete(ctx context.Context, id string) error
	// DeleteByParent removes all direct children of the given comment and
	// returns how many were removed.
	DeleteByParent(ctx context.Context, parentID string) (int64, error)
}
