package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// ListPostsFilter carries all query parameters for listing posts.
type ListPostsFilter struct {
	CategoryID    string // optional: filter by category
	Search        string // optional: full-text search over title/content/summary
	PublishedOnly bool   // true for public listings; false includes drafts (admin)
	AuthorID      string // optional: scope to one author's posts
	Page          int    // 1-based
	Limit         int    // max rows per page (capped at 100 by service)
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error
	// List returns a page of posts matching filter and the total count.
	// Ordering is pinned-first, then sort weight, then newest-first.
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, int64, error)
	// IncrementViews atomically bumps the view counter.
	IncrementViews(ctx context.Context, id string) error
	// IncrementComments atomically adjusts the comment counter by delta
	// (negative to decrement).
	IncrementComments(ctx context.Context, id string, delta int64) error
}
