package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// CreatePostInput carries everything needed to create a post. AuthorID comes
// from the verified session, never the request body.
type CreatePostInput struct {
	Title           string
	Content         string
	Summary         string
	CoverImage      string
	CategoryID      string
	Tags            []string
	MetaTitle       string
	MetaDescription string
	AuthorID        string
}

// PostPatch enumerates every optional update field. A nil field keeps the
// existing value; a non-nil field replaces it.
type PostPatch struct {
	Title           *string
	Content         *string
	Summary         *string
	CoverImage      *string
	CategoryID      *string
	Tags            *[]string
	MetaTitle       *string
	MetaDescription *string
	Pinned          *bool
	SortWeight      *int
}

// Viewer identifies who is asking. A zero Viewer is an anonymous request.
type Viewer struct {
	AccountID string
	IsAdmin   bool
}

// ListPostsResult is one page of posts plus pagination metadata.
type ListPostsResult struct {
	Items      []*domain.Post
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PostService implements the content store for posts.
type PostService interface {
	Create(ctx context.Context, in CreatePostInput) (*domain.Post, error)
	// Get enforces visibility: unpublished posts are indistinguishable from
	// missing ones except to the owner or an admin. Each qualifying read
	// increments the view counter.
	Get(ctx context.Context, id string, viewer Viewer) (*domain.Post, error)
	Update(ctx context.Context, id string, patch PostPatch, viewer Viewer) (*domain.Post, error)
	Publish(ctx context.Context, id string, viewer Viewer) (*domain.Post, error)
	Unpublish(ctx context.Context, id string, viewer Viewer) (*domain.Post, error)
	Delete(ctx context.Context, id string, viewer Viewer) error
	List(ctx context.Context, filter ListPostsFilter) (*ListPostsResult, error)
}
