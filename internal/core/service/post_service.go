package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// PostService implements the content store for posts.
type PostService struct {
	posts      ports.PostRepository
	categories ports.CategoryRepository
	log        zerolog.Logger
}

func NewPostService(posts ports.PostRepository, categories ports.CategoryRepository, log zerolog.Logger) *PostService {
	return &PostService{posts: posts, categories: categories, log: log}
}

// Create stores a new draft. The category must exist; the summary is derived
// from stripped content when absent so it is always non-empty after save.
func (s *PostService) Create(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", domain.ErrValidation)
	}

	category, err := s.categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:           in.Title,
		Content:         in.Content,
		Summary:         domain.DeriveSummary(in.Summary, in.Content),
		CoverImage:      in.CoverImage,
		AuthorID:        in.AuthorID,
		CategoryID:      category.ID,
		Tags:            in.Tags,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	if err := s.categories.IncrementPostCount(ctx, category.ID, 1); err != nil {
		s.log.Error().Err(err).Str("category_id", category.ID).Msg("failed to bump category post count")
	}

	s.log.Info().Str("post_id", created.ID).Str("author_id", in.AuthorID).Msg("post created")
	return created, nil
}

// Get serves a post if the viewer may see it, bumping the view counter on
// every qualifying read. Unpublished posts are reported as not found to
// anyone but the owner or an admin.
func (s *PostService) Get(ctx context.Context, id string, viewer ports.Viewer) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.VisibleTo(viewer.AccountID, viewer.IsAdmin) {
		return nil, domain.ErrPostNotFound
	}

	if err := s.posts.IncrementViews(ctx, id); err != nil {
		s.log.Error().Err(err).Str("post_id", id).Msg("failed to bump view counter")
	} else {
		post.ViewCount++
	}

	return post, nil
}

// Update applies a keep-if-absent merge of the patch, gated to owner or
// admin. Changing the category moves the denormalized post counts.
func (s *PostService) Update(ctx context.Context, id string, patch ports.PostPatch, viewer ports.Viewer) (*domain.Post, error) {
	post, err := s.authorized(ctx, id, viewer)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}
	if patch.Summary != nil {
		post.Summary = *patch.Summary
	}
	if patch.CoverImage != nil {
		post.CoverImage = *patch.CoverImage
	}
	if patch.Tags != nil {
		post.Tags = *patch.Tags
	}
	if patch.MetaTitle != nil {
		post.MetaTitle = *patch.MetaTitle
	}
	if patch.MetaDescription != nil {
		post.MetaDescription = *patch.MetaDescription
	}
	if patch.Pinned != nil {
		post.Pinned = *patch.Pinned
	}
	if patch.SortWeight != nil {
		post.SortWeight = *patch.SortWeight
	}

	if patch.CategoryID != nil && *patch.CategoryID != post.CategoryID {
		category, err := s.categories.FindByID(ctx, *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		oldCategory := post.CategoryID
		post.CategoryID = category.ID
		if err := s.categories.IncrementPostCount(ctx, oldCategory, -1); err != nil {
			s.log.Error().Err(err).Str("category_id", oldCategory).Msg("failed to decrement category post count")
		}
		if err := s.categories.IncrementPostCount(ctx, category.ID, 1); err != nil {
			s.log.Error().Err(err).Str("category_id", category.ID).Msg("failed to bump category post count")
		}
	}

	post.Summary = domain.DeriveSummary(post.Summary, post.Content)
	post.UpdatedAt = time.Now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Publish flips the publication flag, stamping published_at only on the
// first transition so republishing keeps the original timestamp.
func (s *PostService) Publish(ctx context.Context, id string, viewer ports.Viewer) (*domain.Post, error) {
	post, err := s.authorized(ctx, id, viewer)
	if err != nil {
		return nil, err
	}

	if !post.Published {
		post.Published = true
		if post.PublishedAt.IsZero() {
			post.PublishedAt = time.Now().UTC()
		}
		post.UpdatedAt = time.Now().UTC()
		if err := s.posts.Update(ctx, post); err != nil {
			return nil, err
		}
		s.log.Info().Str("post_id", id).Msg("post published")
	}
	return post, nil
}

// Unpublish withdraws a post and clears its publication timestamp.
func (s *PostService) Unpublish(ctx context.Context, id string, viewer ports.Viewer) (*domain.Post, error) {
	post, err := s.authorized(ctx, id, viewer)
	if err != nil {
		return nil, err
	}

	if post.Published {
		post.Published = false
		post.PublishedAt = time.Time{}
		post.UpdatedAt = time.Now().UTC()
		if err := s.posts.Update(ctx, post); err != nil {
			return nil, err
		}
		s.log.Info().Str("post_id", id).Msg("post unpublished")
	}
	return post, nil
}

// Delete removes a post, gated to owner or admin.
func (s *PostService) Delete(ctx context.Context, id string, viewer ports.Viewer) error {
	post, err := s.authorized(ctx, id, viewer)
	if err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.categories.IncrementPostCount(ctx, post.CategoryID, -1); err != nil {
		s.log.Error().Err(err).Str("category_id", post.CategoryID).Msg("failed to decrement category post count")
	}

	s.log.Info().Str("post_id", id).Msg("post deleted")
	return nil
}

// List returns a page of posts with pagination metadata.
func (s *PostService) List(ctx context.Context, filter ports.ListPostsFilter) (*ports.ListPostsResult, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListPostsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *PostService) authorized(ctx context.Context, id string, viewer ports.Viewer) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin && viewer.AccountID != post.AuthorID {
		return nil, domain.ErrForbidden
	}
	return post, nil
}
