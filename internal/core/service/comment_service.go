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

// CommentService implements public comment submission and admin moderation.
type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	log      zerolog.Logger
}

func NewCommentService(comments ports.CommentRepository, posts ports.PostRepository, log zerolog.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, log: log}
}

// Submit creates a pending comment. The post must exist; a supplied parent
// must exist and pins the reply to the parent's post. The post's comment
// counter is incremented immediately, before moderation — approved comments
// and the counter can therefore diverge, which is the documented contract.
func (s *CommentService) Submit(ctx context.Context, in ports.SubmitCommentInput) (*domain.Comment, error) {
	if strings.TrimSpace(in.Content) == "" || strings.TrimSpace(in.AuthorName) == "" {
		return nil, fmt.Errorf("%w: content and author name are required", domain.ErrValidation)
	}

	post, err := s.posts.FindByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	postID := post.ID
	if in.ParentID != "" {
		parent, err := s.comments.FindByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		// A reply always lands on its parent's post, whatever the caller sent.
		postID = parent.PostID
	}

	comment := &domain.Comment{
		PostID:        postID,
		ParentID:      in.ParentID,
		Content:       in.Content,
		AuthorName:    in.AuthorName,
		AuthorEmail:   domain.NormalizeEmail(in.AuthorEmail),
		AuthorWebsite: in.AuthorWebsite,
		AuthorAvatar:  domain.AvatarForEmail(in.AuthorEmail),
		Approved:      false,
		IPAddress:     in.IPAddress,
		CreatedAt:     time.Now().UTC(),
	}

	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	if err := s.posts.IncrementComments(ctx, postID, 1); err != nil {
		s.log.Error().Err(err).Str("post_id", postID).Msg("failed to bump comment counter")
	}

	s.log.Info().Str("post_id", postID).Str("comment_id", created.ID).Msg("comment submitted")
	return created, nil
}

// ListForPost pages the flat approved set newest-first and assembles the
// reply tree from that page only. A child split from its parent by the page
// boundary is dropped by the tree builder.
func (s *CommentService) ListForPost(ctx context.Context, postID string, page, limit int) (*ports.CommentTreePage, error) {
	page, limit = normalizePage(page, limit)

	flat, total, err := s.comments.ListApprovedByPost(ctx, postID, page, limit)
	if err != nil {
		return nil, err
	}

	return &ports.CommentTreePage{
		Roots:      domain.BuildCommentTree(flat),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// ListPending returns unapproved comments, newest first.
func (s *CommentService) ListPending(ctx context.Context, page, limit int) (*ports.CommentPage, error) {
	page, limit = normalizePage(page, limit)

	items, total, err := s.comments.ListPending(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	return &ports.CommentPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Approve flips the approval flag. Approving an already approved comment is
// a no-op.
func (s *CommentService) Approve(ctx context.Context, id, moderatorID string) error {
	if err := s.comments.Approve(ctx, id, moderatorID); err != nil {
		return err
	}
	s.log.Info().Str("comment_id", id).Str("moderator_id", moderatorID).Msg("comment approved")
	return nil
}

// Delete removes the comment and its direct children, then decrements the
// post's comment counter by children+1. Replies nested deeper than one level
// are left orphaned with a stale counter; this mirrors the documented
// cascade behavior.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}

	children, err := s.comments.DeleteByParent(ctx, id)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.posts.IncrementComments(ctx, comment.PostID, -(children + 1)); err != nil {
		s.log.Error().Err(err).Str("post_id", comment.PostID).Msg("failed to decrement comment counter")
	}

	s.log.Info().Str("comment_id", id).Int64("children", children).Msg("comment deleted")
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
