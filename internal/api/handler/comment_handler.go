package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/metrics"
	"github.com/inkwell/blog-api/internal/core/ports"
)

type submitCommentRequest struct {
	Content       string `json:"content"        validate:"required,max=5000"`
	AuthorName    string `json:"author_name"    validate:"required,max=100"`
	AuthorEmail   string `json:"author_email"   validate:"required,email"`
	AuthorWebsite string `json:"author_website" validate:"omitempty,url"`
	ParentID      string `json:"parent_id"`
}

// CommentHandler handles public comment submission and admin moderation.
type CommentHandler struct {
	comments ports.CommentService
}

func NewCommentHandler(comments ports.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Submit handles POST /api/posts/:id/comments — public, unauthenticated.
//
// @Summary      Submit a comment for moderation
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Post id"
// @Param        body  body      submitCommentRequest  true  "Comment"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/posts/{id}/comments [post]
func (h *CommentHandler) Submit(c echo.Context) error {
	var req submitCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.comments.Submit(c.Request().Context(), ports.SubmitCommentInput{
		PostID:        c.Param("id"),
		ParentID:      req.ParentID,
		Content:       req.Content,
		AuthorName:    req.AuthorName,
		AuthorEmail:   req.AuthorEmail,
		AuthorWebsite: req.AuthorWebsite,
		IPAddress:     c.RealIP(),
	})
	if err != nil {
		return err
	}

	metrics.CommentsSubmittedTotal.Inc()
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "comment submitted and awaiting moderation",
		"comment": comment,
	})
}

// ListForPost handles GET /api/posts/:id/comments — the approved tree.
//
// @Summary      List approved comments as a tree
// @Tags         comments
// @Produce      json
// @Param        id     path      string  true   "Post id"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  map[string]any
// @Router       /api/posts/{id}/comments [get]
func (h *CommentHandler) ListForPost(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.comments.ListForPost(c.Request().Context(), c.Param("id"), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": result.Roots,
		"pagination": paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// ListPending handles GET /api/admin/comments/pending.
//
// @Summary      List comments awaiting moderation
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  map[string]any
// @Failure      403    {object}  errorResponse
// @Router       /api/admin/comments/pending [get]
func (h *CommentHandler) ListPending(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.comments.ListPending(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": result.Items,
		"pagination": paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Approve handles POST /api/admin/comments/:id/approve. Idempotent.
//
// @Summary      Approve a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Comment id"
// @Success      200 {object}  map[string]string
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/admin/comments/{id}/approve [post]
func (h *CommentHandler) Approve(c echo.Context) error {
	moderatorID, _ := c.Get("account_id").(string)
	if err := h.comments.Approve(c.Request().Context(), c.Param("id"), moderatorID); err != nil {
		return err
	}

	metrics.CommentsModeratedTotal.WithLabelValues("approved").Inc()
	return c.JSON(http.StatusOK, map[string]string{"message": "comment approved"})
}

// Delete handles DELETE /api/admin/comments/:id — removes the comment and
// its direct replies.
//
// @Summary      Delete a comment and its direct replies
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Comment id"
// @Success      200 {object}  map[string]string
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/admin/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	if err := h.comments.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.CommentsModeratedTotal.WithLabelValues("deleted").Inc()
	return c.JSON(http.StatusOK, map[string]string{"message": "comment deleted"})
}
