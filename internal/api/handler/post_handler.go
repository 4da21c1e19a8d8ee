package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/metrics"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// PostHandler handles post CRUD, publication, and listing.
type PostHandler struct {
	posts ports.PostService
}

func NewPostHandler(posts ports.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// viewerFrom reads the identity the auth middleware resolved, if any.
func viewerFrom(c echo.Context) ports.Viewer {
	accountID, _ := c.Get("account_id").(string)
	isAdmin, _ := c.Get("is_admin").(bool)
	return ports.Viewer{AccountID: accountID, IsAdmin: isAdmin}
}

// Create handles POST /api/posts.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post details"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accountID, _ := c.Get("account_id").(string)
	post, err := h.posts.Create(c.Request().Context(), ports.CreatePostInput{
		Title:           req.Title,
		Content:         req.Content,
		Summary:         req.Summary,
		CoverImage:      req.CoverImage,
		CategoryID:      req.CategoryID,
		Tags:            req.Tags,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		AuthorID:        accountID,
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toPostResponse(post, true))
}

// Get handles GET /api/posts/:id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id  path      string  true  "Post id"
// @Success      200 {object}  postResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.posts.Get(c.Request().Context(), c.Param("id"), viewerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post, true))
}

// Update handles PATCH /api/posts/:id.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      updatePostRequest  true  "Fields to change"
// @Success      200   {object}  postResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/posts/{id} [patch]
func (h *PostHandler) Update(c echo.Context) error {
	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	post, err := h.posts.Update(c.Request().Context(), c.Param("id"), ports.PostPatch{
		Title:           req.Title,
		Content:         req.Content,
		Summary:         req.Summary,
		CoverImage:      req.CoverImage,
		CategoryID:      req.CategoryID,
		Tags:            req.Tags,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Pinned:          req.Pinned,
		SortWeight:      req.SortWeight,
	}, viewerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post, true))
}

// Publish handles POST /api/posts/:id/publish.
//
// @Summary      Publish a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Post id"
// @Success      200 {object}  postResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/posts/{id}/publish [post]
func (h *PostHandler) Publish(c echo.Context) error {
	post, err := h.posts.Publish(c.Request().Context(), c.Param("id"), viewerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post, true))
}

// Unpublish handles POST /api/posts/:id/unpublish.
//
// @Summary      Unpublish a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Post id"
// @Success      200 {object}  postResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/posts/{id}/unpublish [post]
func (h *PostHandler) Unpublish(c echo.Context) error {
	post, err := h.posts.Unpublish(c.Request().Context(), c.Param("id"), viewerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post, true))
}

// Delete handles DELETE /api/posts/:id.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Post id"
// @Success      200 {object}  map[string]string
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	if err := h.posts.Delete(c.Request().Context(), c.Param("id"), viewerFrom(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "post deleted"})
}

// List handles GET /api/posts.
//
// @Summary      List published posts
// @Tags         posts
// @Produce      json
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size"
// @Param        category  query     string  false  "Category id filter"
// @Param        search    query     string  false  "Full-text search"
// @Success      200       {object}  listPostsResponse
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.posts.List(c.Request().Context(), ports.ListPostsFilter{
		CategoryID:    c.QueryParam("category"),
		Search:        c.QueryParam("search"),
		PublishedOnly: true,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		return err
	}

	items := make([]postResponse, len(result.Items))
	for i, p := range result.Items {
		// Listings carry summaries only; the content body comes with Get.
		items[i] = toPostResponse(p, false)
	}
	return c.JSON(http.StatusOK, listPostsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

func toPostResponse(p *domain.Post, withContent bool) postResponse {
	resp := postResponse{
		ID:              p.ID,
		Title:           p.Title,
		Summary:         p.Summary,
		CoverImage:      p.CoverImage,
		AuthorID:        p.AuthorID,
		CategoryID:      p.CategoryID,
		Tags:            p.Tags,
		Published:       p.Published,
		PublishedAt:     p.PublishedAt,
		ViewCount:       p.ViewCount,
		CommentCount:    p.CommentCount,
		LikeCount:       p.LikeCount,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		Pinned:          p.Pinned,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if withContent {
		resp.Content = p.Content
	}
	return resp
}
