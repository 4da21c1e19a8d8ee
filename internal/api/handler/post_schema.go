package handler

import "time"

type createPostRequest struct {
	Title           string   `json:"title"            validate:"required,max=200"`
	Content         string   `json:"content"          validate:"required"`
	Summary         string   `json:"summary"          validate:"max=500"`
	CoverImage      string   `json:"cover_image"      validate:"omitempty,url"`
	CategoryID      string   `json:"category_id"      validate:"required"`
	Tags            []string `json:"tags"`
	MetaTitle       string   `json:"meta_title"       validate:"max=200"`
	MetaDescription string   `json:"meta_description" validate:"max=500"`
}

// updatePostRequest uses pointers so "field absent" and "field set to zero"
// stay distinguishable; absent fields keep their stored value.
type updatePostRequest struct {
	Title           *string   `json:"title"`
	Content         *string   `json:"content"`
	Summary         *string   `json:"summary"`
	CoverImage      *string   `json:"cover_image"`
	CategoryID      *string   `json:"category_id"`
	Tags            *[]string `json:"tags"`
	MetaTitle       *string   `json:"meta_title"`
	MetaDescription *string   `json:"meta_description"`
	Pinned          *bool     `json:"pinned"`
	SortWeight      *int      `json:"sort_weight"`
}

type postResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content,omitempty"`
	Summary         string    `json:"summary"`
	CoverImage      string    `json:"cover_image,omitempty"`
	AuthorID        string    `json:"author_id"`
	CategoryID      string    `json:"category_id"`
	Tags            []string  `json:"tags,omitempty"`
	Published       bool      `json:"published"`
	PublishedAt     time.Time `json:"published_at,omitempty"`
	ViewCount       int64     `json:"view_count"`
	CommentCount    int64     `json:"comment_count"`
	LikeCount       int64     `json:"like_count"`
	MetaTitle       string    `json:"meta_title,omitempty"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Pinned          bool      `json:"pinned"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listPostsResponse struct {
	Data       []postResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
