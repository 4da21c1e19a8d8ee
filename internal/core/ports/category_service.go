package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// CategoryPatch enumerates the optional category update fields; nil keeps the
// existing value.
type CategoryPatch struct {
	Name        *string
	Description *string
	Color       *string
}

// CategoryService implements admin-gated category management.
type CategoryService interface {
	Create(ctx context.Context, name, description, color string) (*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id string, patch CategoryPatch) (*domain.Category, error)
	// Delete fails with domain.ErrCategoryInUse while any post references the
	// category.
	Delete(ctx context.Context, id string) error
}
