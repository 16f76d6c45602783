package catalog

import (
	"context"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id int64) (*Category, error)

	// FindByName finds a category by its unique name
	FindByName(ctx context.Context, name string) (*Category, error)

	// FindAll returns every category ordered by name
	FindAll(ctx context.Context) ([]Category, error)

	// ExistsByName reports whether a category with the name exists,
	// ignoring the category with excludeID (0 to check all)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)

	// Exists reports whether a category with the ID exists
	Exists(ctx context.Context, id int64) (bool, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error
}
