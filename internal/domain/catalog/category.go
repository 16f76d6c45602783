package catalog

import (
	"strings"

	"github.com/pos/backend/internal/domain/shared"
)

const (
	maxCategoryNameLength        = 100
	maxCategoryDescriptionLength = 2000
)

// Category groups products. Names are unique across the catalog and
// categories are never deleted.
type Category struct {
	shared.BaseEntity
	Name        string
	Description string
}

// NewCategory creates a new category
func NewCategory(name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if err := validateCategoryDescription(description); err != nil {
		return nil, err
	}

	return &Category{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: strings.TrimSpace(description),
	}, nil
}

// Update updates the category's name and description
func (c *Category) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return err
	}
	if err := validateCategoryDescription(description); err != nil {
		return err
	}

	c.Name = name
	c.Description = strings.TrimSpace(description)
	c.Touch()
	return nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Category name cannot be empty")
	}
	if len(name) > maxCategoryNameLength {
		return shared.NewDomainError(shared.CodeInvalidInput, "Category name cannot exceed 100 characters")
	}
	return nil
}

func validateCategoryDescription(description string) error {
	if len(description) > maxCategoryDescriptionLength {
		return shared.NewDomainError(shared.CodeInvalidInput, "Category description cannot exceed 2000 characters")
	}
	return nil
}
