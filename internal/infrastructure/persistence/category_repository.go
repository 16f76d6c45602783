package persistence

import (
	"context"
	"strings"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id int64) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, shared.ErrCategoryNotFound)
	}
	return model.ToDomain(), nil
}

// FindByName finds a category by its name, ignoring case
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&model).Error; err != nil {
		return nil, translateError(err, shared.ErrCategoryNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll returns every category ordered by name
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err, shared.ErrCategoryNotFound)
	}
	categories := make([]catalog.Category, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories, nil
}

// ExistsByName reports whether another category already uses the name
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, translateError(err, shared.ErrCategoryNotFound)
	}
	return count > 0, nil
}

// Exists reports whether a category with the ID exists
func (r *GormCategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translateError(err, shared.ErrCategoryNotFound)
	}
	return count > 0, nil
}

// Save creates or updates a category and writes back the assigned ID
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	var model models.CategoryModel
	model.FromDomain(category)

	var err error
	if category.IsNew() {
		err = r.db.WithContext(ctx).Create(&model).Error
	} else {
		result := r.db.WithContext(ctx).Model(&model).Select("name", "description", "updated_at").Updates(&model)
		err = result.Error
		if err == nil && result.RowsAffected == 0 {
			return shared.ErrCategoryNotFound
		}
	}
	if err != nil {
		return translateError(err, shared.ErrCategoryNotFound)
	}
	category.ID = model.ID
	return nil
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
