package persistence

import (
	"context"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shop"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormShopOwnerRepository implements shop.OwnerRepository using GORM.
// The profile is a singleton: the lowest row ID wins.
type GormShopOwnerRepository struct {
	db *gorm.DB
}

// NewGormShopOwnerRepository creates a new GormShopOwnerRepository
func NewGormShopOwnerRepository(db *gorm.DB) *GormShopOwnerRepository {
	return &GormShopOwnerRepository{db: db}
}

// Get returns the shop profile
func (r *GormShopOwnerRepository) Get(ctx context.Context) (*shop.Owner, error) {
	var model models.ShopOwnerModel
	if err := r.db.WithContext(ctx).Order("id ASC").First(&model).Error; err != nil {
		return nil, translateError(err, shared.ErrNotFound)
	}
	return model.ToDomain(), nil
}

// Save creates or updates the shop profile
func (r *GormShopOwnerRepository) Save(ctx context.Context, owner *shop.Owner) error {
	var model models.ShopOwnerModel
	model.FromDomain(owner)

	var err error
	if owner.IsNew() {
		err = r.db.WithContext(ctx).Create(&model).Error
	} else {
		result := r.db.WithContext(ctx).Model(&model).
			Select("shop_name", "tax_id", "postal_address", "email", "phone", "updated_at").
			Updates(&model)
		err = result.Error
		if err == nil && result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
	}
	if err != nil {
		return translateError(err, shared.ErrNotFound)
	}
	owner.ID = model.ID
	return nil
}

var _ shop.OwnerRepository = (*GormShopOwnerRepository)(nil)
