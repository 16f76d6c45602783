// Package shop manages the single shop owner profile shown on report
// headers.
package shop

import (
	"context"
	"errors"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shop"
	"github.com/pos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Service reads and edits the shop profile
type Service struct {
	ownerRepo shop.OwnerRepository
	logger    *zap.Logger
}

// NewService creates a new shop profile service
func NewService(ownerRepo shop.OwnerRepository, logger *zap.Logger) *Service {
	return &Service{ownerRepo: ownerRepo, logger: logger}
}

// Get returns the shop profile, or shared.ErrNotFound before it is set up
func (s *Service) Get(ctx context.Context) (*OwnerResponse, error) {
	owner, err := s.ownerRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToOwnerResponse(owner)
	return &resp, nil
}

// Upsert creates the profile on first use and replaces it afterwards
func (s *Service) Upsert(ctx context.Context, req UpdateOwnerRequest) (*OwnerResponse, error) {
	owner, err := s.ownerRepo.Get(ctx)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		owner, err = shop.NewOwner(req.profile())
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := owner.Update(req.profile()); err != nil {
			return nil, err
		}
	}

	if err := s.ownerRepo.Save(ctx, owner); err != nil {
		return nil, err
	}

	logger.Using(ctx, s.logger).Info("Shop profile saved",
		zap.Int64("owner_id", owner.ID),
		zap.String("shop_name", owner.ShopName),
	)
	resp := ToOwnerResponse(owner)
	return &resp, nil
}
