package shop

import (
	"context"
	"errors"
	"testing"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) Get(ctx context.Context) (*shop.Owner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.Owner), args.Error(1)
}

func (m *MockOwnerRepository) Save(ctx context.Context, owner *shop.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func validRequest() UpdateOwnerRequest {
	return UpdateOwnerRequest{
		ShopName:      "Corner Shop",
		TaxID:         "p051234567x",
		PostalAddress: "P.O. Box 1, Nairobi",
		Email:         "Owner@Corner.shop",
		Phone:         "+254700000000",
	}
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the profile", func(t *testing.T) {
		owner, err := shop.NewOwner(shop.Profile{ShopName: "Corner Shop", TaxID: "A1"})
		require.NoError(t, err)
		owner.ID = 1
		repo := new(MockOwnerRepository)
		repo.On("Get", ctx).Return(owner, nil)

		resp, err := NewService(repo, zap.NewNop()).Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "Corner Shop", resp.ShopName)
	})

	t.Run("not set up", func(t *testing.T) {
		repo := new(MockOwnerRepository)
		repo.On("Get", ctx).Return(nil, shared.ErrNotFound)

		_, err := NewService(repo, zap.NewNop()).Get(ctx)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("creates on first use", func(t *testing.T) {
		repo := new(MockOwnerRepository)
		repo.On("Get", ctx).Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.MatchedBy(func(o *shop.Owner) bool { return o.IsNew() })).Return(nil)

		resp, err := NewService(repo, zap.NewNop()).Upsert(ctx, validRequest())
		require.NoError(t, err)
		assert.Equal(t, "P051234567X", resp.TaxID)
		assert.Equal(t, "owner@corner.shop", resp.Email)
		repo.AssertExpectations(t)
	})

	t.Run("updates the existing profile", func(t *testing.T) {
		owner, err := shop.NewOwner(shop.Profile{ShopName: "Old Name", TaxID: "A1"})
		require.NoError(t, err)
		owner.ID = 4
		repo := new(MockOwnerRepository)
		repo.On("Get", ctx).Return(owner, nil)
		repo.On("Save", ctx, owner).Return(nil)

		resp, err := NewService(repo, zap.NewNop()).Upsert(ctx, validRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.ID)
		assert.Equal(t, "Corner Shop", owner.ShopName)
	})

	t.Run("invalid profile is not saved", func(t *testing.T) {
		repo := new(MockOwnerRepository)
		repo.On("Get", ctx).Return(nil, shared.ErrNotFound)

		req := validRequest()
		req.TaxID = "  "
		_, err := NewService(repo, zap.NewNop()).Upsert(ctx, req)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(MockOwnerRepository)
		repo.On("Get", ctx).Return(nil, shared.NewStorageError(errors.New("disk full")))

		_, err := NewService(repo, zap.NewNop()).Upsert(ctx, validRequest())
		assert.ErrorIs(t, err, shared.ErrStorage)
	})
}
