package shop

import "context"

// OwnerRepository persists the shop profile
type OwnerRepository interface {
	// Get returns the shop profile or shared.ErrNotFound when none is set up
	Get(ctx context.Context) (*Owner, error)

	// Save creates or updates the shop profile
	Save(ctx context.Context, owner *Owner) error
}
