package identity

import "context"

// UserRepository persists till operators. Emails are unique and compared
// case-insensitively by implementations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	// FindByEmail returns shared.ErrNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindAll lists users ordered by id.
	FindAll(ctx context.Context) ([]User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Count is used to detect an empty store for the bootstrap admin.
	Count(ctx context.Context) (int64, error)
}
