package identity

import (
	"context"

	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// UserService manages user accounts
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// Register creates a user. The role must be admin or cashier; an empty
// role registers a cashier.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error) {
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(req.Username, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "A user with this email already exists")
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Using(ctx, s.logger).Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("role", role.String()),
	)
	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns every user ordered by ID
func (s *UserService) List(ctx context.Context) ([]UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToUserResponses(users), nil
}

// EnsureBootstrapAdmin creates the configured admin when no user exists.
// It reports whether an account was created.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, admin BootstrapAdmin) (bool, error) {
	if admin.Email == "" || admin.Password == "" {
		return false, nil
	}
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	username := admin.Username
	if username == "" {
		username = "admin"
	}
	user, err := identity.NewUser(username, admin.Email, admin.Password, identity.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return false, err
	}

	logger.Using(ctx, s.logger).Info("Bootstrap admin created",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
	)
	return true, nil
}
