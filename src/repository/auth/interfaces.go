package auth_repo

import (
	"context"

	domain "github.com/accountd/api/src/domain/account"
)

// UserRepositoryInterface defines the contract for credential record operations
type UserRepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, email, passwordHash string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, id string) error
}
