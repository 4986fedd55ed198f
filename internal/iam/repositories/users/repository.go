package users

import (
	"context"

	"github.com/akozlov/custhub/internal/iam/models"
)

// Repository is the durable account store. Create must be atomic
// insert-if-absent: when two callers race on the same username exactly one
// wins and the other gets ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
