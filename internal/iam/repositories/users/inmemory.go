package users

import (
	"context"
	"sync"
	"time"

	"github.com/akozlov/custhub/internal/common"
	"github.com/akozlov/custhub/internal/iam/models"
	"github.com/google/uuid"
)

// InMemoryRepository keeps accounts in a mutex-guarded map. The check and the
// insert happen under one lock acquisition, so it gives the same
// insert-if-absent guarantee as the unique constraint in Postgres.
// Used by tests and local runs without a database.
type InMemoryRepository struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]models.User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}

	stored := models.User{
		ID:        uuid.NewString(),
		Username:  user.Username,
		Verifier:  append([]byte(nil), user.Verifier...),
		CreatedAt: time.Now(),
	}
	r.users[user.Username] = stored

	user.ID = stored.ID
	user.CreatedAt = stored.CreatedAt
	return user, nil
}

func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}

	u := stored
	u.Verifier = append([]byte(nil), stored.Verifier...)
	return &u, nil
}
