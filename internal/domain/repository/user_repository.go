package repository

import (
	"context"

	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
)

// UserRepository is the persistence port for shop users.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
