package repository

import (
	"context"

	"github.com/roamlist/places-backend/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// AddPlace and RemovePlace mutate the owned-place set and accept the
// Tx handle so they can join the place lifecycle transaction.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	AddPlace(ctx context.Context, tx Tx, userID, placeID string) error
	RemovePlace(ctx context.Context, tx Tx, userID, placeID string) error
}
