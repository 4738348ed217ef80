package repository

import (
	"context"

	"github.com/roamlist/places-backend/internal/domain/entity"
)

// PlaceRepository defines the interface for place-related database
// operations. Create and Delete accept the Tx handle because they are
// only ever executed as one half of the place/user dual write.
type PlaceRepository interface {
	Create(ctx context.Context, tx Tx, p *entity.Place) error
	GetByID(ctx context.Context, id string) (*entity.Place, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Place, error)
	Update(ctx context.Context, p *entity.Place) error
	Delete(ctx context.Context, tx Tx, id string) error
}
