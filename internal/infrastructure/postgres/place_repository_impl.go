package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamlist/places-backend/internal/domain/entity"
	"github.com/roamlist/places-backend/internal/domain/repository"
)

type PlaceRepository struct {
	pool *pgxpool.Pool
}

func NewPlaceRepository(pool *pgxpool.Pool) *PlaceRepository {
	return &PlaceRepository{pool: pool}
}

// Create inserts the place inside the lifecycle transaction.
func (r *PlaceRepository) Create(ctx context.Context, tx repository.Tx, p *entity.Place) error {
	pgtx, err := asTx(tx)
	if err != nil {
		return err
	}
	row := pgtx.QueryRow(ctx, `
		INSERT INTO places (id, title, description, address, latitude, longitude, image_url, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, p.ID, p.Title, p.Description, p.Address, p.Latitude, p.Longitude, p.ImageURL, p.OwnerID)

	return row.Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PlaceRepository) GetByID(ctx context.Context, id string) (*entity.Place, error) {
	p := &entity.Place{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, title, description, address, latitude, longitude, image_url, owner_id, created_at, updated_at
		FROM places
		WHERE id = $1
	`, id)

	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.Latitude,
		&p.Longitude, &p.ImageURL, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

func (r *PlaceRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Place, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, address, latitude, longitude, image_url, owner_id, created_at, updated_at
		FROM places
		WHERE owner_id = $1
		ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []*entity.Place
	for rows.Next() {
		p := &entity.Place{}
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.Latitude,
			&p.Longitude, &p.ImageURL, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

// Update persists title and description only. Address and coordinates
// are immutable after creation; last write wins.
func (r *PlaceRepository) Update(ctx context.Context, p *entity.Place) error {
	p.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE places
		SET title = $1, description = $2, updated_at = $3
		WHERE id = $4
	`, p.Title, p.Description, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes the place inside the lifecycle transaction.
func (r *PlaceRepository) Delete(ctx context.Context, tx repository.Tx, id string) error {
	pgtx, err := asTx(tx)
	if err != nil {
		return err
	}
	res, err := pgtx.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PlaceRepository = (*PlaceRepository)(nil)
