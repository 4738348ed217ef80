package application_test

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/roamlist/places-backend/internal/domain/entity"
	"github.com/roamlist/places-backend/internal/domain/repository"
	"github.com/roamlist/places-backend/internal/infrastructure/geocode"
)

// memTx stages writes until the fake tx manager commits them, so a
// failing operation inside WithinTx leaves no visible state.
type memTx struct {
	pending []func()
}

type memTxManager struct {
	beginErr error
}

func (m *memTxManager) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	tx := &memTx{}
	if err := fn(tx); err != nil {
		return err
	}
	for _, op := range tx.pending {
		op()
	}
	return nil
}

func stage(tx repository.Tx, op func()) error {
	mt, ok := tx.(*memTx)
	if !ok {
		return errors.New("foreign tx handle")
	}
	mt.pending = append(mt.pending, op)
	return nil
}

type memUserRepo struct {
	users          map[string]*entity.User
	members        map[string]map[string]bool
	addPlaceErr    error
	removePlaceErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:   map[string]*entity.User{},
		members: map[string]map[string]bool{},
	}
}

func (r *memUserRepo) Create(ctx context.Context, u *entity.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	cp.PlaceIDs = nil
	for pid := range r.members[id] {
		cp.PlaceIDs = append(cp.PlaceIDs, pid)
	}
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memUserRepo) AddPlace(ctx context.Context, tx repository.Tx, userID, placeID string) error {
	if r.addPlaceErr != nil {
		return r.addPlaceErr
	}
	return stage(tx, func() {
		if r.members[userID] == nil {
			r.members[userID] = map[string]bool{}
		}
		r.members[userID][placeID] = true
	})
}

func (r *memUserRepo) RemovePlace(ctx context.Context, tx repository.Tx, userID, placeID string) error {
	if r.removePlaceErr != nil {
		return r.removePlaceErr
	}
	return stage(tx, func() {
		delete(r.members[userID], placeID)
	})
}

type memPlaceRepo struct {
	places    map[string]*entity.Place
	createErr error
	updateErr error
}

func newMemPlaceRepo() *memPlaceRepo {
	return &memPlaceRepo{places: map[string]*entity.Place{}}
}

func (r *memPlaceRepo) Create(ctx context.Context, tx repository.Tx, p *entity.Place) error {
	if r.createErr != nil {
		return r.createErr
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	return stage(tx, func() { r.places[cp.ID] = &cp })
}

func (r *memPlaceRepo) GetByID(ctx context.Context, id string) (*entity.Place, error) {
	p, ok := r.places[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPlaceRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Place, error) {
	var out []*entity.Place
	for _, p := range r.places {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memPlaceRepo) Update(ctx context.Context, p *entity.Place) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.places[p.ID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	r.places[p.ID] = &cp
	return nil
}

func (r *memPlaceRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	if _, ok := r.places[id]; !ok {
		return repository.ErrNotFound
	}
	return stage(tx, func() { delete(r.places, id) })
}

type fakeGeocoder struct {
	coords geocode.Coordinates
	err    error
}

func (g *fakeGeocoder) Resolve(ctx context.Context, address string) (geocode.Coordinates, error) {
	if g.err != nil {
		return geocode.Coordinates{}, g.err
	}
	return g.coords, nil
}

type fakeImageStore struct {
	released   []string
	releaseErr error
}

func (s *fakeImageStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return "https://img.test/" + objectPath, nil
}

func (s *fakeImageStore) Release(ctx context.Context, url string) error {
	if s.releaseErr != nil {
		return s.releaseErr
	}
	s.released = append(s.released, url)
	return nil
}
