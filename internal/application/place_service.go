package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/roamlist/places-backend/internal/domain/entity"
	repo "github.com/roamlist/places-backend/internal/domain/repository"
	"github.com/roamlist/places-backend/internal/infrastructure/geocode"
	"github.com/roamlist/places-backend/pkg/apperr"
)

// PlaceService is the place lifecycle manager. It is the only writer
// that touches both the places table and the owner's place set, and it
// does so inside a single transaction: a place never exists without
// being in its owner's set, and vice versa.
type PlaceService struct {
	Places        repo.PlaceRepository
	Users         repo.UserRepository
	Tx            repo.TxManager
	Geocoder      geocode.Geocoder
	Images        ImageStore
	Logger        *logrus.Logger
	ES            *elasticsearch.Client
	ESPlacesIndex string
}

func NewPlaceService(places repo.PlaceRepository, users repo.UserRepository, tx repo.TxManager, gc geocode.Geocoder, images ImageStore, logger *logrus.Logger, es *elasticsearch.Client, esPlacesIndex string) *PlaceService {
	return &PlaceService{
		Places:        places,
		Users:         users,
		Tx:            tx,
		Geocoder:      gc,
		Images:        images,
		Logger:        logger,
		ES:            es,
		ESPlacesIndex: esPlacesIndex,
	}
}

type CreatePlaceInput struct {
	Title       string
	Description string
	Address     string
	ImageURL    string
	OwnerID     string
}

// Create resolves the address, validates the owner, and persists the
// place together with the owner's set entry in one transaction.
// A geocoding failure aborts the whole operation: a place is never
// stored without coordinates.
func (s *PlaceService) Create(ctx context.Context, in CreatePlaceInput) (*entity.Place, error) {
	coords, err := s.Geocoder.Resolve(ctx, in.Address)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("address", in.Address).Warn("geocoding failed")
		}
		return nil, apperr.Geocode("could not resolve the given address").WithCause(err)
	}

	owner, err := s.Users.GetByID(ctx, in.OwnerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Internal(err)
	}

	p := &entity.Place{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Address:     in.Address,
		Latitude:    coords.Latitude,
		Longitude:   coords.Longitude,
		ImageURL:    in.ImageURL,
		OwnerID:     owner.ID,
	}

	err = s.Tx.WithinTx(ctx, func(tx repo.Tx) error {
		if err := s.Places.Create(ctx, tx, p); err != nil {
			return err
		}
		return s.Users.AddPlace(ctx, tx, owner.ID, p.ID)
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.indexPlace(ctx, p)
	return p, nil
}

// Update applies title and description after the ownership check.
// Address and coordinates stay as resolved at creation.
func (s *PlaceService) Update(ctx context.Context, placeID, requesterID, title, description string) (*entity.Place, error) {
	p, err := s.Places.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("place")
		}
		return nil, apperr.Internal(err)
	}
	if p.OwnerID != requesterID {
		return nil, apperr.Forbidden("you are not allowed to edit this place")
	}

	p.Title = strings.TrimSpace(title)
	p.Description = description
	if err := s.Places.Update(ctx, p); err != nil {
		return nil, apperr.Internal(err)
	}

	s.indexPlace(ctx, p)
	return p, nil
}

// Delete removes the place and its set entry in one transaction, then
// releases the image and the search document best-effort. A failed
// release is logged, never surfaced: the user-visible delete already
// committed.
func (s *PlaceService) Delete(ctx context.Context, placeID, requesterID string) error {
	p, err := s.Places.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("place")
		}
		return apperr.Internal(err)
	}
	if p.OwnerID != requesterID {
		return apperr.Forbidden("you are not allowed to delete this place")
	}

	err = s.Tx.WithinTx(ctx, func(tx repo.Tx) error {
		if err := s.Places.Delete(ctx, tx, p.ID); err != nil {
			return err
		}
		return s.Users.RemovePlace(ctx, tx, p.OwnerID, p.ID)
	})
	if err != nil {
		return apperr.Internal(err)
	}

	if s.Images != nil && p.ImageURL != "" {
		if rErr := s.Images.Release(ctx, p.ImageURL); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("place_id", p.ID).Warn("image release failed")
		}
	}
	s.removePlaceIndex(ctx, p.ID)
	return nil
}

// GetByID returns a place. Public, no auth.
func (s *PlaceService) GetByID(ctx context.Context, placeID string) (*entity.Place, error) {
	p, err := s.Places.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("place")
		}
		return nil, apperr.Internal(err)
	}
	return p, nil
}

// GetByOwner returns the owner's places. A missing owner and an owner
// with zero places fail differently: 404 for the former, 422 for the
// latter, so callers can tell them apart.
func (s *PlaceService) GetByOwner(ctx context.Context, userID string) ([]*entity.Place, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Internal(err)
	}

	places, err := s.Places.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(places) == 0 {
		return nil, apperr.Unprocessable("user does not have any places")
	}
	return places, nil
}

func (s *PlaceService) indexPlace(ctx context.Context, p *entity.Place) {
	if s.ES == nil || s.ESPlacesIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.Description,
		"address":     p.Address,
		"owner_id":    p.OwnerID,
		"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESPlacesIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("place_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("place_id", p.ID).Warn("es index response error")
	}
}

func (s *PlaceService) removePlaceIndex(ctx context.Context, placeID string) {
	if s.ES == nil || s.ESPlacesIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESPlacesIndex, DocumentID: placeID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("place_id", placeID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over title, description, and address.
func (s *PlaceService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESPlacesIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description", "address"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESPlacesIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperr.Internal(err)
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
