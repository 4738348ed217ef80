package application_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamlist/places-backend/internal/application"
	"github.com/roamlist/places-backend/internal/domain/entity"
	"github.com/roamlist/places-backend/internal/infrastructure/geocode"
	"github.com/roamlist/places-backend/pkg/apperr"
)

type placeHarness struct {
	users  *memUserRepo
	places *memPlaceRepo
	tx     *memTxManager
	geo    *fakeGeocoder
	images *fakeImageStore
	svc    *application.PlaceService
}

func newPlaceHarness(t *testing.T) *placeHarness {
	t.Helper()
	h := &placeHarness{
		users:  newMemUserRepo(),
		places: newMemPlaceRepo(),
		tx:     &memTxManager{},
		geo:    &fakeGeocoder{coords: geocode.Coordinates{Latitude: 52.52, Longitude: 13.405}},
		images: &fakeImageStore{},
	}
	h.svc = application.NewPlaceService(h.places, h.users, h.tx, h.geo, h.images, nil, nil, "")
	return h
}

func (h *placeHarness) addUser(t *testing.T, id, email string) {
	t.Helper()
	err := h.users.Create(context.Background(), &entity.User{ID: id, Email: email, Name: "Test User", Password: "x"})
	require.NoError(t, err)
}

func (h *placeHarness) createPlace(t *testing.T, ownerID string) *entity.Place {
	t.Helper()
	p, err := h.svc.Create(context.Background(), application.CreatePlaceInput{
		Title:       "Brandenburg Gate",
		Description: "18th century gate",
		Address:     "Pariser Platz, Berlin",
		ImageURL:    "https://img.test/places/p1.jpg",
		OwnerID:     ownerID,
	})
	require.NoError(t, err)
	return p
}

func TestPlaceService_Create(t *testing.T) {
	h := newPlaceHarness(t)
	h.addUser(t, "u1", "anna@example.com")

	p := h.createPlace(t, "u1")

	assert.NotEmpty(t, p.ID)
	assert.InDelta(t, 52.52, p.Latitude, 0.001)
	assert.InDelta(t, 13.405, p.Longitude, 0.001)

	stored, err := h.places.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.OwnerID)

	owner, err := h.users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, owner.PlaceIDs, p.ID)
}

func TestPlaceService_Create_GeocodeFailureAborts(t *testing.T) {
	h := newPlaceHarness(t)
	h.addUser(t, "u1", "anna@example.com")
	h.geo.err = &geocode.Error{Address: "nowhere", Reason: "no results"}

	_, err := h.svc.Create(context.Background(), application.CreatePlaceInput{
		Title:       "Nowhere",
		Description: "should never exist",
		Address:     "nowhere",
		OwnerID:     "u1",
	})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnprocessableEntity, ae.HTTPStatus)

	assert.Empty(t, h.places.places)
	owner, err := h.users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, owner.PlaceIDs)
}

func TestPlaceService_Create_UnknownOwner(t *testing.T) {
	h := newPlaceHarness(t)

	_, err := h.svc.Create(context.Background(), application.CreatePlaceInput{
		Title:       "Orphan",
		Description: "no such owner",
		Address:     "somewhere",
		OwnerID:     "ghost",
	})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

func TestPlaceService_Create_AtomicOnSetWriteFailure(t *testing.T) {
	h := newPlaceHarness(t)
	h.addUser(t, "u1", "anna@example.com")
	h.users.addPlaceErr = errors.New("membership insert failed")

	_, err := h.svc.Create(context.Background(), application.CreatePlaceInput{
		Title:       "Half Written",
		Description: "must roll back",
		Address:     "Pariser Platz, Berlin",
		OwnerID:     "u1",
	})
	require.Error(t, err)

	// the place insert was staged in the same tx, so nothing committed
	assert.Empty(t, h.places.places)
	owner, err := h.users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, owner.PlaceIDs)
}

func TestPlaceService_Update(t *testing.T) {
	h := newPlaceHarness(t)
	h.addUser(t, "u1", "anna@example.com")
	p := h.createPlace(t, "u1")

	t.Run("owner can edit", func(t *testing.T) {
		updated, err := h.svc.Update(context.Background(), p.ID, "u1", "New Title", "new description")
		require.NoError(t, err)
		assert.Equal(t, "New Title", updated.Title)
		assert.Equal(t, "new description", updated.Description)
		assert.Equal(t, p.Address, updated.Address)
		assert.Equal(t, p.Latitude, updated.Latitude)
	})

	t.Run("non-owner is rejected before any change", func(t *testing.T) {
		_, err := h.svc.Update(context.Background(), p.ID, "u2", "Hijacked", "x")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)

		stored, gErr := h.places.GetByID(context.Background(), p.ID)
		require.NoError(t, gErr)
		assert.NotEqual(t, "Hijacked", stored.Title)
	})

	t.Run("unknown place", func(t *testing.T) {
		_, err := h.svc.Update(context.Background(), "missing", "u1", "T", "d")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	})
}

func TestPlaceService_Delete(t *testing.T) {
	h := newPlaceHarness(t)
	h.addUser(t, "u1", "anna@example.com")
	p := h.createPlace(t, "u1")

	t.Run("non-owner is rejected", func(t *testing.T) {
		err := h.svc.Delete(context.Background(), p.ID, "intruder")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
	})

	t.Run("owner delete removes both sides and releases the image", func(t *testing.T) {
		err := h.svc.Delete(context.Background(), p.ID, "u1")
		require.NoError(t, err)

		_, gErr := h.places.GetByID(context.Background(), p.ID)
		assert.Error(t, gErr)

		owner, uErr := h.users.GetByID(context.Background(), "u1")
		require.NoError(t, uErr)
		assert.NotContains(t, owner.PlaceIDs, p.ID)

		assert.Equal(t, []string{p.ImageURL}, h.images.released)
	})

	t.Run("unknown place", func(t *testing.T) {
		err := h.svc.Delete(context.Background(), "missing", "u1")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	})
}

func TestPlaceService_Delete_AtomicOnSetWriteFailure(t *testing.T) {
	h := newPlaceHarness(t)
	h.addUser(t, "u1", "anna@example.com")
	p := h.createPlace(t, "u1")
	h.users.removePlaceErr = errors.New("membership delete failed")

	err := h.svc.Delete(context.Background(), p.ID, "u1")
	require.Error(t, err)

	// the staged place delete must not have committed either
	_, gErr := h.places.GetByID(context.Background(), p.ID)
	assert.NoError(t, gErr)
	assert.Empty(t, h.images.released, "image must survive a failed delete")
}

func TestPlaceService_Delete_ImageReleaseFailureIsSilent(t *testing.T) {
	h := newPlaceHarness(t)
	h.addUser(t, "u1", "anna@example.com")
	p := h.createPlace(t, "u1")
	h.images.releaseErr = errors.New("gcs unavailable")

	err := h.svc.Delete(context.Background(), p.ID, "u1")
	assert.NoError(t, err)

	_, gErr := h.places.GetByID(context.Background(), p.ID)
	assert.Error(t, gErr, "delete committed despite the failed release")
}

func TestPlaceService_GetByOwner(t *testing.T) {
	h := newPlaceHarness(t)
	h.addUser(t, "u1", "anna@example.com")
	h.addUser(t, "u2", "ben@example.com")
	p := h.createPlace(t, "u1")

	t.Run("owner with places", func(t *testing.T) {
		places, err := h.svc.GetByOwner(context.Background(), "u1")
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, p.ID, places[0].ID)
	})

	t.Run("owner with zero places", func(t *testing.T) {
		_, err := h.svc.GetByOwner(context.Background(), "u2")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusUnprocessableEntity, ae.HTTPStatus)
	})

	t.Run("unknown owner", func(t *testing.T) {
		_, err := h.svc.GetByOwner(context.Background(), "ghost")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	})
}

func TestPlaceService_GetByID(t *testing.T) {
	h := newPlaceHarness(t)
	h.addUser(t, "u1", "anna@example.com")
	p := h.createPlace(t, "u1")

	got, err := h.svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)

	_, err = h.svc.GetByID(context.Background(), "missing")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

func TestPlaceService_Search_NoBackendConfigured(t *testing.T) {
	h := newPlaceHarness(t)
	results, err := h.svc.Search(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
