package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roamlist/places-backend/internal/application"
	"github.com/roamlist/places-backend/internal/domain/entity"
	"github.com/roamlist/places-backend/internal/interface/middleware"
	"github.com/roamlist/places-backend/pkg/response"
	"github.com/roamlist/places-backend/pkg/validation"
)

type PlaceHandler struct {
	Svc    *application.PlaceService
	Images application.ImageStore
	Logger *logrus.Logger
}

func NewPlaceHandler(svc *application.PlaceService, images application.ImageStore, logger *logrus.Logger) *PlaceHandler {
	return &PlaceHandler{Svc: svc, Images: images, Logger: logger}
}

type createPlaceRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required,desc"`
	Address     string `form:"address" binding:"required"`
}

type updatePlaceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required,desc"`
}

func placeJSON(p *entity.Place) gin.H {
	return gin.H{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.Description,
		"address":     p.Address,
		"location":    gin.H{"lat": p.Latitude, "lng": p.Longitude},
		"image_url":   p.ImageURL,
		"owner_id":    p.OwnerID,
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
}

// Create handles POST /api/places (bearer required; multipart: title,
// description, address, image).
func (h *PlaceHandler) Create(c *gin.Context) {
	var req createPlaceRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid input", validation.ToDetails(err))
		return
	}

	imageURL, err := uploadImage(c, h.Images, "places")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image upload failed", nil)
		return
	}

	p, err := h.Svc.Create(c.Request.Context(), application.CreatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		ImageURL:    imageURL,
		OwnerID:     c.GetString(middleware.CtxUserIDKey),
	})
	if err != nil {
		h.releaseUpload(c, imageURL)
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, placeJSON(p), "place created", nil)
}

// Update handles PATCH /api/places/:placeId (bearer required,
// owner-only; JSON: title, description).
func (h *PlaceHandler) Update(c *gin.Context) {
	var req updatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid input", validation.ToDetails(err))
		return
	}

	p, err := h.Svc.Update(c.Request.Context(), c.Param("placeId"), c.GetString(middleware.CtxUserIDKey), req.Title, req.Description)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, placeJSON(p), "place updated", nil)
}

// Delete handles DELETE /api/places/:placeId (bearer required, owner-only).
func (h *PlaceHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("placeId"), c.GetString(middleware.CtxUserIDKey)); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "place deleted", nil)
}

// GetByID handles GET /api/places/:placeId. Public.
func (h *PlaceHandler) GetByID(c *gin.Context) {
	p, err := h.Svc.GetByID(c.Request.Context(), c.Param("placeId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, placeJSON(p), "place", nil)
}

// GetByOwner handles GET /api/places/user/:userId. Public. 404 when
// the user does not exist, 422 when they have no places.
func (h *PlaceHandler) GetByOwner(c *gin.Context) {
	places, err := h.Svc.GetByOwner(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]gin.H, 0, len(places))
	for _, p := range places {
		out = append(out, placeJSON(p))
	}
	response.Success(c, http.StatusOK, out, "places", nil)
}

// Search handles GET /api/places/search?q=&size=. Public.
func (h *PlaceHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

func (h *PlaceHandler) releaseUpload(c *gin.Context, url string) {
	if h.Images == nil || url == "" {
		return
	}
	if err := h.Images.Release(c.Request.Context(), url); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("url", url).Warn("upload release failed")
	}
}
