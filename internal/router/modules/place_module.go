package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roamlist/places-backend/internal/container"
	handlers "github.com/roamlist/places-backend/internal/interface/http"
	"github.com/roamlist/places-backend/internal/interface/middleware"
	"github.com/roamlist/places-backend/pkg/helpers"
)

// PlaceModule wires the place routes. Reads stay public; the mutating
// routes sit behind the bearer auth guard, matching the original API.
// Public: GET /api/places/user/:userId, GET /api/places/:placeId,
// GET /api/places/search
// Protected: POST /api/places, PATCH /api/places/:placeId,
// DELETE /api/places/:placeId

type PlaceModule struct {
	Handler *handlers.PlaceHandler
	JWT     *helpers.JWTManager
}

func NewPlaceModule(h *handlers.PlaceHandler, jwt *helpers.JWTManager) *PlaceModule {
	return &PlaceModule{Handler: h, JWT: jwt}
}

func (m *PlaceModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	// search must be registered before the :placeId wildcard
	rg.GET("/places/search", readLimiter, m.Handler.Search)
	rg.GET("/places/user/:userId", readLimiter, m.Handler.GetByOwner)
	rg.GET("/places/:placeId", readLimiter, m.Handler.GetByID)

	auth := rg.Group("/places")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("", m.Handler.Create)
		auth.PATCH("/:placeId", m.Handler.Update)
		auth.DELETE("/:placeId", m.Handler.Delete)
	}
}
