package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roamlist/places-backend/internal/container"
	handlers "github.com/roamlist/places-backend/internal/interface/http"
	"github.com/roamlist/places-backend/internal/interface/middleware"
	"github.com/roamlist/places-backend/pkg/helpers"
)

// UserModule wires the identity routes.
// Public: POST /api/users/signup, POST /api/users/login, GET /api/users

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	listLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/users/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/users/login", loginLimiter, m.Handler.Login)
	rg.GET("/users", listLimiter, m.Handler.List)
}
