package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roamlist/places-backend/internal/application"
	"github.com/roamlist/places-backend/pkg/response"
	"github.com/roamlist/places-backend/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Images application.ImageStore
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, images application.ImageStore, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Images: images, Logger: logger}
}

type signupRequest struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup handles POST /api/users/signup (multipart: name, email,
// password, image). The avatar is uploaded before the user row is
// written; if anything after the upload fails, the object is released
// best-effort.
func (h *UserHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid input", validation.ToDetails(err))
		return
	}

	avatarURL, err := uploadImage(c, h.Images, "avatars")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image upload failed", nil)
		return
	}

	res, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		AvatarURL: avatarURL,
	})
	if err != nil {
		h.releaseUpload(c, avatarURL)
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res, "signed up successfully", nil)
}

// Login handles POST /api/users/login (JSON: email, password).
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid input", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "logged in successfully", nil)
}

// List handles GET /api/users. The password hash never leaves the
// handler.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":         u.ID,
			"name":       u.Name,
			"email":      u.Email,
			"avatar_url": u.AvatarURL,
			"place_ids":  u.PlaceIDs,
			"created_at": u.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, out, "users", nil)
}

func (h *UserHandler) releaseUpload(c *gin.Context, url string) {
	if h.Images == nil || url == "" {
		return
	}
	if err := h.Images.Release(c.Request.Context(), url); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("url", url).Warn("upload release failed")
	}
}
