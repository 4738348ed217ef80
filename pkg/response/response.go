package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roamlist/places-backend/pkg/apperr"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
	ctx.JSON(status, resp)
	return resp
}

// FromError maps a service error to its HTTP status and a client-safe
// message. Internal causes stay out of the response body.
func FromError(ctx *gin.Context, err error) APIResponse[any] {
	if ae := apperr.As(err); ae != nil {
		var details interface{}
		if len(ae.Details) > 0 {
			details = ae.Details
		}
		return Error[any](ctx, ae.HTTPStatus, ae.Message, details)
	}
	return Error[any](ctx, http.StatusInternalServerError, "something went wrong", nil)
}
