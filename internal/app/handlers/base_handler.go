package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/app/models"
	"github.com/FACorreiaa/go-wander/internal/pkg/validate"
)

// User facing messages for generation failures.
const (
	MsgGenerationFailed  = "SYSTEM_ERR: COULD_NOT_GENERATE"
	MsgGenerationTimeout = "TIMEOUT_ERR: AI_TOOK_TOO_LONG. RETRY_REQUEST."
	MsgConnectionLost    = "Satellite Connection Lost. Please Try Again."
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// BaseHandler carries what every JSON handler needs.
type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{Logger: logger}
}

// Bind decodes the JSON body into dst and validates it. It writes a 400 and
// returns false on failure.
func (h *BaseHandler) Bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: validate.Message(err)})
		return false
	}
	return true
}

// RespondError maps domain errors onto a status code and message.
func (h *BaseHandler) RespondError(c *gin.Context, err error) {
	status, msg := Classify(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Error: msg})
}

// Classify returns the HTTP status and client message for err.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, models.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."
	case errors.Is(err, models.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, MsgGenerationTimeout
	case errors.Is(err, models.ErrUnavailable):
		return http.StatusServiceUnavailable, MsgGenerationFailed
	case errors.Is(err, models.ErrUpstream):
		return http.StatusBadGateway, MsgGenerationFailed
	default:
		return http.StatusInternalServerError, MsgGenerationFailed
	}
}
