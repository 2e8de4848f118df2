package history

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/app/handlers"
	"github.com/FACorreiaa/go-wander/pkg/middleware"
)

type Handler struct {
	*handlers.BaseHandler
	service Service
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{BaseHandler: handlers.NewBaseHandler(logger), service: service}
}

// List handles GET /api/history
func (h *Handler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), middleware.GetClientID(c))
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// Clear handles DELETE /api/history
func (h *Handler) Clear(c *gin.Context) {
	n, err := h.service.Clear(c.Request.Context(), middleware.GetClientID(c))
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
