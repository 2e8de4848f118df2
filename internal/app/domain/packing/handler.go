package packing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/app/handlers"
	"github.com/FACorreiaa/go-wander/internal/app/models"
)

type Handler struct {
	*handlers.BaseHandler
	service Service
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{BaseHandler: handlers.NewBaseHandler(logger), service: service}
}

// Generate handles POST /api/packing
func (h *Handler) Generate(c *gin.Context) {
	var req models.PackingRequest
	if !h.Bind(c, &req) {
		return
	}

	categories, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
