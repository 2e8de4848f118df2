package theme

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	selector *Selector
	logger   *zap.Logger
}

func NewHandler(selector *Selector, logger *zap.Logger) *Handler {
	return &Handler{selector: selector, logger: logger}
}

type paletteResponse struct {
	Palette   Palette           `json:"palette"`
	Variables map[string]string `json:"variables"`
}

// GetTheme handles GET /api/theme?destination=
func (h *Handler) GetTheme(c *gin.Context) {
	dest := c.Query("destination")
	p := h.selector.Select(dest)
	h.logger.Debug("Theme selected", zap.String("destination", dest), zap.String("palette", p.Name))
	c.JSON(http.StatusOK, paletteResponse{Palette: p, Variables: p.Variables()})
}
