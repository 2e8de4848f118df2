package planner

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/go-wander/internal/app/domain/currency"
	"github.com/FACorreiaa/go-wander/internal/app/handlers"
	"github.com/FACorreiaa/go-wander/internal/app/models"
	"github.com/FACorreiaa/go-wander/pkg/middleware"
)

type Handler struct {
	*handlers.BaseHandler
	service Service
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{BaseHandler: handlers.NewBaseHandler(logger), service: service}
}

// GenerateItinerary handles POST /api/itineraries
func (h *Handler) GenerateItinerary(c *gin.Context) {
	var prefs models.TripPreferences
	if !h.Bind(c, &prefs) {
		return
	}

	trip, err := h.service.GenerateItinerary(c.Request.Context(), middleware.GetClientID(c), prefs)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

type convertBudgetRequest struct {
	Budget models.BudgetBreakdown `json:"budgetBreakdown" validate:"required"`
	To     string                 `json:"to" validate:"required,len=3"`
}

type convertBudgetResponse struct {
	Budget    models.BudgetBreakdown `json:"budgetBreakdown"`
	Formatted string                 `json:"formattedTotal"`
}

// ConvertBudget handles POST /api/itineraries/convert
func (h *Handler) ConvertBudget(c *gin.Context) {
	var req convertBudgetRequest
	if !h.Bind(c, &req) {
		return
	}

	converted, err := h.service.ConvertBudget(req.Budget, strings.ToUpper(req.To))
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, convertBudgetResponse{
		Budget:    converted,
		Formatted: currency.Format(converted.TotalEstimated, converted.Currency, language.English),
	})
}

// Chat handles POST /api/chat
func (h *Handler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if !h.Bind(c, &req) {
		return
	}

	reply, err := h.service.Chat(c.Request.Context(), req)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// LanguageTips handles GET /api/language-tips?destination=
func (h *Handler) LanguageTips(c *gin.Context) {
	destination := strings.TrimSpace(c.Query("destination"))
	if destination == "" {
		c.JSON(http.StatusBadRequest, handlers.ErrorResponse{Error: "destination is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tips": h.service.LanguageTips(c.Request.Context(), destination)})
}
