package currency

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/go-wander/internal/pkg/validate"
)

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

type convertResponse struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
	Formatted string  `json:"formatted"`
	Known     bool    `json:"known"`
}

// Convert handles GET /api/currency/convert?amount=&from=&to=
func (h *Handler) Convert(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a number"})
		return
	}
	from, to := strings.ToUpper(c.Query("from")), strings.ToUpper(c.Query("to"))
	for _, code := range []string{from, to} {
		if err := validate.Var(code, "required,len=3,alpha"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from and to must be three letter currency codes"})
			return
		}
	}

	_, fromOK := Rate(from)
	_, toOK := Rate(to)
	converted := Convert(amount, from, to)

	tag := language.English
	if tags, _, err := language.ParseAcceptLanguage(c.GetHeader("Accept-Language")); err == nil && len(tags) > 0 {
		tag = tags[0]
	}

	h.logger.Debug("Currency converted",
		zap.String("from", from),
		zap.String("to", to),
		zap.Float64("amount", amount),
		zap.Float64("converted", converted))

	c.JSON(http.StatusOK, convertResponse{
		Amount:    amount,
		From:      from,
		To:        to,
		Converted: converted,
		Formatted: Format(converted, to, tag),
		Known:     fromOK && toOK,
	})
}

// List handles GET /api/currency
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"supported": Supported(),
		"available": Available(c.Query("base")),
	})
}
