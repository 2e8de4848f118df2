package currency

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/go-wander/internal/app/models"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		from, to string
		want     float64
	}{
		{name: "same currency keeps fractions", amount: 10.4, from: "EUR", to: "EUR", want: 10.4},
		{name: "usd to jpy", amount: 100, from: "USD", to: "JPY", want: 15000},
		{name: "eur to usd rounds", amount: 100, from: "EUR", to: "USD", want: 109},
		{name: "jpy to gbp", amount: 30000, from: "JPY", to: "GBP", want: 158},
		{name: "lowercase codes", amount: 100, from: "usd", to: "eur", want: 92},
		{name: "unknown from", amount: 55, from: "XYZ", to: "USD", want: 55},
		{name: "unknown to", amount: 55, from: "USD", to: "XYZ", want: 55},
		{name: "half rounds up", amount: 1.5, from: "USD", to: "USD ", want: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Convert(tc.amount, tc.from, tc.to))
		})
	}
}

func TestConvertBudget(t *testing.T) {
	b := models.BudgetBreakdown{
		Accommodation: 500, Food: 200, Activities: 100, Transport: 50, Misc: 25,
		Currency: "USD", TotalEstimated: 875,
	}

	got := ConvertBudget(b, "eur")
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, float64(460), got.Accommodation)
	assert.Equal(t, float64(184), got.Food)
	assert.Equal(t, float64(805), got.TotalEstimated)

	assert.Equal(t, b, ConvertBudget(b, "ZZZ"))
	assert.Equal(t, b, ConvertBudget(b, "USD"))
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, []string{"THB", "USD", "EUR", "GBP", "JPY", "AUD", "CAD", "INR"}, Available("THB"))
	assert.Equal(t, []string{"EUR", "USD", "GBP", "JPY", "AUD", "CAD", "INR"}, Available("EUR"))
	assert.Len(t, Available(""), 7)
}

func TestSupported(t *testing.T) {
	codes := Supported()
	assert.Len(t, codes, 18)
	assert.Equal(t, "AUD", codes[0])
}

func TestFormat(t *testing.T) {
	assert.Contains(t, Format(1234.5, "USD", language.English), "1,234.50")
	assert.Contains(t, Format(1234.5, "JPY", language.English), "1,235")
	assert.Equal(t, "ABC 3.00", Format(3, "ABC", language.English))
}

func TestHandler_Convert(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(zap.NewNop())
	r.GET("/api/currency/convert", h.Convert)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/currency/convert?amount=100&from=USD&to=JPY", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body convertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(15000), body.Converted)
	assert.True(t, body.Known)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/currency/convert?amount=lots&from=USD&to=JPY", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/currency/convert?amount=5&from=US&to=JPY", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/currency/convert?amount=5&from=usd&to=xyz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(5), body.Converted)
	assert.Equal(t, "USD", body.From)
	assert.False(t, body.Known)
}

func TestHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/currency", NewHandler(zap.NewNop()).List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/currency?base=THB", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Supported []string `json:"supported"`
		Available []string `json:"available"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Supported, 18)
	assert.Equal(t, "THB", body.Available[0])
}
