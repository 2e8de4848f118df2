package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/app/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "validation", err: fmt.Errorf("duration: %w", models.ErrValidation), wantStatus: http.StatusBadRequest},
		{name: "not found", err: models.ErrNotFound, wantStatus: http.StatusNotFound, wantMsg: "not found"},
		{name: "timeout", err: fmt.Errorf("itinerary: %w", models.ErrTimeout), wantStatus: http.StatusGatewayTimeout, wantMsg: MsgGenerationTimeout},
		{name: "deadline", err: context.DeadlineExceeded, wantStatus: http.StatusGatewayTimeout, wantMsg: MsgGenerationTimeout},
		{name: "upstream", err: models.ErrUpstream, wantStatus: http.StatusBadGateway, wantMsg: MsgGenerationFailed},
		{name: "unavailable", err: models.ErrUnavailable, wantStatus: http.StatusServiceUnavailable, wantMsg: MsgGenerationFailed},
		{name: "rate limited", err: models.ErrRateLimited, wantStatus: http.StatusTooManyRequests},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantMsg: MsgGenerationFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := Classify(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, msg)
			}
		})
	}
}

type bindTarget struct {
	Destination string `json:"destination" validate:"required,notblank"`
}

func TestBind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBaseHandler(zap.NewNop())

	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{name: "valid", body: `{"destination":"Lisbon"}`, wantOK: true},
		{name: "blank", body: `{"destination":"  "}`},
		{name: "malformed", body: `{"destination":`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var dst bindTarget
			ok := h.Bind(c, &dst)

			assert.Equal(t, tc.wantOK, ok)
			if !tc.wantOK {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}
