package playlist

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-wander/internal/app/models"
	"github.com/FACorreiaa/go-wander/internal/pkg/cache"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateJSON(ctx context.Context, task, prompt string, schema *genai.Schema, out any) error {
	return m.Called(ctx, task, prompt, schema, out).Error(0)
}

func (m *mockGenerator) Chat(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func songs(n int) []models.Song {
	out := make([]models.Song, n)
	for i := range out {
		out[i] = models.Song{Title: fmt.Sprintf("Track %d", i+1), Artist: "Local Band", Reason: "fits"}
	}
	return out
}

func TestGenerate_TrimsAndCaches(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("GenerateJSON", mock.Anything, "playlist", mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, `8 songs that capture the vibe "Jazz" for a trip to New Orleans`)
	}), mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(4).(*[]models.Song) = songs(10)
	}).Return(nil).Once()
	svc := NewService(gen, cache.NewUnifiedCache[[]models.Song](time.Minute, "playlists", nil), zap.NewNop())
	req := models.PlaylistRequest{Destination: "New Orleans", Vibe: "Jazz"}

	got, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, got, Size)

	_, err = svc.Generate(context.Background(), req)
	require.NoError(t, err)
	gen.AssertExpectations(t)
}

func TestGenerate_Errors(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("GenerateJSON", mock.Anything, "playlist", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	svc := NewService(gen, cache.NewUnifiedCache[[]models.Song](time.Minute, "playlists", nil), zap.NewNop())

	_, err := svc.Generate(context.Background(), models.PlaylistRequest{Destination: "Lima", Vibe: "Polka"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Generate(context.Background(), models.PlaylistRequest{Destination: "Lima", Vibe: "Folk"})
	assert.ErrorIs(t, err, models.ErrUpstream)
}

type failingService struct{ err error }

func (f failingService) Generate(context.Context, models.PlaylistRequest) ([]models.Song, error) {
	return nil, f.err
}

func TestHandler_Generate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/playlist", NewHandler(failingService{err: models.ErrUnavailable}, zap.NewNop()).Generate)

	req := httptest.NewRequest(http.MethodPost, "/api/playlist", bytes.NewBufferString(`{"destination":"Lima","vibe":"Folk"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
