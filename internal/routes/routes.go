package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/app/domain/currency"
	"github.com/FACorreiaa/go-wander/internal/app/domain/history"
	"github.com/FACorreiaa/go-wander/internal/app/domain/packing"
	"github.com/FACorreiaa/go-wander/internal/app/domain/planner"
	"github.com/FACorreiaa/go-wander/internal/app/domain/playlist"
	"github.com/FACorreiaa/go-wander/internal/app/domain/souvenirs"
	"github.com/FACorreiaa/go-wander/internal/app/domain/theme"
	"github.com/FACorreiaa/go-wander/internal/pkg/cache"
	"github.com/FACorreiaa/go-wander/internal/pkg/config"
	"github.com/FACorreiaa/go-wander/internal/pkg/llm"
	"github.com/FACorreiaa/go-wander/pkg/auth"
	"github.com/FACorreiaa/go-wander/pkg/middleware"
)

// Database is what the routes need from Postgres: the history queries and
// a health ping. *pgxpool.Pool satisfies it.
type Database interface {
	history.DB
	Ping(ctx context.Context) error
}

type AppHandlers struct {
	Planner   *planner.Handler
	History   *history.Handler
	Souvenirs *souvenirs.Handler
	Packing   *packing.Handler
	Playlist  *playlist.Handler
	Theme     *theme.Handler
	Currency  *currency.Handler
}

// App is everything Setup builds that outlives a single request.
type App struct {
	Handlers  *AppHandlers
	Souvenirs *souvenirs.ServiceImpl
	Caches    *cache.CacheManager
	tokens    *auth.ClientTokens
	limiter   *middleware.RateLimiter
	db        Database
}

// Close stops background work owned by the app.
func (a *App) Close() {
	a.Souvenirs.Close()
	a.Caches.ClearAll()
}

func Setup(r *gin.Engine, cfg *config.Config, db Database, gen llm.Generator, log *zap.Logger) *App {
	app := setupDependencies(cfg, db, gen, log)
	setupRouter(r, app, log)
	return app
}

func setupDependencies(cfg *config.Config, db Database, gen llm.Generator, log *zap.Logger) *App {
	selector := theme.NewSelector()
	caches := cache.NewCacheManager(cfg.Gemini.CacheTTL, log)

	historyRepo := history.NewRepositoryImpl(db, log)
	historyService := history.NewService(historyRepo, cfg.HistoryLimit, log)
	plannerService := planner.NewService(gen, historyService, caches, log)
	souvenirService := souvenirs.NewService(gen, selector, cfg.Flow, cfg.SessionTTL, log)
	packingService := packing.NewService(gen, caches.Packing, log)
	playlistService := playlist.NewService(gen, caches.Playlists, log)

	return &App{
		Handlers: &AppHandlers{
			Planner:   planner.NewHandler(plannerService, log),
			History:   history.NewHandler(historyService, log),
			Souvenirs: souvenirs.NewHandler(souvenirService, log),
			Packing:   packing.NewHandler(packingService, log),
			Playlist:  playlist.NewHandler(playlistService, log),
			Theme:     theme.NewHandler(selector, log),
			Currency:  currency.NewHandler(log),
		},
		Souvenirs: souvenirService,
		Caches:    caches,
		tokens:    auth.NewClientTokens(cfg.HTTP.ClientSecret, 365*24*time.Hour),
		limiter:   middleware.NewRateLimiter(log, cfg.HTTP.RequestsPerSecond, cfg.HTTP.Burst, 10*time.Minute),
		db:        db,
	}
}

func setupRouter(r *gin.Engine, app *App, log *zap.Logger) {
	h := app.Handlers

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := app.db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.ClientIdentity(app.tokens, log))
	api.Use(middleware.RateLimitMiddleware(app.limiter))
	{
		api.POST("/itineraries", h.Planner.GenerateItinerary)
		api.POST("/itineraries/convert", h.Planner.ConvertBudget)
		api.POST("/chat", h.Planner.Chat)
		api.GET("/language-tips", h.Planner.LanguageTips)

		api.GET("/history", h.History.List)
		api.DELETE("/history", h.History.Clear)

		api.POST("/packing", h.Packing.Generate)
		api.POST("/playlist", h.Playlist.Generate)

		api.GET("/theme", h.Theme.GetTheme)
		api.GET("/currency", h.Currency.List)
		api.GET("/currency/convert", h.Currency.Convert)
	}

	scout := api.Group("/souvenirs")
	{
		scout.POST("/scout", h.Souvenirs.Scout)
		scout.GET("/sessions/:id", h.Souvenirs.GetSession)
		scout.POST("/sessions/:id/scout", h.Souvenirs.Rescout)
		scout.GET("/sessions/:id/events", h.Souvenirs.StreamEvents)
		scout.DELETE("/sessions/:id", h.Souvenirs.CancelSession)
	}

	log.Info("Routes registered", zap.Int("count", len(r.Routes())))
}
