package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/pkg/llm"
	"github.com/FACorreiaa/go-wander/internal/routes"
	"github.com/FACorreiaa/go-wander/pkg/middleware"
)

// SetupRouter configures the Gin engine with middleware and every route.
// The returned App owns the session store and caches and must be closed on
// shutdown.
func (s *Server) SetupRouter(gen llm.Generator) (*gin.Engine, *routes.App) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.OTELGinMiddleware(serviceName))
	r.Use(middleware.LoggerMiddleware(s.logger))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())

	app := routes.Setup(r, s.cfg, s.dbPool, gen, s.logger)
	s.router = r
	return r, app
}

// NewGenerator returns the Gemini client, or a generator that reports the
// service as unavailable when the client cannot be built.
func (s *Server) NewGenerator() llm.Generator {
	gen, err := llm.NewClient(s.ctx, s.cfg.Gemini, s.logger)
	if err != nil {
		s.logger.Warn("AI features disabled", zap.Error(err))
		return llm.Disabled(err)
	}
	return gen
}
