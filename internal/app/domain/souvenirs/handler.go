package souvenirs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/app/handlers"
	"github.com/FACorreiaa/go-wander/internal/app/models"
	"github.com/FACorreiaa/go-wander/internal/pkg/debugger"
	"github.com/FACorreiaa/go-wander/pkg/middleware"
)

const keepAliveInterval = 15 * time.Second

type Handler struct {
	*handlers.BaseHandler
	service Service
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{BaseHandler: handlers.NewBaseHandler(logger), service: service}
}

// Scout handles POST /api/souvenirs/scout
func (h *Handler) Scout(c *gin.Context) {
	var req models.ScoutRequest
	if !h.Bind(c, &req) {
		return
	}

	sess, err := h.service.Scout(c.Request.Context(), middleware.GetClientID(c), req)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.Header("Location", "/api/souvenirs/sessions/"+sess.ID.String())
	c.JSON(http.StatusCreated, sess.View())
}

// Rescout handles POST /api/souvenirs/sessions/:id/scout
func (h *Handler) Rescout(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req models.ScoutRequest
	if !h.Bind(c, &req) {
		return
	}

	sess, err := h.service.Rescout(c.Request.Context(), middleware.GetClientID(c), id, req)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, sess.View())
}

// GetSession handles GET /api/souvenirs/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	sess, err := h.service.Get(middleware.GetClientID(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

// CancelSession handles DELETE /api/souvenirs/sessions/:id
func (h *Handler) CancelSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.service.Cancel(middleware.GetClientID(c), id); err != nil {
		h.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StreamEvents handles GET /api/souvenirs/sessions/:id/events. It replays the
// session log from ?from= (or Last-Event-ID) and then follows it until a
// completed or failed event, or until the session closes.
func (h *Handler) StreamEvents(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	sess, err := h.service.Get(middleware.GetClientID(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	cursor := 0
	if last := c.GetHeader("Last-Event-ID"); last != "" {
		if n, err := strconv.Atoi(last); err == nil {
			cursor = n + 1
		}
	} else if from := c.Query("from"); from != "" {
		if n, err := strconv.Atoi(from); err == nil && n > 0 {
			cursor = n
		}
	}

	l := h.Logger.With(zap.String("session_id", id.String()))
	l.Info("SSE connection established", zap.Int("from", cursor))

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		events, changed, closed := sess.Since(cursor)
		for _, ev := range events {
			debugger.DebugPrintEvent(l, ev.Type, ev)
			c.Render(-1, sseEvent(ev))
			cursor = ev.Seq + 1
		}
		if len(events) > 0 {
			c.Writer.Flush()
			if events[len(events)-1].Terminal() {
				l.Info("SSE stream finished", zap.Int("events", cursor))
				return
			}
		}
		if closed {
			c.SSEvent("closed", gin.H{"sessionId": id})
			c.Writer.Flush()
			return
		}

		select {
		case <-changed:
		case <-keepAlive.C:
			c.SSEvent("ping", gin.H{"ts": time.Now().Unix()})
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			l.Info("SSE connection closed by client")
			return
		}
	}
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handlers.ErrorResponse{Error: "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}
