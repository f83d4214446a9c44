package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/composer"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/history"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Message is one client frame.
type Message struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Algorithm string `json:"algorithm,omitempty"`
}

// Handler manages WebSocket connections
type Handler struct {
	engine   *composer.Engine
	requests *catalog.RequestStore
	history  *history.Store
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler
func NewHandler(engine *composer.Engine, requests *catalog.RequestStore, hist *history.Store) *Handler {
	return &Handler{
		engine:   engine,
		requests: requests,
		history:  hist,
		logger:   logging.NewNop(),
	}
}

// WithLogger attaches structured logging.
func (h *Handler) WithLogger(logger *logging.Logger) *Handler {
	if logger != nil {
		h.logger = logger.Named("ws")
	}
	return h
}

// WithMetrics attaches Prometheus instrumentation.
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	clientID := uuid.New().String()
	h.logger.Info("client connected", zap.String("client", clientID))
	defer h.logger.Info("client disconnected", zap.String("client", clientID))

	reqCtx := c.Request.Context()

	h.send(conn, gin.H{
		"type":    "system",
		"message": "Connected to ComposerOS Service (Go)",
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", zap.String("client", clientID), zap.Error(err))
			}
			break
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		switch msg.Type {
		case "compose":
			h.handleCompose(conn, msg, reqCtx)
		case "ping":
			h.send(conn, gin.H{"type": "pong"})
		default:
			h.sendError(conn, "unknown message type")
		}
	}
}

func (h *Handler) handleCompose(conn *websocket.Conn, msg Message, reqCtx context.Context) {
	request, ok := h.requests.Get(msg.RequestID)
	if !ok {
		h.sendError(conn, "request not found")
		return
	}

	h.send(conn, gin.H{
		"type":       "compose_start",
		"request_id": request.ID,
		"timestamp":  time.Now().Unix(),
	})

	// The sink runs on this goroutine, so frames go out in trace order.
	sink := func(entry types.TraceEntry) {
		h.send(conn, gin.H{
			"type":      "trace",
			"entry":     entry,
			"timestamp": time.Now().Unix(),
		})
	}

	result, err := h.engine.ComposeWithSink(reqCtx, request, msg.Algorithm, sink)
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}
	h.history.Add(result)

	h.send(conn, gin.H{
		"type":      "result",
		"result":    result,
		"timestamp": time.Now().Unix(),
	})
	h.send(conn, gin.H{
		"type":      "complete",
		"timestamp": time.Now().Unix(),
	})
}

func (h *Handler) send(conn *websocket.Conn, data gin.H) error {
	if h.metrics != nil {
		if t, ok := data["type"].(string); ok {
			h.metrics.RecordWSMessage("out", t)
		}
	}
	return conn.WriteJSON(data)
}

func (h *Handler) sendError(conn *websocket.Conn, msg string) error {
	return h.send(conn, gin.H{
		"type":      "error",
		"message":   msg,
		"timestamp": time.Now().Unix(),
	})
}
