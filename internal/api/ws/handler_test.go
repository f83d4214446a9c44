package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/composer"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/history"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

type wsFixture struct {
	server  *httptest.Server
	conn    *websocket.Conn
	history *history.Store
}

func dialHandler(t *testing.T) *wsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	services := catalog.NewStore()
	require.NoError(t, services.Add(types.Service{
		ID:      "s1",
		Inputs:  []string{"p1"},
		Outputs: []string{"p2"},
		QoS:     types.QoS{Availability: 90, Reliability: 90, Throughput: 10},
	}))
	requests := catalog.NewRequestStore()
	require.NoError(t, requests.Add(types.Request{ID: "req-1", Provided: []string{"p1"}, Resultant: "p2"}))

	hist := history.NewStore()
	engine := composer.New(services, composer.DefaultLimits())
	handler := NewHandler(engine, requests, hist)

	router := gin.New()
	router.GET("/ws/compose", handler.HandleConnection)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/compose"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &wsFixture{server: server, conn: conn, history: hist}
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var frame map[string]interface{}
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestConnectionWelcome(t *testing.T) {
	f := dialHandler(t)

	frame := readFrame(t, f.conn)
	assert.Equal(t, "system", frame["type"])
	assert.Contains(t, frame["message"], "Connected")
}

func TestPing(t *testing.T) {
	f := dialHandler(t)
	readFrame(t, f.conn) // welcome

	require.NoError(t, f.conn.WriteJSON(Message{Type: "ping"}))
	assert.Equal(t, "pong", readFrame(t, f.conn)["type"])
}

func TestUnknownMessageType(t *testing.T) {
	f := dialHandler(t)
	readFrame(t, f.conn)

	require.NoError(t, f.conn.WriteJSON(Message{Type: "teleport"}))
	frame := readFrame(t, f.conn)
	assert.Equal(t, "error", frame["type"])
	assert.Equal(t, "unknown message type", frame["message"])
}

func TestComposeStream(t *testing.T) {
	f := dialHandler(t)
	readFrame(t, f.conn)

	require.NoError(t, f.conn.WriteJSON(Message{Type: "compose", RequestID: "req-1", Algorithm: "dijkstra"}))

	start := readFrame(t, f.conn)
	require.Equal(t, "compose_start", start["type"])
	assert.Equal(t, "req-1", start["request_id"])

	// Trace frames arrive in order, then the result, then completion.
	traces := 0
	var result map[string]interface{}
	for {
		frame := readFrame(t, f.conn)
		if frame["type"] == "trace" {
			traces++
			continue
		}
		require.Equal(t, "result", frame["type"], "unexpected frame: %v", frame)
		result = frame
		break
	}
	assert.Greater(t, traces, 0)

	payload, ok := result["result"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, []interface{}{"s1"}, payload["chain"])

	assert.Equal(t, "complete", readFrame(t, f.conn)["type"])
	assert.Equal(t, 1, f.history.Len())
}

func TestComposeUnknownRequest(t *testing.T) {
	f := dialHandler(t)
	readFrame(t, f.conn)

	require.NoError(t, f.conn.WriteJSON(Message{Type: "compose", RequestID: "ghost"}))
	frame := readFrame(t, f.conn)
	assert.Equal(t, "error", frame["type"])
	assert.Equal(t, "request not found", frame["message"])
}
