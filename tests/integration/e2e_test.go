//go:build integration
// +build integration

package integration

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ComposerOS/backend/tests/helpers/testutil"
)

// TestEndToEndWorkflow drives the complete flow over HTTP:
// upload descriptors -> annotate -> upload requests -> compose with every
// strategy -> benchmark against best-known solutions -> stream over ws.
func TestEndToEndWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping end-to-end test in short mode")
	}

	t.Run("Dataset Upload", func(t *testing.T) {
		body, contentType := testutil.Multipart(t, "files", map[string]string{
			"servicee2ea1.wsdl": testutil.WSDL([]string{"e2ep1"}, []string{"e2ep2"}),
			"servicee2eb2.wsdl": testutil.WSDL([]string{"e2ep2"}, []string{"e2ep3"}),
		})
		w := do(t, "POST", "/services/upload", body, contentType)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := testutil.DecodeJSON(t, w.Body.Bytes())
		assert.Contains(t, resp["message"], "2 services loaded")

		body, contentType = testutil.Multipart(t, "file", map[string]string{
			"Requests.xml": testutil.RequestsXML("e2e-req", []string{"e2ep1"}, "e2ep3"),
		})
		w = do(t, "POST", "/requests/upload", body, contentType)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("Annotation", func(t *testing.T) {
		w := do(t, "POST", "/annotate/start", nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := testutil.DecodeJSON(t, w.Body.Bytes())
		assert.Equal(t, "Annotation completed", resp["message"])

		w = do(t, "GET", "/annotate/progress", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		progress := testutil.DecodeJSON(t, w.Body.Bytes())
		assert.Equal(t, false, progress["running"])
		assert.EqualValues(t, 100, progress["progress"])
	})

	t.Run("Composition With Every Strategy", func(t *testing.T) {
		w := do(t, "POST", "/compose/all", strings.NewReader(`{"request_id": "e2e-req"}`), "application/json")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := testutil.DecodeJSON(t, w.Body.Bytes())
		results, ok := resp["results"].(map[string]interface{})
		require.True(t, ok)
		require.Len(t, results, 3)
		for algo, raw := range results {
			res, ok := raw.(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, true, res["success"], "algorithm %s", algo)
			assert.Equal(t, []interface{}{"e2ea1", "e2eb2"}, res["chain"], "algorithm %s", algo)
		}
	})

	t.Run("Benchmark Comparison", func(t *testing.T) {
		body, contentType := testutil.Multipart(t, "file", map[string]string{
			"BestSolutions.xml": testutil.SolutionsXML("e2e-req", 60, "e2ea1", "e2eb2"),
		})
		w := do(t, "POST", "/solutions/upload", body, contentType)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = do(t, "GET", "/comparison", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := testutil.DecodeJSON(t, w.Body.Bytes())
		rows, ok := resp["comparisons"].([]interface{})
		require.True(t, ok)

		var found map[string]interface{}
		for _, raw := range rows {
			row, ok := raw.(map[string]interface{})
			require.True(t, ok)
			if row["request_id"] == "e2e-req" {
				found = row
				break
			}
		}
		require.NotNil(t, found, "comparison row for e2e-req missing")
		assert.NotNil(t, found["best_known"])
		results, ok := found["results"].(map[string]interface{})
		require.True(t, ok)
		assert.Len(t, results, 3)
	})

	t.Run("WebSocket Streaming", func(t *testing.T) {
		server := httptest.NewServer(testutil.Router(t))
		defer server.Close()

		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/compose"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()

		read := func() map[string]interface{} {
			require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
			var frame map[string]interface{}
			require.NoError(t, conn.ReadJSON(&frame))
			return frame
		}

		assert.Equal(t, "system", read()["type"])

		require.NoError(t, conn.WriteJSON(map[string]string{
			"type":       "compose",
			"request_id": "e2e-req",
			"algorithm":  "astar",
		}))

		assert.Equal(t, "compose_start", read()["type"])

		traces := 0
		for {
			frame := read()
			if frame["type"] == "trace" {
				traces++
				continue
			}
			require.Equal(t, "result", frame["type"])
			result, ok := frame["result"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, true, result["success"])
			break
		}
		assert.Greater(t, traces, 0, "expected streamed trace entries before the result")
		assert.Equal(t, "complete", read()["type"])
	})
}

// TestConcurrentCompositions exercises the engine under concurrent load.
func TestConcurrentCompositions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping concurrent test in short mode")
	}

	body, contentType := testutil.Multipart(t, "files", map[string]string{
		"serviceconca1.wsdl": testutil.WSDL([]string{"concp1"}, []string{"concp2"}),
	})
	w := do(t, "POST", "/services/upload", body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body, contentType = testutil.Multipart(t, "file", map[string]string{
		"Requests.xml": testutil.RequestsXML("conc-req", []string{"concp1"}, "concp2"),
	})
	w = do(t, "POST", "/requests/upload", body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	router := testutil.Router(t)
	const concurrentRequests = 10

	type outcome struct {
		code int
		body string
	}
	results := make(chan outcome, concurrentRequests)

	for i := 0; i < concurrentRequests; i++ {
		go func() {
			req := httptest.NewRequest("POST", "/compose", strings.NewReader(`{"request_id": "conc-req"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			results <- outcome{code: rec.Code, body: rec.Body.String()}
		}()
	}

	for i := 0; i < concurrentRequests; i++ {
		r := <-results
		assert.Equal(t, http.StatusOK, r.code, r.body)
		assert.Contains(t, r.body, `"success":true`)
	}
}
