// Package testutil provides fixtures and helpers for backend tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/server"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

var (
	sharedOnce   sync.Once
	sharedRouter *gin.Engine
	sharedErr    error
)

// Router returns a fully wired application router shared by all tests in
// the process. Prometheus collectors register globally, so the server is
// built exactly once; tests must tolerate state left by earlier tests or
// use ids of their own.
func Router(t *testing.T) *gin.Engine {
	t.Helper()
	sharedOnce.Do(func() {
		cfg := config.Default()
		cfg.Data.AutoLoad = false
		cfg.RateLimit.Enabled = false

		srv, err := server.NewServer(cfg)
		if err != nil {
			sharedErr = err
			return
		}
		sharedRouter = srv.Router()
	})
	if sharedErr != nil {
		t.Fatalf("shared server: %v", sharedErr)
	}
	return sharedRouter
}

// Service builds a catalog entry with a healthy QoS profile.
func Service(id string, inputs, outputs []string) types.Service {
	return types.Service{
		ID:      id,
		Name:    id,
		Inputs:  inputs,
		Outputs: outputs,
		QoS: types.QoS{
			ResponseTime:   120,
			Availability:   92,
			Throughput:     15,
			Successability: 90,
			Reliability:    91,
			Compliance:     85,
			BestPractices:  78,
			Latency:        35,
			Documentation:  66,
		},
	}
}

// Request builds a composition request.
func Request(id string, provided []string, resultant string) types.Request {
	return types.Request{ID: id, Provided: provided, Resultant: resultant}
}

// WSDL renders a minimal descriptor document for upload tests. The service
// id is derived from the file name by the parser, so callers pair this with
// a "service<id>.wsdl" name.
func WSDL(inputs, outputs []string) string {
	var b strings.Builder
	b.WriteString("<definitions>\n  <message name=\"opRequest\">")
	for _, in := range inputs {
		fmt.Fprintf(&b, "<part name=%q/>", in)
	}
	b.WriteString("</message>\n  <message name=\"opResponse\">")
	for _, out := range outputs {
		fmt.Fprintf(&b, "<part name=%q/>", out)
	}
	b.WriteString("</message>\n")
	b.WriteString("  <QoS><ResponseTime Value=\"110\"/><Availability Value=\"90\"/><Throughput Value=\"12\"/><Successability Value=\"88\"/><Reliability Value=\"90\"/><Compliance Value=\"82\"/><BestPractices Value=\"76\"/><Latency Value=\"28\"/><Documentation Value=\"70\"/></QoS>\n")
	b.WriteString("</definitions>")
	return b.String()
}

// RequestsXML renders a requests document with one routine.
func RequestsXML(id string, provided []string, resultant string) string {
	var b strings.Builder
	b.WriteString("<WSChallenge>\n")
	fmt.Fprintf(&b, "  <CompositionRoutine name=%q>\n", id)
	for _, p := range provided {
		fmt.Fprintf(&b, "    <Provided>%s</Provided>\n", p)
	}
	fmt.Fprintf(&b, "    <Resultant>%s</Resultant>\n", resultant)
	b.WriteString("  </CompositionRoutine>\n</WSChallenge>")
	return b.String()
}

// SolutionsXML renders a best-solutions document with one case.
func SolutionsXML(requestID string, utility float64, serviceIDs ...string) string {
	var b strings.Builder
	b.WriteString("<BestSolutions>\n")
	fmt.Fprintf(&b, "  <case name=%q>\n", requestID)
	fmt.Fprintf(&b, "    <utility value=\"%g\"/>\n", utility)
	for _, id := range serviceIDs {
		fmt.Fprintf(&b, "    <service name=%q/>\n", id)
	}
	b.WriteString("  </case>\n</BestSolutions>")
	return b.String()
}

// Multipart encodes files as a multipart body under one field name and
// returns the body with its content type.
func Multipart(t *testing.T, field string, files map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("multipart part %s: %v", name, err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("multipart write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart close: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// DecodeJSON unmarshals a JSON response body into a generic map.
func DecodeJSON(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode response: %v\n%s", err, data)
	}
	return body
}

// AssertComposed fails the test unless the result reports a successful
// composition.
func AssertComposed(t *testing.T, result *types.Result) {
	t.Helper()
	if result == nil {
		t.Fatal("result is nil")
	}
	if !result.Success {
		t.Fatalf("composition failed with reason %s", result.Reason)
	}
	if len(result.Chain) == 0 && result.Reason != "" {
		t.Fatalf("successful result carries failure reason %s", result.Reason)
	}
}

// AssertFailed fails the test unless the result reports the given reason.
func AssertFailed(t *testing.T, result *types.Result, reason types.Reason) {
	t.Helper()
	if result == nil {
		t.Fatal("result is nil")
	}
	if result.Success {
		t.Fatal("expected failure, got success")
	}
	if result.Reason != reason {
		t.Fatalf("reason = %s, want %s", result.Reason, reason)
	}
}
