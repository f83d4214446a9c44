package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/benchmark"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDataset(t *testing.T) {
	root := t.TempDir()

	writeFile(t, root, "services/servicep1a1.wsdl", `<definitions>
  <message name="opRequest"><part name="p1a1"/></message>
  <message name="opResponse"><part name="p2a2"/></message>
  <QoS><ResponseTime Value="100"/><Availability Value="90"/></QoS>
</definitions>`)
	writeFile(t, root, "services/extra.json", `{"id": "p3a3", "inputs": ["p2a2"], "outputs": ["p4a4"], "qos": {"availability": 80}}`)
	writeFile(t, root, "services/broken.wsdl", `<definitions><message`)

	writeFile(t, root, "requests/Requests.xml", `<WSChallenge>
  <CompositionRoutine name="req-1">
    <Provided>p1a1</Provided>
    <Resultant>p4a4</Resultant>
  </CompositionRoutine>
</WSChallenge>`)

	writeFile(t, root, "solutions/BestSolutions.xml", `<BestSolutions>
  <case name="req-1">
    <utility value="77"/>
    <service name="p1a1"/>
    <service name="p3a3"/>
  </case>
</BestSolutions>`)

	services := catalog.NewStore()
	requests := catalog.NewRequestStore()
	solutions := benchmark.NewStore()

	loader := NewLoader(services, requests, solutions)
	rep, err := loader.LoadDataset(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Services)
	assert.Equal(t, 1, rep.Requests)
	assert.Equal(t, 1, rep.Solutions)
	assert.Equal(t, 1, rep.Failed)
	require.Len(t, rep.Errors, 1)
	assert.Contains(t, rep.Errors[0], "broken.wsdl")

	assert.Equal(t, 2, services.Len())
	_, ok := services.Get("p1a1")
	assert.True(t, ok)

	req, ok := requests.Get("req-1")
	require.True(t, ok)
	assert.Equal(t, "p4a4", req.Resultant)

	sol, ok := solutions.Get("req-1")
	require.True(t, ok)
	assert.Equal(t, []string{"p1a1", "p3a3"}, sol.ServiceIDs)
}

func TestLoadDatasetBundle(t *testing.T) {
	root := t.TempDir()
	bundle := gzipped(t, tarball(t, map[string]string{
		"servicep5a5.wsdl": `<definitions>
  <message name="opRequest"><part name="p1a1"/></message>
  <message name="opResponse"><part name="p5a5"/></message>
</definitions>`,
	}))
	dir := filepath.Join(root, "services")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bundle.tar.gz"), bundle, 0o644))

	services := catalog.NewStore()
	loader := NewLoader(services, catalog.NewRequestStore(), benchmark.NewStore())
	rep, err := loader.LoadDataset(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Services)
	_, ok := services.Get("p5a5")
	assert.True(t, ok)
}

func TestLoadDatasetMissingDirs(t *testing.T) {
	loader := NewLoader(catalog.NewStore(), catalog.NewRequestStore(), benchmark.NewStore())
	rep, err := loader.LoadDataset(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, rep.Services)
	assert.Zero(t, rep.Failed)
}

func TestLoadDatasetCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "services/servicep1a1.wsdl", `<definitions/>`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewLoader(catalog.NewStore(), catalog.NewRequestStore(), benchmark.NewStore())
	_, err := loader.LoadDataset(ctx, root)
	assert.Error(t, err)
}

func TestCollectServicesNestedArchive(t *testing.T) {
	inner := gzipped(t, tarball(t, map[string]string{"a.wsdl": "<a/>"}))
	outer := tarball(t, map[string]string{"inner.tar.gz": string(inner)})

	svcs, errs := CollectServices(outer, "outer.tar")
	assert.Empty(t, svcs)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "nested archives")
}
