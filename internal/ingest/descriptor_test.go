package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescriptorJSONList(t *testing.T) {
	doc := `{
  "services": [
    {
      "id": "p1a1",
      "inputs": ["a"],
      "outputs": ["b"],
      "qos": {"response_time": 120, "availability": 90, "reliability": 80}
    },
    {"id": "p2a2", "name": "geo lookup", "inputs": ["b"], "outputs": ["c"], "qos": {}}
  ]
}`

	svcs, err := ParseDescriptor([]byte(doc), "catalog.json")
	require.NoError(t, err)
	require.Len(t, svcs, 2)

	assert.Equal(t, "p1a1", svcs[0].ID)
	assert.Equal(t, "p1a1", svcs[0].Name, "name defaults to id")
	assert.Equal(t, 120.0, svcs[0].QoS.ResponseTime)
	assert.Equal(t, "geo lookup", svcs[1].Name)
}

func TestParseDescriptorJSONSingle(t *testing.T) {
	doc := `{"id": "p3a3", "inputs": ["x"], "outputs": ["y"], "qos": {"throughput": 9}}`

	svcs, err := ParseDescriptor([]byte(doc), "one.json")
	require.NoError(t, err)
	require.Len(t, svcs, 1)
	assert.Equal(t, 9.0, svcs[0].QoS.Throughput)
}

func TestParseDescriptorYAML(t *testing.T) {
	doc := `services:
  - id: p4a4
    inputs: [a, b]
    outputs: [c]
    qos:
      response_time: 200
      best_practices: 75
`

	svcs, err := ParseDescriptor([]byte(doc), "catalog.yaml")
	require.NoError(t, err)
	require.Len(t, svcs, 1)
	assert.Equal(t, []string{"a", "b"}, svcs[0].Inputs)
	assert.Equal(t, 75.0, svcs[0].QoS.BestPractices)
}

func TestParseDescriptorTOML(t *testing.T) {
	doc := `[[services]]
id = "p5a5"
inputs = ["in1"]
outputs = ["out1"]

[services.qos]
response_time = 95.0
documentation = 60.0
`

	svcs, err := ParseDescriptor([]byte(doc), "catalog.toml")
	require.NoError(t, err)
	require.Len(t, svcs, 1)
	assert.Equal(t, "p5a5", svcs[0].ID)
	assert.Equal(t, 60.0, svcs[0].QoS.Documentation)
}

func TestParseDescriptorSniffsJSON(t *testing.T) {
	doc := `{"id": "p6a6", "inputs": [], "outputs": ["z"], "qos": {}}`

	svcs, err := ParseDescriptor([]byte(doc), "upload-noext")
	require.NoError(t, err)
	require.Len(t, svcs, 1)
	assert.Equal(t, "p6a6", svcs[0].ID)
}

func TestParseDescriptorMissingID(t *testing.T) {
	_, err := ParseDescriptor([]byte(`{"inputs": ["a"]}`), "anon.json")
	assert.Error(t, err)
}

func TestParseDescriptorRejectsUnsafeID(t *testing.T) {
	_, err := ParseDescriptor([]byte(`{"id": "../escape", "inputs": [], "outputs": []}`), "sneaky.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid characters")
}

func TestParseDescriptorRejectsUnsafeParam(t *testing.T) {
	doc := `{"id": "p7a7", "inputs": ["ok", "not ok"], "outputs": []}`
	_, err := ParseDescriptor([]byte(doc), "params.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parameter")
}

func TestParseDescriptorMalformed(t *testing.T) {
	_, err := ParseDescriptor([]byte("{nope"), "broken.json")
	assert.Error(t, err)
}
