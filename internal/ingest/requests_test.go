package ingest

import (
	"testing"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChallengeDiscovery(t *testing.T) {
	doc := `<?xml version="1.0"?>
<WSChallenge>
  <DiscoveryRoutine name="req-1">
    <Provided>p1a1, p2a2</Provided>
    <Resultant>p9a9</Resultant>
    <QoS>500, 80, 0, 0, 70, 0, 0, 40, 0</QoS>
  </DiscoveryRoutine>
  <DiscoveryRoutine name="req-2">
    <Provided>p3a3</Provided>
  </DiscoveryRoutine>
</WSChallenge>`

	reqs, err := ParseRequests([]byte(doc))
	require.NoError(t, err)
	require.Len(t, reqs, 1, "routine without Resultant must be dropped")

	req := reqs[0]
	assert.Equal(t, "req-1", req.ID)
	assert.Equal(t, []string{"p1a1", "p2a2"}, req.Provided)
	assert.Equal(t, "p9a9", req.Resultant)

	require.Len(t, req.Constraints, 4, "zero columns must not constrain")
	assert.Equal(t, types.Constraint{Metric: types.MetricResponseTime, Comparator: types.AtMost, Threshold: 500}, req.Constraints[0])
	assert.Equal(t, types.Constraint{Metric: types.MetricAvailability, Comparator: types.AtLeast, Threshold: 80}, req.Constraints[1])
	assert.Equal(t, types.Constraint{Metric: types.MetricReliability, Comparator: types.AtLeast, Threshold: 70}, req.Constraints[2])
	assert.Equal(t, types.Constraint{Metric: types.MetricLatency, Comparator: types.AtMost, Threshold: 40}, req.Constraints[3])

	require.NoError(t, req.Validate())
}

func TestParseChallengeComposition(t *testing.T) {
	doc := `<WSChallenge>
  <CompositionRoutine name="comp-1">
    <Provided>p1a1</Provided>
    <Resultant>p5a5</Resultant>
  </CompositionRoutine>
</WSChallenge>`

	reqs, err := ParseRequests([]byte(doc))
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "comp-1", reqs[0].ID)
	assert.Empty(t, reqs[0].Constraints)
}

func TestParseChallengePrefersDiscovery(t *testing.T) {
	doc := `<WSChallenge>
  <DiscoveryRoutine name="disc">
    <Provided>p1a1</Provided>
    <Resultant>p2a2</Resultant>
  </DiscoveryRoutine>
  <CompositionRoutine name="comp">
    <Provided>p3a3</Provided>
    <Resultant>p4a4</Resultant>
  </CompositionRoutine>
</WSChallenge>`

	reqs, err := ParseRequests([]byte(doc))
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "disc", reqs[0].ID)
}

func TestParseStandardRequests(t *testing.T) {
	doc := `<Requests>
  <Request id="std-1">
    <Provided>p1a1; p2a2</Provided>
    <Resultant>p7a7</Resultant>
    <QoS>
      <ResponseTime>300</ResponseTime>
      <Availability>0</Availability>
      <Reliability>65</Reliability>
      <Bogus>12</Bogus>
    </QoS>
  </Request>
  <Request name="std-2">
    <Provided>p4a4</Provided>
    <Resultant>p8a8</Resultant>
  </Request>
</Requests>`

	reqs, err := ParseRequests([]byte(doc))
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	first := reqs[0]
	assert.Equal(t, "std-1", first.ID)
	assert.Equal(t, []string{"p1a1", "p2a2"}, first.Provided)
	require.Len(t, first.Constraints, 2, "zero values and unknown tags are skipped")
	assert.Equal(t, types.MetricResponseTime, first.Constraints[0].Metric)
	assert.Equal(t, types.AtMost, first.Constraints[0].Comparator)
	assert.Equal(t, types.MetricReliability, first.Constraints[1].Metric)

	assert.Equal(t, "std-2", reqs[1].ID, "name attribute backs up a missing id")
}

func TestParseStandardSingleRequestRoot(t *testing.T) {
	doc := `<Request id="solo">
  <Provided>p1a1</Provided>
  <Resultant>p2a2</Resultant>
</Request>`

	reqs, err := ParseRequests([]byte(doc))
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "solo", reqs[0].ID)
}

func TestParseRequestsMalformed(t *testing.T) {
	_, err := ParseRequests([]byte("<WSChallenge><DiscoveryRoutine"))
	assert.Error(t, err)
}
