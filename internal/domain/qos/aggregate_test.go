package qos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

func TestAggregate(t *testing.T) {
	t.Run("empty chain has no profile", func(t *testing.T) {
		assert.Nil(t, Aggregate(nil))
		assert.Nil(t, Aggregate([]types.QoS{}))
	})

	t.Run("single service is its own profile", func(t *testing.T) {
		p := types.QoS{ResponseTime: 120, Availability: 92, Throughput: 40}
		got := Aggregate([]types.QoS{p})

		require.NotNil(t, got)
		assert.Equal(t, p, *got)
	})

	t.Run("two-service chain", func(t *testing.T) {
		a := types.QoS{
			ResponseTime:   100,
			Availability:   90,
			Throughput:     50,
			Successability: 80,
			Reliability:    95,
			Compliance:     70,
			BestPractices:  60,
			Latency:        30,
			Documentation:  40,
		}
		b := types.QoS{
			ResponseTime:   200,
			Availability:   80,
			Throughput:     30,
			Successability: 100,
			Reliability:    90,
			Compliance:     90,
			BestPractices:  50,
			Latency:        70,
			Documentation:  80,
		}

		got := Aggregate([]types.QoS{a, b})
		require.NotNil(t, got)

		// additive
		assert.InDelta(t, 300.0, got.ResponseTime, 1e-9)
		assert.InDelta(t, 100.0, got.Latency, 1e-9)

		// multiplicative probabilities back on the 0-100 scale
		assert.InDelta(t, 72.0, got.Availability, 1e-9)   // 0.9*0.8
		assert.InDelta(t, 85.5, got.Reliability, 1e-9)    // 0.95*0.9
		assert.InDelta(t, 80.0, got.Successability, 1e-9) // 0.8*1.0

		// bottleneck minimum
		assert.Equal(t, 30.0, got.Throughput)
		assert.Equal(t, 70.0, got.Compliance)
		assert.Equal(t, 50.0, got.BestPractices)
		assert.Equal(t, 40.0, got.Documentation)
	})
}

func TestCompare(t *testing.T) {
	left := types.QoS{ResponseTime: 100, Availability: 95, Throughput: 40}
	right := types.QoS{ResponseTime: 150, Availability: 95, Throughput: 60}

	cmp := Compare(left, right)

	t.Run("time metrics favor the smaller value", func(t *testing.T) {
		row := cmp[types.MetricResponseTime]
		assert.Equal(t, WinnerLeft, row.Winner)
		assert.Equal(t, 50.0, row.Difference)
	})

	t.Run("equal values tie", func(t *testing.T) {
		assert.Equal(t, WinnerTie, cmp[types.MetricAvailability].Winner)
	})

	t.Run("capacity metrics favor the larger value", func(t *testing.T) {
		row := cmp[types.MetricThroughput]
		assert.Equal(t, WinnerRight, row.Winner)
		assert.Equal(t, -20.0, row.Difference)
	})
}
