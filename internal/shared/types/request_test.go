package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultComparator(t *testing.T) {
	assert.Equal(t, AtMost, DefaultComparator(MetricResponseTime))
	assert.Equal(t, AtMost, DefaultComparator(MetricLatency))
	assert.Equal(t, AtLeast, DefaultComparator(MetricAvailability))
	assert.Equal(t, AtLeast, DefaultComparator(MetricThroughput))
}

func TestConstraintSatisfied(t *testing.T) {
	upper := Constraint{Metric: MetricResponseTime, Comparator: AtMost, Threshold: 500}
	assert.True(t, upper.Satisfied(500))
	assert.True(t, upper.Satisfied(120))
	assert.False(t, upper.Satisfied(500.1))

	lower := Constraint{Metric: MetricReliability, Comparator: AtLeast, Threshold: 90}
	assert.True(t, lower.Satisfied(90))
	assert.False(t, lower.Satisfied(89.99))
}

func TestRequestValidate(t *testing.T) {
	base := Request{
		ID:        "req-1",
		Provided:  []string{"p1", "p2"},
		Resultant: "p9",
	}
	assert.NoError(t, base.Validate())

	cases := []struct {
		name    string
		mutate  func(*Request)
		wantErr string
	}{
		{
			name:    "empty id",
			mutate:  func(r *Request) { r.ID = "" },
			wantErr: "empty id",
		},
		{
			name:    "no provided parameters",
			mutate:  func(r *Request) { r.Provided = nil },
			wantErr: "provided",
		},
		{
			name:    "missing resultant",
			mutate:  func(r *Request) { r.Resultant = "" },
			wantErr: "resultant",
		},
		{
			name: "unknown constraint metric",
			mutate: func(r *Request) {
				r.Constraints = []Constraint{{Metric: "speediness", Comparator: AtLeast}}
			},
			wantErr: "unknown constraint metric",
		},
		{
			name: "unknown comparator",
			mutate: func(r *Request) {
				r.Constraints = []Constraint{{Metric: MetricLatency, Comparator: "=="}}
			},
			wantErr: "comparator",
		},
		{
			name: "negative threshold",
			mutate: func(r *Request) {
				r.Constraints = []Constraint{{Metric: MetricLatency, Comparator: AtMost, Threshold: -5}}
			},
			wantErr: "negative threshold",
		},
		{
			name: "duplicate constraint metric",
			mutate: func(r *Request) {
				r.Constraints = []Constraint{
					{Metric: MetricReliability, Comparator: AtLeast, Threshold: 80},
					{Metric: MetricReliability, Comparator: AtLeast, Threshold: 90},
				}
			},
			wantErr: "duplicate",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base.Clone()
			tc.mutate(&req)
			assert.ErrorContains(t, req.Validate(), tc.wantErr)
		})
	}
}

func TestRequestClone(t *testing.T) {
	orig := Request{
		ID:        "req-1",
		Provided:  []string{"p1"},
		Resultant: "p9",
		Constraints: []Constraint{
			{Metric: MetricThroughput, Comparator: AtLeast, Threshold: 10},
		},
	}

	clone := orig.Clone()
	clone.Provided[0] = "mutated"
	clone.Constraints[0].Threshold = 99

	assert.Equal(t, []string{"p1"}, orig.Provided)
	assert.Equal(t, 10.0, orig.Constraints[0].Threshold)
}
