// Package types provides shared data structures for the composer backend.
//
// This package defines core types used across all backend components,
// ensuring type safety and consistent data structures.
//
// Core Types:
//   - Service: Immutable catalog entry with typed I/O and a QoS profile
//   - QoS: Nine-metric quality profile attached to every service
//   - Annotations: Optional social annotation block (trust, reputation)
//   - Request: Composition request (provided params, target, constraints)
//   - Result: Uniform composition outcome (chain, utility, trace)
//   - TraceEntry: One recorded search decision
//   - Graph: Cosmetic visualization subgraph (START/END + service nodes)
//
// Request Types:
//   - ComposeRequest: HTTP body selecting request id and algorithm
//   - AnnotateRequest: HTTP body selecting services to annotate
//   - WSMessage: WebSocket communication envelope
//
// Conventions:
//   - Metric names are typed (Metric) and match descriptor field names
//   - Failure reasons are typed codes (Reason), never raised as errors
//   - All values are safe to copy; the catalog owns canonical Service records
//
// Example Usage:
//
//	svc := types.Service{
//	    ID:      "p1a42",
//	    Inputs:  []string{"zipcode"},
//	    Outputs: []string{"weather"},
//	    QoS:     types.QoS{Availability: 99, Reliability: 85},
//	}
package types
