// Package qos provides the quality-of-service utility model for the
// composition engine.
//
// Every service carries a nine-metric QoS profile; every request may carry
// per-metric constraints. This package turns the two into one commensurable
// utility score used by all search strategies, and aggregates per-service
// profiles into the achieved profile of a whole chain.
//
// Components:
//   - Score: profile + constraints -> utility report (pure, deterministic)
//   - Aggregate: chain of profiles -> achieved end-to-end profile
//   - Compare: metric-by-metric profile comparison
//
// Utility Model:
//   - Quality (0-100): weighted linear normalization of all nine metrics
//   - Conformity (0-100): fixed weight per satisfied constraint
//   - base = quality*0.4 + conformity*0.6
//   - Tiered bonus and penalty from the constraint satisfaction ratio
//   - Final utility in approximately [0, 160]
//
// Scoring is a pure function: identical inputs produce bit-identical
// outputs. Search-state deduplication and the optimality argument of the
// exhaustive strategy depend on this.
package qos
