// Package benchmark stores best-known solutions for composition requests
// and compares the engine's results against them: per-request rows plus
// per-algorithm success rates, mean utilities and mean run times.
package benchmark
