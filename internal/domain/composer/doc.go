// Package composer implements the composition search engine: given a
// catalog snapshot and a request, it finds an ordered service chain that
// turns the provided parameters into the target while maximizing the
// bottleneck utility of the chain.
//
// Three strategies share one state model. Dijkstra explores by descending
// bottleneck utility and returns the provably optimal chain. A* adds a
// bounded heuristic over goal proximity, dependability and output novelty.
// Greedy commits step by step with no backtracking and trades optimality
// for speed.
//
// Every run records a replayable trace, works on an isolated catalog
// snapshot, and honors context cancellation between expansions.
package composer
