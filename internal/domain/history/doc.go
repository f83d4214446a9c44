// Package history keeps the in-memory record of past composition results,
// queryable by result id, request id and algorithm. Results are immutable
// once assembled, so the store shares pointers instead of copying.
package history
