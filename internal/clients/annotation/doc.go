// Package annotation is the HTTP client for an external annotation service.
//
// The deterministic annotator covers most deployments, but a catalog can
// also be enriched from a remote service that computes social scores out of
// band. This client fetches those blocks and applies them to the catalog,
// with retry, rate limiting, and circuit breaker protection on the wire.
package annotation
