// Package http contains the REST handlers for the composition service:
// catalog and request uploads, annotation runs, composition searches,
// history, and the benchmark comparison.
package http
