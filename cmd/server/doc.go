// Package main is the entry point for the ComposerOS backend server.
//
// This application serves the service composition engine: a catalog of
// QoS-profiled services, composition requests, three search strategies,
// and benchmark comparison against best-known solutions.
//
// The server provides:
//   - REST API for dataset upload, composition and comparison
//   - WebSocket streaming of live composition traces
//   - Prometheus metrics and a JSON metrics view
//   - Rate limiting and CORS
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Serve an on-disk dataset
//	./server -port 8000 -data ./datasets/composition01
//
//	# Environment-driven
//	PORT=8000 DATA_ROOT=./datasets/composition01 ./server
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
