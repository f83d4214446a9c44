// Package server provides HTTP server setup and initialization for the composition backend.
//
// This package orchestrates all components:
//   - HTTP routing with Gin framework
//   - Middleware stack (tracing, metrics, CORS, rate limiting, recovery)
//   - Catalog, request, solution and history stores
//   - Composition engine and deterministic annotator
//   - Optional remote annotation client with circuit breaker
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger (production or development)
//  3. Create metrics collector and tracer
//  4. Build stores, engine and annotator
//  5. Autoload the dataset directory when configured
//  6. Setup HTTP routes and middleware
//  7. Start HTTP server
//  8. Graceful shutdown on signal
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
