/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the backend
service, tracking HTTP requests, composition searches, ingestion, and system
metrics.

# Features

- HTTP request metrics (latency, throughput, size)
- Composition search metrics (duration, states explored, utility)
- Descriptor ingest metrics (files processed, parse duration)
- Annotation run metrics
- Catalog size gauges
- WebSocket connection metrics
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record custom metrics
	metrics.SetCatalogServices(412)
	metrics.RecordComposition("dijkstra", "success", elapsed, explored, utility)

	// Time operations
	timer := monitoring.NewTimer(metrics, "annotator", "enrich")
	// ... perform operation ...
	timer.Stop("success")

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
