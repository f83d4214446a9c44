/*
Package catalog manages the in-memory service catalog and request registry.

# Overview

The catalog is the authoritative store for ingested service descriptors and
composition requests. Services are validated on entry, stored defensively,
and handed to the composition engine as immutable ordered snapshots so a
search never observes concurrent mutation.

# Components

  - Store: thread-safe service catalog with annotation support
  - RequestStore: thread-safe registry of composition requests
  - Snapshot: immutable, lexicographically ordered view used by searches
  - Discover: keyword relevance scoring over the catalog

# Usage

	store := catalog.NewStore().WithMetrics(metrics)
	if err := store.Add(svc); err != nil { ... }

	snap := store.Snapshot()
	for _, svc := range snap.Services() { ... }
*/
package catalog
