// Package annotation derives the social annotation block for catalog
// services: trust, reputation and robustness from weighted QoS blends,
// collaboration weights and interaction links from I/O compatibility.
//
// Every score is a pure function of the catalog snapshot, so annotating
// the same catalog twice produces identical blocks. Runs execute in the
// background and expose polling progress for the API layer.
package annotation
