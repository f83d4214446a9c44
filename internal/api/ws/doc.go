// Package ws streams composition runs over WebSocket. A client submits a
// compose message and receives every trace entry as the search emits it,
// followed by the final result.
package ws
