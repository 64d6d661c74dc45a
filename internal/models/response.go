package models

import (
	"time"
)

// HealthResponse is the payload for GET /health.
type HealthResponse struct {
	Success     bool           `json:"success"`
	Timestamp   time.Time      `json:"timestamp"`
	NodeCount   int            `json:"nodeCount"`
	Nodes       []EnrichedNode `json:"nodes"`
	LastUpdated time.Time      `json:"lastUpdated"`
	FromCache   bool           `json:"fromCache"`
	Stale       bool           `json:"stale"`
}

// NodesResponse is the payload for GET /nodes. Same dataset as HealthResponse
// with a pre-formatted location string per node.
type NodesResponse struct {
	Success     bool          `json:"success"`
	Timestamp   time.Time     `json:"timestamp"`
	NodeCount   int           `json:"nodeCount"`
	Nodes       []LocatedNode `json:"nodes"`
	LastUpdated time.Time     `json:"lastUpdated"`
	FromCache   bool          `json:"fromCache"`
	Stale       bool          `json:"stale"`
}

// ErrorResponse is the envelope for every non-2xx answer.
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}
