package models

import (
	"time"
)

// Unknown is the placeholder for any field absent from source data.
const Unknown = "Unknown"

// FreshnessWindow is how long a snapshot is served without triggering a refresh.
const FreshnessWindow = 6 * time.Hour

// NodeRecord is one normalized health entry from the walrus CLI.
// NodeStatus is "Error" unless the tool reported an explicit Ok variant.
type NodeRecord struct {
	NodeID       string `json:"nodeId"`
	NodeURL      string `json:"nodeUrl"`
	NodeName     string `json:"nodeName"`
	NodeStatus   string `json:"nodeStatus"`
	WalruscanURL string `json:"walruscanUrl"`
}

// EnrichedNode couples a health record with its resolved location.
type EnrichedNode struct {
	NodeRecord
	Geo GeoInfo `json:"geo"`
}

// LocatedNode is an EnrichedNode carrying a pre-formatted location string.
type LocatedNode struct {
	EnrichedNode
	Location string `json:"location"`
}

// Snapshot is the complete dataset produced by one fetch cycle. It is always
// written and replaced wholesale; partial results are never merged in.
type Snapshot struct {
	LastUpdated time.Time      `json:"lastUpdated"`
	Data        []EnrichedNode `json:"data"`
}

// IsValid reports whether the snapshot is still fresh at the given time.
// A snapshot without a timestamp is never valid.
func (s *Snapshot) IsValid(now time.Time) bool {
	if s == nil || s.LastUpdated.IsZero() {
		return false
	}
	return now.Sub(s.LastUpdated) < FreshnessWindow
}

// RawNodeHealth is one unprocessed entry from the health tool.
type RawNodeHealth struct {
	NodeID       string         `json:"nodeId"`
	NodeURL      string         `json:"nodeUrl"`
	NodeName     string         `json:"nodeName"`
	WalruscanURL string         `json:"walruscanUrl"`
	HealthInfo   *RawHealthInfo `json:"healthInfo"`
}

// RawHealthInfo is the tool's success/error outcome variant. Only the Ok
// variant carries a status; anything else maps to "Error".
type RawHealthInfo struct {
	Ok *RawOkStatus `json:"Ok"`
}

type RawOkStatus struct {
	NodeStatus string `json:"nodeStatus"`
}
