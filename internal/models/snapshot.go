package models

import (
	"time"

	"github.com/lucsky/cuid"
)

// Snapshot is one computed dashboard handed to the export destinations.
type Snapshot struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Source    string         `json:"source"` // "swiggy", "file", "generated", ...
	Dashboard *DashboardData `json:"dashboard"`
}

func NewSnapshot(dashboard *DashboardData, source string) *Snapshot {
	return &Snapshot{
		ID:        cuid.New(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Dashboard: dashboard,
	}
}
