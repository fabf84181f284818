// ABOUTME: Persistent store entry structures for non-vector memories
// ABOUTME: Preferences, solutions, and patterns with access bookkeeping
package models

import "time"

// EntryMetadata carries provenance and lifecycle hints for a persistent entry
type EntryMetadata struct {
	Source     string     `json:"source,omitempty"`
	ProjectID  string     `json:"project_id,omitempty"`
	Confidence float64    `json:"confidence"`
	Tags       []string   `json:"tags"`
	Expires    *time.Time `json:"expires,omitempty"`
}

// Entry is a typed key/value memory held by the persistent store.
// Access stats are bumped on every successful retrieve and query;
// retrieval strengthens memory.
type Entry struct {
	ID             string        `json:"id"`
	Type           string        `json:"type"`
	Key            string        `json:"key"`
	Value          any           `json:"value"`
	Metadata       EntryMetadata `json:"metadata"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	AccessCount    int           `json:"access_count"`
	LastAccessedAt time.Time     `json:"last_accessed_at"`
}
