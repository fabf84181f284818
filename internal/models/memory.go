// ABOUTME: Core memory record structures and type enum
// ABOUTME: Shared by the vector index, tiered manager, and retriever
package models

import "time"

// MemoryType categorizes what a memory record captures
type MemoryType string

const (
	TypeCode         MemoryType = "code"
	TypeDecision     MemoryType = "decision"
	TypeStyle        MemoryType = "style"
	TypeArchitecture MemoryType = "architecture"
	TypeConversation MemoryType = "conversation"
	TypeEpisodic     MemoryType = "episodic"
	TypeSemantic     MemoryType = "semantic"
	TypeProcedural   MemoryType = "procedural"
)

// MemoryRecord is a single unit of remembered content.
// A record is exclusively owned by the tier that holds it; promotion
// between tiers copies the record, it never shares a reference.
type MemoryRecord struct {
	ID             string            `json:"id"`
	Type           MemoryType        `json:"type"`
	Content        string            `json:"content"`
	Embedding      []float32         `json:"embedding,omitempty"`
	Importance     float64           `json:"importance"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	AccessCount    int               `json:"access_count"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
}

// RecalledMemory is a retrieval result with its computed relevance
type RecalledMemory struct {
	ID             string            `json:"id"`
	Type           MemoryType        `json:"type"`
	Content        string            `json:"content"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Relevance      float64           `json:"relevance"`
	Timestamp      time.Time         `json:"timestamp"`
	LastAccessedAt time.Time         `json:"last_accessed_at,omitempty"`
}

// ContextBundle partitions recalled memories by type for presentation.
// Relevance order is preserved within each bucket.
type ContextBundle struct {
	Code          []RecalledMemory `json:"code,omitempty"`
	Decisions     []RecalledMemory `json:"decisions,omitempty"`
	Styles        []RecalledMemory `json:"styles,omitempty"`
	Architecture  []RecalledMemory `json:"architecture,omitempty"`
	Conversations []RecalledMemory `json:"conversations,omitempty"`
}
