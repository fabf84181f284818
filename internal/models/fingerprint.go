// ABOUTME: Project fingerprint and code fragment structures
// ABOUTME: Used by the fingerprint aggregator for cross-project similarity
package models

import "time"

// FragmentType classifies a code fragment for fingerprint weighting
type FragmentType string

const (
	FragmentClass    FragmentType = "class"
	FragmentFunction FragmentType = "function"
	FragmentModule   FragmentType = "module"
	FragmentBlock    FragmentType = "block"
	FragmentComment  FragmentType = "comment"
)

// CodeFragment is one embeddable slice of a scanned project.
// The slicing heuristics are an external producer; only the
// embedding, type, and line count matter here.
type CodeFragment struct {
	ID        string       `json:"id,omitempty"`
	Type      FragmentType `json:"type"`
	Lines     int          `json:"lines"`
	Embedding []float32    `json:"embedding"`
}

// ProjectMetrics summarizes a scanned project
type ProjectMetrics struct {
	TotalFiles int     `json:"total_files"`
	TotalLines int     `json:"total_lines"`
	Complexity float64 `json:"complexity,omitempty"`
}

// ProjectFingerprint is a fixed-length vector summarizing a whole
// codebase, recomputed wholesale on each analysis
type ProjectFingerprint struct {
	ProjectID       string         `json:"project_id"`
	ProjectPath     string         `json:"project_path"`
	Embedding       []float32      `json:"embedding"`
	Metrics         ProjectMetrics `json:"metrics"`
	PrimaryLanguage string         `json:"primary_language,omitempty"`
	Frameworks      []string       `json:"frameworks,omitempty"`
	AnalyzedAt      time.Time      `json:"analyzed_at"`
}

// ProjectSimilarity pairs a candidate fingerprint with its cosine
// similarity against a target project
type ProjectSimilarity struct {
	ProjectID  string  `json:"project_id"`
	Similarity float64 `json:"similarity"`
}
