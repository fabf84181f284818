// ABOUTME: Preference and solution helpers over the generic entry store
// ABOUTME: The consumer surface used for settings and remembered fixes
package store

import (
	"strings"

	"github.com/mnemo-ai/mnemo/internal/models"
)

const (
	// TypePreference marks user preference entries
	TypePreference = "preference"
	// TypeSolution marks remembered problem/solution pairs
	TypeSolution = "solution"

	prefKeyPrefix     = "pref:"
	solutionKeyPrefix = "solution:"
)

// Solution is the value stored for a remembered fix
type Solution struct {
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
}

// SetPreference stores or replaces a named user preference
func (s *Store) SetPreference(name string, value any) error {
	key := prefKeyPrefix + name

	if existing := s.Retrieve(key); existing != nil {
		return s.Update(existing.ID, value)
	}

	_, err := s.Store(StoreRequest{
		Type:  TypePreference,
		Key:   key,
		Value: value,
	})
	return err
}

// GetPreference returns a named preference and whether it exists
func (s *Store) GetPreference(name string) (any, bool) {
	entry := s.Retrieve(prefKeyPrefix + name)
	if entry == nil {
		return nil, false
	}
	return entry.Value, true
}

// Preferences lists every stored preference entry
func (s *Store) Preferences() []*models.Entry {
	return s.Query(Filter{Type: TypePreference})
}

// RecordSolution remembers a problem and the fix that worked for it
func (s *Store) RecordSolution(problem, solution string, tags []string) (*models.Entry, error) {
	return s.Store(StoreRequest{
		Type:  TypeSolution,
		Key:   solutionKeyPrefix + slugify(problem),
		Value: Solution{Problem: problem, Solution: solution},
		Metadata: &models.EntryMetadata{
			Confidence: 1.0,
			Tags:       tags,
		},
	})
}

// FindSolutions searches remembered fixes by partial key match
func (s *Store) FindSolutions(query string, limit int) []*models.Entry {
	return s.Query(Filter{
		Type:        TypeSolution,
		KeyContains: slugify(query),
		Limit:       limit,
	})
}

// slugify normalizes text into a compact key fragment
func slugify(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	var sb strings.Builder
	lastDash := false
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && sb.Len() > 0 {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
