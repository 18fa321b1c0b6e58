package models

import (
	"time"

	"github.com/google/uuid"
)

// PreferenceRequest carries checkbox state keyed by tag name.
type PreferenceRequest struct {
	Preferences map[string]bool `json:"preferences" validate:"max=32"`
}

// Tags returns the set of checked preferences. Unknown keys are kept:
// they match no item, which narrows the candidates naturally.
func (r *PreferenceRequest) Tags() TagSet {
	set := NewTagSet()
	if r == nil {
		return set
	}
	for name, checked := range r.Preferences {
		if !checked {
			continue
		}
		if t := NormalizeTag(name); t != "" {
			set.Add(t)
		}
	}
	return set
}

// SelectionResult is the outcome of a single weighted pick.
type SelectionResult struct {
	Item           Item
	WasFullMatch   bool
	CandidateCount int
	// Probability the chosen item had of being drawn from its pool.
	Probability float64
}

type Recommendation struct {
	SelectionID   uuid.UUID `json:"selection_id"`
	Name          string    `json:"name"`
	Attributes    []string  `json:"attributes"`
	DistanceM     *float64  `json:"distance_m,omitempty"`
	DistanceLabel string    `json:"distance_label"`
	FullMatch     bool      `json:"full_match"`
	Note          string    `json:"note"`
	Requested     []string  `json:"requested"`
	Candidates    int       `json:"candidates"`
	Probability   float64   `json:"probability"`
	RetryURL      string    `json:"retry_url"`
	GeneratedAt   time.Time `json:"generated_at"`
}

type VocabularyResponse struct {
	Tags []TagInfo `json:"tags"`
}

type CatalogResponse struct {
	Items []ItemView `json:"items"`
	Total int        `json:"total"`
}
