package services

import (
	"errors"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/temcen/teapick/internal/catalog"
	"github.com/temcen/teapick/pkg/models"
)

// ErrEmptyCatalog is returned when there is nothing to choose from at all.
var ErrEmptyCatalog = errors.New("catalog is empty")

// distanceEpsilon keeps the inverse-distance weight finite at distance 0.
const distanceEpsilon = 1.0

// Selector draws one item from a catalog, preferring items that carry all
// requested attributes and, among those, items that are closer.
type Selector struct {
	mu  sync.Mutex
	src rand.Source
}

// NewSelector returns a selector backed by src. A nil src uses the global
// random source; a seeded source makes selections reproducible.
func NewSelector(src rand.Source) *Selector {
	return &Selector{src: src}
}

// NewSeededSelector returns a selector with a PCG source seeded from seed.
func NewSeededSelector(seed uint64) *Selector {
	return NewSelector(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Select filters c to the items whose attributes include every requested
// tag and samples one of them by inverse distance. When nothing matches it
// samples from the whole catalog and reports WasFullMatch=false.
func (s *Selector) Select(c *catalog.Catalog, requested models.TagSet) (*models.SelectionResult, error) {
	if c.Len() == 0 {
		return nil, ErrEmptyCatalog
	}

	all := c.Items()
	pool := Candidates(all, requested)
	fullMatch := len(pool) > 0
	if !fullMatch {
		pool = all
	}

	weights := make([]float64, len(pool))
	for i, item := range pool {
		weights[i] = Weight(item)
	}

	idx := s.take(weights)

	return &models.SelectionResult{
		Item:           pool[idx],
		WasFullMatch:   fullMatch,
		CandidateCount: len(pool),
		Probability:    weights[idx] / floats.Sum(weights),
	}, nil
}

func (s *Selector) take(weights []float64) int {
	if s.src != nil {
		// rand.Source implementations are not safe for concurrent use.
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	idx, ok := sampleuv.NewWeighted(weights, s.src).Take()
	if !ok {
		// Every weight is positive, so this only happens on a zero-length pool.
		return 0
	}
	return idx
}

// Candidates returns the items whose attributes are a superset of requested,
// in catalog order. An empty request matches every item.
func Candidates(items []models.Item, requested models.TagSet) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if requested.IsSubsetOf(item.Attributes) {
			out = append(out, item)
		}
	}
	return out
}

// Weight is the sampling weight of an item: 1 / (distance + 1). An unknown
// distance is weighted as distance 0, the closest possible.
func Weight(item models.Item) float64 {
	d, ok := item.DistanceOrUnknown()
	if !ok {
		d = 0
	}
	return 1 / (d + distanceEpsilon)
}
