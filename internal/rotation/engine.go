package rotation

import (
	"fmt"
	"math/rand"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
)

// VisitorContext carries the request attributes targeting filters match on.
// Every field is optional.
type VisitorContext struct {
	Country   string `json:"country,omitempty"`
	Device    string `json:"device,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
}

// Engine picks one link out of a candidate set. It holds no mutable state
// beyond an optional injected RNG, so a single instance is safe to share
// across request handlers.
type Engine struct {
	rng *rand.Rand
}

// Option configures an Engine
type Option func(*Engine)

// WithRandSource injects a deterministic source for tests. Without it the
// engine draws from the shared math/rand source, which is concurrency safe.
func WithRandSource(src rand.Source) Option {
	return func(e *Engine) {
		e.rng = rand.New(src)
	}
}

// NewEngine creates a rotation engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Select computes weights for the given strategy and picks a link.
// Performance-based selection needs per-link conversion counts; pass them
// via SelectWithConversions instead.
func (e *Engine) Select(candidates []model.AffiliateLink, weights model.WeightMap, strategy model.RotationStrategy) (*model.AffiliateLink, error) {
	return e.SelectWithConversions(candidates, weights, strategy, nil)
}

// SelectWithConversions is Select with conversion counts for the
// performance_based strategy
func (e *Engine) SelectWithConversions(candidates []model.AffiliateLink, weights model.WeightMap, strategy model.RotationStrategy, conversions map[uint]int64) (*model.AffiliateLink, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("rotation requires at least one candidate link")
	}
	// a single candidate short-circuits without consuming randomness
	if len(candidates) == 1 {
		return &candidates[0], nil
	}

	computed := e.ComputeWeights(candidates, strategy, weights, conversions)
	return e.pick(candidates, computed), nil
}

// ComputeWeights produces the per-link weight map for a strategy:
//   - weighted: the supplied map, used as-is
//   - performance_based: conversions_i / total conversions, equal split when
//     no candidate has converted yet
//   - random: independent uniform draws normalized to sum to 1
//   - round_robin: equal weight for every candidate
func (e *Engine) ComputeWeights(candidates []model.AffiliateLink, strategy model.RotationStrategy, supplied model.WeightMap, conversions map[uint]int64) model.WeightMap {
	n := len(candidates)
	weights := make(model.WeightMap, n)

	switch strategy {
	case model.StrategyWeighted:
		for _, link := range candidates {
			weights[link.ID] = supplied[link.ID]
		}

	case model.StrategyPerformanceBased:
		var total int64
		for _, link := range candidates {
			total += conversions[link.ID]
		}
		if total == 0 {
			equalWeights(weights, candidates)
			break
		}
		for _, link := range candidates {
			weights[link.ID] = float64(conversions[link.ID]) / float64(total)
		}

	case model.StrategyRandom:
		var sum float64
		for _, link := range candidates {
			w := e.float64()
			weights[link.ID] = w
			sum += w
		}
		if sum == 0 {
			equalWeights(weights, candidates)
			break
		}
		for id, w := range weights {
			weights[id] = w / sum
		}

	default:
		// round_robin and anything unrecognized: uniform random selection
		// via equal weights
		equalWeights(weights, candidates)
	}

	return weights
}

// pick draws r in [0,1) and walks the candidates accumulating weight,
// returning the first link whose cumulative weight reaches r. Rounding that
// leaves no winner falls back to the first candidate.
func (e *Engine) pick(candidates []model.AffiliateLink, weights model.WeightMap) *model.AffiliateLink {
	r := e.float64()
	var cumulative float64
	for i := range candidates {
		cumulative += weights[candidates[i].ID]
		if cumulative >= r {
			return &candidates[i]
		}
	}
	return &candidates[0]
}

func (e *Engine) float64() float64 {
	if e.rng != nil {
		return e.rng.Float64()
	}
	return rand.Float64()
}

func equalWeights(weights model.WeightMap, candidates []model.AffiliateLink) {
	w := 1.0 / float64(len(candidates))
	for _, link := range candidates {
		weights[link.ID] = w
	}
}

// NormalizeWeights scales a weight map so its values sum to 1. Maps that sum
// to zero are left untouched.
func NormalizeWeights(weights model.WeightMap) model.WeightMap {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		return weights
	}
	normalized := make(model.WeightMap, len(weights))
	for id, w := range weights {
		normalized[id] = w / sum
	}
	return normalized
}
