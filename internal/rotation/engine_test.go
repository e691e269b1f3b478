package rotation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLinks(ids ...uint) []model.AffiliateLink {
	links := make([]model.AffiliateLink, len(ids))
	for i, id := range ids {
		links[i] = model.AffiliateLink{ID: id, ProductID: "prod-1", IsActive: true}
	}
	return links
}

func TestSelectNoCandidates(t *testing.T) {
	e := NewEngine()
	_, err := e.Select(nil, nil, model.StrategyWeighted)
	require.Error(t, err)
}

func TestSelectSingleCandidateShortCircuits(t *testing.T) {
	e := NewEngine()
	links := makeLinks(7)

	for _, strategy := range []model.RotationStrategy{
		model.StrategyRoundRobin,
		model.StrategyWeighted,
		model.StrategyPerformanceBased,
		model.StrategyRandom,
	} {
		chosen, err := e.Select(links, model.WeightMap{99: 1.0}, strategy)
		require.NoError(t, err)
		assert.Equal(t, uint(7), chosen.ID, string(strategy))
	}
}

func TestWeightedSelectionFrequency(t *testing.T) {
	e := NewEngine(WithRandSource(rand.NewSource(42)))
	links := makeLinks(1, 2)
	weights := model.WeightMap{1: 0.3, 2: 0.7}

	const draws = 100000
	countA := 0
	for i := 0; i < draws; i++ {
		chosen, err := e.Select(links, weights, model.StrategyWeighted)
		require.NoError(t, err)
		if chosen.ID == 1 {
			countA++
		}
	}

	freq := float64(countA) / draws
	assert.InDelta(t, 0.30, freq, 0.01)
}

func TestPerformanceBasedWeights(t *testing.T) {
	e := NewEngine()
	links := makeLinks(1, 2, 3)
	conversions := map[uint]int64{1: 10, 2: 30, 3: 0}

	weights := e.ComputeWeights(links, model.StrategyPerformanceBased, nil, conversions)
	assert.InDelta(t, 0.25, weights[1], 1e-9)
	assert.InDelta(t, 0.75, weights[2], 1e-9)
	assert.InDelta(t, 0.0, weights[3], 1e-9)
}

func TestPerformanceBasedZeroConversionsFallsBackToEqual(t *testing.T) {
	e := NewEngine()
	links := makeLinks(1, 2, 3, 4)

	weights := e.ComputeWeights(links, model.StrategyPerformanceBased, nil, nil)
	for _, link := range links {
		assert.InDelta(t, 0.25, weights[link.ID], 1e-9)
	}
}

func TestRandomWeightsSumToOne(t *testing.T) {
	e := NewEngine(WithRandSource(rand.NewSource(1)))
	links := makeLinks(1, 2, 3, 4, 5)

	for i := 0; i < 100; i++ {
		weights := e.ComputeWeights(links, model.StrategyRandom, nil, nil)
		var sum float64
		for _, w := range weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestRoundRobinIsEqualWeight(t *testing.T) {
	e := NewEngine()
	links := makeLinks(1, 2, 3)

	weights := e.ComputeWeights(links, model.StrategyRoundRobin, nil, nil)
	for _, link := range links {
		assert.InDelta(t, 1.0/3.0, weights[link.ID], 1e-9)
	}
}

func TestPickRoundingFallsBackToFirstCandidate(t *testing.T) {
	e := NewEngine(WithRandSource(rand.NewSource(3)))
	links := makeLinks(1, 2)
	// weights deliberately sum below any possible draw
	weights := model.WeightMap{1: 0, 2: 0}

	chosen := e.pick(links, weights)
	assert.Equal(t, uint(1), chosen.ID)
}

func TestNormalizeWeights(t *testing.T) {
	normalized := NormalizeWeights(model.WeightMap{1: 2, 2: 6})
	assert.InDelta(t, 0.25, normalized[1], 1e-9)
	assert.InDelta(t, 0.75, normalized[2], 1e-9)

	zero := NormalizeWeights(model.WeightMap{1: 0})
	assert.True(t, math.Abs(zero[1]) < 1e-9)
}

func TestTargetingFiltersByCountry(t *testing.T) {
	e := NewEngine(WithRandSource(rand.NewSource(5)))
	links := makeLinks(1, 2, 3)
	cfg := &model.RotationConfig{
		Strategy:     model.StrategyRoundRobin,
		GeoTargeting: model.TargetingMap{1: {"US"}, 2: {"PH", "SG"}},
	}

	for i := 0; i < 200; i++ {
		chosen, err := e.SelectWithTargeting(links, VisitorContext{Country: "PH"}, cfg, nil)
		require.NoError(t, err)
		// link 1 is US-only; links 2 (allows PH) and 3 (no entry) stay eligible
		assert.NotEqual(t, uint(1), chosen.ID)
	}
}

func TestTargetingFailsOpenWhenFilterEliminatesAll(t *testing.T) {
	e := NewEngine(WithRandSource(rand.NewSource(6)))
	links := makeLinks(1, 2)
	cfg := &model.RotationConfig{
		Strategy:     model.StrategyRoundRobin,
		GeoTargeting: model.TargetingMap{1: {"US"}, 2: {"US"}},
	}

	chosen, err := e.SelectWithTargeting(links, VisitorContext{Country: "JP"}, cfg, nil)
	require.NoError(t, err)
	assert.Contains(t, []uint{1, 2}, chosen.ID)
}

func TestTargetingDeviceFilter(t *testing.T) {
	e := NewEngine(WithRandSource(rand.NewSource(7)))
	links := makeLinks(1, 2)
	cfg := &model.RotationConfig{
		Strategy:        model.StrategyRoundRobin,
		DeviceTargeting: model.TargetingMap{1: {"mobile"}, 2: {"desktop"}},
	}

	chosen, err := e.SelectWithTargeting(links, VisitorContext{Device: "desktop"}, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, uint(2), chosen.ID)
}

func TestTargetingEmptyVisitorSkipsFilters(t *testing.T) {
	e := NewEngine(WithRandSource(rand.NewSource(8)))
	links := makeLinks(1, 2, 3)
	cfg := &model.RotationConfig{
		Strategy:     model.StrategyRoundRobin,
		GeoTargeting: model.TargetingMap{1: {"US"}},
	}

	seen := make(map[uint]bool)
	for i := 0; i < 500; i++ {
		chosen, err := e.SelectWithTargeting(links, VisitorContext{}, cfg, nil)
		require.NoError(t, err)
		seen[chosen.ID] = true
	}
	assert.Len(t, seen, 3)
}
