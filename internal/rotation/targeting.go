package rotation

import (
	"strings"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
)

// SelectWithTargeting filters candidates by the visitor's country and device
// before weighting and selection. Both filters fail open: if a filter would
// eliminate every candidate it is skipped so the visitor is never served
// nothing.
func (e *Engine) SelectWithTargeting(candidates []model.AffiliateLink, visitor VisitorContext, cfg *model.RotationConfig, conversions map[uint]int64) (*model.AffiliateLink, error) {
	eligible := candidates
	var weights model.WeightMap
	strategy := model.StrategyRoundRobin

	if cfg != nil {
		eligible = applyFilter(eligible, cfg.GeoTargeting, visitor.Country)
		eligible = applyFilter(eligible, cfg.DeviceTargeting, visitor.Device)
		weights = cfg.Weights
		if cfg.Strategy.IsValid() {
			strategy = cfg.Strategy
		}
	}

	return e.SelectWithConversions(eligible, weights, strategy, conversions)
}

// applyFilter keeps candidates whose allow-list contains the visitor value.
// A candidate with no entry in the map is always eligible. An empty visitor
// value, an empty map, or a filter that would drop everything leaves the
// candidate set unchanged.
func applyFilter(candidates []model.AffiliateLink, targeting model.TargetingMap, value string) []model.AffiliateLink {
	if len(targeting) == 0 || value == "" {
		return candidates
	}

	kept := make([]model.AffiliateLink, 0, len(candidates))
	for _, link := range candidates {
		allowed, ok := targeting[link.ID]
		if !ok || containsFold(allowed, value) {
			kept = append(kept, link)
		}
	}

	if len(kept) == 0 {
		return candidates
	}
	return kept
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
