package service

import (
	"fmt"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/repository"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/rotation"
)

// RotationService picks which of a product's links a visitor is served and
// manages per-product rotation configuration
type RotationService struct {
	engine     *rotation.Engine
	linkRepo   *repository.AffiliateLinkRepository
	configRepo *repository.RotationConfigRepository
	eventRepo  *repository.EventRepository
}

// NewRotationService creates a rotation service
func NewRotationService(engine *rotation.Engine) *RotationService {
	return &RotationService{
		engine:     engine,
		linkRepo:   repository.NewAffiliateLinkRepository(),
		configRepo: repository.NewRotationConfigRepository(),
		eventRepo:  repository.NewEventRepository(),
	}
}

// SelectLink chooses a link for a visitor. Without a stored config the
// product's active links rotate with equal weights. A product with exactly
// one active link serves that link; a product with none is an error.
func (s *RotationService) SelectLink(productID string, visitor rotation.VisitorContext) (*model.AffiliateLink, error) {
	candidates, err := s.linkRepo.ListActiveByProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no active links for product %s", productID)
	}

	config, err := s.configRepo.GetByProduct(productID)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, fmt.Errorf("failed to load rotation config: %w", err)
		}
		config = nil
	}

	var conversions map[uint]int64
	if config != nil && config.Strategy == model.StrategyPerformanceBased {
		conversions, err = s.conversionCounts(candidates, config)
		if err != nil {
			return nil, err
		}
	}

	return s.engine.SelectWithTargeting(candidates, visitor, config, conversions)
}

// GetConfig returns a product's rotation config
func (s *RotationService) GetConfig(productID string) (*model.RotationConfig, error) {
	return s.configRepo.GetByProduct(productID)
}

// SaveConfig validates and stores a rotation config, normalizing weights so
// they sum to 1. Updates carry the version the caller read; a stale version
// is an error so concurrent admin edits cannot silently overwrite each other.
func (s *RotationService) SaveConfig(config *model.RotationConfig) error {
	if config.ProductID == "" {
		return fmt.Errorf("product_id is required")
	}
	if !config.Strategy.IsValid() {
		return fmt.Errorf("unknown strategy %q", config.Strategy)
	}
	if config.Strategy == model.StrategyWeighted && len(config.Weights) == 0 {
		return fmt.Errorf("weighted strategy requires weights")
	}
	if len(config.Weights) > 0 {
		config.Weights = rotation.NormalizeWeights(config.Weights)
	}
	if config.TrafficSplit <= 0 || config.TrafficSplit > 1 {
		config.TrafficSplit = 1
	}

	existing, err := s.configRepo.GetByProduct(config.ProductID)
	if err != nil {
		if !repository.IsNotFound(err) {
			return err
		}
		return s.configRepo.Create(config)
	}

	config.ID = existing.ID
	ok, err := s.configRepo.Update(config)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("rotation config for %s was modified concurrently, retry", config.ProductID)
	}
	return nil
}

// DeleteConfig removes a product's rotation config
func (s *RotationService) DeleteConfig(productID string) error {
	return s.configRepo.Delete(productID)
}

// ListConfigs returns all rotation configs
func (s *RotationService) ListConfigs() ([]model.RotationConfig, error) {
	return s.configRepo.List()
}

// conversionCounts loads per-link conversions for performance weighting,
// windowed to the config's test duration when one is set
func (s *RotationService) conversionCounts(candidates []model.AffiliateLink, config *model.RotationConfig) (map[uint]int64, error) {
	ids := make([]uint, len(candidates))
	for i, link := range candidates {
		ids[i] = link.ID
	}

	since := time.Time{}
	if config.TestDurationDays > 0 {
		since = time.Now().AddDate(0, 0, -config.TestDurationDays)
	}

	counts, err := s.eventRepo.ConversionCountsSince(ids, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversion counts: %w", err)
	}
	return counts, nil
}
