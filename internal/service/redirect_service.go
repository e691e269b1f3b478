package service

import (
	"fmt"
	"log"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/repository"
	"github.com/melvsalonga/affiliate-hub-sub000/pkg/useragent"
)

// RedirectService resolves short codes and records click facts
type RedirectService struct {
	linkRepo  *repository.AffiliateLinkRepository
	eventRepo *repository.EventRepository
}

// NewRedirectService creates a redirect service
func NewRedirectService() *RedirectService {
	return &RedirectService{
		linkRepo:  repository.NewAffiliateLinkRepository(),
		eventRepo: repository.NewEventRepository(),
	}
}

// Resolve maps a short code to its destination. Inactive links resolve like
// missing ones so dead destinations are never served.
func (s *RedirectService) Resolve(code string) (*model.AffiliateLink, error) {
	link, err := s.linkRepo.GetByShortCode(code)
	if err != nil {
		return nil, fmt.Errorf("short code not found: %w", err)
	}
	if !link.IsActive {
		return nil, fmt.Errorf("link %d is inactive", link.ID)
	}
	return link, nil
}

// RecordClick appends a click event for a served link. Recording failures
// are logged, not returned, so the visitor's redirect never depends on the
// event write.
func (s *RedirectService) RecordClick(link *model.AffiliateLink, userAgent, country, referrer string) {
	visitor := useragent.Parse(userAgent, "")
	event := &model.ClickEvent{
		LinkID:   link.ID,
		Device:   visitor.Device,
		Country:  country,
		Referrer: referrer,
	}
	if err := s.eventRepo.CreateClick(event); err != nil {
		log.Printf("Failed to record click for link %d: %v", link.ID, err)
	}
}

// RecordConversion appends a conversion event
func (s *RedirectService) RecordConversion(linkID uint, orderValue float64) error {
	if orderValue < 0 {
		return fmt.Errorf("order value must not be negative")
	}
	if _, err := s.linkRepo.GetByID(linkID); err != nil {
		return fmt.Errorf("link not found: %w", err)
	}
	return s.eventRepo.CreateConversion(&model.ConversionEvent{
		LinkID:     linkID,
		OrderValue: orderValue,
	})
}
