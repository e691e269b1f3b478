package service

import (
	"fmt"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/report"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/repository"
)

// Overview is the admin dashboard summary
type Overview struct {
	TotalLinks    int64 `json:"total_links"`
	ActiveLinks   int64 `json:"active_links"`
	InactiveLinks int64 `json:"inactive_links"`
	Platforms     int   `json:"platforms"`
}

// StatisticsService answers dashboard queries and generates performance
// reports over stored click and conversion events
type StatisticsService struct {
	linkRepo     *repository.AffiliateLinkRepository
	platformRepo *repository.PlatformRepository
	generator    *report.Generator
}

// NewStatisticsService creates a statistics service
func NewStatisticsService() *StatisticsService {
	linkRepo := repository.NewAffiliateLinkRepository()
	return &StatisticsService{
		linkRepo:     linkRepo,
		platformRepo: repository.NewPlatformRepository(),
		generator:    report.NewGenerator(repository.NewEventRepository(), linkRepo),
	}
}

// GetOverview returns inventory counts
func (s *StatisticsService) GetOverview() (*Overview, error) {
	total, active, err := s.linkRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count links: %w", err)
	}

	platforms, err := s.platformRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}

	return &Overview{
		TotalLinks:    total,
		ActiveLinks:   active,
		InactiveLinks: total - active,
		Platforms:     len(platforms),
	}, nil
}

// GenerateReport builds a performance report for the given links over a
// date range
func (s *StatisticsService) GenerateReport(linkIDs []uint, start, end time.Time) (*report.Report, error) {
	return s.generator.Generate(linkIDs, report.DateRange{Start: start, End: end})
}
