package health

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
)

// LinkStore is the slice of the link repository the monitor needs.
// ListActive pages by id so that deactivations during a sweep cannot shift
// the page window.
type LinkStore interface {
	ListActive(afterID uint, limit int) ([]model.AffiliateLink, error)
	GetByIDs(ids []uint) ([]model.AffiliateLink, error)
	Deactivate(id uint, version int64) (bool, error)
}

// MonitorConfig tunes the sweep
type MonitorConfig struct {
	PageSize       int           // links fetched per page
	Concurrency    int           // concurrent probes within a page
	InterPageDelay time.Duration // politeness pause between pages
}

// DefaultMonitorConfig returns the standard sweep settings
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		PageSize:       50,
		Concurrency:    10,
		InterPageDelay: time.Second,
	}
}

// SweepStats summarizes one full inventory sweep
type SweepStats struct {
	Checked     int   `json:"checked"`
	Healthy     int   `json:"healthy"`
	RateLimited int   `json:"rate_limited"`
	Deactivated int   `json:"deactivated"`
	Duration    int64 `json:"duration_ms"`
}

// Monitor sweeps the active link inventory and deactivates links that fail a
// probe. A single failed check deactivates: false positives from temporary
// outages are accepted over serving dead links. Reactivation is a separate
// admin action.
type Monitor struct {
	store     LinkStore
	validator *Validator
	cache     ResultCache
	config    MonitorConfig
}

// NewMonitor creates a health monitor. cache may be nil.
func NewMonitor(store LinkStore, validator *Validator, cache ResultCache, config MonitorConfig) *Monitor {
	if config.PageSize <= 0 {
		config.PageSize = 50
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 10
	}
	return &Monitor{
		store:     store,
		validator: validator,
		cache:     cache,
		config:    config,
	}
}

// Sweep pages through every active link and probes each page concurrently.
// One unreachable host never aborts its page; failures are isolated per item.
func (m *Monitor) Sweep(ctx context.Context) (*SweepStats, error) {
	start := time.Now()
	stats := &SweepStats{}
	var lastID uint

	for {
		links, err := m.store.ListActive(lastID, m.config.PageSize)
		if err != nil {
			return stats, err
		}
		if len(links) == 0 {
			break
		}

		results := m.checkBatch(ctx, links)
		for i := range results {
			stats.Checked++
			if results[i].IsValid {
				stats.Healthy++
				continue
			}
			// a 429 means the host is throttling us, not that the link is dead
			if results[i].RateLimited {
				stats.RateLimited++
				continue
			}
			if m.deactivate(&links[i], &results[i]) {
				stats.Deactivated++
			}
		}

		lastID = links[len(links)-1].ID
		if len(links) < m.config.PageSize {
			break
		}

		// stay polite to third-party hosts between pages
		if m.config.InterPageDelay > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(m.config.InterPageDelay):
			}
		}
	}

	stats.Duration = time.Since(start).Milliseconds()
	log.Printf("Sweep: checked %d links, %d healthy, %d rate-limited, %d deactivated in %dms",
		stats.Checked, stats.Healthy, stats.RateLimited, stats.Deactivated, stats.Duration)
	return stats, nil
}

// CheckLinks probes an explicit set of links and deactivates the failing
// ones. Unknown ids are skipped.
func (m *Monitor) CheckLinks(ctx context.Context, linkIDs []uint) ([]model.LinkHealthCheck, error) {
	links, err := m.store.GetByIDs(linkIDs)
	if err != nil {
		return nil, err
	}

	results := m.checkBatch(ctx, links)
	checks := make([]model.LinkHealthCheck, 0, len(links))
	for i := range links {
		check := model.LinkHealthCheck{
			LinkID:       links[i].ID,
			URL:          links[i].OriginalURL,
			IsValid:      results[i].IsValid,
			Status:       results[i].Status,
			Error:        results[i].Error,
			ResponseTime: results[i].ResponseTime,
		}
		if !results[i].IsValid && !results[i].RateLimited && links[i].IsActive {
			check.Deactivated = m.deactivate(&links[i], &results[i])
		}
		checks = append(checks, check)
	}
	return checks, nil
}

// checkBatch fans the page out over a bounded worker set and collects results
// in order. A panic in one probe is recovered and recorded as a failed check
// for that item only.
func (m *Monitor) checkBatch(ctx context.Context, links []model.AffiliateLink) []ValidationResult {
	results := make([]ValidationResult, len(links))
	sem := make(chan struct{}, m.config.Concurrency)
	var wg sync.WaitGroup

	for i := range links {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("checkBatch: panic recovered while probing link %d: %v", links[idx].ID, r)
					results[idx] = ValidationResult{IsValid: false, Error: "internal error during probe"}
				}
				<-sem
				wg.Done()
			}()

			results[idx] = *m.probe(ctx, links[idx].OriginalURL)
		}(i)
	}

	wg.Wait()
	return results
}

// probe checks the cache before going to the network and stores fresh
// results back. Cache errors degrade to a live probe.
func (m *Monitor) probe(ctx context.Context, url string) *ValidationResult {
	if m.cache != nil && m.cache.IsEnabled() {
		if cached, err := m.cache.Get(ctx, url); err == nil && cached != nil {
			return cached
		}
	}

	result := m.validator.Validate(ctx, url)

	if m.cache != nil && m.cache.IsEnabled() {
		if err := m.cache.Set(ctx, url, result); err != nil {
			log.Printf("probe: failed to cache result for %s: %v", url, err)
		}
	}
	return result
}

// deactivate flips a link to inactive with an optimistic version check
func (m *Monitor) deactivate(link *model.AffiliateLink, result *ValidationResult) bool {
	updated, err := m.store.Deactivate(link.ID, link.Version)
	if err != nil {
		log.Printf("deactivate: failed to deactivate link %d: %v", link.ID, err)
		return false
	}
	if !updated {
		// a concurrent admin edit won the race; leave the link alone
		log.Printf("deactivate: link %d changed concurrently, skipping", link.ID)
		return false
	}
	log.Printf("deactivate: link %d deactivated (%s)", link.ID, result.Error)
	return true
}
