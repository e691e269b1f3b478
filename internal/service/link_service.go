package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/detector"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/extractor"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/health"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/repository"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/shortener"
)

// ProcessOptions controls which pipeline stages run for a URL
type ProcessOptions struct {
	ExtractProductInfo bool    `json:"extract_product_info"`
	ValidateLink       bool    `json:"validate_link"`
	CreateShortURL     bool    `json:"create_short_url"`
	CustomDomain       string  `json:"custom_domain"`
	CommissionRate     float64 `json:"commission_rate"`
}

// ProcessResult is the pipeline output for one URL. Detection always runs;
// the other sections are present only when their stage was requested.
type ProcessResult struct {
	URL          string                     `json:"url"`
	Detection    detector.Result            `json:"detection"`
	Validation   *health.ValidationResult   `json:"validation,omitempty"`
	Product      *extractor.ProductResult   `json:"product,omitempty"`
	Link         *model.AffiliateLink       `json:"link,omitempty"`
	ShortenedURL string                     `json:"shortened_url,omitempty"`
	Error        string                     `json:"error,omitempty"`
}

// BulkBatchSize is how many URLs are processed concurrently per batch
const BulkBatchSize = 5

// BulkBatchDelay keeps bulk processing polite to third-party sites
const BulkBatchDelay = 1 * time.Second

// LinkService runs the ingestion pipeline: detect, validate, extract,
// shorten, persist
type LinkService struct {
	detector     *detector.Detector
	extractor    *extractor.Extractor
	validator    *health.Validator
	shortener    *shortener.Shortener
	linkRepo     *repository.AffiliateLinkRepository
	platformRepo *repository.PlatformRepository
	baseURL      string
}

// NewLinkService creates a link service. baseURL is the public prefix for
// shortened redirect URLs; a nil short falls back to a default shortener
// backed by the link repository.
func NewLinkService(det *detector.Detector, ext *extractor.Extractor, val *health.Validator, short *shortener.Shortener, baseURL string) *LinkService {
	linkRepo := repository.NewAffiliateLinkRepository()
	if short == nil {
		short = shortener.New(linkRepo.ShortCodeExists)
	}
	return &LinkService{
		detector:     det,
		extractor:    ext,
		validator:    val,
		shortener:    short,
		linkRepo:     linkRepo,
		platformRepo: repository.NewPlatformRepository(),
		baseURL:      baseURL,
	}
}

// Detect classifies a URL without touching the network
func (s *LinkService) Detect(url string) detector.Result {
	return s.detector.Detect(url)
}

// Extract pulls product data from a URL, detecting the platform first
func (s *LinkService) Extract(ctx context.Context, url string) *extractor.ProductResult {
	detection := s.detector.Detect(url)
	platform := detection.Platform
	if platform == model.PlatformUnknown {
		platform = model.PlatformGeneric
	}
	return s.extractor.Extract(ctx, url, platform)
}

// ExtractAs pulls product data with an explicit platform adapter, skipping
// detection. The caller is responsible for validating the platform key.
func (s *LinkService) ExtractAs(ctx context.Context, url string, platform model.PlatformKey) *extractor.ProductResult {
	return s.extractor.Extract(ctx, url, platform)
}

// Validate probes a URL for reachability
func (s *LinkService) Validate(ctx context.Context, url string) *health.ValidationResult {
	return s.validator.Validate(ctx, url)
}

// ProcessURL runs the full ingestion pipeline for one URL. Detection always
// runs; extraction and validation degrade to partial results on failure, and
// a link row is persisted only when a short URL is requested.
func (s *LinkService) ProcessURL(ctx context.Context, url string, opts ProcessOptions) (*ProcessResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}

	result := &ProcessResult{URL: url}
	result.Detection = s.detector.Detect(url)

	platform := result.Detection.Platform
	if platform == model.PlatformUnknown {
		platform = model.PlatformGeneric
	}

	if opts.ValidateLink {
		result.Validation = s.validator.Validate(ctx, url)
	}
	if opts.ExtractProductInfo {
		result.Product = s.extractor.Extract(ctx, url, platform)
	}

	if !opts.CreateShortURL {
		return result, nil
	}

	// a dead link is not worth persisting
	if result.Validation != nil && !result.Validation.IsValid {
		result.Error = "link failed validation, not persisted"
		return result, nil
	}

	// re-run imports hit the same feeds; don't mint a second short code
	if exists, err := s.linkRepo.ExistsByOriginalURL(url); err == nil && exists {
		result.Error = "link already exists for this URL"
		return result, nil
	}

	link, err := s.createLink(url, platform, result.Detection, opts)
	if err != nil {
		return nil, err
	}
	result.Link = link
	result.ShortenedURL = link.ShortenedURL
	return result, nil
}

// BulkProcess runs the pipeline over many URLs in fixed-size concurrent
// batches with a delay between batches. Per-item failures are isolated into
// that item's result.
func (s *LinkService) BulkProcess(ctx context.Context, urls []string, opts ProcessOptions) []*ProcessResult {
	results := make([]*ProcessResult, len(urls))

	for start := 0; start < len(urls); start += BulkBatchSize {
		end := start + BulkBatchSize
		if end > len(urls) {
			end = len(urls)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						log.Printf("BulkProcess: panic recovered for %s: %v", urls[idx], r)
						results[idx] = &ProcessResult{URL: urls[idx], Error: fmt.Sprintf("panic: %v", r)}
					}
				}()

				res, err := s.ProcessURL(ctx, urls[idx], opts)
				if err != nil {
					results[idx] = &ProcessResult{URL: urls[idx], Error: err.Error()}
					return
				}
				results[idx] = res
			}(i)
		}
		wg.Wait()

		if end < len(urls) {
			select {
			case <-ctx.Done():
				for i := end; i < len(urls); i++ {
					results[i] = &ProcessResult{URL: urls[i], Error: ctx.Err().Error()}
				}
				return results
			case <-time.After(BulkBatchDelay):
			}
		}
	}

	return results
}

// GetByShortCode resolves a short code to its link
func (s *LinkService) GetByShortCode(code string) (*model.AffiliateLink, error) {
	return s.linkRepo.GetByShortCode(code)
}

// List returns a page of stored links
func (s *LinkService) List(page, pageSize int, activeOnly bool) ([]model.AffiliateLink, int64, error) {
	return s.linkRepo.List(page, pageSize, activeOnly)
}

// Reactivate flips a deactivated link back on. Deactivation is automatic on
// failed health checks; reactivation is always this explicit admin action.
func (s *LinkService) Reactivate(id uint) error {
	link, err := s.linkRepo.GetByID(id)
	if err != nil {
		return fmt.Errorf("link not found: %w", err)
	}
	ok, err := s.linkRepo.Reactivate(link.ID, link.Version)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("link %d was modified concurrently, retry", id)
	}
	return nil
}

// UpdateCommissionRate changes a link's commission rate with the same
// optimistic version check the health monitor uses
func (s *LinkService) UpdateCommissionRate(id uint, rate float64) error {
	if rate < 0 {
		return fmt.Errorf("commission rate must not be negative")
	}
	link, err := s.linkRepo.GetByID(id)
	if err != nil {
		return fmt.Errorf("link not found: %w", err)
	}
	ok, err := s.linkRepo.UpdateCommissionRate(link.ID, link.Version, rate)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("link %d was modified concurrently, retry", id)
	}
	return nil
}

// Delete removes a link
func (s *LinkService) Delete(id uint) error {
	return s.linkRepo.Delete(id)
}

func (s *LinkService) createLink(url string, platformKey model.PlatformKey, detection detector.Result, opts ProcessOptions) (*model.AffiliateLink, error) {
	platform, err := s.platformRepo.GetOrCreateByKey(platformKey, platformDisplayName(platformKey), "")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve platform: %w", err)
	}

	code, err := s.shortener.GenerateCode()
	if err != nil {
		return nil, err
	}

	baseURL := s.baseURL
	if opts.CustomDomain != "" {
		baseURL = opts.CustomDomain
	}

	link := &model.AffiliateLink{
		ProductID:      detection.ProductID,
		PlatformID:     platform.ID,
		OriginalURL:    url,
		ShortCode:      code,
		ShortenedURL:   shortener.BuildShortURL(baseURL, code),
		CommissionRate: opts.CommissionRate,
		IsActive:       true,
	}
	if err := s.linkRepo.Create(link); err != nil {
		return nil, fmt.Errorf("failed to store link: %w", err)
	}

	log.Printf("Created affiliate link %d for %s (%s)", link.ID, url, platformKey)
	return link, nil
}

func platformDisplayName(key model.PlatformKey) string {
	switch key {
	case model.PlatformAmazon:
		return "Amazon"
	case model.PlatformShopee:
		return "Shopee"
	case model.PlatformLazada:
		return "Lazada"
	case model.PlatformAliExpress:
		return "AliExpress"
	case model.PlatformEbay:
		return "eBay"
	default:
		return "Generic"
	}
}
