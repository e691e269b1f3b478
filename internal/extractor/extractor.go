package extractor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

// ResultStatus tells callers why a ProductResult carries the data it does
type ResultStatus string

const (
	// StatusOK means the page was fetched and at least one field was found
	StatusOK ResultStatus = "ok"
	// StatusNoData means the page was fetched but nothing could be extracted
	StatusNoData ResultStatus = "no_data"
	// StatusFetchFailed means the page could not be fetched at all
	StatusFetchFailed ResultStatus = "fetch_failed"
)

// PriceInfo holds a parsed product price
type PriceInfo struct {
	Current  float64 `json:"current"`
	Original float64 `json:"original,omitempty"`
	Currency string  `json:"currency"`
}

// ProductInfo is the best-effort extraction output. Every field is optional;
// adapters fill what they can find.
type ProductInfo struct {
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	Price        *PriceInfo `json:"price,omitempty"`
	Images       []string   `json:"images,omitempty"`
	Rating       float64    `json:"rating,omitempty"`
	ReviewCount  int        `json:"review_count,omitempty"`
	Availability string     `json:"availability,omitempty"`
	Brand        string     `json:"brand,omitempty"`
}

// IsEmpty reports whether no field was extracted
func (p *ProductInfo) IsEmpty() bool {
	return p.Title == "" && p.Description == "" && p.Price == nil &&
		len(p.Images) == 0 && p.Rating == 0 && p.ReviewCount == 0 &&
		p.Availability == "" && p.Brand == ""
}

// ProductResult wraps extraction output so callers can tell a failed fetch
// apart from a page that simply had no recognizable product data.
type ProductResult struct {
	Status ResultStatus `json:"status"`
	Info   *ProductInfo `json:"info,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Adapter fills platform-specific fields from a parsed document. Fields it
// leaves empty are filled by the shared fallback chain afterwards.
type Adapter func(doc *goquery.Document, info *ProductInfo)

// DefaultFetchTimeout bounds a single page fetch
const DefaultFetchTimeout = 10 * time.Second

// Extractor dispatches to per-platform adapters over a shared fetch path
type Extractor struct {
	adapters map[model.PlatformKey]Adapter
	timeout  time.Duration
}

// New creates an extractor with the built-in adapter table
func New() *Extractor {
	return NewWithTimeout(DefaultFetchTimeout)
}

// NewWithTimeout creates an extractor with a custom fetch timeout
func NewWithTimeout(timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Extractor{
		adapters: map[model.PlatformKey]Adapter{
			model.PlatformAmazon:     extractAmazon,
			model.PlatformShopee:     extractShopee,
			model.PlatformLazada:     extractLazada,
			model.PlatformAliExpress: extractAliExpress,
			model.PlatformEbay:       extractEbay,
		},
		timeout: timeout,
	}
}

// Extract fetches a product page and pulls whatever fields it can. It never
// returns an error; fetch and parse failures are reported in the result.
func (e *Extractor) Extract(ctx context.Context, url string, platform model.PlatformKey) *ProductResult {
	doc, err := e.fetch(ctx, url)
	if err != nil {
		return &ProductResult{Status: StatusFetchFailed, Error: err.Error()}
	}

	info := &ProductInfo{}

	if adapter, ok := e.adapters[platform]; ok {
		adapter(doc, info)
	}

	// shared fallback chain for whatever the adapter missed
	applyJSONLD(doc, info)
	applyMetaTags(doc, info)

	if info.IsEmpty() {
		return &ProductResult{Status: StatusNoData}
	}
	return &ProductResult{Status: StatusOK, Info: info}
}

// ExtractFromDocument runs the adapter and fallback chain over an already
// parsed document, bypassing the network fetch
func (e *Extractor) ExtractFromDocument(doc *goquery.Document, platform model.PlatformKey) *ProductResult {
	info := &ProductInfo{}
	if adapter, ok := e.adapters[platform]; ok {
		adapter(doc, info)
	}
	applyJSONLD(doc, info)
	applyMetaTags(doc, info)

	if info.IsEmpty() {
		return &ProductResult{Status: StatusNoData}
	}
	return &ProductResult{Status: StatusOK, Info: info}
}

func (e *Extractor) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	httpclient.SetDefaultHeaders(req)

	resp, err := httpclient.GetClient().Do(req)
	if err != nil {
		err = httpclient.WrapTransportError(err)
		if httpclient.IsTimeoutError(err) {
			return nil, fmt.Errorf("fetch timed out after %v", e.timeout)
		}
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer httpclient.CloseResponse(resp)

	if statusErr := httpclient.CheckStatus(resp); statusErr != nil {
		return nil, statusErr
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	return doc, nil
}
