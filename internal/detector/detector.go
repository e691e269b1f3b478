package detector

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
)

// Result classifies a product URL
type Result struct {
	Platform    model.PlatformKey `json:"platform"`
	ProductID   string            `json:"product_id,omitempty"`
	IsAffiliate bool              `json:"is_affiliate"`
	Confidence  float64           `json:"confidence"`
}

// Config holds the confidence constants. The values are untuned heuristics,
// kept overridable rather than hardcoded.
type Config struct {
	DomainMatchConfidence float64 // hostname matched a registered domain
	ProductIDConfidence   float64 // a product id was extracted as well
	AffiliateParamBonus   float64 // a known affiliate query param is present
}

// DefaultConfig returns the standard confidence constants
func DefaultConfig() Config {
	return Config{
		DomainMatchConfidence: 0.7,
		ProductIDConfidence:   0.9,
		AffiliateParamBonus:   0.1,
	}
}

// platformRule describes how to recognize one platform: domain suffixes,
// product-id patterns applied to the full URL, and the platform's known
// affiliate query parameter names.
type platformRule struct {
	platform        model.PlatformKey
	domains         []string
	productPatterns []*regexp.Regexp
	affiliateParams []string
}

// Detector classifies URLs against a static platform rule table. Detection is
// pure and side-effect free; malformed input resolves to the unknown result,
// never an error.
type Detector struct {
	config Config
	rules  []platformRule
}

// New creates a detector with the default confidence constants
func New() *Detector {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a detector with custom confidence constants
func NewWithConfig(config Config) *Detector {
	return &Detector{
		config: config,
		rules: []platformRule{
			{
				platform: model.PlatformAmazon,
				domains:  []string{"amazon.com", "amazon.co.uk", "amazon.de", "amazon.ca", "amazon.co.jp", "amazon.in", "amzn.to"},
				productPatterns: []*regexp.Regexp{
					regexp.MustCompile(`/dp/([A-Z0-9]{10})`),
					regexp.MustCompile(`/gp/product/([A-Z0-9]{10})`),
				},
				affiliateParams: []string{"tag", "ref", "ascsubtag"},
			},
			{
				platform: model.PlatformShopee,
				domains:  []string{"shopee.ph", "shopee.sg", "shopee.com.my", "shopee.co.id", "shopee.vn", "shopee.co.th", "shopee.com"},
				productPatterns: []*regexp.Regexp{
					regexp.MustCompile(`-i\.\d+\.(\d+)`),
					regexp.MustCompile(`/product/\d+/(\d+)`),
				},
				affiliateParams: []string{"af_siteid", "pid", "af_click_lookback"},
			},
			{
				platform: model.PlatformLazada,
				domains:  []string{"lazada.com.ph", "lazada.sg", "lazada.com.my", "lazada.co.id", "lazada.co.th", "lazada.vn"},
				productPatterns: []*regexp.Regexp{
					regexp.MustCompile(`-i(\d+)(?:-s\d+)?\.html`),
					regexp.MustCompile(`/products/[^/]*-i(\d+)`),
				},
				affiliateParams: []string{"laz_trackid", "sub_aff_id", "mkttid"},
			},
			{
				platform: model.PlatformAliExpress,
				domains:  []string{"aliexpress.com", "aliexpress.us", "aliexpress.ru"},
				productPatterns: []*regexp.Regexp{
					regexp.MustCompile(`/item/(\d+)\.html`),
					regexp.MustCompile(`/i/(\d+)\.html`),
				},
				affiliateParams: []string{"aff_fcid", "aff_trace_key", "aff_platform"},
			},
			{
				platform: model.PlatformEbay,
				domains:  []string{"ebay.com", "ebay.co.uk", "ebay.de", "ebay.com.au"},
				productPatterns: []*regexp.Regexp{
					regexp.MustCompile(`/itm/(?:[^/?#]+/)?(\d+)`),
				},
				affiliateParams: []string{"campid", "mkcid", "mkrid", "customid"},
			},
		},
	}
}

// unknownResult is what every unparseable or unrecognized URL resolves to
func unknownResult() Result {
	return Result{
		Platform:    model.PlatformUnknown,
		IsAffiliate: false,
		Confidence:  0,
	}
}

// Detect classifies a URL. Domain match gives the base confidence; an
// extracted product id raises it; a known affiliate parameter adds a bonus,
// capped at 1.0, and marks the URL as already monetized.
func (d *Detector) Detect(rawURL string) Result {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return unknownResult()
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return unknownResult()
	}
	if parsed.Host == "" {
		// tolerate scheme-less input like "www.amazon.com/dp/..."
		parsed, err = url.Parse("https://" + rawURL)
		if err != nil || parsed.Host == "" {
			return unknownResult()
		}
	}

	host := strings.ToLower(parsed.Hostname())
	rule, ok := d.matchRule(host)
	if !ok {
		return unknownResult()
	}

	result := Result{
		Platform:   rule.platform,
		Confidence: d.config.DomainMatchConfidence,
	}

	for _, pattern := range rule.productPatterns {
		if matches := pattern.FindStringSubmatch(rawURL); len(matches) > 1 {
			result.ProductID = matches[1]
			result.Confidence = d.config.ProductIDConfidence
			break
		}
	}

	query := parsed.Query()
	for _, param := range rule.affiliateParams {
		if query.Get(param) != "" {
			result.IsAffiliate = true
			result.Confidence += d.config.AffiliateParamBonus
			if result.Confidence > 1.0 {
				result.Confidence = 1.0
			}
			break
		}
	}

	return result
}

// matchRule finds the rule whose domain list covers the hostname
func (d *Detector) matchRule(host string) (*platformRule, bool) {
	host = strings.TrimPrefix(host, "www.")
	for i := range d.rules {
		for _, domain := range d.rules[i].domains {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return &d.rules[i], true
			}
		}
	}
	return nil, false
}
