package report

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
)

// EventSource supplies the click and conversion facts a report aggregates
type EventSource interface {
	ClicksInRange(linkIDs []uint, start, end time.Time) ([]model.ClickEvent, error)
	ConversionsInRange(linkIDs []uint, start, end time.Time) ([]model.ConversionEvent, error)
}

// LinkSource supplies link records for commission rates
type LinkSource interface {
	GetByIDs(ids []uint) ([]model.AffiliateLink, error)
}

// DateRange bounds a report window, inclusive on both ends
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LinkReport holds per-link aggregates over the window
type LinkReport struct {
	LinkID            uint           `json:"link_id"`
	Clicks            int            `json:"clicks"`
	Conversions       int            `json:"conversions"`
	ConversionRate    float64        `json:"conversion_rate"`
	Revenue           float64        `json:"revenue"`
	AverageOrderValue float64        `json:"average_order_value"`
	Commission        float64        `json:"commission"`
	ByDevice          map[string]int `json:"by_device"`
	ByCountry         map[string]int `json:"by_country"`
	ByReferrer        map[string]int `json:"by_referrer"`
}

// Summary aggregates across every requested link
type Summary struct {
	TotalClicks        int     `json:"total_clicks"`
	TotalConversions   int     `json:"total_conversions"`
	TotalRevenue       float64 `json:"total_revenue"`
	MeanConversionRate float64 `json:"mean_conversion_rate"`
}

// Report is the full output for a link set over a date range
type Report struct {
	Range   DateRange    `json:"range"`
	Links   []LinkReport `json:"links"`
	Summary Summary      `json:"summary"`
}

// Generator builds performance reports from externally stored events
type Generator struct {
	events EventSource
	links  LinkSource
}

// NewGenerator creates a report generator
func NewGenerator(events EventSource, links LinkSource) *Generator {
	return &Generator{events: events, links: links}
}

// Generate aggregates clicks and conversions per link within the window.
// Every ratio is zero-guarded: no clicks means a zero conversion rate, no
// conversions means a zero average order value.
func (g *Generator) Generate(linkIDs []uint, dateRange DateRange) (*Report, error) {
	if len(linkIDs) == 0 {
		return nil, fmt.Errorf("report requires at least one link id")
	}
	if dateRange.End.Before(dateRange.Start) {
		return nil, fmt.Errorf("invalid date range: end before start")
	}

	links, err := g.links.GetByIDs(linkIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}
	commissionRates := make(map[uint]float64, len(links))
	for _, link := range links {
		commissionRates[link.ID] = link.CommissionRate
	}

	clicks, err := g.events.ClicksInRange(linkIDs, dateRange.Start, dateRange.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load clicks: %w", err)
	}
	conversions, err := g.events.ConversionsInRange(linkIDs, dateRange.Start, dateRange.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversions: %w", err)
	}

	perLink := make(map[uint]*LinkReport, len(linkIDs))
	for _, id := range linkIDs {
		perLink[id] = &LinkReport{
			LinkID:     id,
			ByDevice:   make(map[string]int),
			ByCountry:  make(map[string]int),
			ByReferrer: make(map[string]int),
		}
	}

	for _, click := range clicks {
		lr, ok := perLink[click.LinkID]
		if !ok {
			continue
		}
		lr.Clicks++
		lr.ByDevice[bucketOrUnknown(click.Device)]++
		lr.ByCountry[bucketOrUnknown(click.Country)]++
		lr.ByReferrer[ReferrerDomain(click.Referrer)]++
	}

	for _, conv := range conversions {
		lr, ok := perLink[conv.LinkID]
		if !ok {
			continue
		}
		lr.Conversions++
		lr.Revenue += conv.OrderValue
	}

	report := &Report{Range: dateRange, Links: make([]LinkReport, 0, len(linkIDs))}
	var rateSum float64
	for _, id := range linkIDs {
		lr := perLink[id]
		if lr.Clicks > 0 {
			lr.ConversionRate = float64(lr.Conversions) / float64(lr.Clicks)
		}
		if lr.Conversions > 0 {
			lr.AverageOrderValue = lr.Revenue / float64(lr.Conversions)
		}
		lr.Commission = lr.Revenue * commissionRates[id]

		report.Summary.TotalClicks += lr.Clicks
		report.Summary.TotalConversions += lr.Conversions
		report.Summary.TotalRevenue += lr.Revenue
		rateSum += lr.ConversionRate

		report.Links = append(report.Links, *lr)
	}
	report.Summary.MeanConversionRate = rateSum / float64(len(linkIDs))

	return report, nil
}

// ReferrerDomain reduces a referrer URL to its host for grouping. Absent or
// malformed referrers land in the "direct" bucket.
func ReferrerDomain(referrer string) string {
	referrer = strings.TrimSpace(referrer)
	if referrer == "" {
		return "direct"
	}
	parsed, err := url.Parse(referrer)
	if err != nil || parsed.Host == "" {
		return "direct"
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
}

func bucketOrUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
