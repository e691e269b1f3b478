package report

import (
	"testing"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	links       []model.AffiliateLink
	clicks      []model.ClickEvent
	conversions []model.ConversionEvent
}

func (f *fakeSource) GetByIDs(ids []uint) ([]model.AffiliateLink, error) {
	return f.links, nil
}

func (f *fakeSource) ClicksInRange(linkIDs []uint, start, end time.Time) ([]model.ClickEvent, error) {
	return f.clicks, nil
}

func (f *fakeSource) ConversionsInRange(linkIDs []uint, start, end time.Time) ([]model.ConversionEvent, error) {
	return f.conversions, nil
}

func window() DateRange {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: start, End: start.AddDate(0, 1, 0)}
}

func TestGenerateBasicAggregates(t *testing.T) {
	src := &fakeSource{
		links: []model.AffiliateLink{{ID: 1, CommissionRate: 0.10}},
	}
	for i := 0; i < 100; i++ {
		src.clicks = append(src.clicks, model.ClickEvent{LinkID: 1, Device: "mobile", Country: "US"})
	}
	for i := 0; i < 5; i++ {
		src.conversions = append(src.conversions, model.ConversionEvent{LinkID: 1, OrderValue: 100})
	}

	g := NewGenerator(src, src)
	report, err := g.Generate([]uint{1}, window())
	require.NoError(t, err)

	require.Len(t, report.Links, 1)
	lr := report.Links[0]
	assert.Equal(t, 100, lr.Clicks)
	assert.Equal(t, 5, lr.Conversions)
	assert.InDelta(t, 0.05, lr.ConversionRate, 1e-9)
	assert.InDelta(t, 500.0, lr.Revenue, 1e-9)
	assert.InDelta(t, 100.0, lr.AverageOrderValue, 1e-9)
	assert.InDelta(t, 50.0, lr.Commission, 1e-9)

	assert.Equal(t, 100, report.Summary.TotalClicks)
	assert.Equal(t, 5, report.Summary.TotalConversions)
	assert.InDelta(t, 500.0, report.Summary.TotalRevenue, 1e-9)
	assert.InDelta(t, 0.05, report.Summary.MeanConversionRate, 1e-9)
}

func TestGenerateZeroGuards(t *testing.T) {
	src := &fakeSource{links: []model.AffiliateLink{{ID: 1, CommissionRate: 0.10}}}

	g := NewGenerator(src, src)
	report, err := g.Generate([]uint{1}, window())
	require.NoError(t, err)

	lr := report.Links[0]
	assert.Zero(t, lr.ConversionRate)
	assert.Zero(t, lr.AverageOrderValue)
	assert.Zero(t, lr.Commission)
}

func TestGenerateBreakdowns(t *testing.T) {
	src := &fakeSource{
		links: []model.AffiliateLink{{ID: 1}},
		clicks: []model.ClickEvent{
			{LinkID: 1, Device: "mobile", Country: "PH", Referrer: "https://www.facebook.com/groups/deals"},
			{LinkID: 1, Device: "mobile", Country: "PH", Referrer: "https://facebook.com/"},
			{LinkID: 1, Device: "desktop", Country: "US", Referrer: ""},
			{LinkID: 1, Device: "", Country: "", Referrer: "not a url"},
		},
	}

	g := NewGenerator(src, src)
	report, err := g.Generate([]uint{1}, window())
	require.NoError(t, err)

	lr := report.Links[0]
	assert.Equal(t, map[string]int{"mobile": 2, "desktop": 1, "unknown": 1}, lr.ByDevice)
	assert.Equal(t, map[string]int{"PH": 2, "US": 1, "unknown": 1}, lr.ByCountry)
	assert.Equal(t, map[string]int{"facebook.com": 2, "direct": 2}, lr.ByReferrer)
}

func TestGenerateMultiLinkSummary(t *testing.T) {
	src := &fakeSource{
		links: []model.AffiliateLink{{ID: 1, CommissionRate: 0.1}, {ID: 2, CommissionRate: 0.2}},
		clicks: []model.ClickEvent{
			{LinkID: 1}, {LinkID: 1}, {LinkID: 2}, {LinkID: 2},
		},
		conversions: []model.ConversionEvent{
			{LinkID: 1, OrderValue: 50},
		},
	}

	g := NewGenerator(src, src)
	report, err := g.Generate([]uint{1, 2}, window())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Summary.TotalClicks)
	assert.Equal(t, 1, report.Summary.TotalConversions)
	// link 1 converts at 0.5, link 2 at 0; the mean is 0.25
	assert.InDelta(t, 0.25, report.Summary.MeanConversionRate, 1e-9)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	src := &fakeSource{}
	g := NewGenerator(src, src)

	_, err := g.Generate(nil, window())
	assert.Error(t, err)

	w := window()
	w.Start, w.End = w.End, w.Start
	_, err = g.Generate([]uint{1}, w)
	assert.Error(t, err)
}

func TestReferrerDomain(t *testing.T) {
	assert.Equal(t, "direct", ReferrerDomain(""))
	assert.Equal(t, "direct", ReferrerDomain("not a url"))
	assert.Equal(t, "facebook.com", ReferrerDomain("https://www.facebook.com/path"))
	assert.Equal(t, "t.co", ReferrerDomain("https://t.co/abc"))
}
