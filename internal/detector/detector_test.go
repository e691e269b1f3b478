package detector

import (
	"testing"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAmazonAffiliateURL(t *testing.T) {
	d := New()

	result := d.Detect("https://www.amazon.com/dp/B08N5WRWNW?tag=aff-20")

	require.Equal(t, model.PlatformAmazon, result.Platform)
	assert.Equal(t, "B08N5WRWNW", result.ProductID)
	assert.True(t, result.IsAffiliate)
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}

func TestDetectDomainOnlyConfidence(t *testing.T) {
	d := New()

	cases := []struct {
		url      string
		platform model.PlatformKey
	}{
		{"https://www.amazon.de/some/category/page", model.PlatformAmazon},
		{"https://shopee.ph/search?keyword=phone", model.PlatformShopee},
		{"https://www.lazada.com.ph/catalog/?q=laptop", model.PlatformLazada},
		{"https://www.ebay.com/sch/i.html?_nkw=camera", model.PlatformEbay},
	}

	for _, tc := range cases {
		result := d.Detect(tc.url)
		assert.Equal(t, tc.platform, result.Platform, tc.url)
		assert.GreaterOrEqual(t, result.Confidence, 0.7, tc.url)
		assert.Empty(t, result.ProductID, tc.url)
	}
}

func TestDetectProductIDPatterns(t *testing.T) {
	d := New()

	cases := []struct {
		url       string
		platform  model.PlatformKey
		productID string
	}{
		{"https://www.amazon.com/gp/product/B01MUAGZ49", model.PlatformAmazon, "B01MUAGZ49"},
		{"https://shopee.sg/Wireless-Mouse-i.12345.67890", model.PlatformShopee, "67890"},
		{"https://www.lazada.com.ph/products/gaming-laptop-i987654321.html", model.PlatformLazada, "987654321"},
		{"https://www.aliexpress.com/item/1005001234567890.html", model.PlatformAliExpress, "1005001234567890"},
		{"https://www.ebay.com/itm/396512345678", model.PlatformEbay, "396512345678"},
		{"https://www.ebay.co.uk/itm/vintage-camera/254912345678", model.PlatformEbay, "254912345678"},
	}

	for _, tc := range cases {
		result := d.Detect(tc.url)
		require.Equal(t, tc.platform, result.Platform, tc.url)
		assert.Equal(t, tc.productID, result.ProductID, tc.url)
		assert.InDelta(t, 0.9, result.Confidence, 1e-9, tc.url)
		assert.False(t, result.IsAffiliate, tc.url)
	}
}

func TestDetectUnknownAndMalformed(t *testing.T) {
	d := New()

	inputs := []string{
		"",
		"   ",
		"not a url at all",
		"http://%zz%zz",
		"https://example.org/product/1",
		"ftp://amazon.com/dp/B08N5WRWNW",
	}

	for _, input := range inputs {
		var result Result
		assert.NotPanics(t, func() { result = d.Detect(input) }, input)
		if input == "ftp://amazon.com/dp/B08N5WRWNW" {
			// scheme is irrelevant to hostname matching
			continue
		}
		assert.Equal(t, model.PlatformUnknown, result.Platform, input)
		assert.False(t, result.IsAffiliate, input)
		assert.Zero(t, result.Confidence, input)
	}
}

func TestDetectSchemelessInput(t *testing.T) {
	d := New()

	result := d.Detect("www.amazon.com/dp/B08N5WRWNW")

	assert.Equal(t, model.PlatformAmazon, result.Platform)
	assert.Equal(t, "B08N5WRWNW", result.ProductID)
}

func TestDetectConfidenceCappedAtOne(t *testing.T) {
	d := NewWithConfig(Config{
		DomainMatchConfidence: 0.8,
		ProductIDConfidence:   0.95,
		AffiliateParamBonus:   0.2,
	})

	result := d.Detect("https://www.amazon.com/dp/B08N5WRWNW?tag=aff-20")

	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}
