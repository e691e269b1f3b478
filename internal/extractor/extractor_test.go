package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const amazonPage = `<html><body>
<span id="productTitle"> Echo Dot (4th Gen) </span>
<div id="feature-bullets">Smart speaker with Alexa</div>
<a id="bylineInfo">Visit the Amazon Store</a>
<span class="a-price"><span class="a-offscreen">$49.99</span></span>
<span id="acrPopover"><span class="a-icon-alt">4.7 out of 5 stars</span></span>
<span id="acrCustomerReviewText">1,533,924 ratings</span>
<div id="availability"><span> In Stock </span></div>
<img id="landingImage" src="https://m.media-amazon.com/images/I/echo.jpg"/>
</body></html>`

const jsonLDPage = `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Product",
  "name": "Wireless Mouse",
  "description": "Ergonomic wireless mouse",
  "brand": {"name": "Logi"},
  "image": ["https://cdn.example.com/mouse.jpg"],
  "offers": {"@type": "Offer", "price": "23.50", "priceCurrency": "EUR", "availability": "https://schema.org/InStock"},
  "aggregateRating": {"ratingValue": 4.4, "reviewCount": 210}
}
</script>
</head><body><p>nothing to see</p></body></html>`

const metaOnlyPage = `<html><head>
<meta property="og:title" content="Travel Backpack 40L"/>
<meta property="og:description" content="Carry-on sized backpack"/>
<meta property="og:image" content="https://cdn.example.com/backpack.jpg"/>
<meta property="product:price:amount" content="89.00"/>
<meta property="product:price:currency" content="SGD"/>
</head><body></body></html>`

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractAmazonSelectors(t *testing.T) {
	e := New()
	result := e.ExtractFromDocument(docFromHTML(t, amazonPage), model.PlatformAmazon)

	require.Equal(t, StatusOK, result.Status)
	info := result.Info
	assert.Equal(t, "Echo Dot (4th Gen)", info.Title)
	assert.Equal(t, "Smart speaker with Alexa", info.Description)
	require.NotNil(t, info.Price)
	assert.InDelta(t, 49.99, info.Price.Current, 0.001)
	assert.Equal(t, "USD", info.Price.Currency)
	assert.InDelta(t, 4.7, info.Rating, 0.001)
	assert.Equal(t, 1533924, info.ReviewCount)
	assert.Equal(t, "In Stock", info.Availability)
	assert.Equal(t, []string{"https://m.media-amazon.com/images/I/echo.jpg"}, info.Images)
}

func TestExtractJSONLDFallback(t *testing.T) {
	e := New()
	result := e.ExtractFromDocument(docFromHTML(t, jsonLDPage), model.PlatformGeneric)

	require.Equal(t, StatusOK, result.Status)
	info := result.Info
	assert.Equal(t, "Wireless Mouse", info.Title)
	assert.Equal(t, "Logi", info.Brand)
	require.NotNil(t, info.Price)
	assert.InDelta(t, 23.50, info.Price.Current, 0.001)
	assert.Equal(t, "EUR", info.Price.Currency)
	assert.Equal(t, "InStock", info.Availability)
	assert.InDelta(t, 4.4, info.Rating, 0.001)
	assert.Equal(t, 210, info.ReviewCount)
	assert.Equal(t, []string{"https://cdn.example.com/mouse.jpg"}, info.Images)
}

func TestExtractMetaTagFallback(t *testing.T) {
	e := New()
	result := e.ExtractFromDocument(docFromHTML(t, metaOnlyPage), model.PlatformGeneric)

	require.Equal(t, StatusOK, result.Status)
	info := result.Info
	assert.Equal(t, "Travel Backpack 40L", info.Title)
	assert.Equal(t, "Carry-on sized backpack", info.Description)
	require.NotNil(t, info.Price)
	assert.InDelta(t, 89.0, info.Price.Current, 0.001)
	assert.Equal(t, "SGD", info.Price.Currency)
}

func TestExtractOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(amazonPage))
	}))
	defer srv.Close()

	e := New()
	result := e.Extract(context.Background(), srv.URL, model.PlatformAmazon)

	require.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "Echo Dot (4th Gen)", result.Info.Title)
}

func TestExtractNon2xxYieldsFetchFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := New()
	result := e.Extract(context.Background(), srv.URL, model.PlatformAmazon)

	assert.Equal(t, StatusFetchFailed, result.Status)
	assert.NotEmpty(t, result.Error)
	assert.Nil(t, result.Info)
}

func TestExtractUnreachableHost(t *testing.T) {
	e := New()
	result := e.Extract(context.Background(), "http://127.0.0.1:1/product", model.PlatformGeneric)

	assert.Equal(t, StatusFetchFailed, result.Status)
	assert.NotEmpty(t, result.Error)
}

func TestExtractEmptyPageYieldsNoData(t *testing.T) {
	e := New()
	result := e.ExtractFromDocument(docFromHTML(t, "<html><head></head><body></body></html>"), model.PlatformGeneric)

	assert.Equal(t, StatusNoData, result.Status)
	assert.Nil(t, result.Info)
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		raw      string
		value    float64
		currency string
	}{
		{"$1,299.99", 1299.99, "USD"},
		{"US $23.50", 23.50, "USD"},
		{"€45,90", 45.90, "EUR"},
		{"₱1.234,56", 1234.56, "PHP"},
		{"RM129", 129, "MYR"},
		{"Rp1.250.000", 1250000, "IDR"},
		{"£12.99 - £15.99", 12.99, "GBP"},
		{"1599", 1599, "USD"},
	}

	for _, tc := range cases {
		price, ok := ParsePrice(tc.raw)
		require.True(t, ok, "ParsePrice(%q)", tc.raw)
		assert.InDelta(t, tc.value, price.Current, 0.001, tc.raw)
		assert.Equal(t, tc.currency, price.Currency, tc.raw)
	}
}

func TestParsePriceRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "free shipping", "$"} {
		_, ok := ParsePrice(raw)
		assert.False(t, ok, "ParsePrice(%q)", raw)
	}
}
