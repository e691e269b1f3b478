package extractor

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ldNumber accepts JSON-LD numeric fields that arrive as either numbers or
// quoted strings depending on the site
type ldNumber string

func (n *ldNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "null" {
		s = ""
	}
	*n = ldNumber(s)
	return nil
}

func (n ldNumber) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

func (n ldNumber) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// ldProduct mirrors the schema.org Product fields we care about
type ldProduct struct {
	Type        string          `json:"@type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Brand       json.RawMessage `json:"brand"`
	Image       json.RawMessage `json:"image"`
	Offers      json.RawMessage `json:"offers"`
	Rating      *ldRating       `json:"aggregateRating"`
	Graph       []ldProduct     `json:"@graph"`
}

type ldOffer struct {
	Price         ldNumber `json:"price"`
	PriceCurrency string   `json:"priceCurrency"`
	Availability  string   `json:"availability"`
}

type ldRating struct {
	RatingValue ldNumber `json:"ratingValue"`
	ReviewCount ldNumber `json:"reviewCount"`
	RatingCount ldNumber `json:"ratingCount"`
}

// applyJSONLD fills missing fields from embedded schema.org Product data
func applyJSONLD(doc *goquery.Document, info *ProductInfo) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return true
		}
		if product, ok := decodeLDProduct(raw); ok {
			mergeLDProduct(product, info)
			return false
		}
		return true
	})
}

// decodeLDProduct finds a Product node in a JSON-LD blob, which can be the
// top-level object, an array element, or a @graph member
func decodeLDProduct(raw string) (*ldProduct, bool) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var items []ldProduct
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, false
		}
		for i := range items {
			if strings.EqualFold(items[i].Type, "Product") {
				return &items[i], true
			}
		}
		return nil, false
	}

	var item ldProduct
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, false
	}
	if strings.EqualFold(item.Type, "Product") {
		return &item, true
	}
	for i := range item.Graph {
		if strings.EqualFold(item.Graph[i].Type, "Product") {
			return &item.Graph[i], true
		}
	}
	return nil, false
}

func mergeLDProduct(product *ldProduct, info *ProductInfo) {
	if info.Title == "" {
		info.Title = strings.TrimSpace(product.Name)
	}
	if info.Description == "" {
		info.Description = strings.TrimSpace(product.Description)
	}
	if info.Brand == "" {
		info.Brand = decodeLDName(product.Brand)
	}
	if len(info.Images) == 0 {
		info.Images = decodeLDImages(product.Image)
	}

	if offer := decodeLDOffer(product.Offers); offer != nil {
		if info.Price == nil {
			if price, err := offer.Price.Float64(); err == nil && price > 0 {
				currency := offer.PriceCurrency
				if currency == "" {
					currency = "USD"
				}
				info.Price = &PriceInfo{Current: price, Currency: currency}
			}
		}
		if info.Availability == "" && offer.Availability != "" {
			// schema.org availability is a URL like https://schema.org/InStock
			parts := strings.Split(offer.Availability, "/")
			info.Availability = parts[len(parts)-1]
		}
	}

	if product.Rating != nil {
		if info.Rating == 0 {
			if r, err := product.Rating.RatingValue.Float64(); err == nil {
				info.Rating = r
			}
		}
		if info.ReviewCount == 0 {
			count := product.Rating.ReviewCount
			if count == "" {
				count = product.Rating.RatingCount
			}
			if n, err := count.Int64(); err == nil {
				info.ReviewCount = int(n)
			}
		}
	}
}

// decodeLDName handles brand given as a string or as {"name": "..."}
func decodeLDName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Name)
	}
	return ""
}

// decodeLDImages handles image given as a string or an array of strings
func decodeLDImages(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return []string{s}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		if len(list) > 5 {
			list = list[:5]
		}
		return list
	}
	return nil
}

// decodeLDOffer handles offers given as an object or an array of objects
func decodeLDOffer(raw json.RawMessage) *ldOffer {
	if len(raw) == 0 {
		return nil
	}
	var offer ldOffer
	if err := json.Unmarshal(raw, &offer); err == nil && offer.Price != "" {
		return &offer
	}
	var offers []ldOffer
	if err := json.Unmarshal(raw, &offers); err == nil {
		for i := range offers {
			if offers[i].Price != "" {
				return &offers[i]
			}
		}
	}
	return nil
}

// applyMetaTags fills missing fields from Open Graph and Twitter meta tags
func applyMetaTags(doc *goquery.Document, info *ProductInfo) {
	if info.Title == "" {
		info.Title = firstAttr(doc, "content",
			`meta[property="og:title"]`,
			`meta[name="twitter:title"]`,
		)
	}
	if info.Title == "" {
		info.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if info.Description == "" {
		info.Description = firstAttr(doc, "content",
			`meta[property="og:description"]`,
			`meta[name="twitter:description"]`,
			`meta[name="description"]`,
		)
	}
	if len(info.Images) == 0 {
		if img := firstAttr(doc, "content",
			`meta[property="og:image"]`,
			`meta[name="twitter:image"]`,
		); img != "" {
			info.Images = []string{img}
		}
	}
	if info.Price == nil {
		amount := firstAttr(doc, "content",
			`meta[property="product:price:amount"]`,
			`meta[property="og:price:amount"]`,
		)
		if amount != "" {
			if price, err := strconv.ParseFloat(amount, 64); err == nil && price > 0 {
				currency := firstAttr(doc, "content",
					`meta[property="product:price:currency"]`,
					`meta[property="og:price:currency"]`,
				)
				if currency == "" {
					currency = "USD"
				}
				info.Price = &PriceInfo{Current: price, Currency: currency}
			}
		}
	}
}
