package extractor

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// firstText returns the first non-empty trimmed text among the selectors
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstAttr returns the first non-empty attribute value among the selectors
func firstAttr(doc *goquery.Document, attr string, selectors ...string) string {
	for _, sel := range selectors {
		if val, ok := doc.Find(sel).First().Attr(attr); ok {
			if val = strings.TrimSpace(val); val != "" {
				return val
			}
		}
	}
	return ""
}

func collectImages(doc *goquery.Document, limit int, selectors ...string) []string {
	var images []string
	seen := make(map[string]bool)
	for _, sel := range selectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if len(images) >= limit {
				return
			}
			src, ok := s.Attr("src")
			if !ok {
				src, _ = s.Attr("data-src")
			}
			src = strings.TrimSpace(src)
			if src != "" && !seen[src] {
				seen[src] = true
				images = append(images, src)
			}
		})
	}
	return images
}

func setPriceFromText(info *ProductInfo, text string) {
	if info.Price != nil || text == "" {
		return
	}
	if price, ok := ParsePrice(text); ok {
		info.Price = price
	}
}

func setRatingFromText(info *ProductInfo, text string) {
	if info.Rating != 0 || text == "" {
		return
	}
	// ratings come as "4.5 out of 5 stars" or a bare "4.5"
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}
	if r, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", "."), 64); err == nil && r > 0 && r <= 5 {
		info.Rating = r
	}
}

func setReviewCountFromText(info *ProductInfo, text string) {
	if info.ReviewCount != 0 || text == "" {
		return
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	if n, err := strconv.Atoi(digits); err == nil && n > 0 {
		info.ReviewCount = n
	}
}

func extractAmazon(doc *goquery.Document, info *ProductInfo) {
	info.Title = firstText(doc, "#productTitle", "#title span")
	info.Description = firstText(doc, "#feature-bullets", "#productDescription")
	info.Brand = firstText(doc, "#bylineInfo", "a#brand")

	setPriceFromText(info, firstText(doc,
		".a-price .a-offscreen",
		"#priceblock_ourprice",
		"#priceblock_dealprice",
		"#price_inside_buybox",
	))
	setRatingFromText(info, firstText(doc, "#acrPopover .a-icon-alt", "span[data-hook=rating-out-of-text]"))
	setReviewCountFromText(info, firstText(doc, "#acrCustomerReviewText", "#averageCustomerReviews_feature_div .a-size-base"))

	info.Availability = firstText(doc, "#availability span", "#availability")
	info.Images = collectImages(doc, 5, "#landingImage", "#imgBlkFront", "#main-image-container img")
}

func extractShopee(doc *goquery.Document, info *ProductInfo) {
	info.Title = firstText(doc, "div[class*=product-briefing] span", ".attM6y span", "h1")
	setPriceFromText(info, firstText(doc, "div[class*=product-price]", ".pqTWkA", ".Ybrg9j"))
	setRatingFromText(info, firstText(doc, "div[class*=rating] .OitLRu", ".product-rating-overview__rating-score"))
	setReviewCountFromText(info, firstText(doc, ".product-rating-overview__filter--active .product-rating-overview__filter-count"))
	info.Images = collectImages(doc, 5, "div[class*=product-image] img", ".airUhU img")
}

func extractLazada(doc *goquery.Document, info *ProductInfo) {
	info.Title = firstText(doc, ".pdp-mod-product-badge-title", "h1.pdp-name", "h1")
	info.Brand = firstText(doc, ".pdp-product-brand__brand-link")
	setPriceFromText(info, firstText(doc, ".pdp-price_type_normal", ".pdp-product-price span", ".pdp-price"))
	setRatingFromText(info, firstText(doc, ".score-average"))
	setReviewCountFromText(info, firstText(doc, ".pdp-review-summary__link", ".count"))
	info.Images = collectImages(doc, 5, ".gallery-preview-panel img", ".item-gallery img")
}

func extractAliExpress(doc *goquery.Document, info *ProductInfo) {
	info.Title = firstText(doc, "h1[data-pl=product-title]", ".product-title-text", "h1")
	setPriceFromText(info, firstText(doc,
		".product-price-current",
		"div[class*=price--current] span",
		".uniform-banner-box-price",
	))
	setRatingFromText(info, firstText(doc, ".overview-rating-average", "div[class*=rating--wrap] strong"))
	setReviewCountFromText(info, firstText(doc, ".product-reviewer-reviews", "a[class*=reviewer--reviews]"))
	info.Images = collectImages(doc, 5, ".images-view-item img", "div[class*=slider--img] img")
}

func extractEbay(doc *goquery.Document, info *ProductInfo) {
	info.Title = firstText(doc, "h1.x-item-title__mainTitle span", "#itemTitle", "h1")
	// legacy pages prefix the title with "Details about"
	info.Title = strings.TrimSpace(strings.TrimPrefix(info.Title, "Details about"))

	setPriceFromText(info, firstText(doc,
		".x-price-primary span",
		"#prcIsum",
		"#mm-saleDscPrc",
	))
	info.Availability = firstText(doc, ".d-quantity__availability span", "#qtySubTxt")
	setReviewCountFromText(info, firstText(doc, ".x-sellercard-atf__data-item", "#si-fb"))
	info.Images = collectImages(doc, 5, ".ux-image-carousel-item img", "#icImg")
}
