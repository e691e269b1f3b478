package useragent

import "strings"

// VisitorInfo is what we can tell about a visitor from request headers
type VisitorInfo struct {
	Browser  string // browser family
	OS       string // operating system
	Device   string // desktop/mobile/tablet
	Language string // preferred language
}

// Parse extracts visitor details from the User-Agent and Accept-Language
// headers
func Parse(userAgent, acceptLanguage string) VisitorInfo {
	return VisitorInfo{
		Browser:  parseBrowser(userAgent),
		OS:       parseOS(userAgent),
		Device:   ParseDevice(userAgent),
		Language: parseLanguage(acceptLanguage),
	}
}

func parseBrowser(userAgent string) string {
	userAgent = strings.ToLower(userAgent)

	if strings.Contains(userAgent, "edg") {
		return "edge"
	}
	if strings.Contains(userAgent, "opr") || strings.Contains(userAgent, "opera") {
		return "opera"
	}
	if strings.Contains(userAgent, "chrome") {
		return "chrome"
	}
	if strings.Contains(userAgent, "firefox") {
		return "firefox"
	}
	if strings.Contains(userAgent, "safari") {
		return "safari"
	}
	return "unknown"
}

func parseOS(userAgent string) string {
	userAgent = strings.ToLower(userAgent)

	switch {
	case strings.Contains(userAgent, "windows"):
		return "windows"
	case strings.Contains(userAgent, "android"):
		return "android"
	case strings.Contains(userAgent, "iphone"), strings.Contains(userAgent, "ipad"), strings.Contains(userAgent, "ios"):
		return "ios"
	case strings.Contains(userAgent, "mac os"), strings.Contains(userAgent, "macintosh"):
		return "macos"
	case strings.Contains(userAgent, "linux"):
		return "linux"
	default:
		return "unknown"
	}
}

// ParseDevice classifies a User-Agent as desktop, mobile or tablet
func ParseDevice(userAgent string) string {
	userAgent = strings.ToLower(userAgent)

	if strings.Contains(userAgent, "ipad") || strings.Contains(userAgent, "tablet") {
		return "tablet"
	}
	if strings.Contains(userAgent, "mobile") || strings.Contains(userAgent, "iphone") ||
		strings.Contains(userAgent, "android") {
		return "mobile"
	}
	return "desktop"
}

func parseLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return ""
	}
	// first entry before any quality weight, e.g. "en-US,en;q=0.9"
	lang := acceptLanguage
	if idx := strings.Index(lang, ","); idx != -1 {
		lang = lang[:idx]
	}
	if idx := strings.Index(lang, ";"); idx != -1 {
		lang = lang[:idx]
	}
	return strings.TrimSpace(lang)
}
