package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	chromeDesktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	iphoneUA        = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	androidUA       = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	ipadUA          = "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
)

func TestParseDevice(t *testing.T) {
	assert.Equal(t, "desktop", ParseDevice(chromeDesktopUA))
	assert.Equal(t, "mobile", ParseDevice(iphoneUA))
	assert.Equal(t, "mobile", ParseDevice(androidUA))
	assert.Equal(t, "tablet", ParseDevice(ipadUA))
	assert.Equal(t, "desktop", ParseDevice(""))
}

func TestParse(t *testing.T) {
	info := Parse(chromeDesktopUA, "en-US,en;q=0.9")
	assert.Equal(t, "chrome", info.Browser)
	assert.Equal(t, "windows", info.OS)
	assert.Equal(t, "desktop", info.Device)
	assert.Equal(t, "en-US", info.Language)

	info = Parse(iphoneUA, "")
	assert.Equal(t, "safari", info.Browser)
	assert.Equal(t, "ios", info.OS)
	assert.Equal(t, "mobile", info.Device)
	assert.Empty(t, info.Language)
}
