// Package useragent turns raw User-Agent strings into short display names for
// compliance views ("Chrome on Mac OS X"), keeping the raw string in storage.
package useragent

import (
	"strings"

	"github.com/mssola/useragent"
)

// DisplayName renders a human-readable "<browser> on <platform>" label from a
// raw User-Agent header. Unparseable agents fall back to the raw product name
// so the trail still shows something actionable.
func DisplayName(raw string) string {
	if raw == "" {
		return "Unknown Device"
	}

	ua := useragent.New(raw)
	name, _ := ua.Browser()
	platform := ua.OS()
	if platform == "" {
		platform = ua.Platform()
	}
	if platform == "" {
		platform = "unknown platform"
	}
	if name == "" {
		name = firstToken(raw)
	}
	return strings.TrimSpace(name + " on " + platform)
}

func firstToken(raw string) string {
	if idx := strings.IndexAny(raw, "/ "); idx > 0 {
		return raw[:idx]
	}
	return raw
}
