package view

import (
	"net/url"
	"strings"

	"resume-page/internal/model"

	"golang.org/x/net/publicsuffix"
)

// LinkLabel is the text shown for l. An empty label falls back to the
// registrable domain of the link ("github.com" for
// "https://www.github.com/x"), then to the bare host, then to the link.
func LinkLabel(l model.LinkEntry) string {
	if l.Label != "" {
		return l.Label
	}
	candidate := l.Link
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Hostname() == "" {
		return l.Link
	}
	host := parsed.Hostname()
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return strings.TrimPrefix(etld, "www.")
	}
	return strings.TrimPrefix(host, "www.")
}
