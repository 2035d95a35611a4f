package scraper

import (
	"net"
	"regexp"
	"strings"
)

// emailPattern matches RFC-plausible email addresses in page text
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// socialPlatform pairs a platform name with its single recognition pattern
type socialPlatform struct {
	name    string
	pattern *regexp.Regexp
}

// socialPlatforms is the fixed set of recognized platforms, one pattern each.
// Order is fixed so extraction is deterministic; links matching no known
// platform are not retained.
var socialPlatforms = []socialPlatform{
	{"facebook", regexp.MustCompile(`(?:https?://)?(?:www\.)?facebook\.com/[a-zA-Z0-9.]+/?`)},
	{"instagram", regexp.MustCompile(`(?:https?://)?(?:www\.)?instagram\.com/[a-zA-Z0-9._]+/?`)},
	{"x", regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:twitter|x)\.com/[a-zA-Z0-9_]+/?`)},
	{"telegram", regexp.MustCompile(`(?:https?://)?(?:t\.me|telegram\.me)/[a-zA-Z0-9_]+/?`)},
	{"vk", regexp.MustCompile(`(?:https?://)?(?:vk\.com)/[a-zA-Z0-9_]+/?`)},
	{"linkedin", regexp.MustCompile(`(?:https?://)?(?:www\.)?linkedin\.com/(?:in|company)/[a-zA-Z0-9\-_]+/?`)},
	{"youtube", regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/(?:channel|user)/[a-zA-Z0-9\-_]+/?`)},
	{"tiktok", regexp.MustCompile(`(?:https?://)?(?:www\.)?tiktok\.com/@[a-zA-Z0-9\-_]+/?`)},
}

// isBlockedHost reports whether the host names the scanner itself or a
// private/link-local range (SSRF defense). Literal IPs are classified with
// the net package so loopback (127.0.0.0/8, ::1), private (RFC 1918,
// fc00::/7), link-local (169.254.0.0/16, fe80::/10), and unspecified
// addresses are all refused.
func isBlockedHost(hostname string) bool {
	host := strings.ToLower(hostname)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}

	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
	}

	return false
}
