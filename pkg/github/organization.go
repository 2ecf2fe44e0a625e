// Package github interprets GitHub references found in Snyk target records.
package github

import (
	"net/url"
	"strings"
)

// Host is the only GitHub host whose URLs carry a usable organization name.
const Host = "github.com"

// ParseOrganization extracts a best-effort GitHub organization name from a
// target's URL, falling back to its display name. It never fails; inputs
// that carry no organization yield "".
//
// A URL with an HTTP scheme must point at https://github.com; the
// organization is its first path segment. Without a usable URL the display
// name is treated as the conventional "org/repo" form.
func ParseOrganization(rawURL, displayName string) string {
	if hasHTTPScheme(rawURL) {
		return parseFromURL(rawURL)
	}

	if !strings.Contains(displayName, "/") {
		return ""
	}
	return strings.SplitN(displayName, "/", 2)[0]
}

func hasHTTPScheme(rawURL string) bool {
	return strings.HasPrefix(rawURL, "https://") || strings.HasPrefix(rawURL, "http://")
}

func parseFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	// Host comparison, not string prefix matching: a prefix check would
	// also accept hosts like github.community.
	if parsed.Scheme != "https" || parsed.Host != Host {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) == 0 {
		return ""
	}
	return segments[0]
}
