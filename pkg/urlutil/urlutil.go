package urlutil

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParamPrefixes and trackingParamNames together define which query
// parameters Canonicalize strips. utm_* is a prefix rule; the rest are
// exact names. Grounded on spec §4.5.
var trackingParamPrefixes = []string{"utm_"}

var trackingParamNames = map[string]struct{}{
	"fbclid": {},
	"gclid":  {},
	"ref":    {},
	"source": {},
	"mc_cid": {},
	"mc_eid": {},
}

func isTrackingParam(key string) bool {
	lower := strings.ToLower(key)
	if _, ok := trackingParamNames[lower]; ok {
		return true
	}
	for _, prefix := range trackingParamPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Canonicalize applies a deterministic normalization to a URL, producing a canonical form.
// It maps equivalent URL spellings to a single canonical representation.
//
// The normalization follows these rules:
//   - Scheme, host and path are lowercased
//   - Path is cleaned (trailing slashes removed, except for root "/")
//   - Fragments are removed
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//   - Tracking query parameters (utm_*, fbclid, gclid, ref, source, mc_cid,
//     mc_eid) are stripped; remaining parameters are kept, sorted by key,
//     using only the first value per key
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Idempotent: Canonicalize(Canonicalize(url)) == Canonicalize(url)
//   - Context-free: does not depend on crawl history
func Canonicalize(sourceUrl url.URL) url.URL {
	// Create a copy to avoid mutating the original
	canonical := sourceUrl

	// Lowercase scheme and host
	canonical.Scheme = lowerASCII(canonical.Scheme)
	canonical.Host = lowerASCII(canonical.Host)

	// Remove default port if present
	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	// Clean the path: lowercase, then remove trailing slashes (except root).
	// Path case is folded alongside scheme/host so that spellings that only
	// differ by case are treated as the same page for frontier dedupe.
	canonical.Path = lowerASCII(canonical.Path)
	if len(canonical.Path) > 1 {
		canonical.Path = stripTrailingSlash(canonical.Path)
	}

	// Remove fragment (anchor)
	canonical.Fragment = ""
	canonical.RawFragment = ""

	canonical.RawQuery = canonicalizeQuery(canonical.Query())
	canonical.ForceQuery = false

	return canonical
}

// canonicalizeQuery strips tracking params, keeps the first value per
// remaining key, and sorts keys for a deterministic encoding.
func canonicalizeQuery(values url.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		if isTrackingParam(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	kept := url.Values{}
	for _, key := range keys {
		vals := values[key]
		if len(vals) > 0 {
			kept.Set(key, vals[0])
		}
	}
	return kept.Encode()
}

// lowerASCII converts ASCII characters to lowercase. It returns s itself,
// without allocating, when s has no uppercase ASCII letter.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// stripTrailingSlash removes trailing slashes from a path.
func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}

// Resolve fills in a scheme and host for a URL discovered on a page, so
// that protocol-relative ("//cdn.example.com/x") and root-relative
// ("/about") links become absolute before they reach the frontier.
// Already-absolute URLs are returned unchanged.
func Resolve(discovered url.URL, defaultScheme, defaultHost string) url.URL {
	resolved := discovered
	if resolved.Host == "" {
		resolved.Host = defaultHost
	}
	if resolved.Scheme == "" {
		resolved.Scheme = defaultScheme
	}
	return resolved
}

// FilterByHost keeps only the URLs whose host matches host exactly.
func FilterByHost(host string, urls []url.URL) []url.URL {
	kept := make([]url.URL, 0, len(urls))
	for _, u := range urls {
		if u.Host == host {
			kept = append(kept, u)
		}
	}
	return kept
}
