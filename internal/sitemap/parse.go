package sitemap

import (
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// document is decoded generically: a sitemap index's <sitemap> children and
// a urlset's <url> children never appear in the same file, so unmarshaling
// into one struct and then checking which slice is populated (with the root
// element name as a tiebreaker) avoids a two-pass parse.
type document struct {
	XMLName  xml.Name
	Sitemaps []sitemapRefXML `xml:"sitemap"`
	URLs     []urlXML        `xml:"url"`
}

// maybeDecompress transparently gunzips body when urlStr ends in .gz or
// contentEncoding says so, per spec §4.3's gzip-by-extension-or-header rule.
func maybeDecompress(body []byte, urlStr, contentEncoding string) ([]byte, error) {
	isGzip := strings.EqualFold(strings.TrimSpace(contentEncoding), "gzip") ||
		strings.HasSuffix(strings.ToLower(urlStr), ".gz")
	if !isGzip {
		return body, nil
	}

	reader, err := gzip.NewReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return decompressed, nil
}

// parseDocument parses a (possibly-compressed) sitemap body into either a
// set of child sitemap URLs (index) or a set of entries (urlset). At most
// one of the two returned slices is non-empty; both are empty when the
// document lists no <loc> values.
func parseDocument(body []byte, urlStr, contentEncoding string) ([]string, []Entry, error) {
	raw, err := maybeDecompress(body, urlStr, contentEncoding)
	if err != nil {
		return nil, nil, err
	}

	var doc document
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", urlStr, err)
	}

	if doc.XMLName.Local == "sitemapindex" || (len(doc.Sitemaps) > 0 && len(doc.URLs) == 0) {
		children := make([]string, 0, len(doc.Sitemaps))
		for _, s := range doc.Sitemaps {
			if s.Loc != "" {
				children = append(children, s.Loc)
			}
		}
		return children, nil, nil
	}

	entries := make([]Entry, 0, len(doc.URLs))
	for _, u := range doc.URLs {
		if u.Loc == "" {
			continue
		}
		entries = append(entries, Entry{
			Loc:        u.Loc,
			LastMod:    parseLastMod(u.LastMod),
			ChangeFreq: u.ChangeFreq,
			Priority:   parsePriority(u.Priority),
		})
	}
	return nil, entries, nil
}

// parseLastMod accepts the two forms the sitemap protocol allows: a full
// date (YYYY-MM-DD) or RFC3339. An unparseable or empty value yields the
// zero time rather than an error - lastmod is advisory, never load-bearing.
func parseLastMod(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

// parsePriority defaults to the sitemap protocol's own default of 0.5 when
// absent or malformed.
func parsePriority(s string) float64 {
	if s == "" {
		return 0.5
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.5
	}
	return v
}
