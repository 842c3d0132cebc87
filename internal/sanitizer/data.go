package sanitizer

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// SanitizedHTMLDoc is the output of the sanitize stage: a repaired DOM
// alongside the URLs and plain text discovered while repairing it.
// contentNode is kept (not just discoveredUrls) so later pipeline stages
// - page classification (internal/classifier) in particular - can read the
// page's text without re-parsing the original response body.
type SanitizedHTMLDoc struct {
	contentNode    *html.Node
	discoveredUrls []url.URL
}

func NewSanitizedHTMLDoc(contentNode *html.Node, discoveredUrls []url.URL) SanitizedHTMLDoc {
	return SanitizedHTMLDoc{
		contentNode:    contentNode,
		discoveredUrls: discoveredUrls,
	}
}

func (s *SanitizedHTMLDoc) GetContentNode() *html.Node {
	return s.contentNode
}

func (s *SanitizedHTMLDoc) GetDiscoveredURLs() []url.URL {
	return s.discoveredUrls
}

// Text returns the sanitized document's visible text, whitespace-collapsed,
// for content-based classification and structured-data extraction. Script
// and style contents are excluded.
func (s *SanitizedHTMLDoc) Text() string {
	if s.contentNode == nil {
		return ""
	}
	var b strings.Builder
	collectText(s.contentNode, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
