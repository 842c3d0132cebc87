package classifier

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/cira-core/pipeline/internal/model"
)

/*
Responsibilities

- Assign a PageType to a discovered URL before it is fetched, purely from
  path/query shape, so the frontier can order the crawl without waiting on
  page content (ClassifyURL / Priority).
- Once a page's body is available, combine the URL's own signal with
  content-based regex rules into a single Classification carrying a
  confidence score and the source that produced it (Classify).

Non-goals

- NLP-grade topic modeling. Both rule tables are regex pattern/weight
  pairs, not a trained classifier.
*/

// MatchSource identifies which signal produced a Classification.
type MatchSource string

const (
	SourceURL      MatchSource = "url"
	SourceContent  MatchSource = "content"
	SourceCombined MatchSource = "combined"
	SourceDefault  MatchSource = "default"
)

// Classification is the result of classifying a page: its type, how
// confident that assignment is, which signal(s) produced it, and the
// patterns that matched.
type Classification struct {
	PageType        model.PageType
	Confidence      float64
	MatchSource     MatchSource
	MatchedPatterns []string
}

type urlRule struct {
	pageType   model.PageType
	pattern    *regexp.Regexp
	confidence float64
}

type contentRule struct {
	pageType model.PageType
	pattern  *regexp.Regexp
	weight   float64
}

// urlRules is ordered most-specific first; the first match wins. Grounded
// on the common documentation-site URL conventions (about/team/contact live
// at shallow, human-named paths; blog/news under a dated or listicle path).
// Confidence is high (URL shape is rarely ambiguous) but not 1.0, leaving
// room for content signal to move the needle.
var urlRules = []urlRule{
	{model.PageAbout, regexp.MustCompile(`(?i)/(about|company|who-we-are)(/|$)`), 0.9},
	{model.PageTeam, regexp.MustCompile(`(?i)/(team|leadership|people|management)(/|$)`), 0.9},
	{model.PageProduct, regexp.MustCompile(`(?i)/(products?|solutions?|platform)(/|$)`), 0.85},
	{model.PageService, regexp.MustCompile(`(?i)/(services?|offerings?)(/|$)`), 0.85},
	{model.PageContact, regexp.MustCompile(`(?i)/(contact|contact-us|get-in-touch)(/|$)`), 0.9},
	{model.PageCareers, regexp.MustCompile(`(?i)/(careers?|jobs|join-us|hiring)(/|$)`), 0.9},
	{model.PagePricing, regexp.MustCompile(`(?i)/(pricing|plans)(/|$)`), 0.85},
	{model.PageBlog, regexp.MustCompile(`(?i)/(blog|insights|resources)(/|$)`), 0.8},
	{model.PageNews, regexp.MustCompile(`(?i)/(news|press|media)(/|$)`), 0.8},
}

// contentRules score page body text against the same ten-way taxonomy.
// Weight reflects how decisive a single occurrence is; repeated matches
// don't currently compound (first match per type wins), matching the
// URL table's first-match-wins shape.
var contentRules = []contentRule{
	{model.PageAbout, regexp.MustCompile(`(?i)\b(our story|who we are|founded in|our mission)\b`), 0.7},
	{model.PageTeam, regexp.MustCompile(`(?i)\b(meet the team|our leadership|executive team|board of directors)\b`), 0.75},
	{model.PageProduct, regexp.MustCompile(`(?i)\b(features|product overview|how it works)\b`), 0.6},
	{model.PageService, regexp.MustCompile(`(?i)\b(our services|what we offer|service offerings)\b`), 0.6},
	{model.PageContact, regexp.MustCompile(`(?i)\b(get in touch|contact us|reach out to us)\b`), 0.7},
	{model.PageCareers, regexp.MustCompile(`(?i)\b(open positions|we're hiring|join our team|current openings)\b`), 0.75},
	{model.PagePricing, regexp.MustCompile(`(?i)\b(pricing plans|monthly subscription|per month|free trial)\b`), 0.65},
	{model.PageBlog, regexp.MustCompile(`(?i)\b(posted by|read more|\d+ min read)\b`), 0.55},
	{model.PageNews, regexp.MustCompile(`(?i)\b(press release|in the news|media coverage)\b`), 0.6},
}

// ClassifyURL assigns a PageType using URL shape alone. Unmatched paths
// (including the homepage) classify as model.PageOther.
func ClassifyURL(u url.URL) model.PageType {
	if r, ok := matchURL(u); ok {
		return r.pageType
	}
	return model.PageOther
}

// Priority returns the frontier priority tier for u: lower pops sooner.
func Priority(u url.URL) int {
	return model.PriorityTiers[ClassifyURL(u)]
}

func matchURL(u url.URL) (urlRule, bool) {
	path := strings.ToLower(u.Path)
	for _, r := range urlRules {
		if r.pattern.MatchString(path) {
			return r, true
		}
	}
	return urlRule{}, false
}

func matchContent(content string) (contentRule, bool) {
	for _, r := range contentRules {
		if r.pattern.MatchString(content) {
			return r, true
		}
	}
	return contentRule{}, false
}

// Classify combines u's URL-shape signal with content's text signal per
// spec §4.4:
//
//   - URL match only: match_source=url, confidence=rule's confidence.
//   - Content match only: match_source=content, confidence=rule's weight.
//   - Both match and agree on page type: match_source=combined,
//     confidence=min((c_url+c_content)/1.5, 1).
//   - Both match but disagree: the higher-confidence source wins, with a
//     10% penalty for the disagreement.
//   - Neither matches: match_source=default, PageOther, confidence=0.
func Classify(u url.URL, content string) Classification {
	urlMatch, urlOK := matchURL(u)
	contentMatch, contentOK := matchContent(content)

	switch {
	case urlOK && contentOK && urlMatch.pageType == contentMatch.pageType:
		combined := (urlMatch.confidence + contentMatch.weight) / 1.5
		if combined > 1 {
			combined = 1
		}
		return Classification{
			PageType:        urlMatch.pageType,
			Confidence:      combined,
			MatchSource:     SourceCombined,
			MatchedPatterns: []string{urlMatch.pattern.String(), contentMatch.pattern.String()},
		}

	case urlOK && contentOK:
		// Disagreement: higher-confidence source wins, penalized 10%.
		if urlMatch.confidence >= contentMatch.weight {
			return Classification{
				PageType:        urlMatch.pageType,
				Confidence:      urlMatch.confidence * 0.9,
				MatchSource:     SourceURL,
				MatchedPatterns: []string{urlMatch.pattern.String()},
			}
		}
		return Classification{
			PageType:        contentMatch.pageType,
			Confidence:      contentMatch.weight * 0.9,
			MatchSource:     SourceContent,
			MatchedPatterns: []string{contentMatch.pattern.String()},
		}

	case urlOK:
		return Classification{
			PageType:        urlMatch.pageType,
			Confidence:      urlMatch.confidence,
			MatchSource:     SourceURL,
			MatchedPatterns: []string{urlMatch.pattern.String()},
		}

	case contentOK:
		return Classification{
			PageType:        contentMatch.pageType,
			Confidence:      contentMatch.weight,
			MatchSource:     SourceContent,
			MatchedPatterns: []string{contentMatch.pattern.String()},
		}

	default:
		return Classification{
			PageType:    model.PageOther,
			Confidence:  0,
			MatchSource: SourceDefault,
		}
	}
}
