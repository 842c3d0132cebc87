package extlink

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/cira-core/pipeline/pkg/urlutil"
)

/*
ExternalLinkDetector

Responsibilities:
- Detect anchors pointing at known social platforms (spec §4.6)
- Resolve relative/protocol-relative hrefs against the page's own URL
- Extract a canonical handle per platform's known sub-path shape
- Reject anchors that are platform chrome, not profile links (share,
  login, etc.) via a blocklist
- Answer whether a detected link should be followed, per Company config

It does not decide crawl admission; CrawlWorker feeds ShouldFollow's
result into the scheduler's normal admission path like any other
discovered link.
*/

// Platform names a social platform ExternalLinkDetector recognizes. These
// double as CompanyConfig.FollowSocial map keys.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformGitHub    Platform = "github"
)

// Link is one detected social-platform reference.
type Link struct {
	Platform Platform
	URL      url.URL
	Handle   string
}

// blocklist names path segments that are platform chrome, not a handle,
// shared across platforms since they recur (share widgets, auth pages).
var blocklist = map[string]bool{
	"share": true, "login": true, "signin": true, "signup": true,
	"sign-up": true, "intent": true, "home": true, "search": true,
	"about": true, "help": true, "settings": true, "explore": true,
	"accounts": true, "features": true, "pricing": true, "join": true,
	"plugins": true, "sharer": true, "watch": true, "hashtag": true,
	"messages": true, "notifications": true, "topics": true,
}

type platformRule struct {
	platform Platform
	hosts    map[string]bool
	pattern  *regexp.Regexp
}

var rules = []platformRule{
	{
		platform: PlatformLinkedIn,
		hosts:    hostSet("linkedin.com", "www.linkedin.com"),
		pattern:  regexp.MustCompile(`^/(?:company|in|school)/([A-Za-z0-9\-_.]+)/?$`),
	},
	{
		platform: PlatformTwitter,
		hosts:    hostSet("twitter.com", "www.twitter.com", "x.com", "www.x.com"),
		pattern:  regexp.MustCompile(`^/@?([A-Za-z0-9_]{1,15})/?$`),
	},
	{
		platform: PlatformFacebook,
		hosts:    hostSet("facebook.com", "www.facebook.com", "fb.com"),
		pattern:  regexp.MustCompile(`^/(?:pg/)?@?([A-Za-z0-9.\-_]{2,})/?$`),
	},
	{
		platform: PlatformInstagram,
		hosts:    hostSet("instagram.com", "www.instagram.com"),
		pattern:  regexp.MustCompile(`^/@?([A-Za-z0-9_.]{2,})/?$`),
	},
	{
		platform: PlatformYouTube,
		hosts:    hostSet("youtube.com", "www.youtube.com"),
		pattern:  regexp.MustCompile(`^/(?:channel|c|user)/([A-Za-z0-9_\-]+)/?$|^/@([A-Za-z0-9_\-.]+)/?$`),
	},
	{
		platform: PlatformGitHub,
		hosts:    hostSet("github.com", "www.github.com"),
		pattern:  regexp.MustCompile(`^/([A-Za-z0-9\-]+)/?$`),
	},
}

func hostSet(hosts ...string) map[string]bool {
	set := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		set[h] = true
	}
	return set
}

// matchPlatform finds the rule whose host set contains u.Host and whose
// path matches its sub-path shape, returning the extracted handle.
func matchPlatform(u url.URL) (Platform, string, bool) {
	host := strings.ToLower(u.Hostname())
	for _, rule := range rules {
		if !rule.hosts[host] {
			continue
		}
		matches := rule.pattern.FindStringSubmatch(u.Path)
		if matches == nil {
			return "", "", false
		}
		for _, group := range matches[1:] {
			if group != "" {
				return rule.platform, group, true
			}
		}
		return "", "", false
	}
	return "", "", false
}

// DetectLinks walks doc's anchors, resolves each href against base, and
// returns every distinct social-platform profile link found. base is the
// page's own URL, used to absolutize protocol-relative and root-relative
// hrefs.
func DetectLinks(doc *html.Node, base url.URL) []Link {
	if doc == nil {
		return nil
	}
	gqDoc := goquery.NewDocumentFromNode(doc)

	seen := make(map[string]bool)
	var links []Link

	gqDoc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		parsed, err := url.Parse(href)
		if err != nil {
			return
		}
		if parsed.Scheme != "" && parsed.Scheme != "http" && parsed.Scheme != "https" {
			return
		}

		resolved := urlutil.Resolve(*parsed, base.Scheme, base.Host)

		platform, handle, ok := matchPlatform(resolved)
		if !ok {
			return
		}
		if blocklist[strings.ToLower(handle)] {
			return
		}

		key := string(platform) + ":" + strings.ToLower(handle)
		if seen[key] {
			return
		}
		seen[key] = true

		links = append(links, Link{Platform: platform, URL: resolved, Handle: handle})
	})

	return links
}

// ShouldFollow consults the Company's per-platform follow flags. An
// unlisted platform defaults to not-followed.
func ShouldFollow(link Link, followSocial map[string]bool) bool {
	if followSocial == nil {
		return false
	}
	return followSocial[string(link.Platform)]
}
