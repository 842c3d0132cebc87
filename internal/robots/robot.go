package robots

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cira-core/pipeline/internal/metadata"
	"github.com/cira-core/pipeline/internal/robots/cache"
	"github.com/cira-core/pipeline/pkg/failure"
)

/*
Responsibilities

- Fetch robots.txt per host
- Cache rules for crawl duration
- Enforce allow/disallow rules before enqueue

Robots checks occur before a URL enters the frontier.
*/

// Robot is the scheduler-facing contract: given a target URL, decide whether
// it may be crawled, having already fetched and cached the relevant
// robots.txt.
type Robot interface {
	Init(userAgent string)
	Decide(target url.URL) (Decision, failure.ClassifiedError)
}

// CachedRobot is the default Robot. It owns one RobotsFetcher (and therefore
// one robots.txt cache) per instance; a CachedRobot is built once per crawl
// worker, not once per URL.
type CachedRobot struct {
	sink      metadata.MetadataSink
	userAgent string
	fetcher   *RobotsFetcher
}

func NewCachedRobot(sink metadata.MetadataSink) CachedRobot {
	return CachedRobot{sink: sink}
}

// Init wires the default in-memory robots.txt cache.
func (r *CachedRobot) Init(userAgent string) {
	r.InitWithCache(userAgent, cache.NewMemoryCache())
}

// InitWithCache wires a caller-supplied robots.txt cache, primarily for
// tests that need to observe or seed cache contents directly.
func (r *CachedRobot) InitWithCache(userAgent string, c cache.Cache) {
	r.userAgent = userAgent
	r.fetcher = NewRobotsFetcher(r.sink, userAgent, c)
}

// Decide fetches (or reuses the cached) robots.txt for target.Host and
// evaluates it against target.Path.
func (r *CachedRobot) Decide(target url.URL) (Decision, failure.ClassifiedError) {
	result, fetchErr := r.fetcher.Fetch(context.Background(), target.Scheme, target.Host)
	if fetchErr != nil {
		r.recordFetchError(target, fetchErr)
		return Decision{}, fetchErr
	}

	rs := MapResponseToRuleSet(result.Response, r.userAgent, result.FetchedAt)
	return r.decide(rs, target), nil
}

func (r *CachedRobot) recordFetchError(target url.URL, err *RobotsError) {
	if r.sink == nil {
		return
	}
	r.sink.RecordError(
		time.Now(),
		"robots",
		"CachedRobot.Decide",
		mapRobotsErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, target.String()),
			metadata.NewAttr(metadata.AttrHost, target.Host),
		},
	)
}

// match describes the best matching rule found for one rule list, keeping
// its raw pattern length so the longest-match-wins tie-break in decide can
// compare specificity across allow and disallow rules together.
type match struct {
	matched     bool
	specificity int
}

func (r *CachedRobot) decide(rs ruleSet, target url.URL) Decision {
	path := target.Path
	if path == "" {
		path = "/"
	}

	if !rs.hasGroups {
		return Decision{Url: target, Allowed: true, Reason: EmptyRuleSet}
	}
	if !rs.matchedGroup {
		return Decision{Url: target, Allowed: true, Reason: NoMatchingRules}
	}

	allow := r.bestMatch(rs.allowRules, path)
	disallow := r.bestMatch(rs.disallowRules, path)

	crawlDelay := time.Duration(0)
	if rs.crawlDelay != nil {
		crawlDelay = *rs.crawlDelay
	}

	switch {
	case !allow.matched && !disallow.matched:
		return Decision{Url: target, Allowed: true, Reason: NoMatchingRules, CrawlDelay: crawlDelay}
	case allow.matched && (!disallow.matched || allow.specificity >= disallow.specificity):
		return Decision{Url: target, Allowed: true, Reason: AllowedByRobots, CrawlDelay: crawlDelay}
	default:
		return Decision{Url: target, Allowed: false, Reason: DisallowedByRobots, CrawlDelay: crawlDelay}
	}
}

// bestMatch returns the longest (most specific) rule in rules matching
// path, per the standard robots.txt longest-match algorithm.
func (r *CachedRobot) bestMatch(rules []pathRule, path string) match {
	best := match{}
	for _, rule := range rules {
		re := compilePattern(rule.prefix)
		if re == nil {
			continue
		}
		if re.MatchString(path) {
			specificity := len(rule.prefix)
			if specificity > best.specificity || !best.matched {
				best = match{matched: true, specificity: specificity}
			}
		}
	}
	return best
}

// compilePattern translates a robots.txt path pattern (literal characters,
// "*" wildcards, optional trailing "$" end-anchor) into a compiled regexp.
// Rule sets are small (a handful of directives per host), so this is not
// memoized; compiling on every Decide call keeps CachedRobot free of any
// internal mutable cache beyond the robots.txt response cache itself.
func compilePattern(pattern string) *regexp.Regexp {
	anchored := strings.HasSuffix(pattern, "$")
	body := strings.TrimSuffix(pattern, "$")

	var b strings.Builder
	b.WriteString("^")
	for _, segment := range strings.Split(body, "*") {
		b.WriteString(regexp.QuoteMeta(segment))
		b.WriteString(".*")
	}
	expr := strings.TrimSuffix(b.String(), ".*")
	if anchored {
		expr += "$"
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil
	}
	return re
}
