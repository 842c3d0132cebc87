package model

import "time"

// PageType is the ten-way content taxonomy assigned by the classifier, plus
// "other" as the default bucket.
type PageType string

const (
	PageAbout    PageType = "about"
	PageTeam     PageType = "team"
	PageProduct  PageType = "product"
	PageService  PageType = "service"
	PageContact  PageType = "contact"
	PageCareers  PageType = "careers"
	PagePricing  PageType = "pricing"
	PageBlog     PageType = "blog"
	PageNews     PageType = "news"
	PageOther    PageType = "other"
)

// PriorityTiers maps a PageType to its crawl priority (lower pops sooner).
// Grounded on spec §4.5's fixed tier map.
var PriorityTiers = map[PageType]int{
	PageAbout:   1,
	PageTeam:    2,
	PageProduct: 3,
	PageService: 4,
	PageContact: 5,
	PageCareers: 6,
	PagePricing: 7,
	PageBlog:    8,
	PageNews:    9,
	PageOther:   10,
}

type Page struct {
	ID            string
	CompanyID     string
	CanonicalURL  string
	Type          PageType
	Confidence    float64
	MatchSource   string
	RawHTML       string
	ExtractedText string
	StatusCode    int
	IsExternal    bool
	ContentHash   string
	Error         string
	CrawledAt     time.Time
}
