package extractor

import (
	"net/url"

	"github.com/cira-core/pipeline/pkg/failure"
	"golang.org/x/net/html"
)

// ExtractionResult holds the extraction outcome.
// DocumentRoot is the original parsed HTML document.
// ContentNode is the extracted meaningful content node (semantic container).
type ExtractionResult struct {
	DocumentRoot *html.Node
	ContentNode  *html.Node
}

// Extractor is the scheduler-facing contract. Extraction parameters are set
// once per crawl (after config load) via SetExtractParam, separately from
// construction, since a DomExtractor is built before config is available.
type Extractor interface {
	Extract(sourceUrl url.URL, htmlByte []byte) (ExtractionResult, failure.ClassifiedError)
	SetExtractParam(params ExtractParam)
}

// ContentScoreMultiplier weights the text-density heuristic in layer 3
// (calculateContentScore).
type ContentScoreMultiplier struct {
	NonWhitespaceDivisor float64
	Paragraphs           float64
	Headings             float64
	CodeBlocks           float64
	ListItems            float64
}

// MeaningfulThreshold gates whether a candidate node counts as meaningful
// content (isMeaningful).
type MeaningfulThreshold struct {
	MinNonWhitespace    int
	MinHeadings         int
	MinParagraphsOrCode int
	MaxLinkDensity      float64
}

// ExtractParam configures the layer-3 heuristic scoring. Zero-value
// ExtractParam falls back to DefaultExtractParam's constants.
type ExtractParam struct {
	BodySpecificityBias  float64
	LinkDensityThreshold float64
	ScoreMultiplier      ContentScoreMultiplier
	Threshold            MeaningfulThreshold
}

// DefaultExtractParam returns the heuristic constants a DomExtractor uses
// before the scheduler applies config-derived values via SetExtractParam.
func DefaultExtractParam() ExtractParam {
	return ExtractParam{
		BodySpecificityBias:  0.9,
		LinkDensityThreshold: 0.8,
		ScoreMultiplier: ContentScoreMultiplier{
			NonWhitespaceDivisor: 50,
			Paragraphs:           5,
			Headings:             10,
			CodeBlocks:           15,
			ListItems:            2,
		},
		Threshold: MeaningfulThreshold{
			MinNonWhitespace:    50,
			MinHeadings:         0,
			MinParagraphsOrCode: 1,
			MaxLinkDensity:      0.8,
		},
	}
}
