package model

import "time"

// MaxAnalysisVersions bounds Analysis rows per Company; saving a new one
// past this cap evicts the lowest version number (spec §4.11, §8).
const MaxAnalysisVersions = 3

// SectionID names a slot in the fixed synthesis plan (spec §4.11).
type SectionID string

const (
	SectionCompanyOverview SectionID = "company_overview"
	SectionBusinessModel   SectionID = "business_model"
	SectionTeamLeadership  SectionID = "team_leadership"
	SectionMarketPosition  SectionID = "market_position"
	SectionTechnology      SectionID = "technology"
	SectionKeyInsights     SectionID = "key_insights"
	SectionRedFlags        SectionID = "red_flags"
	SectionExecutiveSummary SectionID = "executive_summary"
)

// SectionOrder is the fixed plan walked by AnalysisSynthesizer.
var SectionOrder = []SectionID{
	SectionCompanyOverview,
	SectionBusinessModel,
	SectionTeamLeadership,
	SectionMarketPosition,
	SectionTechnology,
	SectionKeyInsights,
	SectionRedFlags,
	SectionExecutiveSummary,
}

// DefaultSectionConfidence is used for any section that completed without
// an explicit confidence score from the model.
const DefaultSectionConfidence = 0.8

type AnalysisSection struct {
	Content    string
	Sources    []string
	Confidence float64
	Error      string
}

func (s AnalysisSection) Success() bool {
	return s.Error == "" && s.Content != ""
}

type Analysis struct {
	ID                string
	CompanyID         string
	VersionNumber     int
	ExecutiveSummary  string
	Sections          map[SectionID]AnalysisSection
	TotalInputTokens  int64
	TotalOutputTokens int64
	StartedAt         time.Time
	CompletedAt       time.Time
	Errors            []string
}

// Success mirrors spec §4.11: the run is successful iff company_overview,
// business_model and executive_summary are all present and non-empty.
func (a Analysis) Success() bool {
	required := []SectionID{SectionCompanyOverview, SectionBusinessModel, SectionExecutiveSummary}
	for _, id := range required {
		sec, ok := a.Sections[id]
		if !ok || !sec.Success() {
			return false
		}
	}
	return true
}

func (a Analysis) TotalTokens() int64 {
	return a.TotalInputTokens + a.TotalOutputTokens
}
