// Package model holds the durable shapes of the pipeline: Company, Page,
// Entity, CrawlSession, Analysis, TokenUsage and BatchJob. These are plain
// data types; persistence lives in internal/repo, and mutation policy lives
// in internal/pipeline.
package model

import "time"

type CompanyStatus string

const (
	CompanyPending    CompanyStatus = "PENDING"
	CompanyInProgress CompanyStatus = "IN_PROGRESS"
	CompanyPaused     CompanyStatus = "PAUSED"
	CompanyCompleted  CompanyStatus = "COMPLETED"
	CompanyFailed     CompanyStatus = "FAILED"
)

type Phase string

const (
	PhaseQueued    Phase = "QUEUED"
	PhaseCrawling  Phase = "CRAWLING"
	PhaseExtract   Phase = "EXTRACTING"
	PhaseAnalyzing Phase = "ANALYZING"
	PhaseGenerate  Phase = "GENERATING"
	PhaseCompleted Phase = "COMPLETED"
)

// CompanyConfig holds per-job pipeline settings. It is intentionally a
// separate, flat struct from the crawl engine's config.Config: a Company's
// overrides are sparse and travel with the job, not with the process.
type CompanyConfig struct {
	AnalysisMode  string
	MaxTimeSec    int
	MaxPages      int
	MaxDepth      int
	FollowSocial  map[string]bool
	InputPriceM   float64
	OutputPriceM  float64
}

type Company struct {
	ID          string
	Name        string
	SeedURL     string
	Industry    string
	Status      CompanyStatus
	Phase       Phase
	Config      CompanyConfig
	CreatedAt   time.Time
	StartedAt   *time.Time
	PausedAt    *time.Time
	CompletedAt *time.Time
	// TotalPausedDurationMS accumulates time spent PAUSED, subtracted from
	// elapsed-time budgets by ProgressService.
	TotalPausedDurationMS int64
	TotalInputTokens      int64
	TotalOutputTokens     int64
	TotalCostUSD          float64
	// Errors is the user-visible error list surfaced by progress endpoints.
	Errors []string
}

// Elapsed returns wall-clock time since StartedAt minus accumulated pause
// duration. Callers treat a nil StartedAt as zero elapsed.
func (c Company) Elapsed(now time.Time) time.Duration {
	if c.StartedAt == nil {
		return 0
	}
	elapsed := now.Sub(*c.StartedAt)
	elapsed -= time.Duration(c.TotalPausedDurationMS) * time.Millisecond
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
