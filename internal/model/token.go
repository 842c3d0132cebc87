package model

import "time"

type CallType string

const (
	CallExtraction   CallType = "extraction"
	CallAnalysis     CallType = "analysis"
	CallSummarization CallType = "summarization"
)

type TokenUsage struct {
	ID           string
	CompanyID    string
	CallType     CallType
	Section      SectionID
	InputTokens  int64
	OutputTokens int64
	Timestamp    time.Time
}

type BatchStatus string

const (
	BatchPending   BatchStatus = "PENDING"
	BatchRunning   BatchStatus = "RUNNING"
	BatchPaused    BatchStatus = "PAUSED"
	BatchCompleted BatchStatus = "COMPLETED"
	BatchCancelled BatchStatus = "CANCELLED"
)

type BatchJob struct {
	ID             string
	CompanyIDs     []string
	Status         BatchStatus
	Priority       int
	MaxConcurrency int
	Total          int
	Completed      int
	Failed         int
}
