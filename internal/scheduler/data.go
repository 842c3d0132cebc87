package scheduler

import (
	"github.com/cira-core/pipeline/internal/classifier"
	"github.com/cira-core/pipeline/internal/storage"
)

type CrawlingExecution struct {
	WriteResults    []storage.WriteResult
	Classifications []classifier.Classification
}

type PipelineOutcome struct {
	Continue bool
	Retry    bool
	Abort    bool
}
