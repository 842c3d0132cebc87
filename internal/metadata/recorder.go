package metadata

import (
	"time"

	"go.uber.org/zap"
)

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Content hashes
- Crawl depth

Logging Goals
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Hashes
- Status codes
- Durations
- Identifiers (page ID, crawl ID)
*/

// MetadataSink is the observational write surface every pipeline stage emits
// to. It must never be consulted for control-flow decisions; its only job
// is giving an operator something to grep after the fact.
type MetadataSink interface {
	RecordFetch(fetchURL string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int)
	RecordAssetFetch(fetchURL string, httpStatus int, duration time.Duration, retryCount int)
	RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, errorString string, attrs []Attribute)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

// CrawlFinalizer records the single, terminal summary of a crawl run. It is
// separated from MetadataSink because it is invoked exactly once, after the
// crawl loop exits, by whichever component owns the crawl lifecycle.
type CrawlFinalizer interface {
	RecordFinalCrawlStats(totalPages int, totalErrors int, totalAssets int, duration time.Duration)
}

// NoopSink is a MetadataSink that discards every record.
type NoopSink struct{}

func (NoopSink) RecordFetch(fetchURL string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int) {
}

func (NoopSink) RecordAssetFetch(fetchURL string, httpStatus int, duration time.Duration, retryCount int) {
}

func (NoopSink) RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, errorString string, attrs []Attribute) {
}

func (NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

// Recorder is the default MetadataSink/CrawlFinalizer backed by a structured
// zap logger. workerID identifies which crawl worker emitted a given record,
// so logs from concurrent company crawls can be told apart downstream.
type Recorder struct {
	workerID string
	log      *zap.Logger
}

// NewRecorder builds a Recorder with a production zap logger. If the logger
// cannot be built (extremely unlikely; it only fails on a malformed encoder
// config), it falls back to zap.NewNop so that a broken logging pipeline
// never takes down the crawl itself.
func NewRecorder(workerID string) Recorder {
	log, err := zap.NewProduction()
	if err != nil {
		log = zap.NewNop()
	}
	return Recorder{workerID: workerID, log: log}
}

func attrFields(attrs []Attribute) []zap.Field {
	fields := make([]zap.Field, 0, len(attrs)+1)
	for _, a := range attrs {
		fields = append(fields, zap.String(string(a.Key), a.Value))
	}
	return fields
}

func (r *Recorder) RecordFetch(fetchURL string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int) {
	r.log.Info("fetch",
		zap.String("worker", r.workerID),
		zap.String("url", fetchURL),
		zap.Int("http_status", httpStatus),
		zap.Duration("duration", duration),
		zap.String("content_type", contentType),
		zap.Int("retry_count", retryCount),
		zap.Int("crawl_depth", crawlDepth),
	)
}

func (r *Recorder) RecordAssetFetch(fetchURL string, httpStatus int, duration time.Duration, retryCount int) {
	r.log.Info("asset_fetch",
		zap.String("worker", r.workerID),
		zap.String("url", fetchURL),
		zap.Int("http_status", httpStatus),
		zap.Duration("duration", duration),
		zap.Int("retry_count", retryCount),
	)
}

func (r *Recorder) RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, errorString string, attrs []Attribute) {
	fields := append([]zap.Field{
		zap.String("worker", r.workerID),
		zap.Time("observed_at", observedAt),
		zap.String("package", packageName),
		zap.String("action", action),
		zap.Int("cause", int(cause)),
		zap.String("error", errorString),
	}, attrFields(attrs)...)
	r.log.Error("pipeline_error", fields...)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	fields := append([]zap.Field{
		zap.String("worker", r.workerID),
		zap.String("kind", string(kind)),
		zap.String("path", path),
	}, attrFields(attrs)...)
	r.log.Info("artifact", fields...)
}

func (r *Recorder) RecordFinalCrawlStats(totalPages int, totalErrors int, totalAssets int, duration time.Duration) {
	r.log.Info("crawl_finished",
		zap.String("worker", r.workerID),
		zap.Int("total_pages", totalPages),
		zap.Int("total_errors", totalErrors),
		zap.Int("total_assets", totalAssets),
		zap.Duration("duration", duration),
	)
}
