package fetcher

import (
	"context"
	"net/http"

	"github.com/cira-core/pipeline/pkg/failure"
	"github.com/cira-core/pipeline/pkg/retry"
)

type Fetcher interface {
	Init(httpClient *http.Client)
	Fetch(
		ctx context.Context,
		crawlDepth int,
		fetchParam FetchParam,
		retryParam retry.RetryParam,
	) (FetchResult, failure.ClassifiedError)
}
