package sitemap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cira-core/pipeline/internal/frontier"
	"github.com/cira-core/pipeline/internal/metadata"
	"github.com/cira-core/pipeline/internal/robots/cache"
)

/*
Discoverer

Responsibilities:
- Fetch <host>/sitemap.xml and any sitemap index children it references
- Parse both sitemap-index and urlset document shapes
- Walk a sitemap index breadth-first, bounded to MaxSitemapFiles files total
- Emit at most MaxEntries urlset entries across the whole walk
- Cache fetched raw documents for CacheTTL, keyed per file URL (a cached
  body is decompressed and parsed again on each use)
- Record a fatal parse error per sitemap file without aborting the walk

It does not decide which discovered URLs get crawled; that is the
frontier's job once entries are handed off.
*/
type Discoverer struct {
	httpClient   *http.Client
	userAgent    string
	cache        cache.Cache
	metadataSink metadata.MetadataSink
}

// cachedDocument is what gets stored under a sitemap file's cache key: the
// raw (still possibly gzip-encoded) body plus enough to recheck freshness
// and re-decode it without re-fetching.
type cachedDocument struct {
	Body            []byte    `json:"body"`
	ContentEncoding string    `json:"content_encoding"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// NewDiscoverer builds a Discoverer. cache is optional; a nil cache disables
// the 24h document cache entirely.
func NewDiscoverer(metadataSink metadata.MetadataSink, userAgent string, cache cache.Cache) *Discoverer {
	return &Discoverer{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    userAgent,
		cache:        cache,
		metadataSink: metadataSink,
	}
}

// NewDiscovererWithClient allows substituting the HTTP client, for tests.
func NewDiscovererWithClient(metadataSink metadata.MetadataSink, userAgent string, httpClient *http.Client, cache cache.Cache) *Discoverer {
	return &Discoverer{
		httpClient:   httpClient,
		userAgent:    userAgent,
		cache:        cache,
		metadataSink: metadataSink,
	}
}

func cacheKey(fileURL string) string {
	return fmt.Sprintf("sitemap:%s", fileURL)
}

// Discover fetches <scheme>://<hostname>/sitemap.xml and walks it to
// completion per spec §4.3.
func (d *Discoverer) Discover(ctx context.Context, scheme, hostname string) DiscoveryResult {
	rootURL := fmt.Sprintf("%s://%s/sitemap.xml", scheme, hostname)
	return d.walk(ctx, rootURL)
}

func (d *Discoverer) walk(ctx context.Context, rootURL string) DiscoveryResult {
	queue := frontier.NewFIFOQueue[string]()
	queue.Enqueue(rootURL)

	visited := map[string]bool{}
	result := DiscoveryResult{}

	for queue.Size() > 0 {
		if result.FilesVisited >= MaxSitemapFiles {
			result.Truncated = true
			break
		}
		fileURL, ok := queue.Dequeue()
		if !ok {
			break
		}
		if visited[fileURL] {
			continue
		}
		visited[fileURL] = true
		result.FilesVisited++

		children, entries, err := d.fetchAndParse(ctx, fileURL)
		if err != nil {
			result.Errors = append(result.Errors, FileError{URL: fileURL, Err: err})
			continue
		}

		for _, child := range children {
			if !visited[child] {
				queue.Enqueue(child)
			}
		}

		for _, entry := range entries {
			if len(result.Entries) >= MaxEntries {
				result.Truncated = true
				break
			}
			result.Entries = append(result.Entries, entry)
		}
	}

	if queue.Size() > 0 {
		result.Truncated = true
	}

	return result
}

// fetchAndParse retrieves one sitemap file (cache-first) and parses it.
func (d *Discoverer) fetchAndParse(ctx context.Context, fileURL string) ([]string, []Entry, error) {
	body, contentEncoding, err := d.fetchBody(ctx, fileURL)
	if err != nil {
		return nil, nil, err
	}
	return parseDocument(body, fileURL, contentEncoding)
}

func (d *Discoverer) fetchBody(ctx context.Context, fileURL string) ([]byte, string, error) {
	if d.cache != nil {
		if raw, found := d.cache.Get(cacheKey(fileURL)); found {
			var cached cachedDocument
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				if time.Since(cached.FetchedAt) < CacheTTL {
					return cached.Body, cached.ContentEncoding, nil
				}
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request for %s: %w", fileURL, err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "application/xml,text/xml,*/*")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", fileURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetch %s: unexpected status %d", fileURL, resp.StatusCode)
	}

	const maxSize = 50 * 1024 * 1024
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read body for %s: %w", fileURL, err)
	}
	if len(body) > maxSize {
		body = body[:maxSize]
	}

	contentEncoding := resp.Header.Get("Content-Encoding")

	if d.cache != nil {
		cached := cachedDocument{Body: body, ContentEncoding: contentEncoding, FetchedAt: time.Now()}
		if serialized, err := json.Marshal(cached); err == nil {
			d.cache.Put(cacheKey(fileURL), string(serialized))
		}
	}

	return body, contentEncoding, nil
}
