package frontier

import (
	"container/heap"
	"net/url"
	"regexp"
	"sync"

	"github.com/cira-core/pipeline/internal/classifier"
	"github.com/cira-core/pipeline/internal/config"
	"github.com/cira-core/pipeline/pkg/urlutil"
)

/*
Frontier Responsibilities
- Maintain priority + BFS-within-priority ordering (§4.5)
- Deduplicate URLs by canonical form and by content hash
- Track crawl depth
- Reject out-of-scope or out-of-budget candidates
- Knows nothing about:
	- fetching
	- extraction
	- markdown
	- storage
	- page classification (callers supply the priority tier)

It is a data structure + policy module, not a pipeline executor.
*/

// entry is one pending item in the heap, ordered by (priority, depth,
// insertion order) per spec §4.5.
type entry struct {
	token     CrawlToken
	priority  int
	insertion int
	index     int // heap.Interface bookkeeping
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	if h[i].token.Depth() != h[j].token.Depth() {
		return h[i].token.Depth() < h[j].token.Depth()
	}
	return h[i].insertion < h[j].insertion
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Frontier is the priority queue + dedupe state for a single Company's
// crawl. Every method takes an internal mutex, so a Frontier may be used
// from several goroutines.
type Frontier struct {
	mu sync.Mutex

	heap      entryHeap
	insertSeq int

	seenCanonical map[string]struct{}
	visited       map[string]struct{}
	contentHashes map[string]struct{}

	maxDepth     int
	allowedHosts map[string]struct{}
	exclude      *regexp.Regexp
}

func NewFrontier() Frontier {
	return Frontier{
		heap:          entryHeap{},
		seenCanonical: make(map[string]struct{}),
		visited:       make(map[string]struct{}),
		contentHashes: make(map[string]struct{}),
	}
}

// Init wires scope limits from the crawl engine config. It may be called
// again to change limits mid-crawl (e.g. when a Company's config changes on
// resume); it never clears already-accumulated state.
func (f *Frontier) Init(cfg config.Config) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.maxDepth = cfg.MaxDepth()
	f.allowedHosts = cfg.AllowedHosts()
}

// SetExclusionPattern installs a regex that rejects matching canonical URLs.
func (f *Frontier) SetExclusionPattern(pattern *regexp.Regexp) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exclude = pattern
}

// Canonical returns the canonicalized string form of u, per pkg/urlutil.
func Canonical(u url.URL) string {
	canonical := urlutil.Canonicalize(u)
	return canonical.String()
}

// Submit admits a candidate into the frontier. Priority is derived
// internally from the target URL's shape via internal/classifier, so the
// frontier stays the single source of truth for pop order; callers never
// supply a priority directly. It is a no-op, without side effects, if the
// candidate is rejected: cross-domain, over max depth, matches the
// exclusion pattern, already seen (post-canonicalization), or already
// visited.
func (f *Frontier) Submit(candidate CrawlAdmissionCandidate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := candidate.TargetURL()
	depth := candidate.DiscoveryMetadata().Depth()
	priority := classifier.Priority(target)

	if f.maxDepth > 0 && depth > f.maxDepth {
		return
	}

	if len(f.allowedHosts) > 0 {
		canonicalTarget := urlutil.Canonicalize(target)
		if _, ok := f.allowedHosts[canonicalTarget.Host]; !ok {
			return
		}
	}

	canonical := Canonical(target)

	if f.exclude != nil && f.exclude.MatchString(canonical) {
		return
	}

	if _, ok := f.seenCanonical[canonical]; ok {
		return
	}
	if _, ok := f.visited[canonical]; ok {
		return
	}

	f.seenCanonical[canonical] = struct{}{}

	canonicalURL, err := url.Parse(canonical)
	if err != nil {
		canonicalURL = &target
	}

	f.insertSeq++
	heap.Push(&f.heap, &entry{
		token:     NewCrawlToken(*canonicalURL, depth),
		priority:  priority,
		insertion: f.insertSeq,
	})
}

// Enqueue pushes a token directly onto the pending heap, bypassing the
// admission checks Submit performs. It exists for callers that have already
// resolved a token (e.g. restoring from a checkpoint, or seeding a depth
// wave) and priority is derived the same way Submit derives it.
func (f *Frontier) Enqueue(token CrawlToken) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertSeq++
	heap.Push(&f.heap, &entry{
		token:     token,
		priority:  classifier.Priority(token.URL()),
		insertion: f.insertSeq,
	})
}

// IsDepthExhausted reports whether depth exceeds the configured max depth.
func (f *Frontier) IsDepthExhausted(depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxDepth > 0 && depth > f.maxDepth
}

// CurrentMinDepth returns the shallowest depth among pending entries, or -1
// if the frontier is empty.
func (f *Frontier) CurrentMinDepth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.heap) == 0 {
		return -1
	}
	min := f.heap[0].token.Depth()
	for _, e := range f.heap {
		if e.token.Depth() < min {
			min = e.token.Depth()
		}
	}
	return min
}

// Dequeue pops the head token in priority order. Popping does not mark the
// URL visited; call MarkVisited once the fetch completes so that re-submits
// of an in-flight URL are still rejected by the seen-set, and so that a
// URL that failed mid-fetch can be retried by a future Submit call that
// clears seenCanonical via Requeue (not provided; crawl loops treat a
// popped-but-failed URL as terminally skipped per spec's non-retry model).
func (f *Frontier) Dequeue() (CrawlToken, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.heap.Len() == 0 {
		return CrawlToken{}, false
	}
	e := heap.Pop(&f.heap).(*entry)
	return e.token, true
}

// MarkVisited records a canonical URL as fetched, preventing it from being
// re-submitted even after the seen-set alone would allow it.
func (f *Frontier) MarkVisited(canonicalURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited[canonicalURL] = struct{}{}
}

func (f *Frontier) IsVisited(canonicalURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.visited[canonicalURL]
	return ok
}

// MarkContentHash records a content hash as seen, returning false if it was
// already present (a duplicate page body under a different URL).
func (f *Frontier) MarkContentHash(hash string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.contentHashes[hash]; ok {
		return false
	}
	f.contentHashes[hash] = struct{}{}
	return true
}

func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heap.Len()
}

// VisitedCount returns the number of canonical URLs marked visited so far,
// for progress reporting.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// State is the serializable snapshot used by CheckpointService. Pending
// preserves heap order (by repeatedly popping a clone) so that
// RestoreState(GetState(f)) reproduces identical pop order.
type State struct {
	Pending       []PendingEntry
	Visited       []string
	Seen          []string
	ContentHashes []string
}

type PendingEntry struct {
	URL       url.URL
	Depth     int
	Priority  int
	Insertion int
}

// GetState snapshots the frontier for checkpointing. It does not mutate the
// live heap.
func (f *Frontier) GetState() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := make(entryHeap, len(f.heap))
	copy(clone, f.heap)
	heap.Init(&clone)

	pending := make([]PendingEntry, 0, len(clone))
	for clone.Len() > 0 {
		e := heap.Pop(&clone).(*entry)
		pending = append(pending, PendingEntry{
			URL:       e.token.URL(),
			Depth:     e.token.Depth(),
			Priority:  e.priority,
			Insertion: e.insertion,
		})
	}

	visited := make([]string, 0, len(f.visited))
	for v := range f.visited {
		visited = append(visited, v)
	}
	seen := make([]string, 0, len(f.seenCanonical))
	for s := range f.seenCanonical {
		seen = append(seen, s)
	}
	hashes := make([]string, 0, len(f.contentHashes))
	for h := range f.contentHashes {
		hashes = append(hashes, h)
	}

	return State{Pending: pending, Visited: visited, Seen: seen, ContentHashes: hashes}
}

// RestoreState rebuilds frontier state from a snapshot, preserving pending
// pop order and the visited/seen/content-hash sets.
func (f *Frontier) RestoreState(s State) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.heap = make(entryHeap, 0, len(s.Pending))
	f.insertSeq = 0
	for _, p := range s.Pending {
		f.insertSeq++
		heap.Push(&f.heap, &entry{
			token:     NewCrawlToken(p.URL, p.Depth),
			priority:  p.Priority,
			insertion: p.Insertion,
		})
		if p.Insertion > f.insertSeq {
			f.insertSeq = p.Insertion
		}
	}

	f.visited = make(map[string]struct{}, len(s.Visited))
	for _, v := range s.Visited {
		f.visited[v] = struct{}{}
	}
	f.seenCanonical = make(map[string]struct{}, len(s.Seen))
	for _, v := range s.Seen {
		f.seenCanonical[v] = struct{}{}
	}
	f.contentHashes = make(map[string]struct{}, len(s.ContentHashes))
	for _, v := range s.ContentHashes {
		f.contentHashes[v] = struct{}{}
	}
}
