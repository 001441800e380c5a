package fetch

import (
	"context"
	"sync"
)

// Getter is the subset of Client used by CachedFetcher.
type Getter interface {
	Get(ctx context.Context, urlStr string) (*Result, error)
	Resolve(ctx context.Context, urlStr string) (string, error)
}

type cachedEntry struct {
	once   sync.Once
	result *Result
	err    error
}

// CachedFetcher memoizes responses for the lifetime of one run so the same
// request URL is never fetched twice. It is safe for concurrent use; callers
// racing on the same URL share a single round-trip.
type CachedFetcher struct {
	next Getter

	mu      sync.Mutex
	entries map[string]*cachedEntry
}

// NewCachedFetcher wraps next with an in-memory memo.
func NewCachedFetcher(next Getter) *CachedFetcher {
	return &CachedFetcher{
		next:    next,
		entries: make(map[string]*cachedEntry),
	}
}

// Get returns the memoized result for urlStr, fetching it on first use.
func (f *CachedFetcher) Get(ctx context.Context, urlStr string) (*Result, error) {
	f.mu.Lock()
	entry, ok := f.entries[urlStr]
	if !ok {
		entry = &cachedEntry{}
		f.entries[urlStr] = entry
	}
	f.mu.Unlock()

	entry.once.Do(func() {
		entry.result, entry.err = f.next.Get(ctx, urlStr)
	})
	return entry.result, entry.err
}

// Resolve is not memoized; shorteners are resolved once per input anyway.
func (f *CachedFetcher) Resolve(ctx context.Context, urlStr string) (string, error) {
	return f.next.Resolve(ctx, urlStr)
}

// Len reports how many distinct URLs have been requested.
func (f *CachedFetcher) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
