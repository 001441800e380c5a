package linkdoc

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/zkfm/zktools/internal/fetch"
)

type fakePage struct {
	body   string
	status int
	err    error
}

// fakeFetcher serves canned pages keyed by exact URL and records every call.
type fakeFetcher struct {
	pages     map[string]fakePage
	redirects map[string]string

	mu    sync.Mutex
	gets  []string
	resol []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:     make(map[string]fakePage),
		redirects: make(map[string]string),
	}
}

func (f *fakeFetcher) page(url, body string) *fakeFetcher {
	f.pages[url] = fakePage{body: body, status: http.StatusOK}
	return f
}

func (f *fakeFetcher) Get(_ context.Context, url string) (*fetch.Result, error) {
	f.mu.Lock()
	f.gets = append(f.gets, url)
	f.mu.Unlock()

	p, ok := f.pages[url]
	if !ok {
		return nil, &fetch.Error{URL: url, Message: "no such page"}
	}
	if p.err != nil {
		return nil, p.err
	}
	result := &fetch.Result{URL: url, FinalURL: url, Body: []byte(p.body), StatusCode: p.status}
	if p.status != http.StatusOK {
		return result, &fetch.Error{URL: url, Message: http.StatusText(p.status)}
	}
	return result, nil
}

func (f *fakeFetcher) Resolve(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	f.resol = append(f.resol, url)
	f.mu.Unlock()

	if final, ok := f.redirects[url]; ok {
		return final, nil
	}
	return "", errors.New("connection refused")
}

func (f *fakeFetcher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.gets...)
}

func htmlPage(title string, metas ...string) string {
	head := ""
	if title != "" {
		head += "<title>" + title + "</title>"
	}
	for _, m := range metas {
		head += m
	}
	return "<html><head>" + head + "</head><body></body></html>"
}

func newTestClassifier(f fetch.Getter) *Classifier {
	return NewClassifier(f, DefaultOptions(), nil)
}
