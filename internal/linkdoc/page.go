package linkdoc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/zkfm/zktools/internal/fetch"
)

// Placeholder titles used when metadata cannot be scraped.
const (
	NoTitle      = "No Title"
	NoTitleFound = "No Title Found"
)

// Page is the single response gathered for one link. It is loaded once per
// record and handed by value to every extraction step.
type Page struct {
	URL    string
	Result *fetch.Result
	Err    error // *FetchFailure when the request or parse failed
	doc    *goquery.Document
}

func loadPage(ctx context.Context, fetcher fetch.Getter, target string) Page {
	if target == "" {
		return Page{}
	}

	page := Page{URL: target}
	result, err := fetcher.Get(ctx, target)
	page.Result = result
	if err != nil {
		page.Err = &FetchFailure{URL: target, Cause: err}
		return page
	}
	if result == nil {
		page.Err = &FetchFailure{URL: target, Cause: fmt.Errorf("empty response")}
		return page
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body))
	if err != nil {
		page.Err = &FetchFailure{URL: target, Cause: fmt.Errorf("failed to parse HTML: %w", err)}
		return page
	}
	page.doc = doc
	return page
}

// Fetched reports whether a response was loaded and parsed.
func (p Page) Fetched() bool {
	return p.Err == nil && p.Result != nil
}

// MetaContents returns the content attribute of every <meta> whose attr
// equals value, e.g. MetaContents("name", "citation_author").
func (p Page) MetaContents(attr, value string) []string {
	if p.doc == nil {
		return nil
	}
	var out []string
	p.doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(attr); !ok || v != value {
			return
		}
		if content, ok := s.Attr("content"); ok {
			if content = collapseSpace(content); content != "" {
				out = append(out, content)
			}
		}
	})
	return out
}

// OGTitle returns the og:title meta content, or "".
func (p Page) OGTitle() string {
	if titles := p.MetaContents("property", "og:title"); len(titles) > 0 {
		return titles[0]
	}
	return ""
}

// HTMLTitle returns the document <title> text, or "".
func (p Page) HTMLTitle() string {
	if p.doc == nil {
		return ""
	}
	return collapseSpace(p.doc.Find("title").First().Text())
}

// Title prefers og:title, then <title>, then the NoTitle placeholder.
func (p Page) Title() string {
	if t := p.OGTitle(); t != "" {
		return t
	}
	if t := p.HTMLTitle(); t != "" {
		return t
	}
	return NoTitle
}

// DecodeJSON unmarshals the response body into v.
func (p Page) DecodeJSON(v any) error {
	if p.Err != nil {
		return p.Err
	}
	if p.Result == nil {
		return &FetchFailure{URL: p.URL, Cause: fmt.Errorf("nothing fetched")}
	}
	if err := json.Unmarshal(p.Result.Body, v); err != nil {
		return &FetchFailure{URL: p.URL, Cause: fmt.Errorf("failed to decode JSON: %w", err)}
	}
	return nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
