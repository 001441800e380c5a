// Package gist reads files from GitHub gists through the REST API.
package gist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/zkfm/zktools/internal/fetch"
)

// DefaultAPI is the public GitHub API base URL.
const DefaultAPI = "https://api.github.com"

// ErrFileNotFound is returned when a gist has no file with the requested name.
var ErrFileNotFound = errors.New("gist file not found")

// File is one file of a gist.
type File struct {
	Filename  string `json:"filename"`
	Language  string `json:"language"`
	Size      int    `json:"size"`
	Truncated bool   `json:"truncated"`
	RawURL    string `json:"raw_url"`
	Content   string `json:"content"`
}

// Gist is the subset of the gists API response zktools uses.
type Gist struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Files       map[string]File `json:"files"`
}

// Filenames returns the gist's file names, sorted.
func (g *Gist) Filenames() []string {
	names := make([]string, 0, len(g.Files))
	for name := range g.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Client reads gists.
type Client struct {
	fetcher fetch.Getter
	api     string
}

// NewClient creates a client for the API at apiBase ("" uses DefaultAPI).
func NewClient(fetcher fetch.Getter, apiBase string) *Client {
	if apiBase == "" {
		apiBase = DefaultAPI
	}
	return &Client{fetcher: fetcher, api: strings.TrimRight(apiBase, "/")}
}

// Get fetches gist metadata and file contents.
func (c *Client) Get(ctx context.Context, id string) (*Gist, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("gist id is empty")
	}

	result, err := c.fetcher.Get(ctx, c.api+"/gists/"+url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gist %s: %w", id, err)
	}

	var g Gist
	if err := json.Unmarshal(result.Body, &g); err != nil {
		return nil, fmt.Errorf("failed to decode gist %s: %w", id, err)
	}
	return &g, nil
}

// Content returns the content of filename in gist id. Truncated files are
// fetched in full from their raw URL.
func (c *Client) Content(ctx context.Context, id, filename string) (string, error) {
	g, err := c.Get(ctx, id)
	if err != nil {
		return "", err
	}

	file, ok := g.Files[filename]
	if !ok {
		return "", fmt.Errorf("%w: %q in gist %s (have %s)", ErrFileNotFound, filename, id, strings.Join(g.Filenames(), ", "))
	}
	if !file.Truncated || file.RawURL == "" {
		return file.Content, nil
	}

	raw, err := c.fetcher.Get(ctx, file.RawURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch raw %s: %w", filename, err)
	}
	return string(raw.Body), nil
}
