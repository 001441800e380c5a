// Package linkdoc turns raw link lists into annotated show-notes lines.
//
// Each URL is normalized, routed to a site-specific handler (GitHub, Twitter,
// the podcast's own site, YouTube, IACR ePrint, topic sites, or a generic
// fallback), enriched with metadata fetched at most once per link, and
// collected under a stable identifier derived from the final URL.
package linkdoc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is matched by every *InvalidURLError.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrIdentifierMismatch is matched by every *IdentifierMismatchError.
	ErrIdentifierMismatch = errors.New("identifier mismatch")
)

// InvalidURLError is returned when an input does not match the accepted URL grammar.
type InvalidURLError struct {
	Input string
	Cause error
}

func (e *InvalidURLError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid url %q: %v", e.Input, e.Cause)
	}
	return fmt.Sprintf("invalid url %q", e.Input)
}

func (e *InvalidURLError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrInvalidURL) true for any InvalidURLError.
func (e *InvalidURLError) Is(target error) bool {
	return target == ErrInvalidURL
}

// FetchFailure records a network, HTTP or decode failure while gathering
// metadata. It never aborts classification; the affected field degrades to a
// placeholder.
type FetchFailure struct {
	URL   string
	Cause error
}

func (e *FetchFailure) Error() string {
	return fmt.Sprintf("fetch failure for %s: %v", e.URL, e.Cause)
}

func (e *FetchFailure) Unwrap() error {
	return e.Cause
}

// IdentifierMismatchError signals that a record's stored id does not match the
// digest of its final URL. It indicates a bug, not bad input.
type IdentifierMismatchError struct {
	URL      string
	Stored   string
	Computed string
}

func (e *IdentifierMismatchError) Error() string {
	return fmt.Sprintf("identifier mismatch for %s: stored %s, computed %s", e.URL, e.Stored, e.Computed)
}

// Is makes errors.Is(err, ErrIdentifierMismatch) true for any IdentifierMismatchError.
func (e *IdentifierMismatchError) Is(target error) bool {
	return target == ErrIdentifierMismatch
}
