package linkdoc

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Failure records one input that could not be classified.
type Failure struct {
	Input string
	Err   error
}

// MarshalJSON renders the error as its message.
func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Input string `json:"input"`
		Error string `json:"error"`
	}{Input: f.Input, Error: f.Err.Error()})
}

// Collection is the result of classifying a batch of URLs.
type Collection struct {
	// URLs is the de-duplicated (and optionally sorted) input list in
	// processing order.
	URLs []string `json:"urls"`
	// Records maps identifier to record. Later inputs overwrite earlier ones
	// that share an identifier.
	Records map[string]*Record `json:"records"`
	// Failures lists inputs that were skipped, in processing order.
	Failures []Failure `json:"failures,omitempty"`

	order []string
}

// Ordered returns the records in processing order, one per identifier, at the
// position where the identifier first appeared.
func (c *Collection) Ordered() []*Record {
	out := make([]*Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.Records[id])
	}
	return out
}

// Len reports the number of distinct identifiers collected.
func (c *Collection) Len() int {
	return len(c.Records)
}

func (c *Collection) insert(r *Record) {
	if _, seen := c.Records[r.ID]; !seen {
		c.order = append(c.order, r.ID)
	}
	c.Records[r.ID] = r
}

// SplitURLs splits text into one candidate per non-blank line.
func SplitURLs(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// dedupe drops exact-string repeats, keeping first occurrences.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

type outcome struct {
	record *Record
	err    error
}

// ClassifyAll classifies every URL with bounded concurrency. Inputs are
// de-duplicated by exact string match before any fetch and sorted when
// sortInput is set. Records are inserted in that order regardless of which
// fetch finishes first, so identifier collisions resolve to the last input.
//
// Invalid inputs are reported in Failures unless the classifier is strict, in
// which case the first invalid input aborts the batch before any fetch. An
// identifier mismatch always aborts.
func (c *Classifier) ClassifyAll(ctx context.Context, urls []string, sortInput bool) (*Collection, error) {
	inputs := dedupe(urls)
	if sortInput {
		sort.Strings(inputs)
	}

	if c.opts.Strict {
		for _, raw := range inputs {
			if _, err := Normalize(raw); err != nil {
				return nil, err
			}
		}
	}

	outcomes := make([]outcome, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for i, raw := range inputs {
		i, raw := i, raw
		g.Go(func() error {
			record, err := c.Classify(gctx, raw)
			if err != nil {
				if errors.Is(err, ErrIdentifierMismatch) || c.opts.Strict {
					return err
				}
				outcomes[i] = outcome{err: err}
				return nil
			}
			outcomes[i] = outcome{record: record}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	coll := &Collection{
		URLs:    inputs,
		Records: make(map[string]*Record, len(inputs)),
	}
	for i, o := range outcomes {
		if o.err != nil {
			c.logger.Warn("skipping link", zap.String("input", inputs[i]), zap.Error(o.err))
			coll.Failures = append(coll.Failures, Failure{Input: inputs[i], Err: o.err})
			continue
		}
		coll.insert(o.record)
	}

	c.logger.Info("classified links",
		zap.Int("inputs", len(inputs)),
		zap.Int("records", coll.Len()),
		zap.Int("failures", len(coll.Failures)))
	return coll, nil
}
