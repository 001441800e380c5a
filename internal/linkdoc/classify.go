package linkdoc

import (
	"context"

	"go.uber.org/zap"

	"github.com/zkfm/zktools/internal/fetch"
	"github.com/zkfm/zktools/internal/logging"
)

// Options configures classification.
type Options struct {
	IDLength       int  // hex characters kept from the digest; 0 keeps all
	Concurrency    int  // parallel classifications in ClassifyAll
	Strict         bool // abort the whole batch on the first invalid URL
	ToolsContext   bool // GitHub lines omit the publication
	PodcastDomain  string
	PodcastName    string
	TopicDomains   []string
	Shorteners     []string
	OEmbedEndpoint string
}

// DefaultOptions returns the options used by the zktools CLI out of the box.
func DefaultOptions() Options {
	return Options{
		IDLength:       DefaultIDLength,
		Concurrency:    4,
		PodcastDomain:  "zeroknowledge.fm",
		PodcastName:    "ZK",
		TopicDomains:   []string{"0xparc.org"},
		Shorteners:     []string{"t.co", "bit.ly", "buff.ly"},
		OEmbedEndpoint: DefaultOEmbedEndpoint,
	}
}

// Classifier routes URLs to handlers and builds records. It holds no
// per-link state and is safe for concurrent use when its fetcher is.
type Classifier struct {
	fetcher  fetch.Getter
	opts     Options
	logger   *zap.Logger
	handlers []handler
}

// NewClassifier creates a classifier backed by fetcher.
func NewClassifier(fetcher fetch.Getter, opts Options, logger *zap.Logger) *Classifier {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Classifier{
		fetcher:  fetcher,
		opts:     opts,
		logger:   logging.OrNop(logger),
		handlers: newHandlers(opts),
	}
}

// IDLength reports the identifier length records are built with.
func (c *Classifier) IDLength() int {
	return c.opts.IDLength
}

// VariantOf returns the variant a URL would be routed to, without any
// network access. Shortened URLs report the variant of the short link.
func (c *Classifier) VariantOf(raw string) (Variant, error) {
	u, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	return c.dispatch(u).variant(), nil
}

func (c *Classifier) dispatch(u NormalizedURL) handler {
	for _, h := range c.handlers {
		if h.match(u) {
			return h
		}
	}
	return genericHandler{}
}

func (c *Classifier) isShortener(u NormalizedURL) bool {
	for _, d := range c.opts.Shorteners {
		if hostMatches(u.Host, d) {
			return true
		}
	}
	return false
}

// expand resolves a shortened link. Resolution failures keep the short link.
func (c *Classifier) expand(ctx context.Context, u NormalizedURL) (NormalizedURL, error) {
	final, err := c.fetcher.Resolve(ctx, u.Text)
	if err != nil {
		c.logger.Warn("failed to expand short link", zap.String("url", u.Text), zap.Error(err))
		return u, nil
	}
	expanded, err := Normalize(final)
	if err != nil {
		return NormalizedURL{}, err
	}
	c.logger.Info("expanded short link", zap.String("from", u.Text), zap.String("to", expanded.Text))
	return expanded, nil
}

// Classify normalizes raw, expands short links, applies the handler's URL
// rewrite, fetches metadata once and renders the record.
func (c *Classifier) Classify(ctx context.Context, raw string) (*Record, error) {
	u, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	if c.isShortener(u) {
		if u, err = c.expand(ctx, u); err != nil {
			return nil, err
		}
	}

	h := c.dispatch(u)
	if rewritten := h.rewrite(u); rewritten != u.Text {
		c.logger.Info("rewrote url", zap.String("from", u.Text), zap.String("to", rewritten))
		if u, err = Normalize(rewritten); err != nil {
			return nil, err
		}
	}

	page := loadPage(ctx, c.fetcher, h.target(u))
	if page.Err != nil {
		c.logger.Warn("metadata unavailable", zap.String("url", u.Text), zap.Error(page.Err))
	}

	meta := linkMeta{
		url:         u,
		title:       trimmed(h.title(u, page)),
		authors:     trimmed(h.authors(u, page)),
		publication: trimmed(h.publication(u)),
	}

	record := &Record{
		ID:           Digest(u.Text, c.opts.IDLength),
		URL:          u.Text,
		Variant:      h.variant(),
		Title:        meta.title,
		Authors:      meta.authors,
		Publication:  meta.publication,
		PlainLine:    collapseSpace(h.plainLine(meta)),
		MarkdownLine: h.markdownLine(meta),
		TitleURL:     Caption(u),
	}
	if err := record.Verify(c.opts.IDLength); err != nil {
		return nil, err
	}

	c.logger.Debug("classified link",
		zap.String("id", record.ID),
		zap.String("variant", string(record.Variant)),
		zap.String("url", record.URL))
	return record, nil
}
