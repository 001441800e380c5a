package linkdoc

import (
	"fmt"
	"strings"
)

// Variant names the site-specific handler that rendered a record.
type Variant string

const (
	VariantGeneric Variant = "generic"
	VariantGitHub  Variant = "github"
	VariantTwitter Variant = "twitter"
	VariantPodcast Variant = "podcast"
	VariantVideo   Variant = "video"
	VariantPaper   Variant = "paper"
	VariantTopic   Variant = "topic"
)

// linkMeta is everything a handler needs to render output lines.
type linkMeta struct {
	url         NormalizedURL
	title       string
	authors     string
	publication string
}

// handler is the capability set shared by every variant.
type handler interface {
	variant() Variant
	match(u NormalizedURL) bool
	// rewrite returns the canonical URL text; identifiers are computed after it.
	rewrite(u NormalizedURL) string
	// target returns the one URL to fetch for this link, or "" for none.
	target(u NormalizedURL) string
	title(u NormalizedURL, p Page) string
	authors(u NormalizedURL, p Page) string
	publication(u NormalizedURL) string
	plainLine(m linkMeta) string
	markdownLine(m linkMeta) string
}

// newHandlers returns the dispatch list; the first match wins and the generic
// handler matches everything.
func newHandlers(opts Options) []handler {
	return []handler{
		githubHandler{tools: opts.ToolsContext},
		twitterHandler{},
		newPodcastHandler(opts.PodcastDomain, opts.PodcastName),
		newVideoHandler(opts.OEmbedEndpoint),
		paperHandler{},
		topicHandler{domains: opts.TopicDomains},
		genericHandler{},
	}
}

// joinParts joins the non-empty parts with " | ".
func joinParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " | ")
}

func markdownLink(text, url string) string {
	return fmt.Sprintf("[%s](%s)", text, url)
}
