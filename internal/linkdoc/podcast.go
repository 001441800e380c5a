package linkdoc

import (
	"regexp"
	"strings"
)

// podcastHandler scrapes episode pages on the show's own website.
type podcastHandler struct {
	genericHandler
	domain string
	suffix *regexp.Regexp // trailing " - <Name> Podcast"
}

func newPodcastHandler(domain, name string) podcastHandler {
	h := podcastHandler{domain: strings.ToLower(strings.TrimSpace(domain))}
	if name = strings.TrimSpace(name); name != "" {
		h.suffix = regexp.MustCompile(`(?i)\s*-\s*` + regexp.QuoteMeta(name) + `\s+Podcast\s*$`)
	}
	return h
}

func (podcastHandler) variant() Variant { return VariantPodcast }

func (h podcastHandler) match(u NormalizedURL) bool {
	return h.domain != "" && strings.Contains(u.Host, h.domain)
}

func (podcastHandler) target(u NormalizedURL) string { return u.Text }

func (h podcastHandler) title(_ NormalizedURL, p Page) string {
	title := strings.ReplaceAll(p.Title(), "Episode", "Ep")
	if h.suffix != nil {
		title = h.suffix.ReplaceAllString(title, "")
	}
	return collapseSpace(title)
}
