package linkdoc

import "strings"

// twitterHandler renders profile and status links without fetching; the
// handle comes from the first path segment.
type twitterHandler struct {
	genericHandler
}

func (twitterHandler) variant() Variant { return VariantTwitter }

func (twitterHandler) match(u NormalizedURL) bool {
	return strings.Contains(u.Host, "twitter.com") || hostMatches(u.Host, "x.com")
}

func (twitterHandler) target(NormalizedURL) string { return "" }

func twitterHandle(u NormalizedURL) string {
	if segs := u.Segments(); len(segs) > 0 {
		return strings.TrimPrefix(segs[0], "@")
	}
	return ""
}

func isStatus(u NormalizedURL) bool {
	segs := u.Segments()
	return len(segs) > 1 && (segs[1] == "status" || segs[1] == "statuses")
}

func (twitterHandler) title(u NormalizedURL, _ Page) string {
	handle := twitterHandle(u)
	switch {
	case handle == "":
		return Caption(u)
	case isStatus(u):
		return "Tweet by @" + handle
	default:
		return "@" + handle
	}
}

func (twitterHandler) authors(u NormalizedURL, _ Page) string {
	return twitterHandle(u)
}

func (twitterHandler) plainLine(m linkMeta) string {
	return joinParts(m.url.Text, m.title)
}

func (twitterHandler) markdownLine(m linkMeta) string {
	if isStatus(m.url) && m.authors != "" {
		return markdownLink("Tweet", m.url.Text) + " by @" + m.authors
	}
	return markdownLink(m.title, m.url.Text)
}
