package linkdoc

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultOEmbedEndpoint is YouTube's oEmbed endpoint.
const DefaultOEmbedEndpoint = "https://www.youtube.com/oembed"

var (
	videoHostPattern = regexp.MustCompile(`youtu\.?be(\.com)?`)
	channelParam     = regexp.MustCompile(`&?ab_channel=[^&]*`)
)

type videoKind int

const (
	videoOther    videoKind = iota // channel roots and anything else: scraped
	videoWatch                     // /watch?v=ID
	videoShort                     // youtu.be/ID, /shorts/ID, /embed/ID, /live/ID
	videoPlaylist                  // /playlist?list=ID
)

// videoHandler titles YouTube links through oEmbed, keyed by video or
// playlist id.
type videoHandler struct {
	genericHandler
	endpoint string
}

func newVideoHandler(endpoint string) videoHandler {
	if endpoint == "" {
		endpoint = DefaultOEmbedEndpoint
	}
	return videoHandler{endpoint: endpoint}
}

func (videoHandler) variant() Variant { return VariantVideo }

func (videoHandler) match(u NormalizedURL) bool {
	return videoHostPattern.MatchString(u.Host)
}

func classifyVideo(u NormalizedURL) (videoKind, string) {
	segs := u.Segments()
	switch {
	case strings.Contains(u.Path, "/watch"):
		return videoWatch, u.QueryValue("v")
	case strings.Contains(u.Path, "/playlist"):
		return videoPlaylist, u.QueryValue("list")
	case u.Host == "youtu.be" && len(segs) > 0:
		return videoShort, segs[0]
	case len(segs) > 1 && (segs[0] == "shorts" || segs[0] == "embed" || segs[0] == "live"):
		return videoShort, segs[1]
	default:
		return videoOther, ""
	}
}

func (h videoHandler) oembedURL(contentURL string) string {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("url", contentURL)
	return h.endpoint + "?" + params.Encode()
}

func (h videoHandler) target(u NormalizedURL) string {
	kind, id := classifyVideo(u)
	switch kind {
	case videoWatch, videoShort:
		if id == "" {
			return h.oembedURL(u.Text)
		}
		return h.oembedURL("https://www.youtube.com/watch?v=" + url.QueryEscape(id))
	case videoPlaylist:
		if id == "" {
			return h.oembedURL(u.Text)
		}
		return h.oembedURL("https://www.youtube.com/playlist?list=" + url.QueryEscape(id))
	default:
		return u.Text
	}
}

type oembedResponse struct {
	Title      *string `json:"title"`
	AuthorName string  `json:"author_name"`
}

func (videoHandler) title(u NormalizedURL, p Page) string {
	if kind, _ := classifyVideo(u); kind == videoOther {
		return p.Title()
	}

	var resp oembedResponse
	if err := p.DecodeJSON(&resp); err != nil || resp.Title == nil {
		return NoTitleFound
	}
	if t := collapseSpace(*resp.Title); t != "" {
		return t
	}
	return NoTitleFound
}

// authors is the channel named by the ab_channel query parameter, if any.
func (videoHandler) authors(u NormalizedURL, _ Page) string {
	if kind, _ := classifyVideo(u); kind != videoWatch {
		return ""
	}
	return u.QueryValue("ab_channel")
}

// StripChannel removes the ab_channel attribution parameter from a URL.
func StripChannel(rawURL string) string {
	out := channelParam.ReplaceAllString(rawURL, "")
	out = strings.Replace(out, "?&", "?", 1)
	return strings.TrimSuffix(out, "?")
}

func (videoHandler) caption(m linkMeta) (string, string) {
	kind, _ := classifyVideo(m.url)
	switch kind {
	case videoWatch:
		if m.authors != "" {
			return StripChannel(m.url.Text), m.title + " by " + m.authors
		}
		return StripChannel(m.url.Text), m.title
	case videoPlaylist:
		return m.url.Text, "Playlist: " + m.title
	default:
		return m.url.Text, m.title
	}
}

func (h videoHandler) plainLine(m linkMeta) string {
	link, text := h.caption(m)
	return joinParts(link, text)
}

func (h videoHandler) markdownLine(m linkMeta) string {
	link, text := h.caption(m)
	return markdownLink(text, link)
}
