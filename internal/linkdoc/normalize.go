package linkdoc

import (
	"crypto/sha1" //nolint:gosec // identifiers, not security
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultIDLength is the number of hex characters kept from the SHA-1 digest.
const DefaultIDLength = 10

var genericURLPattern = regexp.MustCompile(`(?i)^(?:http|ftp)s?://` +
	`((?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+(?:[A-Z]{2,6}\.?|[A-Z0-9-]{2,}\.?)|` + // domain
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}))` + // or IPv4
	`(?::\d+)?` + // optional port
	`(?:/?|[/?]\S+)$`)

var (
	captionSeparators = regexp.MustCompile(`[-_/]+`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
)

// NormalizedURL is an immutable decomposition of a validated URL.
type NormalizedURL struct {
	Text     string // trimmed input with trailing slashes removed
	Scheme   string
	Host     string // lower-cased hostname without port
	Port     string
	Path     string // percent-decoded
	Query    string // raw query
	Fragment string
}

// Normalize trims raw, strips trailing slashes and validates it against the
// accepted http(s)/ftp(s) grammar. It performs no network access.
func Normalize(raw string) (NormalizedURL, error) {
	text := strings.TrimRight(strings.TrimSpace(raw), "/")
	if !genericURLPattern.MatchString(text) {
		return NormalizedURL{}, &InvalidURLError{Input: raw}
	}

	parsed, err := url.Parse(text)
	if err != nil {
		// the grammar leaves path and query unconstrained, so escapes that
		// net/url refuses ("%zz") are split by hand instead
		return splitURL(text), nil
	}

	return NormalizedURL{
		Text:     text,
		Scheme:   strings.ToLower(parsed.Scheme),
		Host:     strings.ToLower(parsed.Hostname()),
		Port:     parsed.Port(),
		Path:     parsed.Path,
		Query:    parsed.RawQuery,
		Fragment: parsed.Fragment,
	}, nil
}

// splitURL decomposes text that already matched genericURLPattern but that
// url.Parse rejects. The path is unescaped when possible and kept raw otherwise.
func splitURL(text string) NormalizedURL {
	u := NormalizedURL{Text: text}

	scheme, rest, _ := strings.Cut(text, "://")
	u.Scheme = strings.ToLower(scheme)

	rest, u.Fragment, _ = strings.Cut(rest, "#")
	rest, u.Query, _ = strings.Cut(rest, "?")

	authority, p := rest, ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		authority, p = rest[:i], rest[i:]
	}
	host, port, found := strings.Cut(authority, ":")
	u.Host = strings.ToLower(host)
	if found {
		u.Port = port
	}

	u.Path = p
	if unescaped, err := url.PathUnescape(p); err == nil {
		u.Path = unescaped
	}
	return u
}

// QueryValue returns the first value of key in the URL's query string.
func (u NormalizedURL) QueryValue(key string) string {
	values, err := url.ParseQuery(u.Query)
	if err != nil {
		return ""
	}
	return values.Get(key)
}

// Segments returns the non-empty path segments.
func (u NormalizedURL) Segments() []string {
	var out []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Digest returns the stable identifier for a URL: the SHA-1 hex digest of the
// lower-cased text, truncated to length characters (0 keeps all 40).
func Digest(text string, length int) string {
	sum := sha1.Sum([]byte(strings.ToLower(text))) //nolint:gosec
	id := hex.EncodeToString(sum[:])
	if length > 0 && length < len(id) {
		id = id[:length]
	}
	return id
}

// Caption derives a readable caption from the URL path: separators become
// spaces and only the first letter is upper-case. URLs without a path use the
// hostname.
func Caption(u NormalizedURL) string {
	caption := u.Host
	if u.Path != "" {
		caption = strings.TrimRight(u.Path, "/")
		caption = captionSeparators.ReplaceAllString(caption, " ")
		caption = whitespaceRun.ReplaceAllString(caption, " ")
	}
	return capitalize(strings.TrimSpace(caption))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// hostMatches reports whether host is domain or one of its subdomains.
func hostMatches(host, domain string) bool {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func registrableHost(host string) string {
	return strings.TrimPrefix(host, "www.")
}
