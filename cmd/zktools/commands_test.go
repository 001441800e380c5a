package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const offlineLinks = `https://example.com/some-cool_title
https://twitter.com/someuser
https://twitter.com/someuser
https://x.com/other/status/42`

func TestLinksCommand_Plain(t *testing.T) {
	out, err := execute(t, offlineLinks, "links")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "https://example.com/some-cool_title | Some Cool Title | example.com", lines[0])
	assert.Equal(t, "https://twitter.com/someuser | @someuser", lines[1])
	assert.Equal(t, "https://x.com/other/status/42 | Tweet by @other", lines[2])
}

func TestLinksCommand_SortOrder(t *testing.T) {
	input := "https://x.com/zeta\nhttps://example.com/alpha"

	out, err := execute(t, input, "links")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "https://example.com/alpha"), out)

	out, err = execute(t, input, "links", "--sort=false")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "https://x.com/zeta"), out)
}

func TestLinksCommand_MarkdownFromFile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "links.txt")
	require.NoError(t, os.WriteFile(input, []byte(offlineLinks), 0644))

	out, err := execute(t, "", "links", input, "--format", "md")
	require.NoError(t, err)

	assert.Contains(t, out, "- [Some Cool Title](https://example.com/some-cool_title) | example.com")
	assert.Contains(t, out, "- [Tweet](https://x.com/other/status/42) by @other")
}

func TestLinksCommand_JSON(t *testing.T) {
	out, err := execute(t, offlineLinks+"\nnot-a-url", "links", "--format", "json", "--sort")
	require.NoError(t, err)

	var doc struct {
		Records  map[string]map[string]any `json:"records"`
		Failures []map[string]string       `json:"failures"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Records, 3)
	require.Len(t, doc.Failures, 1)
	assert.Equal(t, "not-a-url", doc.Failures[0]["input"])
	for id, rec := range doc.Records {
		assert.Len(t, id, 10)
		assert.Equal(t, id, rec["id"])
	}
}

func TestLinksCommand_StrictAborts(t *testing.T) {
	_, err := execute(t, offlineLinks+"\nnot-a-url", "links", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to classify links")
}

func TestLinksCommand_Template(t *testing.T) {
	tmpl := filepath.Join(t.TempDir(), "notes.tmpl")
	require.NoError(t, os.WriteFile(tmpl, []byte("{{range .Records}}{{upper .Variant}}: {{.Title}}\n{{end}}"), 0644))

	out, err := execute(t, "https://example.com/some-cool_title", "links", "--template", tmpl)
	require.NoError(t, err)
	assert.Equal(t, "GENERIC: Some Cool Title\n", out)
}

func TestLinksCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, offlineLinks, "links", "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestLinksCommand_IDLengthFromEnv(t *testing.T) {
	t.Setenv("ZKTOOLS_ID_LENGTH", "0")
	out, err := execute(t, "https://twitter.com/someuser", "links", "--format", "json")
	require.NoError(t, err)

	var records map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	for id := range records {
		assert.Len(t, id, 40)
	}
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("ZKTOOLS_CONCURRENCY", "0")
	_, err := execute(t, offlineLinks, "links")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

func TestReformatCommand(t *testing.T) {
	input := "Links mentioned:\n[Cool](https://example.com/some-cool_title)\nhttps://twitter.com/someuser"

	out, err := execute(t, input, "reformat")
	require.NoError(t, err)
	assert.Contains(t, out, "Links mentioned:")
	assert.Contains(t, out, "https://example.com/some-cool_title | Some Cool Title | example.com")
	assert.Contains(t, out, "https://twitter.com/someuser | @someuser")

	out, err = execute(t, input, "reformat", "--markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "[@someuser](https://twitter.com/someuser)")
}

func TestReformatCommand_NegativeLength(t *testing.T) {
	_, err := execute(t, "https://twitter.com/someuser", "reformat", "--max-len", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestSimplifyCommand(t *testing.T) {
	input := "Guests: [Anna](https://twitter.com/annarose)\nSee [the paper](https://eprint.iacr.org/2021/370)"

	out, err := execute(t, input, "simplify")
	require.NoError(t, err)
	assert.Contains(t, out, "@annarose")
	assert.Contains(t, out, "the paper - https://eprint.iacr.org/2021/370")
}

func TestExtractLinksCommand(t *testing.T) {
	out, err := execute(t, "see https://a.example/x and http://b.example/y\nnothing here", "extract-links")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example/x\nhttp://b.example/y\n", out)
}

func TestSRTCommand(t *testing.T) {
	input := filepath.Join(t.TempDir(), "transcript.txt")
	require.NoError(t, os.WriteFile(input, []byte("Anna Rose (00:00:05):\nWelcome.\n\nTarun (00:00:12):\nThanks."), 0644))

	out, err := execute(t, "", "srt", input)
	require.NoError(t, err)
	assert.Equal(t, "1\n00:00:05,000 --> 00:00:12,000\nWelcome.\n\n2\n00:00:12,000 --> 00:00:17,000\nThanks.\n\n", out)
}

func TestSRTCommand_ParseError(t *testing.T) {
	_, err := execute(t, "no timestamp here:\nHello", "srt")
	require.Error(t, err)
}

func TestSRTCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "", "srt", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input file")
}

func TestArchiveCommand_InvalidMode(t *testing.T) {
	_, err := execute(t, "", "archive", "--mode", "video")
	require.Error(t, err)
}

func TestArchiveCommand_Eprint(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rss":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>IACR ePrint</title>
<item><title>Nova: Recursive Zero-Knowledge Arguments</title>
<link>` + srv.URL + `/2021/370</link>
<pubDate>Mon, 22 Mar 2021 00:00:00 +0000</pubDate></item>
</channel></rss>`))
		case "/2021/370.pdf":
			_, _ = w.Write([]byte("%PDF-1.4"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	outDir := t.TempDir()
	out, err := execute(t, "", "archive", srv.URL+"/rss", "--mode", "eprint", "--out", outDir)
	require.NoError(t, err)

	dir := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(dir, outDir))
	matches, err := filepath.Glob(filepath.Join(dir, "2021", "pdf", "370-*.pdf"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestGistCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gists/abc123" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"id":"abc123","files":{"notes.md":{"filename":"notes.md","content":"# Ep 250"}}}`))
	}))
	t.Cleanup(srv.Close)
	t.Setenv("ZKTOOLS_GIST_API", srv.URL)

	out, err := execute(t, "", "gist", "abc123", "notes.md")
	require.NoError(t, err)
	assert.Equal(t, "# Ep 250\n", out)

	_, err = execute(t, "", "gist", "abc123", "other.md")
	require.Error(t, err)
}

func TestGistCommand_RequiresTwoArgs(t *testing.T) {
	_, err := execute(t, "", "gist", "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestValidateCommand_SavedLinks(t *testing.T) {
	out, err := execute(t, offlineLinks+"\nnot-a-url", "links", "--format", "json")
	require.NoError(t, err)

	saved := filepath.Join(t.TempDir(), "links.json")
	require.NoError(t, os.WriteFile(saved, []byte(out), 0644))

	out, err = execute(t, "", "validate", saved)
	require.NoError(t, err)
	assert.Equal(t, saved+": valid\n", out)

	out, err = execute(t, `{}`, "validate")
	require.NoError(t, err)
	assert.Equal(t, "stdin: valid\n", out)
}

func TestValidateCommand_Invalid(t *testing.T) {
	_, err := execute(t, `{"abc": {"id": "abc", "url": "mailto:x"}}`, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateCommand_CustomSchema(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schema, []byte(`{"type": "object", "required": ["title"]}`), 0644))

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"title": "Ep 250"}`), 0644))
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"name": "Ep 250"}`), 0644))

	out, err := execute(t, "", "validate", good, "--schema", schema)
	require.NoError(t, err)
	assert.Equal(t, good+": valid\n", out)

	_, err = execute(t, "", "validate", bad, "--schema", schema)
	require.Error(t, err)

	_, err = execute(t, "{}", "validate", "--schema", schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a JSON file argument")
}
