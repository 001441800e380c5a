package linkdoc

import (
	"path"
	"strings"
)

// githubHandler scrapes repository and release pages. In the tools context
// (a show-notes section made only of GitHub links) the publication is omitted.
type githubHandler struct {
	genericHandler
	tools bool
}

func (githubHandler) variant() Variant { return VariantGitHub }

func (githubHandler) match(u NormalizedURL) bool {
	return strings.Contains(u.Host, "github.com")
}

func (githubHandler) target(u NormalizedURL) string { return u.Text }

// Applied after "·" has become "|" so the site suffix matches.
var githubTitleReplacer = strings.NewReplacer(
	"Release ", "Update: ",
	" | GitHub", "",
	"GitHub - ", "",
)

func (githubHandler) title(u NormalizedURL, p Page) string {
	title := collapseSpace(strings.ReplaceAll(p.Title(), "·", "|"))
	title = strings.TrimSpace(githubTitleReplacer.Replace(title))

	if strings.Contains(u.Path, "releases/") {
		tag := path.Base(strings.TrimRight(u.Path, "/"))
		if tag != "" && !strings.Contains(title, tag) {
			title = title + " " + tag
		}
	}
	return title
}

func (h githubHandler) plainLine(m linkMeta) string {
	if h.tools {
		return joinParts(m.url.Text, m.title)
	}
	return joinParts(m.url.Text, m.title, m.publication)
}

func (h githubHandler) markdownLine(m linkMeta) string {
	if h.tools {
		return markdownLink(m.title, m.url.Text)
	}
	return markdownLink(m.title, m.url.Text) + " | " + m.publication
}
