// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zkfm/zktools/internal/feedarchive"
	"github.com/zkfm/zktools/internal/linkdoc"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// clip shortens s to n runes, ending in "..." when cut.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCollectionSummary outputs record counts per variant and the inputs
// that could not be classified.
func (p *Printer) PrintCollectionSummary(coll *linkdoc.Collection) {
	if coll == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Inputs:   %d\n", len(coll.URLs)))
	sb.WriteString(fmt.Sprintf("Records:  %d\n", coll.Len()))
	if collisions := len(coll.URLs) - coll.Len() - len(coll.Failures); collisions > 0 {
		sb.WriteString(fmt.Sprintf("Merged:   %d (same identifier)\n", collisions))
	}

	counts := make(map[linkdoc.Variant]int)
	for _, r := range coll.Records {
		counts[r.Variant]++
	}
	if len(counts) > 0 {
		variants := make([]string, 0, len(counts))
		for v := range counts {
			variants = append(variants, string(v))
		}
		sort.Strings(variants)

		sb.WriteString("\nBy variant:\n")
		for _, v := range variants {
			sb.WriteString(fmt.Sprintf("  • %-8s %d\n", v, counts[linkdoc.Variant(v)]))
		}
	}

	if len(coll.Failures) > 0 {
		sb.WriteString("\nFailed:\n")
		count := min(len(coll.Failures), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", coll.Failures[i].Input))
		}
		if len(coll.Failures) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(coll.Failures)-maxItemsToShow))
		}
	}

	p.printBox("LINK COLLECTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintArchiveManifest outputs the outcome of a feed archive run.
func (p *Printer) PrintArchiveManifest(m *feedarchive.Manifest) {
	if m == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Feed:     %s\n", m.FeedTitle))
	sb.WriteString(fmt.Sprintf("Mode:     %s\n", m.Mode))
	sb.WriteString(fmt.Sprintf("Run:      %s\n", m.RunID))
	sb.WriteString(fmt.Sprintf("Entries:  %d\n", m.Entries))
	sb.WriteString(fmt.Sprintf("Files:    %d\n", len(m.Files)))
	sb.WriteString(fmt.Sprintf("Took:     %s\n", m.FinishedAt.Sub(m.StartedAt).Round(time.Millisecond)))
	if m.LastTitle != "" {
		sb.WriteString(fmt.Sprintf("Latest:   %s\n", m.LastTitle))
	}

	if len(m.Failures) > 0 {
		sb.WriteString(fmt.Sprintf("\n%d failures:\n", len(m.Failures)))
		count := min(len(m.Failures), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", m.Failures[i]))
		}
		if len(m.Failures) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(m.Failures)-maxItemsToShow))
		}
	}

	p.printBox("FEED ARCHIVE", strings.TrimSuffix(sb.String(), "\n"))
}
