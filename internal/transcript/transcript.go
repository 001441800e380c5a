// Package transcript converts timestamped episode transcripts to SubRip (SRT).
//
// A transcript is a sequence of blocks separated by blank lines. Each block
// opens with a "Speaker (HH:MM:SS):" header followed by the spoken text:
//
//	Anna Rose (00:00:05):
//	Welcome to Zero Knowledge.
package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// LastClipDuration is how long the final clip stays on screen; it has no
// following clip to end at.
const LastClipDuration = 5 * time.Second

var (
	blockSeparator = regexp.MustCompile(`\n[ \t]*\n`)
	clipStart      = regexp.MustCompile(`(\d\d):(\d\d):(\d\d)`)
	clipHeader     = regexp.MustCompile(`^\s*(.*?)\s*\(\d\d:\d\d:\d\d\)\s*:`)
	clipBody       = regexp.MustCompile(`\):[ \t]*\n?(.+)`)
)

// ParseError reports a transcript block that could not be read.
type ParseError struct {
	Block   int // 1-based
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("transcript block %d: %s", e.Block, e.Message)
}

// Clip is one subtitle entry.
type Clip struct {
	Index   int // 1-based
	Speaker string
	Start   time.Duration
	End     time.Duration
	Body    string
}

// Parse splits text into clips. Each clip ends where the next one starts.
func Parse(text string) ([]Clip, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil, nil
	}

	blocks := blockSeparator.Split(text, -1)
	clips := make([]Clip, 0, len(blocks))
	for i, block := range blocks {
		n := i + 1

		ts := clipStart.FindStringSubmatch(block)
		if ts == nil {
			return nil, &ParseError{Block: n, Message: "missing HH:MM:SS timestamp"}
		}
		body := clipBody.FindStringSubmatch(block)
		if body == nil || strings.TrimSpace(body[1]) == "" {
			return nil, &ParseError{Block: n, Message: "missing text after speaker header"}
		}

		clip := Clip{
			Index: n,
			Start: hms(ts[1], ts[2], ts[3]),
			Body:  strings.TrimSpace(body[1]),
		}
		if h := clipHeader.FindStringSubmatch(block); h != nil {
			clip.Speaker = h[1]
		}
		if len(clips) > 0 {
			clips[len(clips)-1].End = clip.Start
		}
		clips = append(clips, clip)
	}

	last := &clips[len(clips)-1]
	last.End = last.Start + LastClipDuration
	return clips, nil
}

// ToSRT converts a transcript to SRT text.
func ToSRT(text string) (string, error) {
	clips, err := Parse(text)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, c := range clips {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", c.Index, FormatTimestamp(c.Start), FormatTimestamp(c.End), c.Body)
	}
	return sb.String(), nil
}

// FormatTimestamp renders d as an SRT timestamp, "HH:MM:SS,mmm".
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func hms(h, m, s string) time.Duration {
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	seconds, _ := strconv.Atoi(s)
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
}
