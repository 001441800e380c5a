// Package feedarchive mirrors a podcast or IACR ePrint RSS feed to disk:
// the feed itself, one JSON document per entry, the media each entry links to
// and a manifest of SHA-256 file hashes.
package feedarchive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/zkfm/zktools/internal/fetch"
	"github.com/zkfm/zktools/internal/logging"
)

// Mode selects how feed entries are archived.
type Mode string

const (
	// ModePodcast stores each episode's audio, cover image and transcript.
	ModePodcast Mode = "podcast"
	// ModeEprint stores each paper's PDF, grouped by publication year.
	ModeEprint Mode = "eprint"
)

// ParseMode accepts "podcast" (or "") and "eprint".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModePodcast:
		return ModePodcast, nil
	case ModeEprint:
		return ModeEprint, nil
	}
	return "", fmt.Errorf("unknown archive mode %q", s)
}

// ErrLocked is returned when another run holds the archive directory.
var ErrLocked = errors.New("archive directory is locked by another run")

// Source is the HTTP access an Archiver needs; *fetch.Client implements it.
type Source interface {
	Get(ctx context.Context, url string) (*fetch.Result, error)
	Download(ctx context.Context, url string, dst io.Writer) (int64, error)
}

// Options configures an archive run.
type Options struct {
	FeedURL   string
	OutDir    string // the archive is written to <OutDir>/<Autoname(FeedURL)>-out
	Overwrite bool   // re-download files that already exist
	Mode      Mode
}

// FileHash identifies one archived file.
type FileHash struct {
	URL    string `json:"url,omitempty"`
	SHA256 string `json:"sha256"`
}

// Manifest summarizes one archive run.
type Manifest struct {
	RunID      string              `json:"run_id"`
	FeedURL    string              `json:"feed_url"`
	FeedTitle  string              `json:"feed_title"`
	Mode       Mode                `json:"mode"`
	Dir        string              `json:"dir"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Entries    int                 `json:"entries"`
	LastTitle  string              `json:"last_title,omitempty"`
	Files      map[string]FileHash `json:"files"`
	Failures   []string            `json:"failures,omitempty"`
}

// Archiver runs feed archives.
type Archiver struct {
	source Source
	opts   Options
	logger *zap.Logger
	parser *gofeed.Parser
	now    func() time.Time
}

// New creates an archiver.
func New(source Source, opts Options, logger *zap.Logger) *Archiver {
	if opts.Mode == "" {
		opts.Mode = ModePodcast
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	return &Archiver{
		source: source,
		opts:   opts,
		logger: logging.OrNop(logger),
		parser: gofeed.NewParser(),
		now:    time.Now,
	}
}

// Dir returns the directory the archive is written to.
func (a *Archiver) Dir() string {
	return filepath.Join(a.opts.OutDir, Autoname(a.opts.FeedURL, "", "")+"-out")
}

// run carries the state of one Save call.
type run struct {
	dir      string
	manifest *Manifest
}

func (r *run) record(path string, hash FileHash) {
	rel, err := filepath.Rel(r.dir, path)
	if err != nil {
		rel = path
	}
	r.manifest.Files[filepath.ToSlash(rel)] = hash
}

func (r *run) fail(format string, args ...any) {
	r.manifest.Failures = append(r.manifest.Failures, fmt.Sprintf(format, args...))
}

// Save fetches the feed once, archives every entry and writes the feed
// backups, the file hashes and the manifest. Download failures of single
// files are logged and listed in the manifest; file system failures abort.
func (a *Archiver) Save(ctx context.Context) (*Manifest, error) {
	dir := a.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, ".zktools.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			a.logger.Warn("failed to release archive lock", zap.Error(err))
		}
	}()

	started := a.now()
	r := &run{
		dir: dir,
		manifest: &Manifest{
			RunID:     uuid.NewString(),
			FeedURL:   a.opts.FeedURL,
			Mode:      a.opts.Mode,
			Dir:       dir,
			StartedAt: started,
			Files:     make(map[string]FileHash),
		},
	}
	a.logger.Info("archiving feed",
		zap.String("run_id", r.manifest.RunID),
		zap.String("feed", a.opts.FeedURL),
		zap.String("mode", string(a.opts.Mode)),
		zap.String("dir", dir))

	raw, err := a.source.Get(ctx, a.opts.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	feed, err := a.parser.Parse(bytes.NewReader(raw.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	r.manifest.FeedTitle = feed.Title

	for _, item := range feed.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch a.opts.Mode {
		case ModeEprint:
			err = a.archivePaper(ctx, r, item)
		default:
			err = a.archiveEpisode(ctx, r, item)
		}
		if err != nil {
			return nil, err
		}
	}

	r.manifest.Entries = len(feed.Items)
	if len(feed.Items) > 0 {
		r.manifest.LastTitle = feed.Items[0].Title
	}

	today := started.Format(dateLayout)
	if err := a.writeBackups(r, today, raw.Body, feed); err != nil {
		return nil, err
	}

	a.logger.Info("archived feed",
		zap.Int("entries", r.manifest.Entries),
		zap.Int("files", len(r.manifest.Files)),
		zap.Int("failures", len(r.manifest.Failures)),
		zap.String("last_entry", r.manifest.LastTitle))
	return r.manifest, nil
}

const dateLayout = "20060102"

// writeBackups stores the raw feed, its parsed JSON form, the file hashes
// and the manifest. They are rewritten on every run.
func (a *Archiver) writeBackups(r *run, today string, rawFeed []byte, feed *gofeed.Feed) error {
	feedName := Autoname(a.opts.FeedURL, today, "xml")
	if _, err := writeFile(filepath.Join(r.dir, feedName), rawFeed); err != nil {
		return err
	}
	if _, err := writeJSON(filepath.Join(r.dir, Autoname(a.opts.FeedURL, today, "json")), feed); err != nil {
		return err
	}
	if _, err := writeJSON(filepath.Join(r.dir, Autoname("filehashes", today, "json")), r.manifest.Files); err != nil {
		return err
	}

	r.manifest.FinishedAt = a.now()
	if _, err := writeJSON(filepath.Join(r.dir, Autoname("manifest", today, "json")), r.manifest); err != nil {
		return err
	}
	return nil
}
