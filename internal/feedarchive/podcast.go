package feedarchive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/zkfm/zktools/internal/transcript"
)

// archiveEpisode stores one podcast episode under <dir>/<name>/ as
// <date>_<name>.{json,mp3,<image ext>,txt,srt} plus any cover art embedded
// in the audio.
func (a *Archiver) archiveEpisode(ctx context.Context, r *run, item *gofeed.Item) error {
	name := Autoname(item.Title, "", "")
	base := filepath.Join(r.dir, name, a.published(item)+"_"+name)
	log := a.logger.With(zap.String("episode", item.Title))

	if err := a.save(r, base+".json", item); err != nil {
		return err
	}

	if audioURL := enclosureURL(item); audioURL == "" {
		log.Warn("episode has no enclosure")
		r.fail("%s: no enclosure", item.Title)
	} else {
		ok, err := a.download(ctx, r, audioURL, base+".mp3")
		if err != nil {
			return err
		}
		if ok {
			if err := a.extractCoverArt(r, base+".mp3", base); err != nil {
				return err
			}
		}
	}

	if imageURL := stripQuery(episodeImage(item)); imageURL != "" {
		ext := strings.TrimPrefix(path.Ext(imageURL), ".")
		if ext == "" {
			ext = "jpg"
		}
		if _, err := a.download(ctx, r, imageURL, base+"."+ext); err != nil {
			return err
		}
	}

	transcriptURL := stripQuery(transcriptLink(item))
	if transcriptURL == "" {
		log.Debug("episode has no transcript")
		return nil
	}
	ok, err := a.download(ctx, r, transcriptURL, base+".txt")
	if err != nil || !ok {
		return err
	}
	return a.convertTranscript(r, base, log)
}

// published is the entry's publication date as yyyymmdd, or today's date.
func (a *Archiver) published(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.Format(dateLayout)
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.Format(dateLayout)
	default:
		return a.now().Format(dateLayout)
	}
}

func enclosureURL(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}

func episodeImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if item.ITunesExt != nil {
		return item.ITunesExt.Image
	}
	return ""
}

// transcriptLink returns the <podcast:transcript> URL, preferring plain text.
func transcriptLink(item *gofeed.Item) string {
	links := item.Extensions["podcast"]["transcript"]
	for _, l := range links {
		if strings.HasPrefix(l.Attrs["type"], "text/plain") {
			return l.Attrs["url"]
		}
	}
	if len(links) > 0 {
		return links[0].Attrs["url"]
	}
	return ""
}

func stripQuery(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}

// extractCoverArt writes the picture embedded in the audio's tags to
// <base>_0.<ext>.
func (a *Archiver) extractCoverArt(r *run, audioPath, base string) error {
	f, err := os.Open(audioPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", audioPath, err)
	}
	defer func() { _ = f.Close() }()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		if !errors.Is(err, tag.ErrNoTagsFound) {
			a.logger.Debug("unreadable audio tags", zap.String("path", audioPath), zap.Error(err))
		}
		return nil
	}
	pic := meta.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil
	}

	ext := pic.Ext
	if ext == "" {
		ext = "jpg"
	}
	imgPath := fmt.Sprintf("%s_0.%s", base, ext)
	if exists(imgPath) && !a.opts.Overwrite {
		a.logger.Debug("skipping cached cover art", zap.String("path", imgPath))
		sum, err := hashFile(imgPath)
		if err != nil {
			return fmt.Errorf("failed to hash %s: %w", imgPath, err)
		}
		r.record(imgPath, FileHash{SHA256: sum})
		return nil
	}

	sum, err := writeFile(imgPath, pic.Data)
	if err != nil {
		return err
	}
	a.logger.Info("wrote embedded cover art", zap.String("path", imgPath))
	r.record(imgPath, FileHash{SHA256: sum})
	return nil
}

// convertTranscript writes <base>.srt next to the downloaded transcript.
// Transcripts in an unexpected layout are logged and skipped.
func (a *Archiver) convertTranscript(r *run, base string, log *zap.Logger) error {
	text, err := os.ReadFile(base + ".txt")
	if err != nil {
		return fmt.Errorf("failed to read transcript: %w", err)
	}

	srt, err := transcript.ToSRT(string(text))
	if err != nil {
		log.Warn("transcript not convertible to SRT", zap.Error(err))
		return nil
	}
	if srt == "" {
		return nil
	}

	sum, err := writeFile(base+".srt", []byte(srt))
	if err != nil {
		return err
	}
	r.record(base+".srt", FileHash{SHA256: sum})
	return nil
}
