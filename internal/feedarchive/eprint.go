package feedarchive

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// archivePaper stores one ePrint entry as
// <dir>/<year>/json/<number>-<name>.json and <dir>/<year>/pdf/<number>-<name>.pdf.
func (a *Archiver) archivePaper(ctx context.Context, r *run, item *gofeed.Item) error {
	year, number, ok := paperID(item.Link)
	if !ok {
		a.logger.Warn("entry link is not an ePrint URL", zap.String("link", item.Link))
		r.fail("%s: not an ePrint link %q", item.Title, item.Link)
		return nil
	}

	name := number + "-" + Autoname(item.Title, "", "")
	yearDir := filepath.Join(r.dir, year)

	if err := a.save(r, filepath.Join(yearDir, "json", name+".json"), item); err != nil {
		return err
	}
	_, err := a.download(ctx, r, strings.TrimRight(item.Link, "/")+".pdf", filepath.Join(yearDir, "pdf", name+".pdf"))
	return err
}

// paperID splits https://eprint.iacr.org/2022/509 into "2022" and "509".
func paperID(link string) (year, number string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", "", false
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) < 2 || segs[len(segs)-2] == "" || segs[len(segs)-1] == "" {
		return "", "", false
	}
	return segs[len(segs)-2], segs[len(segs)-1], true
}
