// Package images keeps local copies of series posters so the rendered
// dashboard never hot-links Sonarr or TheTVDB.
package images

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"showdeck/models"
)

// freshFor is how long a cached poster is trusted before it is
// re-downloaded.
const freshFor = 7 * 24 * time.Hour

// Fetcher downloads raw image bytes, attaching auth when the URL points
// back at Sonarr.
type Fetcher interface {
	FetchImage(ctx context.Context, rawURL string) ([]byte, error)
}

// Cache stores posters under dir as {seriesID}_poster.jpg and hands the
// renderer paths relative to the HTML file. A disabled cache passes the
// remote URL through untouched.
type Cache struct {
	fs      afero.Fs
	fetcher Fetcher
	baseURL string
	dir     string
	size    string
	enabled bool
	now     func() time.Time
	log     *log.Entry
}

// New creates a poster cache rooted at dir on the real filesystem.
// baseURL is the Sonarr address that relative image URLs are joined to.
func New(fetcher Fetcher, baseURL, dir, size string, enabled bool) *Cache {
	return NewWithFs(afero.NewOsFs(), fetcher, baseURL, dir, size, enabled)
}

// NewWithFs is New with an explicit filesystem, for tests.
func NewWithFs(fs afero.Fs, fetcher Fetcher, baseURL, dir, size string, enabled bool) *Cache {
	return &Cache{
		fs:      fs,
		fetcher: fetcher,
		baseURL: baseURL,
		dir:     dir,
		size:    size,
		enabled: enabled,
		now:     time.Now,
		log:     log.WithField("component", "images"),
	}
}

// PosterURL picks the remote poster URL for a series: the remotePoster
// field when present, otherwise the first image with coverType
// "poster". TheTVDB originals are swapped for their resized _cache
// variant, and Sonarr-relative URLs are joined to the Sonarr base URL.
// Returns "" when the series has no poster at all.
func (c *Cache) PosterURL(s models.Series) string {
	raw := s.RemotePoster
	if raw == "" {
		for _, img := range s.Images {
			if img.CoverType != "poster" {
				continue
			}
			raw = img.RemoteURL
			if raw == "" {
				raw = img.URL
			}
			break
		}
	}
	if raw == "" {
		return ""
	}

	if strings.Contains(raw, "thetvdb.com") && strings.Contains(raw, "/banners/") && !strings.Contains(raw, "/banners/_cache/") {
		raw = strings.Replace(raw, "/banners/", "/banners/_cache/", 1)
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimRight(c.baseURL, "/") + raw
	}
	return raw
}

// Ensure makes sure a local copy of the poster exists and is fresh,
// downloading it when needed. The returned path is relative to the
// output HTML file ("sonarr_images/123_poster.jpg"); "" means the
// caller should fall back to the remote URL or a placeholder.
func (c *Cache) Ensure(ctx context.Context, rawURL string, seriesID int) string {
	if !c.enabled || rawURL == "" {
		return ""
	}

	name := fmt.Sprintf("%d_poster.jpg", seriesID)
	full := filepath.Join(c.dir, name)
	rel := path.Join(filepath.Base(filepath.Clean(c.dir)), name)

	if info, err := c.fs.Stat(full); err == nil {
		if c.now().Sub(info.ModTime()) < freshFor {
			return rel
		}
	}

	if err := c.fs.MkdirAll(c.dir, 0o755); err != nil {
		c.log.WithError(err).Warn("cannot create image cache dir")
		return ""
	}

	data, err := c.fetcher.FetchImage(ctx, c.sized(rawURL))
	if err != nil {
		c.log.WithError(err).WithField("series", seriesID).Warn("poster download failed")
		// A stale copy beats a placeholder.
		if _, statErr := c.fs.Stat(full); statErr == nil {
			return rel
		}
		return ""
	}

	if err := afero.WriteFile(c.fs, full, data, 0o644); err != nil {
		c.log.WithError(err).WithField("series", seriesID).Warn("poster write failed")
		return ""
	}
	// Stamp the download time explicitly; freshness checks key off it.
	if err := c.fs.Chtimes(full, c.now(), c.now()); err != nil {
		c.log.WithError(err).Debug("cannot set poster mtime")
	}
	return rel
}

// Prune deletes cached posters older than maxAge and reports how many
// were removed.
func (c *Cache) Prune(maxAge time.Duration) (int, error) {
	if !c.enabled {
		return 0, nil
	}
	entries, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading image cache dir: %w", err)
	}

	removed := 0
	cutoff := c.now().Add(-maxAge)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), "_poster.jpg") {
			continue
		}
		if e.ModTime().After(cutoff) {
			continue
		}
		if err := c.fs.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			c.log.WithError(err).WithField("file", e.Name()).Warn("prune failed")
			continue
		}
		removed++
	}
	if removed > 0 {
		c.log.WithField("removed", removed).Info("pruned stale posters")
	}
	return removed, nil
}

// sized appends TheTVDB's resize query parameter when a size is
// configured and the URL is a TVDB one.
func (c *Cache) sized(rawURL string) string {
	if c.size == "" || !strings.Contains(rawURL, "thetvdb.com") {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + "w=" + c.size
}
