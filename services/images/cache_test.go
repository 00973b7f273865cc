package images

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"

	"showdeck/models"
)

type fakeFetcher struct {
	data  []byte
	err   error
	calls int
	urls  []string
}

func (f *fakeFetcher) FetchImage(_ context.Context, rawURL string) ([]byte, error) {
	f.calls++
	f.urls = append(f.urls, rawURL)
	return f.data, f.err
}

func testCache(t *testing.T, fetcher Fetcher) (*Cache, afero.Fs, *time.Time) {
	t.Helper()
	fs := afero.NewMemMapFs()
	c := NewWithFs(fs, fetcher, "http://sonarr:8989", "posters", "500", true)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, fs, &now
}

func TestEnsureDownloadsAndReturnsRelativePath(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("jpeg")}
	c, fs, _ := testCache(t, fetcher)

	got := c.Ensure(context.Background(), "https://artworks.thetvdb.com/banners/_cache/posters/1.jpg", 42)
	if got != "posters/42_poster.jpg" {
		t.Fatalf("unexpected path: %q", got)
	}
	data, err := afero.ReadFile(fs, "posters/42_poster.jpg")
	if err != nil || string(data) != "jpeg" {
		t.Fatalf("cached file not written: %v %q", err, data)
	}
	if fetcher.urls[0] != "https://artworks.thetvdb.com/banners/_cache/posters/1.jpg?w=500" {
		t.Fatalf("size parameter missing: %q", fetcher.urls[0])
	}
}

func TestEnsureSkipsFreshCopies(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("jpeg")}
	c, _, now := testCache(t, fetcher)

	c.Ensure(context.Background(), "http://img/a.jpg", 1)
	*now = now.Add(time.Hour)
	c.Ensure(context.Background(), "http://img/a.jpg", 1)
	if fetcher.calls != 1 {
		t.Fatalf("fresh copy should not re-download, got %d calls", fetcher.calls)
	}

	*now = now.Add(8 * 24 * time.Hour)
	c.Ensure(context.Background(), "http://img/a.jpg", 1)
	if fetcher.calls != 2 {
		t.Fatalf("stale copy should re-download, got %d calls", fetcher.calls)
	}
}

func TestEnsureKeepsStaleCopyOnFailedDownload(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("jpeg")}
	c, _, now := testCache(t, fetcher)

	c.Ensure(context.Background(), "http://img/a.jpg", 7)
	*now = now.Add(8 * 24 * time.Hour)
	fetcher.err = errors.New("boom")

	got := c.Ensure(context.Background(), "http://img/a.jpg", 7)
	if got != "posters/7_poster.jpg" {
		t.Fatalf("stale copy should still be served, got %q", got)
	}
}

func TestEnsureDisabled(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("jpeg")}
	fs := afero.NewMemMapFs()
	c := NewWithFs(fs, fetcher, "http://sonarr:8989", "posters", "", false)

	if got := c.Ensure(context.Background(), "http://img/a.jpg", 1); got != "" {
		t.Fatalf("disabled cache should return empty path, got %q", got)
	}
	if fetcher.calls != 0 {
		t.Fatal("disabled cache must not download")
	}
}

func TestPosterURL(t *testing.T) {
	c, _, _ := testCache(t, &fakeFetcher{})

	tests := []struct {
		name   string
		series models.Series
		want   string
	}{
		{
			"remote poster preferred",
			models.Series{RemotePoster: "https://artworks.thetvdb.com/banners/posters/5.jpg"},
			"https://artworks.thetvdb.com/banners/_cache/posters/5.jpg",
		},
		{
			"already cached variant untouched",
			models.Series{RemotePoster: "https://artworks.thetvdb.com/banners/_cache/posters/5.jpg"},
			"https://artworks.thetvdb.com/banners/_cache/posters/5.jpg",
		},
		{
			"poster cover type from images",
			models.Series{Images: []models.Image{
				{CoverType: "fanart", RemoteURL: "http://img/fanart.jpg"},
				{CoverType: "poster", RemoteURL: "http://img/poster.jpg"},
			}},
			"http://img/poster.jpg",
		},
		{
			"relative url joined to base",
			models.Series{Images: []models.Image{
				{CoverType: "poster", URL: "/MediaCover/5/poster.jpg"},
			}},
			"http://sonarr:8989/MediaCover/5/poster.jpg",
		},
		{
			"no poster",
			models.Series{Images: []models.Image{{CoverType: "fanart", RemoteURL: "x"}}},
			"",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.PosterURL(tc.series); got != tc.want {
				t.Fatalf("PosterURL = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPrune(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("jpeg")}
	c, fs, now := testCache(t, fetcher)

	c.Ensure(context.Background(), "http://img/a.jpg", 1)
	*now = now.Add(31 * 24 * time.Hour)
	c.Ensure(context.Background(), "http://img/b.jpg", 2)

	removed, err := c.Prune(30 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, err := fs.Stat("posters/1_poster.jpg"); err == nil {
		t.Fatal("old poster should be gone")
	}
	if _, err := fs.Stat("posters/2_poster.jpg"); err != nil {
		t.Fatal("recent poster should survive")
	}
}

func TestPruneMissingDir(t *testing.T) {
	c, _, _ := testCache(t, &fakeFetcher{})
	removed, err := c.Prune(time.Hour)
	if err != nil || removed != 0 {
		t.Fatalf("missing dir should be a no-op, got %d, %v", removed, err)
	}
}
