package aggregate

import (
	"testing"
	"time"

	"showdeck/models"
)

func season(n, total, downloaded int, monitored bool) models.Season {
	return models.Season{
		SeasonNumber: n,
		Monitored:    monitored,
		Statistics: models.SeasonStatistics{
			EpisodeFileCount:  downloaded,
			EpisodeCount:      total,
			TotalEpisodeCount: total,
		},
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, StatusComplete},
		{99.9, StatusAlmostComplete},
		{75, StatusAlmostComplete},
		{74.9, StatusHalfway},
		{50, StatusHalfway},
		{25, StatusStarted},
		{24.9, StatusJustStarted},
		{0.1, StatusJustStarted},
		{0, StatusNotStarted},
	}
	for _, tc := range tests {
		if got := StatusFor(tc.pct); got != tc.want {
			t.Fatalf("StatusFor(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}

func TestBuildProgressBasic(t *testing.T) {
	detail := models.Series{Seasons: []models.Season{
		season(1, 10, 10, true),
		season(2, 10, 5, true),
	}}

	p := BuildProgress(detail)
	if p.TotalEpisodes != 20 || p.DownloadedEpisodes != 15 {
		t.Fatalf("unexpected totals: %d/%d", p.DownloadedEpisodes, p.TotalEpisodes)
	}
	if p.Percentage != 75 {
		t.Fatalf("unexpected percentage: %v", p.Percentage)
	}
	if p.Status != StatusAlmostComplete {
		t.Fatalf("unexpected status: %q", p.Status)
	}
	if p.CurrentSeason != 2 {
		t.Fatalf("current season should be 2, got %d", p.CurrentSeason)
	}
	if p.CurrentSeasonProgress != 50 || p.CurrentSeasonComplete {
		t.Fatalf("unexpected current-season state: %v/%v", p.CurrentSeasonProgress, p.CurrentSeasonComplete)
	}
}

func TestBuildProgressUnmonitoredSeasonGetsFullCredit(t *testing.T) {
	detail := models.Series{Seasons: []models.Season{
		season(1, 10, 2, false),
		season(2, 10, 5, true),
	}}

	p := BuildProgress(detail)
	// Season 1 counts as 10/10 regardless of the two files on disk.
	if p.DownloadedEpisodes != 15 {
		t.Fatalf("unmonitored season should count as fully downloaded, got %d", p.DownloadedEpisodes)
	}
	if p.UnmonitoredSeasons != 1 || p.MonitoredSeasons != 1 {
		t.Fatalf("unexpected season split: %d/%d", p.MonitoredSeasons, p.UnmonitoredSeasons)
	}
	if !p.Seasons[0].Complete || p.Seasons[0].Percentage != 100 {
		t.Fatalf("unexpected season 1 progress: %+v", p.Seasons[0])
	}
}

func TestBuildProgressSkipsSpecials(t *testing.T) {
	detail := models.Series{Seasons: []models.Season{
		season(0, 5, 5, true),
		season(-1, 3, 0, true),
		season(1, 10, 10, true),
	}}

	p := BuildProgress(detail)
	if p.TotalSeasons != 2 {
		t.Fatalf("negative season numbers must be skipped, got %d seasons", p.TotalSeasons)
	}
	if p.TotalEpisodes != 15 {
		t.Fatalf("unexpected total: %d", p.TotalEpisodes)
	}
}

func TestBuildProgressEmptyDetail(t *testing.T) {
	p := BuildProgress(models.Series{})
	if p.Status != StatusNotStarted || p.Percentage != 0 || p.TotalSeasons != 0 {
		t.Fatalf("empty detail should yield zero progress, got %+v", p)
	}
}

func TestBuildProgressCurrentSeasonSkipsEmptyPlaceholder(t *testing.T) {
	// Sonarr lists announced seasons with zero episodes; the current
	// season is the highest one that actually has episodes.
	detail := models.Series{Seasons: []models.Season{
		season(1, 10, 10, true),
		season(2, 8, 3, true),
		season(3, 0, 0, true),
	}}

	p := BuildProgress(detail)
	if p.CurrentSeason != 2 {
		t.Fatalf("current season should skip the empty season 3, got %d", p.CurrentSeason)
	}
	if p.CurrentSeasonEpisodes != 8 || p.CurrentSeasonDownloaded != 3 {
		t.Fatalf("unexpected current-season counts: %d/%d", p.CurrentSeasonDownloaded, p.CurrentSeasonEpisodes)
	}
}

func TestPercentageClamps(t *testing.T) {
	if got := percentage(12, 10); got != 100 {
		t.Fatalf("expected clamp to 100, got %v", got)
	}
	if got := percentage(5, 0); got != 0 {
		t.Fatalf("expected 0 for zero total, got %v", got)
	}
}

func TestWindowProgress(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	w := models.NewWindow(now, 3, 3)
	episodes := []models.Episode{
		{SeriesID: 7, AirDate: "2026-08-29", HasFile: true},
		{SeriesID: 7, AirDate: "2026-08-31", HasFile: false},
		{SeriesID: 7, AirDate: "2026-09-15", HasFile: true}, // outside
		{SeriesID: 8, AirDate: "2026-08-30", HasFile: true}, // other series
		{SeriesID: 7, AirDate: "", HasFile: true},
	}

	wp := windowProgress(7, episodes, w)
	if wp.EpisodesInRange != 2 || wp.DownloadedInRange != 1 {
		t.Fatalf("unexpected window counts: %d/%d", wp.DownloadedInRange, wp.EpisodesInRange)
	}
	if wp.Percentage != 50 {
		t.Fatalf("unexpected window percentage: %v", wp.Percentage)
	}
}
