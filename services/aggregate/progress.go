package aggregate

import (
	"showdeck/models"
)

// Status bucket names, keyed off the overall percentage.
const (
	StatusComplete       = "complete"
	StatusAlmostComplete = "almost-complete"
	StatusHalfway        = "halfway"
	StatusStarted        = "started"
	StatusJustStarted    = "just-started"
	StatusNotStarted     = "not-started"
)

// StatusFor buckets an overall percentage.
func StatusFor(pct float64) string {
	switch {
	case pct >= 100:
		return StatusComplete
	case pct >= 75:
		return StatusAlmostComplete
	case pct >= 50:
		return StatusHalfway
	case pct >= 25:
		return StatusStarted
	case pct > 0:
		return StatusJustStarted
	default:
		return StatusNotStarted
	}
}

// percentage computes downloaded/total*100 clamped to [0, 100]; 0 when
// total is 0. The clamp matters: unmonitored-season credit can push the
// downloaded counter past the total.
func percentage(downloaded, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(downloaded) / float64(total) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// BuildProgress derives a show's completion state from the season
// statistics of its detail record. An unmonitored season contributes
// its full episode total as downloaded (deliberate policy: those
// seasons are treated as "done" rather than dragging the bar down).
// The current season is the highest season number with a non-zero
// episode total. An empty detail record yields the zero progress.
func BuildProgress(detail models.Series) models.ShowProgress {
	p := models.ShowProgress{Status: StatusNotStarted}
	if len(detail.Seasons) == 0 {
		return p
	}

	for _, season := range detail.Seasons {
		if season.SeasonNumber < 0 {
			continue
		}
		if season.SeasonNumber > p.CurrentSeason && season.Statistics.TotalEpisodeCount > 0 {
			p.CurrentSeason = season.SeasonNumber
		}
	}

	for _, season := range detail.Seasons {
		if season.SeasonNumber < 0 {
			continue
		}
		p.TotalSeasons++

		total := season.Statistics.TotalEpisodeCount
		downloaded := season.Statistics.EpisodeFileCount
		if season.Monitored {
			p.MonitoredSeasons++
		} else {
			p.UnmonitoredSeasons++
			downloaded = total
		}
		p.TotalEpisodes += total
		p.DownloadedEpisodes += downloaded

		seasonPct := percentage(downloaded, total)
		if season.SeasonNumber == p.CurrentSeason {
			p.CurrentSeasonProgress = seasonPct
			p.CurrentSeasonEpisodes = total
			p.CurrentSeasonDownloaded = downloaded
			p.CurrentSeasonComplete = seasonPct >= 100
		}

		p.Seasons = append(p.Seasons, models.SeasonProgress{
			Season:     season.SeasonNumber,
			Monitored:  season.Monitored,
			Total:      total,
			Downloaded: downloaded,
			Percentage: seasonPct,
			Complete:   seasonPct >= 100,
		})
	}

	p.Percentage = percentage(p.DownloadedEpisodes, p.TotalEpisodes)
	p.Status = StatusFor(p.Percentage)
	return p
}

// windowProgress counts this series' calendar episodes inside the
// window and the downloaded fraction among them. Works on the raw
// calendar list, so it is independent of season statistics.
func windowProgress(seriesID int, episodes []models.Episode, w models.Window) models.WindowProgress {
	var wp models.WindowProgress
	for _, ep := range episodes {
		if ep.SeriesID != seriesID || ep.AirDate == "" {
			continue
		}
		if !w.Contains(ep.AirDate) {
			continue
		}
		wp.EpisodesInRange++
		if ep.HasFile {
			wp.DownloadedInRange++
		}
	}
	wp.Percentage = percentage(wp.DownloadedInRange, wp.EpisodesInRange)
	return wp
}
