// Package stats reduces a cycle's aggregated shows into the headline
// numbers the dashboard summary tiles display.
package stats

import (
	"showdeck/models"
)

// Summarize folds the aggregated show list into one WindowSummary. It
// is a pure reduction: nothing is fetched, nothing is cached.
func Summarize(shows []models.AggregatedShow, w models.Window) models.WindowSummary {
	s := models.WindowSummary{
		Window:      w,
		TotalSeries: len(shows),
	}

	var sumProgress, sumWindow float64
	for _, show := range shows {
		p := show.Progress
		if p.CurrentSeasonComplete {
			s.CompletedCurrentSeasons++
		}
		s.TotalEpisodes += p.TotalEpisodes
		s.DownloadedEpisodes += p.DownloadedEpisodes
		s.TotalSeasons += p.TotalSeasons
		s.MonitoredSeasons += p.MonitoredSeasons
		s.UnmonitoredSeasons += p.UnmonitoredSeasons

		s.EpisodesInRange += show.Window.EpisodesInRange
		s.DownloadedInRange += show.Window.DownloadedInRange
		if show.Window.EpisodesInRange > 0 {
			s.ShowsWithEpisodes++
		}

		sumProgress += p.Percentage
		sumWindow += show.Window.Percentage

		s.Overall.Add(p.Percentage)
		s.InRange.Add(show.Window.Percentage)
	}

	if len(shows) > 0 {
		s.AvgProgress = sumProgress / float64(len(shows))
		s.AvgWindowProgress = sumWindow / float64(len(shows))
	}
	s.OverallProgress = ratio(s.DownloadedEpisodes, s.TotalEpisodes)
	s.WindowProgress = ratio(s.DownloadedInRange, s.EpisodesInRange)
	return s
}

func ratio(downloaded, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(downloaded) / float64(total) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
