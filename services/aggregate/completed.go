package aggregate

import (
	"sort"
	"time"

	"showdeck/models"
)

const maxCompletedSeasons = 10

// CompletedSeasonsInWindow finds shows whose current season is fully
// downloaded and whose latest calendar episode of that season airs
// inside the window. Sorted by completion date descending, newest
// first, capped at 10 entries; the renderer shows the top slice.
func CompletedSeasonsInWindow(shows []models.AggregatedShow, episodes []models.Episode, w models.Window) []models.CompletedSeason {
	type dated struct {
		entry models.CompletedSeason
		when  time.Time
	}
	var completed []dated

	for _, show := range shows {
		if !show.Progress.CurrentSeasonComplete {
			continue
		}

		// Latest airing of the current season, by (date, episode).
		var latest time.Time
		var latestEpisode int
		var found bool
		for _, ep := range episodes {
			if ep.SeriesID != show.SeriesID || ep.SeasonNumber != show.Progress.CurrentSeason {
				continue
			}
			d, err := time.Parse("2006-01-02", ep.AirDate)
			if err != nil {
				continue
			}
			if !found || d.After(latest) || (d.Equal(latest) && ep.EpisodeNumber > latestEpisode) {
				latest = d
				latestEpisode = ep.EpisodeNumber
				found = true
			}
		}
		if !found || !w.Contains(latest.Format("2006-01-02")) {
			continue
		}

		completed = append(completed, dated{
			entry: models.CompletedSeason{
				SeriesID:       show.SeriesID,
				Title:          show.Title,
				Slug:           show.Slug,
				Season:         show.Progress.CurrentSeason,
				CompletionDate: latest.Format("Jan 02, 2006"),
				TotalEpisodes:  show.Progress.CurrentSeasonEpisodes,
				PosterURL:      show.PosterURL,
			},
			when: latest,
		})
	}

	sort.Slice(completed, func(i, j int) bool {
		if !completed[i].when.Equal(completed[j].when) {
			return completed[i].when.After(completed[j].when)
		}
		return completed[i].entry.Title < completed[j].entry.Title
	})
	if len(completed) > maxCompletedSeasons {
		completed = completed[:maxCompletedSeasons]
	}

	out := make([]models.CompletedSeason, len(completed))
	for i, d := range completed {
		out[i] = d.entry
	}
	return out
}
