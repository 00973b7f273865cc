package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"showdeck/models"
	"showdeck/utils"
)

// Display truncation budgets, matching the rendered card widths.
const (
	maxEpisodeTitleLength = 25
	maxShowTitleLength    = 30
	maxMultiEpisodeTitles = 2
	maxEpisodeListLength  = 15
)

// groupByDate collects a series' calendar episodes into per-air-date
// groups, each sorted by (season, episode).
func groupByDate(episodes []models.Episode) map[string][]models.Episode {
	grouped := make(map[string][]models.Episode)
	for _, ep := range episodes {
		if ep.AirDate == "" {
			continue
		}
		grouped[ep.AirDate] = append(grouped[ep.AirDate], ep)
	}
	for date, eps := range grouped {
		sort.Slice(eps, func(i, j int) bool {
			if eps[i].SeasonNumber != eps[j].SeasonNumber {
				return eps[i].SeasonNumber < eps[j].SeasonNumber
			}
			return eps[i].EpisodeNumber < eps[j].EpisodeNumber
		})
		grouped[date] = eps
	}
	return grouped
}

// episodeRangeLabel formats the episode-number part of a multi-episode
// slot: a dash range when the sorted numbers are consecutive, a comma
// list for up to three scattered numbers, and "first two +N more"
// beyond that.
func episodeRangeLabel(numbers []int) string {
	if len(numbers) == 1 {
		return fmt.Sprintf("E%02d", numbers[0])
	}
	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)

	consecutive := true
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i]+1 != sorted[i+1] {
			consecutive = false
			break
		}
	}
	if consecutive {
		return fmt.Sprintf("E%02d-E%02d", sorted[0], sorted[len(sorted)-1])
	}

	if len(sorted) > 3 {
		return fmt.Sprintf("E%02d, E%02d +%d more", sorted[0], sorted[1], len(sorted)-2)
	}
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = fmt.Sprintf("E%02d", n)
	}
	return strings.Join(parts, ", ")
}

// multiTitleSummary builds the one-line title summary for a slot with
// several episodes. The final 15-character hard truncation is pinned
// behavior; see the tests before widening it.
func multiTitleSummary(titles []string) string {
	truncated := make([]string, len(titles))
	for i, t := range titles {
		truncated[i] = utils.Truncate(t, maxEpisodeTitleLength)
	}

	shown := truncated
	if len(shown) > maxMultiEpisodeTitles {
		shown = shown[:maxMultiEpisodeTitles]
	}
	summary := fmt.Sprintf("%d Episodes: %s", len(titles), strings.Join(shown, ", "))
	if len(titles) > maxMultiEpisodeTitles {
		summary += fmt.Sprintf(" +%d more", len(titles)-maxMultiEpisodeTitles)
	}
	return utils.Truncate(summary, maxEpisodeListLength)
}

// multiTooltip lists every episode of the slot in full for the hover
// tooltip.
func multiTooltip(season int, eps []models.Episode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Season %d\n", season)
	for _, ep := range eps {
		title := ep.Title
		if title == "" {
			title = "TBA"
		}
		fmt.Fprintf(&b, "E%02d: %s\n", ep.EpisodeNumber, title)
	}
	return strings.TrimSpace(b.String())
}

// buildSlot merges the episodes sharing one air date into a display
// slot. eps must be non-empty and sorted by (season, episode).
func buildSlot(airDate string, eps []models.Episode, now time.Time) models.EpisodeSlot {
	slot := models.EpisodeSlot{
		AirDate:       airDate,
		FormattedDate: formatAirDate(airDate),
		EpisodeCount:  len(eps),
	}
	slot.DaysUntil = daysUntil(eps[0].AirDateUTC, now)
	slot.DaysLabel, slot.DaysClass = relativeDayLabel(slot.DaysUntil)

	if len(eps) == 1 {
		ep := eps[0]
		title := ep.Title
		if title == "" {
			title = "TBA"
		}
		slot.Single = true
		slot.SeasonEpisode = fmt.Sprintf("S%02dE%02d", ep.SeasonNumber, ep.EpisodeNumber)
		slot.TitleDisplay = utils.Truncate(title, maxEpisodeTitleLength)
		slot.Tooltip = title
		slot.Overview = ep.Overview
		slot.EpisodeNumbers = []int{ep.EpisodeNumber}
		slot.HasFile = ep.HasFile
		slot.Monitored = ep.Monitored
		return slot
	}

	// The season prefix is the lowest season present in the slot.
	season := eps[0].SeasonNumber
	numbers := make([]int, len(eps))
	titles := make([]string, len(eps))
	slot.HasFile = true
	for i, ep := range eps {
		if ep.SeasonNumber < season {
			season = ep.SeasonNumber
		}
		numbers[i] = ep.EpisodeNumber
		titles[i] = ep.Title
		if titles[i] == "" {
			titles[i] = "TBA"
		}
		if !ep.HasFile {
			slot.HasFile = false
		}
		if ep.Monitored {
			slot.Monitored = true
		}
	}

	slot.SeasonEpisode = fmt.Sprintf("S%02d %s", season, episodeRangeLabel(numbers))
	slot.TitleDisplay = multiTitleSummary(titles)
	slot.Tooltip = multiTooltip(season, eps)
	slot.Overview = eps[0].Overview
	slot.EpisodeNumbers = numbers
	return slot
}

// formatAirDate renders a naive air date as "Mon, Jan 02"; unparseable
// input passes through untouched.
func formatAirDate(airDate string) string {
	d, err := time.Parse("2006-01-02", airDate)
	if err != nil {
		return airDate
	}
	return d.Format("Mon, Jan 02")
}

// daysUntil is the whole-day distance from now to the UTC air time,
// floored so that any moment yesterday is -1, not 0.
func daysUntil(airDateUTC string, now time.Time) int {
	air, err := time.Parse(time.RFC3339, airDateUTC)
	if err != nil {
		return 0
	}
	return int(math.Floor(air.Sub(now).Hours() / 24))
}

// relativeDayLabel maps a day distance to its display text and CSS class.
func relativeDayLabel(days int) (string, string) {
	switch {
	case days == 0:
		return "Today", "days-today"
	case days == 1:
		return "Tomorrow", "days-tomorrow"
	case days > 0:
		return fmt.Sprintf("In %d days", days), "days-future"
	case days == -1:
		return "Yesterday", "days-yesterday"
	default:
		return fmt.Sprintf("%d days ago", -days), "days-past"
	}
}
