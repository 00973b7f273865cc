package models

// EpisodeSlot is one display row on a show card: all episodes of a
// series that share an air date, merged into a single unit.
type EpisodeSlot struct {
	AirDate       string `json:"airDate"`       // YYYY-MM-DD
	FormattedDate string `json:"formattedDate"` // "Mon, Jan 02"
	DaysUntil     int    `json:"daysUntil"`
	DaysLabel     string `json:"daysLabel"` // "Today", "In 3 days", ...
	DaysClass     string `json:"daysClass"` // CSS class for the label

	Single        bool   `json:"single"`
	SeasonEpisode string `json:"seasonEpisode"` // "S01E02" or "S01 E01-E03"
	TitleDisplay  string `json:"titleDisplay"`  // truncated title or multi summary
	Tooltip       string `json:"tooltip"`       // full title(s)
	Overview      string `json:"overview,omitempty"`

	EpisodeCount   int   `json:"episodeCount"`
	EpisodeNumbers []int `json:"episodeNumbers,omitempty"`
	HasFile        bool  `json:"hasFile"`   // all episodes downloaded
	Monitored      bool  `json:"monitored"` // any episode monitored
}

// SeasonProgress is the per-season slice of a show's progress.
type SeasonProgress struct {
	Season     int     `json:"season"`
	Monitored  bool    `json:"monitored"`
	Total      int     `json:"total"`
	Downloaded int     `json:"downloaded"`
	Percentage float64 `json:"percentage"`
	Complete   bool    `json:"complete"`
}

// ShowProgress is the season-statistics-derived completion state of a
// series. An unmonitored season contributes its full episode total as
// downloaded; that is the declared policy, not an accounting error.
type ShowProgress struct {
	TotalEpisodes      int              `json:"totalEpisodes"`
	DownloadedEpisodes int              `json:"downloadedEpisodes"`
	Percentage         float64          `json:"percentage"`
	Status             string           `json:"status"`
	MonitoredSeasons   int              `json:"monitoredSeasons"`
	UnmonitoredSeasons int              `json:"unmonitoredSeasons"`
	TotalSeasons       int              `json:"totalSeasons"`
	Seasons            []SeasonProgress `json:"seasons,omitempty"`

	CurrentSeason           int     `json:"currentSeason"`
	CurrentSeasonProgress   float64 `json:"currentSeasonProgress"`
	CurrentSeasonComplete   bool    `json:"currentSeasonComplete"`
	CurrentSeasonEpisodes   int     `json:"currentSeasonEpisodes"`
	CurrentSeasonDownloaded int     `json:"currentSeasonDownloaded"`
}

// WindowProgress is the window-local completion state of a series,
// independent of ShowProgress; the two can legitimately disagree.
type WindowProgress struct {
	EpisodesInRange   int     `json:"episodesInRange"`
	DownloadedInRange int     `json:"downloadedInRange"`
	Percentage        float64 `json:"percentage"`
}

// AggregatedShow is the per-cycle view of one series: metadata, grouped
// episode slots and computed progress. Never mutated after construction.
type AggregatedShow struct {
	SeriesID       int      `json:"seriesId"`
	Title          string   `json:"title"`
	TruncatedTitle string   `json:"truncatedTitle"`
	Slug           string   `json:"slug"`
	Year           int      `json:"year,omitempty"`
	Status         string   `json:"status,omitempty"`
	Network        string   `json:"network,omitempty"`
	Runtime        int      `json:"runtime,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	Rating         float64  `json:"rating,omitempty"`

	PosterURL string `json:"posterUrl,omitempty"`
	HasPoster bool   `json:"hasPoster"`

	Progress ShowProgress   `json:"progress"`
	Window   WindowProgress `json:"windowProgress"`

	Slots []EpisodeSlot `json:"episodes"`
}

// CompletedSeason is an entry of the "recently completed seasons" panel.
type CompletedSeason struct {
	SeriesID       int    `json:"seriesId"`
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	Season         int    `json:"season"`
	CompletionDate string `json:"completionDate"` // "Jan 02, 2006"
	TotalEpisodes  int    `json:"totalEpisodes"`
	PosterURL      string `json:"posterUrl,omitempty"`
}
