package models

// ProgressBuckets is a five-way histogram over show percentages:
// complete >=100, high >=75, medium >=25, low >0, none ==0.
type ProgressBuckets struct {
	Complete int `json:"complete"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	None     int `json:"none"`
}

// Add places one percentage into its bucket.
func (b *ProgressBuckets) Add(pct float64) {
	switch {
	case pct >= 100:
		b.Complete++
	case pct >= 75:
		b.High++
	case pct >= 25:
		b.Medium++
	case pct > 0:
		b.Low++
	default:
		b.None++
	}
}

// WindowSummary is the pure reduction of all aggregated shows in one
// cycle. Single instance per cycle, no independent identity.
type WindowSummary struct {
	Window Window `json:"window"`

	TotalSeries       int `json:"totalSeries"`
	ShowsWithEpisodes int `json:"showsWithEpisodes"`

	TotalEpisodes      int `json:"totalEpisodes"`
	DownloadedEpisodes int `json:"downloadedEpisodes"`
	TotalSeasons       int `json:"totalSeasons"`
	MonitoredSeasons   int `json:"monitoredSeasons"`
	UnmonitoredSeasons int `json:"unmonitoredSeasons"`

	EpisodesInRange   int `json:"episodesInRange"`
	DownloadedInRange int `json:"downloadedInRange"`

	AvgProgress       float64 `json:"avgProgress"`
	AvgWindowProgress float64 `json:"avgWindowProgress"`
	OverallProgress   float64 `json:"overallProgress"`
	WindowProgress    float64 `json:"windowProgress"`

	CompletedCurrentSeasons int `json:"completedCurrentSeasons"`

	Overall ProgressBuckets `json:"overallBuckets"`
	InRange ProgressBuckets `json:"windowBuckets"`
}
