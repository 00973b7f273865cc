package models

// Episode is a single Sonarr episode record, as returned by both the
// calendar endpoint and the per-series episode listing.
type Episode struct {
	ID            int    `json:"id"`
	SeriesID      int    `json:"seriesId"`
	SeasonNumber  int    `json:"seasonNumber"`
	EpisodeNumber int    `json:"episodeNumber"`
	Title         string `json:"title"`
	Overview      string `json:"overview,omitempty"`
	AirDate       string `json:"airDate"`              // YYYY-MM-DD, naive
	AirDateUTC    string `json:"airDateUtc,omitempty"` // RFC3339
	HasFile       bool   `json:"hasFile"`
	Monitored     bool   `json:"monitored"`
}

// Image is one artwork reference attached to a series.
type Image struct {
	CoverType string `json:"coverType"`
	URL       string `json:"url,omitempty"`
	RemoteURL string `json:"remoteUrl,omitempty"`
}

// Ratings carries the community rating for a series.
type Ratings struct {
	Votes int     `json:"votes,omitempty"`
	Value float64 `json:"value"`
}

// SeasonStatistics are Sonarr's per-season episode counters. Only the
// per-id series detail call is authoritative for these.
type SeasonStatistics struct {
	EpisodeFileCount  int `json:"episodeFileCount"`
	EpisodeCount      int `json:"episodeCount"`
	TotalEpisodeCount int `json:"totalEpisodeCount"`
}

// Season is one season entry of a series.
type Season struct {
	SeasonNumber int              `json:"seasonNumber"`
	Monitored    bool             `json:"monitored"`
	Statistics   SeasonStatistics `json:"statistics"`
}

// Series is a Sonarr series record. The summary listing and the detail
// call share this shape; missing optional fields decode to zero values.
type Series struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Year         int      `json:"year,omitempty"`
	Overview     string   `json:"overview,omitempty"`
	Status       string   `json:"status,omitempty"`
	Network      string   `json:"network,omitempty"`
	Runtime      int      `json:"runtime,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	Ratings      Ratings  `json:"ratings"`
	Images       []Image  `json:"images,omitempty"`
	RemotePoster string   `json:"remotePoster,omitempty"`
	Seasons      []Season `json:"seasons,omitempty"`
	SizeOnDisk   int64    `json:"sizeOnDisk,omitempty"`
}
