package models

import "time"

const (
	dateFormat    = "2006-01-02"
	displayFormat = "Jan 02, 2006"
)

// Window is the date range a cycle covers. It is always computed locally
// from the configured offsets, never taken from an API response.
type Window struct {
	Start        string `json:"start"` // YYYY-MM-DD, inclusive
	End          string `json:"end"`   // YYYY-MM-DD, inclusive
	StartDisplay string `json:"startDisplay"`
	EndDisplay   string `json:"endDisplay"`
	TotalDays    int    `json:"totalDays"`
	DaysPast     int    `json:"daysPast"`
	DaysFuture   int    `json:"daysFuture"`
}

// NewWindow builds the window around now (UTC) from the configured offsets.
func NewWindow(now time.Time, daysPast, daysFuture int) Window {
	now = now.UTC()
	start := now.AddDate(0, 0, -daysPast)
	end := now.AddDate(0, 0, daysFuture)
	return Window{
		Start:        start.Format(dateFormat),
		End:          end.Format(dateFormat),
		StartDisplay: start.Format(displayFormat),
		EndDisplay:   end.Format(displayFormat),
		TotalDays:    daysPast + daysFuture + 1,
		DaysPast:     daysPast,
		DaysFuture:   daysFuture,
	}
}

// Contains reports whether a naive YYYY-MM-DD air date falls inside the
// window, bounds inclusive. Unparseable dates are outside.
func (w Window) Contains(airDate string) bool {
	d, err := time.Parse(dateFormat, airDate)
	if err != nil {
		return false
	}
	start, err := time.Parse(dateFormat, w.Start)
	if err != nil {
		return false
	}
	end, err := time.Parse(dateFormat, w.End)
	if err != nil {
		return false
	}
	return !d.Before(start) && !d.After(end)
}
