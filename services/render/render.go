// Package render turns one cycle's aggregated data into the static
// dashboard page. The output is self-contained: CSS-only filtering,
// one small script for theme persistence, no other JavaScript.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strconv"
	"time"

	"showdeck/models"
	"showdeck/utils"
)

//go:embed dashboard.gohtml
var templates embed.FS

// Page is everything one render needs. Built fresh each cycle.
type Page struct {
	Title        string
	Theme        string
	GridColumns  int
	RefreshHours int
	SonarrURL    string
	GeneratedAt  string

	Summary   models.WindowSummary
	Shows     []models.AggregatedShow
	Completed []models.CompletedSeason
}

// ShowsByTitle is the alphabetical view used by the jump-to-show
// dropdown; the grid itself keeps the progress ordering.
func (p Page) ShowsByTitle() []models.AggregatedShow {
	sorted := append([]models.AggregatedShow(nil), p.Shows...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Title < sorted[j].Title
	})
	return sorted
}

// Renderer holds the parsed dashboard template.
type Renderer struct {
	tpl *template.Template
}

// New parses the embedded dashboard template.
func New() (*Renderer, error) {
	tpl, err := template.New("dashboard.gohtml").Funcs(template.FuncMap{
		"pct":           formatPct,
		"pctInt":        pctInt,
		"progressColor": ProgressColor,
		"slotStatus":    slotStatus,
		"plural":        plural,
		"comma":         comma,
		"truncate":      utils.Truncate,
	}).ParseFS(templates, "dashboard.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parsing dashboard template: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// Render writes the dashboard page to w.
func (r *Renderer) Render(w io.Writer, p Page) error {
	if p.GeneratedAt == "" {
		p.GeneratedAt = GeneratedStamp(time.Now())
	}
	if err := r.tpl.Execute(w, p); err != nil {
		return fmt.Errorf("rendering dashboard: %w", err)
	}
	return nil
}

// GeneratedStamp formats the footer timestamp.
func GeneratedStamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05") + " UTC"
}

// ProgressColor maps a percentage to its bar color, matching the status
// buckets.
func ProgressColor(pct float64) string {
	switch {
	case pct >= 100:
		return "#4CAF50"
	case pct >= 75:
		return "#8BC34A"
	case pct >= 50:
		return "#FFC107"
	case pct >= 25:
		return "#FF9800"
	case pct > 0:
		return "#FF5722"
	default:
		return "#F44336"
	}
}

func formatPct(pct float64) string {
	return fmt.Sprintf("%.1f", pct)
}

// pctInt truncates for the data-progress attributes: the CSS prefix
// selectors match on leading digits, so the value must be a plain
// integer.
func pctInt(pct float64) int {
	return int(pct)
}

// slotStatus picks the border-color class of an episode row.
func slotStatus(slot models.EpisodeSlot) string {
	switch {
	case slot.HasFile:
		return "status-downloaded"
	case slot.Monitored:
		return "status-monitored"
	default:
		return "status-missing"
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// comma renders an int with thousands separators.
func comma(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
