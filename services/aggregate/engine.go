// Package aggregate turns a raw Sonarr calendar window into the
// per-show display units the renderer consumes: episodes grouped into
// per-date slots, progress derived from season statistics, and
// window-local completion computed from the calendar itself.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"showdeck/models"
	"showdeck/utils"
)

// Detailer fetches the authoritative per-series season statistics.
type Detailer interface {
	SeriesDetail(ctx context.Context, id int) models.Series
}

// Artwork resolves a poster URL to a local cache path ("" means use a
// placeholder).
type Artwork interface {
	Ensure(ctx context.Context, rawURL string, seriesID int) string
	PosterURL(s models.Series) string
}

// Engine builds AggregatedShow views for one cycle. Stateless between
// cycles; all inputs arrive per call.
type Engine struct {
	details Detailer
	art     Artwork
	now     func() time.Time
	log     *log.Entry
}

// New creates an aggregation engine.
func New(details Detailer, art Artwork) *Engine {
	return &Engine{
		details: details,
		art:     art,
		now:     time.Now,
		log:     log.WithField("component", "aggregate"),
	}
}

// Build groups the calendar window by series, enriches each series with
// catalog metadata, detail statistics and artwork, and returns the
// sorted show list. A series whose processing fails is skipped with a
// logged error; the rest of the batch continues.
func (e *Engine) Build(ctx context.Context, episodes []models.Episode, catalog map[int]models.Series, w models.Window) []models.AggregatedShow {
	bySeries := make(map[int][]models.Episode)
	for _, ep := range episodes {
		if ep.SeriesID == 0 || ep.AirDate == "" {
			continue
		}
		bySeries[ep.SeriesID] = append(bySeries[ep.SeriesID], ep)
	}

	shows := make([]models.AggregatedShow, 0, len(bySeries))
	for seriesID, seriesEps := range bySeries {
		show, err := e.buildShow(ctx, seriesID, seriesEps, episodes, catalog[seriesID], w)
		if err != nil {
			e.log.WithError(err).WithField("series", seriesID).Error("skipping series")
			continue
		}
		shows = append(shows, show)
	}

	// Window completion first (descending), title as the tiebreak.
	sort.Slice(shows, func(i, j int) bool {
		if shows[i].Window.Percentage != shows[j].Window.Percentage {
			return shows[i].Window.Percentage > shows[j].Window.Percentage
		}
		return shows[i].Title < shows[j].Title
	})
	return shows
}

// buildShow assembles one AggregatedShow. The recover guard honors the
// skip-and-continue policy: one malformed series must not abort the
// cycle.
func (e *Engine) buildShow(ctx context.Context, seriesID int, seriesEps, allEps []models.Episode, summary models.Series, w models.Window) (show models.AggregatedShow, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing series %d: %v", seriesID, r)
		}
	}()

	title := summary.Title
	if title == "" {
		title = "Unknown Show"
	}

	show = models.AggregatedShow{
		SeriesID:       seriesID,
		Title:          title,
		TruncatedTitle: utils.Truncate(title, maxShowTitleLength),
		Slug:           utils.Slugify(title),
		Year:           summary.Year,
		Status:         summary.Status,
		Network:        summary.Network,
		Runtime:        summary.Runtime,
		Genres:         summary.Genres,
		Rating:         summary.Ratings.Value,
	}

	posterURL := e.art.PosterURL(summary)
	if posterURL != "" {
		show.HasPoster = true
		show.PosterURL = posterURL
		if cached := e.art.Ensure(ctx, posterURL, seriesID); cached != "" {
			show.PosterURL = cached
		}
	}

	detail := e.details.SeriesDetail(ctx, seriesID)
	show.Progress = BuildProgress(detail)
	show.Window = windowProgress(seriesID, allEps, w)

	now := e.now().UTC()
	for airDate, eps := range groupByDate(seriesEps) {
		show.Slots = append(show.Slots, buildSlot(airDate, eps, now))
	}
	sort.Slice(show.Slots, func(i, j int) bool {
		return show.Slots[i].AirDate < show.Slots[j].AirDate
	})
	return show, nil
}
