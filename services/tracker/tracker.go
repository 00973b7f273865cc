// Package tracker runs the polling loop: fetch the calendar window from
// Sonarr, aggregate it, and write the dashboard artifacts.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"showdeck/config"
	"showdeck/models"
	"showdeck/services/aggregate"
	"showdeck/services/images"
	"showdeck/services/render"
	"showdeck/services/sonarr"
	"showdeck/services/stats"
)

const pruneAge = 30 * 24 * time.Hour

// Status is a point-in-time view of the tracker, served by the status
// endpoint.
type Status struct {
	Running   bool      `json:"running"`
	LastRunID string    `json:"lastRunId,omitempty"`
	LastRun   time.Time `json:"lastRun,omitzero"`
	LastError string    `json:"lastError,omitempty"`
	ShowCount int       `json:"showCount"`
	NextRun   time.Time `json:"nextRun,omitzero"`
}

// Snapshot is the optional machine-readable output written next to the
// HTML file.
type Snapshot struct {
	LastUpdated string                  `json:"lastUpdated"`
	RunID       string                  `json:"runId"`
	Window      models.Window           `json:"window"`
	Summary     models.WindowSummary    `json:"summary"`
	TotalShows  int                     `json:"totalShows"`
	Shows       []models.AggregatedShow `json:"shows"`
}

// Tracker owns one Sonarr connection and produces dashboard artifacts
// on a fixed interval.
type Tracker struct {
	cfg      config.Config
	client   *sonarr.Client
	cache    *images.Cache
	engine   *aggregate.Engine
	renderer *render.Renderer
	log      *log.Entry
	now      func() time.Time

	mu     sync.RWMutex
	status Status

	lastPrune string // YYYY-MM-DD of the last prune day
}

// New wires a tracker from configuration.
func New(cfg config.Config) (*Tracker, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	client := sonarr.New(cfg.SonarrURL, cfg.SonarrAPIKey)
	cache := images.New(client, cfg.SonarrURL, cfg.ImageCacheDir, cfg.ImageSize, cfg.ImageCacheEnabled())
	return &Tracker{
		cfg:      cfg,
		client:   client,
		cache:    cache,
		engine:   aggregate.New(client, cache),
		renderer: renderer,
		log:      log.WithField("component", "tracker"),
		now:      time.Now,
	}, nil
}

// Status returns the current tracker state.
func (t *Tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// HTMLPath is where the rendered dashboard lives.
func (t *Tracker) HTMLPath() string {
	return t.cfg.OutputHTMLFile
}

// Run executes cycles until the context is cancelled. It pings Sonarr
// once up front and refuses to start when it is unreachable; mid-loop
// failures only log and wait for the next tick.
func (t *Tracker) Run(ctx context.Context) error {
	t.log.WithFields(log.Fields{
		"sonarr":   t.cfg.SonarrURL,
		"range":    fmt.Sprintf("-%dd..+%dd", t.cfg.DaysPast, t.cfg.DaysFuture),
		"output":   t.cfg.OutputHTMLFile,
		"interval": fmt.Sprintf("%dh", t.cfg.RefreshIntervalHours),
	}).Info("starting tracker")

	if err := t.client.Ping(ctx); err != nil {
		return fmt.Errorf("sonarr is unreachable, check the configuration: %w", err)
	}

	interval := t.cfg.RefreshInterval()
	t.setRunning(true)
	defer t.setRunning(false)

	for {
		t.maybePrune()
		if err := t.RunOnce(ctx); err != nil {
			t.log.WithError(err).Error("cycle failed")
		}
		t.setNextRun(t.now().Add(interval))

		select {
		case <-ctx.Done():
			t.log.Info("tracker stopped")
			return nil
		case <-time.After(interval):
		}
	}
}

// RunOnce performs a single fetch-aggregate-render cycle. A failed
// calendar fetch still produces a valid page with the empty state.
func (t *Tracker) RunOnce(ctx context.Context) error {
	runID := uuid.NewString()
	started := t.now().UTC()
	logger := t.log.WithField("run", runID)

	w := models.NewWindow(started, t.cfg.DaysPast, t.cfg.DaysFuture)
	logger.WithFields(log.Fields{"start": w.Start, "end": w.End}).Info("fetching calendar")

	episodes := t.client.Calendar(ctx, w.Start, w.End)
	catalog := t.client.AllSeries(ctx)
	logger.WithFields(log.Fields{
		"episodes": len(episodes),
		"series":   len(catalog),
	}).Info("fetched")

	shows := t.engine.Build(ctx, episodes, catalog, w)
	completed := aggregate.CompletedSeasonsInWindow(shows, episodes, w)
	summary := stats.Summarize(shows, w)
	logger.WithFields(log.Fields{
		"shows":    len(shows),
		"overall":  fmt.Sprintf("%.1f%%", summary.OverallProgress),
		"inWindow": fmt.Sprintf("%.1f%%", summary.WindowProgress),
	}).Info("aggregated")

	page := render.Page{
		Title:        t.cfg.HTMLTitle,
		Theme:        t.cfg.HTMLTheme,
		GridColumns:  t.cfg.GridColumns,
		RefreshHours: t.cfg.RefreshIntervalHours,
		SonarrURL:    t.cfg.SonarrURL,
		GeneratedAt:  render.GeneratedStamp(started),
		Summary:      summary,
		Shows:        shows,
		Completed:    completed,
	}

	var buf bytes.Buffer
	if err := t.renderer.Render(&buf, page); err != nil {
		t.recordRun(runID, started, err, len(shows))
		return err
	}
	if err := writeAtomic(t.cfg.OutputHTMLFile, buf.Bytes()); err != nil {
		t.recordRun(runID, started, err, len(shows))
		return fmt.Errorf("writing dashboard: %w", err)
	}
	logger.WithField("file", t.cfg.OutputHTMLFile).Info("dashboard written")

	if t.cfg.OutputJSONFile != "" {
		snap := Snapshot{
			LastUpdated: started.Format(time.RFC3339),
			RunID:       runID,
			Window:      w,
			Summary:     summary,
			TotalShows:  len(shows),
			Shows:       shows,
		}
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			t.recordRun(runID, started, err, len(shows))
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		if err := writeAtomic(t.cfg.OutputJSONFile, data); err != nil {
			t.recordRun(runID, started, err, len(shows))
			return fmt.Errorf("writing snapshot: %w", err)
		}
		logger.WithField("file", t.cfg.OutputJSONFile).Info("snapshot written")
	}

	t.recordRun(runID, started, nil, len(shows))
	return nil
}

// maybePrune drops month-old cached posters, at most once per day and
// only on Mondays.
func (t *Tracker) maybePrune() {
	now := t.now().UTC()
	if now.Weekday() != time.Monday {
		return
	}
	day := now.Format("2006-01-02")
	if day == t.lastPrune {
		return
	}
	t.lastPrune = day
	if _, err := t.cache.Prune(pruneAge); err != nil {
		t.log.WithError(err).Warn("image prune failed")
	}
}

func (t *Tracker) setRunning(running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Running = running
	if !running {
		t.status.NextRun = time.Time{}
	}
}

func (t *Tracker) setNextRun(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.NextRun = at
}

func (t *Tracker) recordRun(runID string, started time.Time, err error, shows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.LastRunID = runID
	t.status.LastRun = started
	t.status.ShowCount = shows
	if err != nil {
		t.status.LastError = err.Error()
	} else {
		t.status.LastError = ""
	}
}

// writeAtomic writes via a temp file in the target directory and
// renames it into place, so readers never see a half-written page.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
