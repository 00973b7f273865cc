package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"showdeck/models"
	"showdeck/services/tracker"
)

// StatusResponse is the serve-mode view of the tracker's output files.
// Serve mode runs next to the tracker process, not inside it, so
// everything here is derived from what is on disk.
type StatusResponse struct {
	Generated    bool                  `json:"generated"`
	LastModified time.Time             `json:"lastModified,omitzero"`
	NextRunGuess time.Time             `json:"nextRunGuess,omitzero"`
	RunID        string                `json:"runId,omitempty"`
	LastUpdated  string                `json:"lastUpdated,omitempty"`
	TotalShows   int                   `json:"totalShows,omitempty"`
	Summary      *models.WindowSummary `json:"summary,omitempty"`
}

// Status reports when the dashboard was last written and, when the JSON
// snapshot is enabled, the latest cycle summary.
type Status struct {
	htmlPath string
	jsonPath string
	interval time.Duration
	log      *log.Entry
}

// NewStatus creates the status handler. jsonPath may be "".
func NewStatus(htmlPath, jsonPath string, interval time.Duration) *Status {
	return &Status{
		htmlPath: htmlPath,
		jsonPath: jsonPath,
		interval: interval,
		log:      log.WithField("component", "handlers"),
	}
}

// Register mounts the status route.
func (h *Status) Register(r *mux.Router) {
	r.HandleFunc("/api/status", h.serveStatus).Methods(http.MethodGet)
}

func (h *Status) serveStatus(w http.ResponseWriter, _ *http.Request) {
	var resp StatusResponse

	if info, err := os.Stat(h.htmlPath); err == nil {
		resp.Generated = true
		resp.LastModified = info.ModTime().UTC()
		resp.NextRunGuess = resp.LastModified.Add(h.interval)
	}

	if h.jsonPath != "" {
		if data, err := os.ReadFile(h.jsonPath); err == nil {
			var snap tracker.Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				h.log.WithError(err).Warn("snapshot file is not valid JSON")
			} else {
				resp.RunID = snap.RunID
				resp.LastUpdated = snap.LastUpdated
				resp.TotalShows = snap.TotalShows
				resp.Summary = &snap.Summary
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.WithError(err).Error("encoding status response")
	}
}
