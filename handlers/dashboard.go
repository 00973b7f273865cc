// Package handlers contains the HTTP surface of serve mode: the
// generated dashboard, its cached posters, and a small status API.
package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Dashboard serves the generated HTML file and the poster cache.
type Dashboard struct {
	htmlPath string
	imageDir string
	log      *log.Entry
}

// NewDashboard creates the dashboard handler. imageDir may be "" when
// the poster cache is disabled.
func NewDashboard(htmlPath, imageDir string) *Dashboard {
	return &Dashboard{
		htmlPath: htmlPath,
		imageDir: imageDir,
		log:      log.WithField("component", "handlers"),
	}
}

// Register mounts the dashboard routes. The page itself is served
// no-cache so a freshly written cycle shows up on reload; posters get a
// long max-age since stale artwork is harmless.
func (h *Dashboard) Register(r *mux.Router) {
	r.HandleFunc("/", h.servePage).Methods(http.MethodGet)
	r.HandleFunc("/dashboard.html", h.servePage).Methods(http.MethodGet)

	if h.imageDir != "" {
		prefix := "/" + filepath.Base(filepath.Clean(h.imageDir)) + "/"
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(h.imageDir)))
		r.PathPrefix(prefix).Handler(cacheFor(fs, "public, max-age=86400")).Methods(http.MethodGet)
	}
}

func (h *Dashboard) servePage(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.htmlPath); err != nil {
		h.log.WithError(err).Warn("dashboard not generated yet")
		http.Error(w, "dashboard not generated yet, run the tracker first", http.StatusNotFound)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, h.htmlPath)
}

func cacheFor(next http.Handler, value string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", value)
		next.ServeHTTP(w, r)
	})
}
