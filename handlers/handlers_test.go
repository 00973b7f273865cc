package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"showdeck/utils"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestDashboardRoutes(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "dashboard.html")
	imageDir := filepath.Join(dir, "sonarr_images")
	writeFile(t, htmlPath, "<!DOCTYPE html><html><body>ok</body></html>")
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(imageDir, "1_poster.jpg"), "jpeg")

	r := utils.NewRouter()
	NewDashboard(htmlPath, imageDir).Register(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Cache-Control"); got != "no-cache" {
		t.Fatalf("the page must not be cached, got %q", got)
	}

	img, err := http.Get(srv.URL + "/sonarr_images/1_poster.jpg")
	if err != nil {
		t.Fatal(err)
	}
	defer img.Body.Close()
	if img.StatusCode != http.StatusOK {
		t.Fatalf("poster not served: %d", img.StatusCode)
	}
	if got := img.Header.Get("Cache-Control"); got != "public, max-age=86400" {
		t.Fatalf("posters should be cacheable, got %q", got)
	}
}

func TestDashboardMissingFile(t *testing.T) {
	r := utils.NewRouter()
	NewDashboard(filepath.Join(t.TempDir(), "missing.html"), "").Register(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before the first cycle, got %d", resp.StatusCode)
	}
}

func TestStatusEndpoint(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "dashboard.html")
	jsonPath := filepath.Join(dir, "dashboard.json")
	writeFile(t, htmlPath, "<html></html>")
	writeFile(t, jsonPath, `{"runId": "abc", "lastUpdated": "2026-08-30T00:00:00Z",
		"totalShows": 3, "summary": {"totalSeries": 3}, "window": {}, "shows": null}`)

	r := utils.NewRouter()
	NewStatus(htmlPath, jsonPath, 6*time.Hour).Register(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var st StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if !st.Generated {
		t.Fatal("expected generated=true")
	}
	if st.RunID != "abc" || st.TotalShows != 3 {
		t.Fatalf("unexpected snapshot fields: %+v", st)
	}
	if st.Summary == nil || st.Summary.TotalSeries != 3 {
		t.Fatalf("unexpected summary: %+v", st.Summary)
	}
	if got := st.NextRunGuess.Sub(st.LastModified); got != 6*time.Hour {
		t.Fatalf("next run estimate off: %v", got)
	}
}

func TestStatusEndpointNothingGenerated(t *testing.T) {
	r := utils.NewRouter()
	NewStatus(filepath.Join(t.TempDir(), "x.html"), "", 6*time.Hour).Register(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var st StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if st.Generated {
		t.Fatal("expected generated=false")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(utils.NewRouter())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}
