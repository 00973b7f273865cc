// Package sonarr is a minimal read-only client for the Sonarr v3 API:
// the status, calendar, series and episode endpoints the tracker needs.
package sonarr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	log "github.com/sirupsen/logrus"

	"showdeck/models"
)

const (
	requestTimeout = 30 * time.Second
	pingTimeout    = 10 * time.Second
	retryAttempts  = 3
)

// retryDelay is a var so tests can shorten it.
var retryDelay = 2 * time.Second

// Client talks to a single Sonarr server using static API-key auth.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	log     *log.Entry
}

// New creates a client for the given server. baseURL is the server root
// without the /api prefix.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: requestTimeout},
		log:     log.WithField("component", "sonarr"),
	}
}

// BaseURL returns the configured server root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks connectivity via the system status endpoint. Unlike the
// data fetchers this propagates errors: a failed ping aborts startup.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	var status struct {
		Version string `json:"version"`
	}
	if err := c.doGET(ctx, "/api/v3/system/status", nil, &status); err != nil {
		return fmt.Errorf("sonarr connection test: %w", err)
	}
	if status.Version != "" {
		c.log.WithField("version", status.Version).Info("connected to Sonarr")
	}
	return nil
}

// Calendar fetches episodes whose air date falls inside [start, end],
// both YYYY-MM-DD inclusive, with series and file metadata included.
// On any transport or decode failure it logs and returns an empty
// slice; callers never see the error.
func (c *Client) Calendar(ctx context.Context, start, end string) []models.Episode {
	q := url.Values{}
	q.Set("start", start)
	q.Set("end", end)
	q.Set("includeSeries", "true")
	q.Set("includeEpisodeFile", "true")
	q.Set("includeEpisodeImages", "true")
	q.Set("unmonitored", "true")

	var episodes []models.Episode
	if err := c.doGET(ctx, "/api/v3/calendar", q, &episodes); err != nil {
		c.log.WithError(err).Warn("calendar fetch failed, continuing with empty window")
		return nil
	}
	return episodes
}

// AllSeries fetches the full series catalog keyed by id. Empty map on
// failure.
func (c *Client) AllSeries(ctx context.Context) map[int]models.Series {
	var list []models.Series
	if err := c.doGET(ctx, "/api/v3/series", nil, &list); err != nil {
		c.log.WithError(err).Warn("series list fetch failed, continuing with empty catalog")
		return map[int]models.Series{}
	}
	out := make(map[int]models.Series, len(list))
	for _, s := range list {
		out[s.ID] = s
	}
	return out
}

// SeriesDetail fetches one series with authoritative season statistics.
// Returns the zero value on failure; callers must treat that as "no
// statistics available", not as zero episodes.
func (c *Client) SeriesDetail(ctx context.Context, id int) models.Series {
	var s models.Series
	if err := c.doGET(ctx, "/api/v3/series/"+strconv.Itoa(id), nil, &s); err != nil {
		c.log.WithError(err).WithField("series", id).Warn("series detail fetch failed")
		return models.Series{}
	}
	return s
}

// Episodes fetches every episode of a series. Empty slice on failure.
func (c *Client) Episodes(ctx context.Context, seriesID int) []models.Episode {
	q := url.Values{}
	q.Set("seriesId", strconv.Itoa(seriesID))
	var episodes []models.Episode
	if err := c.doGET(ctx, "/api/v3/episode", q, &episodes); err != nil {
		c.log.WithError(err).WithField("series", seriesID).Warn("episode list fetch failed")
		return nil
	}
	return episodes
}

// FetchImage downloads raw image bytes. The API key header is attached
// only when the URL points at the configured server; remote artwork
// hosts must not see the credential.
func (c *Client) FetchImage(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	if strings.HasPrefix(rawURL, c.baseURL) {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	return data, nil
}

// doGET performs an authenticated GET with transient-failure retries
// and decodes the JSON body into v.
func (c *Client) doGET(ctx context.Context, path string, q url.Values, v any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u = u + "?" + q.Encode()
	}
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("X-Api-Key", c.apiKey)
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return retry.Unrecoverable(fmt.Errorf("GET %s: %s", path, resp.Status))
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("GET %s: %s", path, resp.Status)
			}
			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode %s response: %w", path, err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}
