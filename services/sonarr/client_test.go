package sonarr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	retryDelay = time.Millisecond
	m.Run()
}

func TestCalendarSendsAuthAndParams(t *testing.T) {
	var gotKey string
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		q := r.URL.Query()
		gotQuery = map[string]string{
			"start":              q.Get("start"),
			"end":                q.Get("end"),
			"includeSeries":      q.Get("includeSeries"),
			"includeEpisodeFile": q.Get("includeEpisodeFile"),
			"unmonitored":        q.Get("unmonitored"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "seriesId": 10, "seasonNumber": 1, "episodeNumber": 3,
			 "title": "Pilot", "airDate": "2026-08-30", "hasFile": true, "monitored": true}
		]`))
	}))
	defer server.Close()

	c := New(server.URL, "secret")
	episodes := c.Calendar(context.Background(), "2026-08-23", "2026-09-29")

	require.Equal(t, "secret", gotKey)
	require.Equal(t, "2026-08-23", gotQuery["start"])
	require.Equal(t, "2026-09-29", gotQuery["end"])
	require.Equal(t, "true", gotQuery["includeSeries"])
	require.Equal(t, "true", gotQuery["includeEpisodeFile"])
	require.Equal(t, "true", gotQuery["unmonitored"])

	require.Len(t, episodes, 1)
	require.Equal(t, 10, episodes[0].SeriesID)
	require.True(t, episodes[0].HasFile)
}

func TestCalendarDegradesToEmptyOnServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, "secret")
	episodes := c.Calendar(context.Background(), "2026-08-23", "2026-09-29")

	require.Empty(t, episodes)
	require.Equal(t, retryAttempts, calls, "server errors should be retried before degrading")
}

func TestCalendarDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(server.URL, "wrong-key")
	episodes := c.Calendar(context.Background(), "2026-08-23", "2026-09-29")

	require.Empty(t, episodes)
	require.Equal(t, 1, calls)
}

func TestAllSeriesKeyedByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/series", r.URL.Path)
		w.Write([]byte(`[
			{"id": 1, "title": "Alpha", "year": 2020},
			{"id": 2, "title": "Beta", "seasons": [
				{"seasonNumber": 1, "monitored": true,
				 "statistics": {"totalEpisodeCount": 10, "episodeFileCount": 4}}
			]}
		]`))
	}))
	defer server.Close()

	c := New(server.URL, "secret")
	series := c.AllSeries(context.Background())

	require.Len(t, series, 2)
	require.Equal(t, "Alpha", series[1].Title)
	require.Equal(t, 10, series[2].Seasons[0].Statistics.TotalEpisodeCount)
}

func TestSeriesDetailZeroValueOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := New(server.URL, "secret")
	s := c.SeriesDetail(context.Background(), 42)
	require.Zero(t, s.ID)
	require.Empty(t, s.Seasons)
}

func TestPingFailsOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	c := New(server.URL, "secret")
	require.Error(t, c.Ping(context.Background()))
}

func TestFetchImageAuthOnlyForOwnHost(t *testing.T) {
	var gotKey *string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		k := r.Header.Get("X-Api-Key")
		gotKey = &k
		w.Write([]byte("jpegbytes"))
	}))
	defer server.Close()

	// Same host: key attached.
	c := New(server.URL, "secret")
	data, err := c.FetchImage(context.Background(), server.URL+"/poster.jpg")
	require.NoError(t, err)
	require.Equal(t, "jpegbytes", string(data))
	require.Equal(t, "secret", *gotKey)

	// Foreign host: no key.
	foreign := New("http://sonarr.elsewhere:8989", "secret")
	_, err = foreign.FetchImage(context.Background(), server.URL+"/poster.jpg")
	require.NoError(t, err)
	require.Empty(t, *gotKey)
}
