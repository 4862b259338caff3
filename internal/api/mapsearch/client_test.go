package mapsearch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestClient_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("builds the documented request parameters", func(t *testing.T) {
		var gotQuery map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			gotQuery = map[string]string{
				"engine":   q.Get("engine"),
				"q":        q.Get("q"),
				"hl":       q.Get("hl"),
				"gl":       q.Get("gl"),
				"api_key":  q.Get("api_key"),
				"open_now": q.Get("open_now"),
				"ll":       q.Get("ll"),
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"local_results":[{"title":"Quan Bun Cha"}]}`))
		}))
		defer server.Close()

		client := NewClient("test-key", server.URL, "vn", testLogger(), nil)
		lat, lng := 21.0285, 105.8048
		resp, err := client.Search(ctx, SearchRequest{
			Query:        "bún chả ngon restaurants",
			OpenNow:      true,
			Latitude:     &lat,
			Longitude:    &lng,
			RadiusMeters: 1000,
		})
		require.NoError(t, err)
		require.Len(t, resp.LocalResults, 1)
		assert.Equal(t, "Quan Bun Cha", resp.LocalResults[0].Title)

		assert.Equal(t, "maps_search", gotQuery["engine"])
		assert.Equal(t, "bún chả ngon restaurants", gotQuery["q"])
		assert.Equal(t, "vi", gotQuery["hl"], "language defaults to vi")
		assert.Equal(t, "vn", gotQuery["gl"])
		assert.Equal(t, "test-key", gotQuery["api_key"])
		assert.Equal(t, "true", gotQuery["open_now"])
		assert.Equal(t, "@21.0285,105.8048,15z", gotQuery["ll"])
	})

	t.Run("omits ll without a full origin", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.Query().Get("ll"))
			assert.Empty(t, r.URL.Query().Get("open_now"))
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewClient("test-key", server.URL, "vn", testLogger(), nil)
		lat := 21.0285
		resp, err := client.Search(ctx, SearchRequest{Query: "cafes", Latitude: &lat})
		require.NoError(t, err)
		assert.Empty(t, resp.LocalResults, "absent arrays decode to empty")
	})

	t.Run("missing API key fails at call time", func(t *testing.T) {
		client := NewClient("", "http://unused.invalid", "vn", testLogger(), nil)
		_, err := client.Search(ctx, SearchRequest{Query: "anything"})
		require.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("non-2xx status surfaces as StatusError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewClient("test-key", server.URL, "vn", testLogger(), nil)
		_, err := client.Search(ctx, SearchRequest{Query: "anything"})
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	})

	t.Run("transport failure surfaces", func(t *testing.T) {
		client := NewClient("test-key", "http://127.0.0.1:1", "vn", testLogger(), nil)
		_, err := client.Search(ctx, SearchRequest{Query: "anything"})
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrMissingAPIKey))
	})
}

func TestZoomForRadius(t *testing.T) {
	tests := []struct {
		radius float64
		want   int
	}{
		{0, 15},
		{250, 16},
		{500, 16},
		{1000, 15},
		{1500, 15},
		{2500, 14},
		{3000, 14},
		{5000, 13},
		{7000, 13},
		{10000, 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, zoomForRadius(tt.radius), "radius %v", tt.radius)
	}
}
