package imagestore_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapnote/shopedit/internal/imagestore"
)

func TestCheckExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		// Escaped slashes must survive so the public ID stays one path segment.
		switch r.URL.EscapedPath() {
		case "/resources/downtown%2F42%2Fmain.jpg":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := imagestore.NewClient(srv.URL, "test-key", 0)

	exists, err := c.CheckExists(context.Background(), "downtown/42/main.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.CheckExists(context.Background(), "missing.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRename(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rename", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := imagestore.NewClient(srv.URL, "", 0)

	err := c.Rename(context.Background(), "tempsection/a.jpg", "downtown/42/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "tempsection/a.jpg", got["from_public_id"])
	assert.Equal(t, "downtown/42/a.jpg", got["to_public_id"])
}

func TestRename_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := imagestore.NewClient(srv.URL, "", 0)

	err := c.Rename(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestUploadFromRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "photo-ref-1", body["reference"])
		assert.Equal(t, float64(1200), body["max_width"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(imagestore.UploadResult{
			PublicID: "tempsection/pulled.jpg",
			Width:    1200,
			Height:   800,
			Bytes:    123456,
		})
	}))
	defer srv.Close()

	c := imagestore.NewClient(srv.URL, "", 0)

	got, err := c.UploadFromRemote(context.Background(), "photo-ref-1", 1200)
	require.NoError(t, err)
	assert.Equal(t, "tempsection/pulled.jpg", got.PublicID)
	assert.Equal(t, 1200, got.Width)
}

func TestCache(t *testing.T) {
	var got map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/precache", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := imagestore.NewClient(srv.URL, "", 0)

	err := c.Cache(context.Background(), []string{"i1", "i2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"i1", "i2"}, got["public_ids"])
}

func TestClient_RateLimiterHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// One request per hour with a burst of one: the second call must block,
	// and a cancelled context aborts the wait instead of hanging the test.
	c := imagestore.NewClient(srv.URL, "", 1.0/3600)

	require.NoError(t, c.Cache(context.Background(), []string{"i1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Cache(ctx, []string{"i2"})
	require.Error(t, err)
}
