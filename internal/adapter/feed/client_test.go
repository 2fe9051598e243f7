package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"

	sampleBody = `[
		{"date":"2020-03-10","code":"FRA","source":{"nom":"Ministère"},"deces":"30","casConfirmes":1412},
		{"date":"2020_03_09","code":"FRA","source":{"nom":"Ministère"},"deces":25}
	]`
)

func testClient(url string) *Client {
	return NewClient(url, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, contentTypeJSON, r.Header.Get("Accept"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, sampleBody)
	}))
	defer srv.Close()

	records, err := testClient(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "2020-03-10", records[0].Date)
	assert.Equal(t, "FRA", records[0].Code)
	assert.Equal(t, "Ministère", records[0].Source.Name)
	assert.Equal(t, domain.RawValue{Text: "30", Present: true}, records[0].Values[domain.CategoryDeaths])
	assert.Equal(t, domain.RawValue{Text: "1412", Present: true}, records[0].Values[domain.CategoryConfirmedCases])
	assert.Equal(t, "2020_03_09", records[1].Date, "dates are patched during normalization, not parsing")
}

func TestClient_Fetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrFetchFeed)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestClient_Fetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, `{"not":"an array"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrParseFeed)
	assert.NotErrorIs(t, err, domain.ErrFetchFeed)
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := testClient(url).Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrFetchFeed)
}

func TestClient_Fetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "[]")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).Fetch(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFile_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chiffres-cles.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleBody), 0o600))

	records, err := NewFile(path).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFile_Fetch_Missing(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "missing.json")).Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrFetchFeed)
}
