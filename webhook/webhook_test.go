package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/imaadfakier/spicychatdotai-scraper/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRun() *record.Run {
	rec := record.New()
	rec.Set("languages_supported", "English")
	return &record.Run{
		ID:         "run-1",
		StartedAt:  time.Unix(1700000000, 0),
		FinishedAt: time.Unix(1700000042, 0),
		Record:     rec,
	}
}

func TestDeliver_Signed(t *testing.T) {
	var body []byte
	var sig, ct string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		sig = r.Header.Get(SignatureHeader)
		ct = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	err := Deliver(context.Background(), srv.URL, "s3cret", RecordCompleted(testRun()))
	require.NoError(t, err)

	assert.Equal(t, "application/json", ct)
	assert.Equal(t, "sha256="+Sign("s3cret", body), sig)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, EventRecordCompleted, got["type"])
	assert.Equal(t, "run-1", got["run_id"])
	assert.Equal(t, float64(1700000042), got["timestamp"])
	assert.Equal(t, []any{}, got["failed"])
	assert.Equal(t, map[string]any{"languages_supported": "English"}, got["data"])
}

func TestDeliver_MatchesSavedRecord(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	run := testRun()
	run.Record.Set("specialty", "Roleplay <NSFW> & chat")

	require.NoError(t, Deliver(context.Background(), srv.URL, "", RecordCompleted(run)))
	assert.Contains(t, string(body), `"Roleplay <NSFW> & chat"`)
	assert.NotContains(t, string(body), `\u003c`)
}

func TestDeliver_Unsigned(t *testing.T) {
	var sig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sig = r.Header.Get(SignatureHeader)
	}))
	defer srv.Close()

	require.NoError(t, Deliver(context.Background(), srv.URL, "", RecordCompleted(testRun())))
	assert.Empty(t, sig)
}

func TestDeliver_SingleAttemptOnError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := Deliver(context.Background(), srv.URL, "", RecordCompleted(testRun()))

	assert.ErrorContains(t, err, "502")
	assert.Equal(t, 1, calls)
}

func TestSign_Known(t *testing.T) {
	// HMAC-SHA256("key", "The quick brown fox jumps over the lazy dog")
	assert.Equal(t,
		"f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8",
		Sign("key", []byte("The quick brown fox jumps over the lazy dog")),
	)
}
