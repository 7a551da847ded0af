package record

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/imaadfakier/spicychatdotai-scraper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_PreservesOrder(t *testing.T) {
	rec := New()
	rec.Set("specialty", "a")
	rec.Set("nsfw_policy", "b")
	rec.Set("pricing", "c")
	rec.Set("specialty", "a2")

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"specialty":"a2","nsfw_policy":"b","pricing":"c"}`, string(b))
	assert.Equal(t, []string{"specialty", "nsfw_policy", "pricing"}, rec.Keys())
	assert.Equal(t, 3, rec.Len())
}

func TestEncode_IndentAndNoHTMLEscape(t *testing.T) {
	rec := New()
	rec.Set("links", map[string]string{"tos": "https://example.test/?a=1&b=2"})

	b, err := Encode(rec)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"links\": {\n        \"tos\": \"https://example.test/?a=1&b=2\"\n    }\n}\n", string(b))
}

func TestCollect(t *testing.T) {
	var order []string
	jobs := []Job{
		{Name: "specialty", Run: func(context.Context) (any, error) {
			order = append(order, "specialty")
			return map[string]string{"description": "d"}, nil
		}},
		{Name: "pricing", Run: func(context.Context) (any, error) {
			order = append(order, "pricing")
			return nil, models.NewScrapeError(models.ErrCodeTimeout, "await", context.DeadlineExceeded)
		}},
		{Name: "server_status", Run: func(context.Context) (any, error) {
			order = append(order, "server_status")
			panic("nil map")
		}},
		{Name: "languages_supported", Run: func(context.Context) (any, error) {
			order = append(order, "languages_supported")
			return nil, errors.New("plain failure")
		}},
	}

	run := Collect(context.Background(), jobs)

	assert.Equal(t, []string{"specialty", "pricing", "server_status", "languages_supported"}, order)
	assert.Equal(t, order, run.Record.Keys())
	assert.Equal(t, []string{"pricing", "server_status", "languages_supported"}, run.Failed)
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))

	v, _ := run.Record.Get("pricing")
	assert.Equal(t, models.ErrorValue{Error: models.MsgTimeout}, v)

	v, _ = run.Record.Get("server_status")
	assert.Equal(t, models.ErrorValue{Error: "An unexpected error occurred: nil map"}, v)

	v, _ = run.Record.Get("languages_supported")
	assert.Equal(t, models.ErrorValue{Error: "An unexpected error occurred: plain failure"}, v)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spicychat_dot_ai_data.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	rec := New()
	rec.Set("languages_supported", "English")
	require.NoError(t, Save(path, rec))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"languages_supported\": \"English\"\n}\n", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_MissingDirectory(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "missing", "out.json"), New())
	assert.Error(t, err)
}
