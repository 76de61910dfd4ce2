package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

const snapshot = `{
  "user_id": "u1",
  "date": "2025-03-10",
  "day": {"work_start": "2025-03-10T09:00:00Z", "work_end": "2025-03-10T18:00:00Z"},
  "schedule": [
    {"title": "Standup", "type": "meeting", "start": "2025-03-10T09:00:00Z", "end": "2025-03-10T10:00:00Z"}
  ]
}`

func setEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("KNOWLEDGE_FILE", "")
	t.Setenv("KNOWLEDGE_DIR", "")
}

func TestRunSingleFromStdin(t *testing.T) {
	setEnv(t)
	var out bytes.Buffer
	err := run(context.Background(), []string{"-offline", "-now", "2025-03-10T08:00:00Z"}, strings.NewReader(snapshot), &out)
	require.NoError(t, err)

	var report internal.Output
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 60, report.Features.MeetingMinutes)
	assert.Contains(t, report.ICSCalendar, "DTSTAMP:20250310T080000Z")
}

func TestRunIsReproducible(t *testing.T) {
	setEnv(t)
	args := []string{"-offline", "-now", "2025-03-10T08:00:00Z"}
	var a, b bytes.Buffer
	require.NoError(t, run(context.Background(), args, strings.NewReader(snapshot), &a))
	require.NoError(t, run(context.Background(), args, strings.NewReader(snapshot), &b))
	assert.Equal(t, a.String(), b.String())
}

func TestRunBatchToFile(t *testing.T) {
	setEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"snapshots": [`+snapshot+`, {"user_id": ""}]}`), 0o644))
	outPath := filepath.Join(dir, "out.json")

	err := run(context.Background(), []string{"-offline", "-out", outPath, in}, nil, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var results []struct {
		Output *internal.Output   `json:"output"`
		Error  *internal.AppError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &results))
	require.Len(t, results, 2)
	assert.NotNil(t, results[0].Output)
	assert.NotNil(t, results[1].Error)
}

func TestRunText(t *testing.T) {
	setEnv(t)
	var out bytes.Buffer
	err := run(context.Background(), []string{"-offline", "-text", "Reply to the client", "-tz", "UTC"}, nil, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"work_minutes": 540`)
}

func TestRunRejects(t *testing.T) {
	setEnv(t)
	err := run(context.Background(), []string{"-offline"}, strings.NewReader(`{"user_id": "u1"}`), &bytes.Buffer{})
	_, ok := internal.AsValidation(err)
	assert.True(t, ok)

	assert.Error(t, run(context.Background(), []string{"-now", "yesterday"}, nil, &bytes.Buffer{}))
	assert.Error(t, run(context.Background(), []string{"a.json", "b.json"}, nil, &bytes.Buffer{}))
}
