package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/recordkit/pkg/recordkit/listener/journal"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recordkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func outputLines(s string) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "recordkit dev (commit: unknown, built: unknown)\n", stdout)
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"help without args", nil, 0, "demo", ""},
		{"unknown command", []string{"nope"}, 1, "", `unknown command "nope"`},
		{"unknown flag", []string{"version", "--nope"}, 1, "", "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stdout, tt.wantStdout)
			assert.Contains(t, stderr, tt.wantStderr)
		})
	}
}

func TestDemoPrintsCurrentRecording(t *testing.T) {
	code, stdout, stderr := runCLI(t, "demo", "-n", "1")
	require.Equal(t, 0, code, stderr)

	lines := outputLines(stdout)
	require.Len(t, lines, 10)
	assert.Contains(t, lines[0], "current=demo.request #1 depth=0")
	assert.Contains(t, lines[1], "current=demo.auth depth=1")
	assert.Contains(t, lines[2], "current=demo.request #1 depth=0")
	assert.Contains(t, lines[7], "current=demo.batch.flush depth=1")
	assert.True(t, strings.HasSuffix(lines[9], "current=- depth=0"), lines[9])

	// The default settings install the logging listener at info.
	assert.Contains(t, stderr, "recording stopped")
}

func TestDemoDisabled(t *testing.T) {
	path := writeConfig(t, "enabled: false\nlogging:\n  level: error\n")

	code, stdout, stderr := runCLI(t, "demo", "-n", "1", "--config", path)
	require.Equal(t, 0, code, stderr)

	for _, line := range outputLines(stdout) {
		assert.Contains(t, line, "current=(disabled)")
	}
	assert.Empty(t, stderr)
}

func TestDemoJournalRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	path := writeConfig(t, "listeners: [journal, longtask]\nlogging:\n  level: error\njournal:\n  path: "+dbPath+"\n")

	code, _, stderr := runCLI(t, "demo", "-n", "3", "--config", path)
	require.Equal(t, 0, code, stderr)

	// Per request: the request, three steps, one cache miss, one batch flush.
	code, stdout, stderr := runCLI(t, "journal", "list", "--path", dbPath, "--count")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "18\n", stdout)

	code, stdout, stderr = runCLI(t, "journal", "list", "--path", dbPath, "--event", "demo.request", "--json")
	require.Equal(t, 0, code, stderr)
	lines := outputLines(stdout)
	require.Len(t, lines, 3)

	var third journal.Entry
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &third))
	assert.Equal(t, "demo.request #3", third.Name)
	assert.Equal(t, errRender.Error(), third.Error)

	code, stdout, stderr = runCLI(t, "journal", "list", "--path", dbPath, "--kind", "instant", "--limit", "2")
	require.Equal(t, 0, code, stderr)
	lines = outputLines(stdout)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "SEQ"))
	assert.Contains(t, lines[1], "demo.cache.miss")
}

func TestDemoErrors(t *testing.T) {
	bad := writeConfig(t, "policy: sometimes\n")

	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"watch without config", []string{"demo", "--watch"}, "--watch needs --config"},
		{"invalid config", []string{"demo", "--config", bad}, "invalid composite policy"},
		{"missing config", []string{"demo", "--config", filepath.Join(t.TempDir(), "none.yaml")}, "read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.errMsg)
		})
	}
}

func TestDemoWatchStopsWithContext(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: error\n")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	opts := demoOptions{configPath: path, watch: true, iterations: 0, interval: 20 * time.Millisecond}
	code := doDemo(ctx, opts, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.NotEmpty(t, stdout.String())
}

func TestJournalListErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"missing path", []string{"journal", "list"}, "--path is required"},
		{"bad kind", []string{"journal", "list", "--path", filepath.Join(t.TempDir(), "j.db"), "--kind", "span"}, `invalid --kind "span"`},
		{"unopenable path", []string{"journal", "list", "--path", "/nonexistent/dir/j.db"}, "recordkit journal list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.errMsg)
		})
	}
}
