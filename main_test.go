package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homedash/internal/charts"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	out := t.TempDir()
	t.Setenv("OUTPUT_DIR", out)
	t.Setenv("PRESETS_FILE", "")
	t.Setenv("DEFAULT_FORMAT", "json")
	t.Setenv("CHART_THEME", "dark")
	t.Setenv("LOG_LEVEL", "error")
	return out
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderToStdout(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "[20, 40, 60]", "render", "--preset", "darts-501", "--stdout")
	require.NoError(t, err)

	var cfg charts.ChartConfig
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, charts.KindBar, cfg.Type)
	require.Len(t, cfg.Data.Datasets, 1)

	p := charts.DefaultScorePalette()
	assert.Equal(t, charts.Colors{p.Low, p.Mid, p.High}, cfg.Data.Datasets[0].BackgroundColor)
}

func TestRenderThresholdOverride(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "[15, 25]", "render", "--preset", "darts-501", "--stdout", "--thresholds", "10,20")
	require.NoError(t, err)

	var cfg charts.ChartConfig
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	p := charts.DefaultScorePalette()
	assert.Equal(t, charts.Colors{p.Mid, p.High}, cfg.Data.Datasets[0].BackgroundColor)

	_, err = execute(t, "[15]", "render", "--preset", "darts-501", "--stdout", "--thresholds", "10")
	assert.ErrorIs(t, err, charts.ErrInvalidInput)
}

func TestRenderToOutputDir(t *testing.T) {
	dir := setupEnv(t)
	input := filepath.Join(t.TempDir(), "usage.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"records":[
		{"date":"2024-06-01","usage":12.5,"produced":20.1},
		{"date":"2024-06-02","usage":14.0,"produced":18.3}
	]}`), 0644))

	out, err := execute(t, "", "render", "--preset", "emporia-usage", "--input", input, "--format", "png", "--surface", "usage")
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(path, dir), "artifact %s outside %s", path, dir)
	assert.Equal(t, ".png", filepath.Ext(path))
	assert.Contains(t, filepath.Base(path), "usage-")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRenderErrors(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr error
	}{
		{"unknown preset", "[]", []string{"render", "--preset", "nope", "--stdout"}, charts.ErrUnknownPreset},
		{"malformed record", `[{"date":"d","usage":"lots","produced":1}]`, []string{"render", "--preset", "emporia-usage", "--stdout"}, charts.ErrMalformedRecord},
		{"blank surface", "[]", []string{"render", "--preset", "darts-501", "--surface", " ", "--stdout"}, charts.ErrInvalidSurface},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.stdin, tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := execute(t, "[]", "render", "--preset", "darts-501", "--format", "svg", "--stdout")
	assert.Error(t, err)

	_, err = execute(t, "[]", "render", "--stdout")
	assert.Error(t, err, "preset flag is required")
}

func TestInspect(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "[20, 40, 60]", "inspect", "--preset", "darts-501")
	require.NoError(t, err)
	assert.Contains(t, out, "501 Average")
	assert.Contains(t, out, "Avg 3 Dart Score")
	assert.Contains(t, out, "low")
	assert.Contains(t, out, "mid")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "60.00")

	out, err = execute(t, `[{"date":"2024-06-01","download":250,"upload":20}]`, "inspect", "--preset", "network-speed")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-06-01")
	assert.Contains(t, out, "Download")
	assert.Contains(t, out, "250.00")

	out, err = execute(t, "[]", "inspect", "--preset", "network-latency")
	require.NoError(t, err)
	assert.Contains(t, out, "No data")
}

func TestPresetsCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "", "presets")
	require.NoError(t, err)
	for _, name := range charts.DefaultRegistry().Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "thresholds 34.5 / 49.5")
}

func TestInvalidLogLevelFlag(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "", "presets", "--log-level", "chatty")
	assert.Error(t, err)
}

func TestRenderFromURL(t *testing.T) {
	setupEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"date":"2024-06-01","ping":12,"tcp_latency":30}]`))
	}))
	defer srv.Close()

	out, err := execute(t, "", "render", "--preset", "network-latency", "--input", srv.URL, "--stdout", "--format", "chartjs")
	require.NoError(t, err)
	assert.Contains(t, out, `id="network-latency"`)
	assert.Contains(t, out, "TCP Latency")
}

func TestParsePanelFlag(t *testing.T) {
	tests := []struct {
		value   string
		want    panelFlag
		wantErr bool
	}{
		{"darts-501=scores.json", panelFlag{"darts-501", "darts-501", "scores.json"}, false},
		{"network-speed:speedChart=http://x/y.json", panelFlag{"network-speed", "speedChart", "http://x/y.json"}, false},
		{"darts-501=-", panelFlag{"darts-501", "darts-501", "-"}, false},
		{"darts-501", panelFlag{}, true},
		{"=scores.json", panelFlag{}, true},
		{"darts-501=", panelFlag{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parsePanelFlag(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, charts.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDashboardCommand(t *testing.T) {
	dir := setupEnv(t)
	tmp := t.TempDir()
	scores := filepath.Join(tmp, "scores.json")
	usage := filepath.Join(tmp, "usage.json")
	intro := filepath.Join(tmp, "intro.md")
	require.NoError(t, os.WriteFile(scores, []byte("[30, 45, 55]"), 0644))
	require.NoError(t, os.WriteFile(usage, []byte(`[{"date":"2024-06-01","usage":3,"produced":4}]`), 0644))
	require.NoError(t, os.WriteFile(intro, []byte("# Welcome\n\nThis week at home."), 0644))

	out, err := execute(t, "", "dashboard",
		"--panel", "darts-501:dartChart="+scores,
		"--panel", "emporia-usage="+usage,
		"--intro", intro,
		"--title", "My House",
		"--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "<title>My House</title>")
	assert.Contains(t, out, "Welcome")
	assert.Contains(t, out, `id="dartChart"`)
	assert.Contains(t, out, `id="emporia-usage"`)
	assert.Contains(t, out, "501 Average")
	assert.Equal(t, 1, strings.Count(out, "cdn.jsdelivr.net/npm/chart.js"), "library included once")

	out, err = execute(t, "", "dashboard", "--panel", "darts-501="+scores)
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(path, dir))
	assert.Equal(t, ".html", filepath.Ext(path))
}

func TestDashboardCommandErrors(t *testing.T) {
	setupEnv(t)
	scores := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, os.WriteFile(scores, []byte("[30]"), 0644))

	_, err := execute(t, "", "dashboard", "--panel", "nope="+scores, "--stdout")
	assert.ErrorIs(t, err, charts.ErrUnknownPreset)

	_, err = execute(t, "", "dashboard", "--panel", "darts-501:a="+scores, "--panel", "darts-score-training:a="+scores, "--stdout")
	assert.ErrorIs(t, err, charts.ErrInvalidSurface)

	_, err = execute(t, "", "dashboard", "--panel", "darts-501", "--stdout")
	assert.ErrorIs(t, err, charts.ErrInvalidInput)
}

func TestArtifactsCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "", "artifacts")
	require.NoError(t, err)
	assert.Contains(t, out, "No artifacts")

	_, err = execute(t, "[40]", "render", "--preset", "darts-501", "--surface", "dartChart")
	require.NoError(t, err)

	out, err = execute(t, "", "artifacts")
	require.NoError(t, err)
	assert.Contains(t, out, "dartChart-")
	assert.Contains(t, out, "application/json")

	_, err = execute(t, "", "artifacts", "--dir", "../elsewhere")
	assert.Error(t, err)
}

func TestArtifactsShow(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "[40, 55]", "render", "--preset", "darts-501", "--surface", "dartChart")
	require.NoError(t, err)
	rel, err := filepath.Rel(dir, strings.TrimSpace(out))
	require.NoError(t, err)

	shown, err := execute(t, "", "artifacts", "--show", filepath.ToSlash(rel))
	require.NoError(t, err)
	var cfg charts.ChartConfig
	require.NoError(t, json.Unmarshal([]byte(shown), &cfg))
	assert.Equal(t, charts.KindBar, cfg.Type)
	assert.Equal(t, []float64{40, 55}, cfg.Data.Datasets[0].Data)

	_, err = execute(t, "", "artifacts", "--show", "2020/01/01/missing.json")
	assert.ErrorIs(t, err, charts.ErrInvalidInput)

	_, err = execute(t, "", "artifacts", "--show", "../outside.json")
	assert.Error(t, err)
}

func TestDashboardSharedStdinPanels(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "[30, 45, 55]", "dashboard",
		"--panel", "darts-501:first=-",
		"--panel", "darts-score-training:second=-",
		"--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, `id="first"`)
	assert.Contains(t, out, `id="second"`)
	assert.Equal(t, 2, strings.Count(out, `"data":[30,45,55]`), "both panels chart the stdin scores")
}
