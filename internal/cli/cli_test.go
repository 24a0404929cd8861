package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/cache"
	"github.com/matzehuels/sunburst/pkg/chart"
	"github.com/matzehuels/sunburst/pkg/config"
	"github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/pipeline"
)

const testQuery = `{
  "fields": {
    "dimension_like": [{"name": "region"}, {"name": "country"}],
    "measure_like": [{"name": "sales", "value_format": "#,##0"}]
  },
  "data": [
    {"region": {"value": "EMEA"}, "country": {"value": "DE"}, "sales": {"value": 1200, "links": [{"label": "Orders", "url": "/orders?c=DE"}]}},
    {"region": {"value": "EMEA"}, "country": {"value": "FR"}, "sales": {"value": 800}},
    {"region": {"value": "APAC"}, "country": {"value": "JP"}, "sales": {"value": 2000}}
  ]
}`

func writeQuery(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.json")
	if err := os.WriteFile(path, []byte(testQuery), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testCLI() *CLI {
	return New(&bytes.Buffer{}, log.InfoLevel)
}

// resolveFlags parses args into a throwaway command carrying chart flags.
func resolveFlags(t *testing.T, args ...string) (config.Chart, error) {
	t.Helper()
	var f chartFlags
	var got config.Chart
	var resolveErr error
	cmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, _ []string) error {
			got, resolveErr = f.resolve(cmd)
			return nil
		},
	}
	f.register(cmd)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	return got, resolveErr
}

func TestChartFlags(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "chart.toml")
	if err := os.WriteFile(cfgPath, []byte("color_by = \"node\"\nwidth = 500\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, c config.Chart)
		wantErr errors.Code
	}{
		{
			name: "Defaults",
			check: func(t *testing.T, c config.Chart) {
				if !reflect.DeepEqual(c, config.Default()) {
					t.Errorf("config = %+v, want defaults", c)
				}
			},
		},
		{
			name: "Flags",
			args: []string{"--color-by", "node", "--color-range", "#000000,#ffffff", "--show-percentage=false", "--value-format", "$#,##0"},
			check: func(t *testing.T, c config.Chart) {
				if c.ColorBy != config.ColorByNode || c.ShowPercentage || c.ValueFormat != "$#,##0" {
					t.Errorf("config = %+v", c)
				}
				if !reflect.DeepEqual(c.ColorRange, []string{"#000000", "#ffffff"}) {
					t.Errorf("color range = %v", c.ColorRange)
				}
			},
		},
		{
			name: "FileThenFlags",
			args: []string{"--config", cfgPath, "--width", "640"},
			check: func(t *testing.T, c config.Chart) {
				if c.ColorBy != config.ColorByNode {
					t.Errorf("color_by from file lost: %q", c.ColorBy)
				}
				if c.Width != 640 {
					t.Errorf("width = %d, want flag value 640", c.Width)
				}
			},
		},
		{
			name:    "BadColorBy",
			args:    []string{"--color-by", "leaf"},
			wantErr: errors.ErrCodeInvalidOption,
		},
		{
			name:    "BadColor",
			args:    []string{"--color-range", "red"},
			wantErr: errors.ErrCodeInvalidColor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := resolveFlags(t, tt.args...)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestLoadRowsTakesMeasureFormat(t *testing.T) {
	cfg := config.Default()
	rows, err := loadRows(writeQuery(t), &cfg)
	if err != nil {
		t.Fatalf("loadRows: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, want 3", len(rows))
	}
	if cfg.ValueFormat != "#,##0" {
		t.Errorf("value format = %q, want the measure's", cfg.ValueFormat)
	}

	cfg.ValueFormat = "0.0"
	if _, err := loadRows(writeQuery(t), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.ValueFormat != "0.0" {
		t.Errorf("explicit value format overwritten: %q", cfg.ValueFormat)
	}
}

func TestRunRender(t *testing.T) {
	input := writeQuery(t)
	out := filepath.Join(t.TempDir(), "out", "sales")

	opts := pipeline.Options{Chart: config.Default(), Formats: []string{"svg", "json", "dot"}, Interactive: true}
	if err := testCLI().runRender(context.Background(), input, opts, out, true); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	svg, err := os.ReadFile(out + ".svg")
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !bytes.Contains(svg, []byte(`class="frames"`)) {
		t.Error("interactive svg lacks hover frames")
	}
	if _, err := os.ReadFile(out + ".dot"); err != nil {
		t.Errorf("dot not written: %v", err)
	}

	ch, err := chart.ReadFile(out + layoutSuffix)
	if err != nil {
		t.Fatalf("json chart not written: %v", err)
	}
	if ch.Total() != 4000 || ch.Options.ValueFormat != "#,##0" {
		t.Errorf("chart total %v format %q", ch.Total(), ch.Options.ValueFormat)
	}
}

func TestRunLayoutThenVisualize(t *testing.T) {
	input := writeQuery(t)
	c := testCLI()

	opts := pipeline.Options{Chart: config.Default()}
	if err := c.runLayout(context.Background(), input, opts, "", true); err != nil {
		t.Fatalf("runLayout: %v", err)
	}
	layoutPath := strings.TrimSuffix(input, ".json") + layoutSuffix
	if _, err := os.Stat(layoutPath); err != nil {
		t.Fatalf("layout not written: %v", err)
	}

	out := filepath.Join(t.TempDir(), "chart.svg")
	vis := pipeline.Options{Formats: []string{"svg"}, Highlight: []string{"EMEA", "DE"}}
	if err := c.runVisualize(context.Background(), layoutPath, vis, out, true); err != nil {
		t.Fatalf("runVisualize: %v", err)
	}
	svg, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !bytes.Contains(svg, []byte(`class="lastCrumb"`)) {
		t.Error("highlighted render lacks the breadcrumb trail")
	}
}

func TestRunRenderErrors(t *testing.T) {
	c := testCLI()
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"fields": {"dimension_like": [], "measure_like": []}, "data": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	err := c.runRender(context.Background(), bad, pipeline.Options{Chart: config.Default()}, "", true)
	if !errors.Is(err, errors.ErrCodeInvalidQuery) {
		t.Errorf("error = %v, want %v", err, errors.ErrCodeInvalidQuery)
	}

	err = c.runRender(context.Background(), filepath.Join(t.TempDir(), "missing.json"), pipeline.Options{}, "", true)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(chartStats{nodes: 6, depth: 2, total: "4,000", skipped: 1, hasCache: true, cached: true})
	for _, want := range []string{"6 nodes", "depth 2", "total 4,000", "1 rows skipped", iconCached} {
		if !strings.Contains(line, want) {
			t.Errorf("stats line %q lacks %q", line, want)
		}
	}
	if strings.Contains(statsLine(chartStats{nodes: 1}), iconFresh) {
		t.Error("cache status shown without a cache")
	}
}

func TestRootCommand(t *testing.T) {
	root := testCLI().RootCommand()
	want := []string{"render", "layout", "visualize", "explore", "serve", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	root := testCLI().RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	want, _ := cacheDir()
	if strings.TrimSpace(out.String()) != want {
		t.Errorf("cache path = %q, want %q", out.String(), want)
	}
}

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "__start_sunburst"},
		{"zsh", "#compdef sunburst"},
		{"fish", "complete -c sunburst"},
		{"powershell", "Register-ArgumentCompleter"},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			root := testCLI().RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", tt.shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", tt.shell, err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("completion %s missing %q", tt.shell, tt.want)
			}
		})
	}

	root := testCLI().RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestCacheStatsCommand(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CACHE_HOME only applies on linux")
	}
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	k := cache.NewDefaultKeyer()
	ctx := context.Background()
	if err := fc.Set(ctx, k.LayoutKey("rows", cache.LayoutKeyOpts{}), []byte("{}"), 0); err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(ctx, k.ArtifactKey("layout", cache.ArtifactKeyOpts{Format: "svg"}), []byte("<svg/>"), 0); err != nil {
		t.Fatal(err)
	}

	root := testCLI().RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "stats"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	for _, want := range []string{"entries    2", "layouts    1", "artifacts  1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("stats output %q missing %q", out.String(), want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		512:         "512 B",
		2048:        "2.0 KiB",
		5 << 20:     "5.0 MiB",
		3 << 30 / 2: "1.5 GiB",
	}
	for n, want := range tests {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}
