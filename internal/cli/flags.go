package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/config"
	"github.com/matzehuels/sunburst/pkg/core/taxonomy"
	"github.com/matzehuels/sunburst/pkg/io"
)

// chartFlags are the chart option flags shared by commands that fold a
// query. Flags override the --config file, which overrides the defaults.
type chartFlags struct {
	configPath     string
	colorBy        string
	colorRange     []string
	showPercentage bool
	showNull       bool
	width          int
	height         int
	valueFormat    string
	fontFamily     string
}

func (f *chartFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "chart options file (TOML)")
	fs.StringVar(&f.colorBy, "color-by", string(d.ColorBy), "colour key: root (depth-1 ancestor) or node")
	fs.StringSliceVar(&f.colorRange, "color-range", d.ColorRange, "categorical colours (comma-separated hex)")
	fs.BoolVar(&f.showPercentage, "show-percentage", d.ShowPercentage, "show the share of the total in the centre label")
	fs.BoolVar(&f.showNull, "show-null", d.ShowNullPoints, "keep null path segments as nodes")
	fs.IntVar(&f.width, "width", d.Width, "chart width")
	fs.IntVar(&f.height, "height", d.Height, "chart height")
	fs.StringVar(&f.valueFormat, "value-format", "", "value format such as \"$#,##0.00\" (default: the measure's format)")
	fs.StringVar(&f.fontFamily, "font", d.FontFamily, "font family")
}

// resolve layers the config file and the flags that were set explicitly.
func (f *chartFlags) resolve(cmd *cobra.Command) (config.Chart, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return config.Chart{}, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("color-by") {
		cfg.ColorBy = config.ColorBy(f.colorBy)
	}
	if changed("color-range") {
		cfg.ColorRange = f.colorRange
	}
	if changed("show-percentage") {
		cfg.ShowPercentage = f.showPercentage
	}
	if changed("show-null") {
		cfg.ShowNullPoints = f.showNull
	}
	if changed("width") {
		cfg.Width = f.width
	}
	if changed("height") {
		cfg.Height = f.height
	}
	if changed("value-format") {
		cfg.ValueFormat = f.valueFormat
	}
	if changed("font") {
		cfg.FontFamily = f.fontFamily
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Chart{}, err
	}
	return cfg, nil
}

// loadRows reads a query file. An unset value format is taken from the
// query's measure.
func loadRows(path string, cfg *config.Chart) ([]taxonomy.Row, error) {
	q, err := io.ImportQuery(path)
	if err != nil {
		return nil, err
	}
	rows, err := q.Rows()
	if err != nil {
		return nil, err
	}
	if cfg.ValueFormat == "" {
		cfg.ValueFormat = q.Measure().ValueFormat
	}
	return rows, nil
}

// parseHighlight splits a slash-separated node path.
func parseHighlight(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}
