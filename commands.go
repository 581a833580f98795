package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"homedash/internal/charts"
	"homedash/internal/config"
	"homedash/internal/fetchers"
	"homedash/internal/logger"
	"homedash/internal/storage"
)

// chartOptions are the flags shared by render and inspect.
type chartOptions struct {
	preset     string
	input      string
	surface    string
	title      string
	theme      string
	thresholds []float64
}

func (c *chartOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.preset, "preset", "p", "", "Preset name (see 'homedash presets')")
	cmd.Flags().StringVarP(&c.input, "input", "i", "-", "JSON input: file path, http(s) URL, or '-' for stdin")
	cmd.Flags().StringVar(&c.surface, "surface", "", "Surface id (default: preset name)")
	cmd.Flags().StringVar(&c.title, "title", "", "Override the preset title")
	cmd.Flags().StringVar(&c.theme, "theme", "", "Override the theme: dark or plain")
	cmd.Flags().Float64SliceVar(&c.thresholds, "thresholds", nil, "Score thresholds as low,high")
	cmd.MarkFlagRequired("preset")
}

// spec resolves the preset and applies the flag overrides.
func (c *chartOptions) spec(registry *charts.Registry) (charts.Spec, error) {
	spec, err := registry.Get(c.preset)
	if err != nil {
		return charts.Spec{}, err
	}
	if c.title != "" {
		spec.Title = c.title
	}
	if c.thresholds != nil {
		if len(c.thresholds) != 2 {
			return charts.Spec{}, fmt.Errorf("%w: --thresholds needs exactly two values, got %d", charts.ErrInvalidInput, len(c.thresholds))
		}
		spec.Thresholds = charts.Thresholds{Low: c.thresholds[0], High: c.thresholds[1]}
	}
	if c.theme != "" {
		theme, err := charts.ThemeByName(c.theme)
		if err != nil {
			return charts.Spec{}, err
		}
		spec.Theme = &theme
	}
	return spec, nil
}

func (c *chartOptions) surfaceID() string {
	if c.surface != "" {
		return c.surface
	}
	return c.preset
}

func (c *chartOptions) readInput(ctx context.Context, stdin io.Reader) (charts.Input, error) {
	return fetchers.NewDataFetcher(fetchers.WithStdin(stdin)).Load(ctx, c.input)
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		chart  chartOptions
		format string
		width  int
		height int
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a preset chart to the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, registry, err := opts.load(ctx)
			if err != nil {
				return err
			}

			f := cfg.Format()
			if format != "" {
				if f, err = charts.ParseFormat(format); err != nil {
					return err
				}
			}
			renderer, err := charts.RendererFor(f)
			if err != nil {
				return err
			}

			spec, err := chart.spec(registry)
			if err != nil {
				return err
			}
			input, err := chart.readInput(cmd.Context(), cmd.InOrStdin())
			if err != nil {
				return err
			}

			builder := charts.NewBuilder(charts.OpenSurfaces{Width: width, Height: height}, cfg.ChartTheme(),
				charts.WithRenderer(renderer))
			widget, err := builder.BuildAndRender(ctx, chart.surfaceID(), spec, input)
			if err != nil {
				return err
			}

			if stdout {
				_, err = cmd.OutOrStdout().Write(widget.Content)
				return err
			}

			store, err := storage.NewLocalStorageClient(cfg.OutputDir)
			if err != nil {
				return err
			}
			defer store.Close()

			path, err := storage.StoreArtifact(ctx, store, widget.SurfaceID, f.Extension(), widget.Content, time.Now())
			if err != nil {
				return err
			}
			logger.Info("chart rendered", logger.Fields{
				"preset":  spec.Name,
				"format":  string(f),
				"path":    path,
				"bytes":   len(widget.Content),
				"surface": widget.SurfaceID,
			})
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(store.BaseDir(), filepath.FromSlash(path)))
			return nil
		},
	}

	chart.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json, chartjs, echarts, png, xlsx (default: DEFAULT_FORMAT)")
	cmd.Flags().IntVar(&width, "width", 0, "Surface width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Surface height in pixels")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write the chart to stdout instead of the output directory")
	return cmd
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var chart chartOptions

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the built chart as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, registry, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			spec, err := chart.spec(registry)
			if err != nil {
				return err
			}
			input, err := chart.readInput(cmd.Context(), cmd.InOrStdin())
			if err != nil {
				return err
			}

			builder := charts.NewBuilder(charts.OpenSurfaces{}, cfg.ChartTheme())
			built, err := builder.Build(chart.surfaceID(), spec, input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), inspectTable(spec, built))
			return nil
		},
	}

	chart.register(cmd)
	return cmd
}

// inspectTable renders one row per label and one column per dataset. Score
// charts get an extra bucket column.
func inspectTable(spec charts.Spec, cfg *charts.ChartConfig) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(cfg.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s chart on %q, x: %s, y: %s",
		cfg.Type, cfg.SurfaceID, cfg.XTitle(), cfg.YTitle())))
	b.WriteString("\n")

	if cfg.Len() == 0 {
		b.WriteString("No data")
		return b.String()
	}

	first := cfg.XTitle()
	if first == "" {
		first = "#"
	}
	headers := []string{first}
	for _, ds := range cfg.Data.Datasets {
		headers = append(headers, ds.Label)
	}
	scoreChart := cfg.Type == charts.KindBar
	if scoreChart {
		headers = append(headers, "Bucket")
	}

	rows := make([][]string, 0, cfg.Len())
	for i, label := range cfg.Data.Labels {
		if label == "" {
			label = fmt.Sprint(i + 1)
		}
		row := []string{label}
		for _, ds := range cfg.Data.Datasets {
			if i < len(ds.Data) {
				row = append(row, fmt.Sprintf("%.2f", ds.Data[i]))
			} else {
				row = append(row, "")
			}
		}
		if scoreChart && len(cfg.Data.Datasets) > 0 && i < len(cfg.Data.Datasets[0].Data) {
			row = append(row, spec.Thresholds.Bucket(cfg.Data.Datasets[0].Data[i]).String())
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...)
	b.WriteString(t.String())
	return b.String()
}

func newPresetsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the available chart presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, registry, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{}
			for _, spec := range registry.Specs() {
				fields := make([]string, 0, len(spec.Series))
				for _, s := range spec.Series {
					fields = append(fields, s.Field)
				}
				detail := strings.Join(fields, ", ")
				if spec.Kind == charts.KindBar {
					detail = fmt.Sprintf("thresholds %g / %g", spec.Thresholds.Low, spec.Thresholds.High)
				}
				rows = append(rows, []string{spec.Name, string(spec.Kind), spec.Title, detail})
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(borderStyle).
				Headers("Preset", "Kind", "Title", "Fields").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("version "+config.GetVersion()))
			return nil
		},
	}
}

func newArtifactsCmd(opts *rootOptions) *cobra.Command {
	var dir, show string

	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "List rendered charts in the output directory, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, _, err := opts.load(ctx)
			if err != nil {
				return err
			}
			store, err := storage.NewLocalStorageClient(cfg.OutputDir)
			if err != nil {
				return err
			}
			defer store.Close()

			if show != "" {
				exists, err := store.FileExists(ctx, show)
				if err != nil {
					return err
				}
				if !exists {
					return fmt.Errorf("%w: no artifact at %s", charts.ErrInvalidInput, show)
				}
				data, err := store.GetFile(ctx, show)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			paths, err := store.ListDir(ctx, dir, true)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No artifacts in "+store.BaseDir()))
				return nil
			}

			rows := make([][]string, 0, len(paths))
			for _, p := range paths {
				rows = append(rows, []string{p, storage.GetContentType(p)})
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(borderStyle).
				Headers("Path", "Content Type").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Subdirectory to list, e.g. 2025/06")
	cmd.Flags().StringVar(&show, "show", "", "Print the artifact at this path instead of listing")
	return cmd
}
