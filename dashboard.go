package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"homedash/internal/charts"
	"homedash/internal/dashboard"
	"homedash/internal/fetchers"
	"homedash/internal/logger"
	"homedash/internal/storage"
)

// panelFlag is one --panel value: preset[:surface]=source.
type panelFlag struct {
	preset  string
	surface string
	source  string
}

func parsePanelFlag(value string) (panelFlag, error) {
	target, source, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(source) == "" {
		return panelFlag{}, fmt.Errorf("%w: panel %q must look like preset[:surface]=source", charts.ErrInvalidInput, value)
	}
	preset, surface, _ := strings.Cut(target, ":")
	preset = strings.TrimSpace(preset)
	if preset == "" {
		return panelFlag{}, fmt.Errorf("%w: panel %q has no preset", charts.ErrInvalidInput, value)
	}
	if surface == "" {
		surface = preset
	}
	return panelFlag{preset: preset, surface: surface, source: strings.TrimSpace(source)}, nil
}

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	var (
		panels    []string
		title     string
		introFile string
		theme     string
		stdout    bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Compose several preset charts into one HTML page",
		Example: `  homedash dashboard \
    --panel darts-501=scores.json \
    --panel network-speed:speedChart=http://speedtest.lan/api/results.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, registry, err := opts.load(ctx)
			if err != nil {
				return err
			}

			chartTheme := cfg.ChartTheme()
			if theme != "" {
				if chartTheme, err = charts.ThemeByName(theme); err != nil {
					return err
				}
			}

			page := dashboard.NewPage(title, chartTheme.IsDark())
			if introFile != "" {
				intro, err := os.ReadFile(introFile)
				if err != nil {
					return fmt.Errorf("failed to read intro: %w", err)
				}
				page.SetIntro(string(intro))
			}

			parsed := make([]panelFlag, 0, len(panels))
			sources := make([]string, 0, len(panels))
			for _, value := range panels {
				p, err := parsePanelFlag(value)
				if err != nil {
					return err
				}
				if err := page.Declare(p.surface, 0, 0); err != nil {
					return err
				}
				parsed = append(parsed, p)
				sources = append(sources, p.source)
			}

			inputs, err := fetchers.NewDataFetcher(fetchers.WithStdin(cmd.InOrStdin())).LoadAll(ctx, sources)
			if err != nil {
				return err
			}

			builder := charts.NewBuilder(page, chartTheme,
				charts.WithRenderer(charts.ChartJSRenderer{OmitLibrary: true}))
			for i, p := range parsed {
				spec, err := registry.Get(p.preset)
				if err != nil {
					return err
				}
				widget, err := builder.BuildAndRender(ctx, p.surface, spec, inputs[i])
				if err != nil {
					return err
				}
				if err := page.AddWidget(spec.Title, widget); err != nil {
					return err
				}
			}

			html, err := page.HTML()
			if err != nil {
				return err
			}
			if stdout {
				_, err = fmt.Fprint(cmd.OutOrStdout(), html)
				return err
			}

			store, err := storage.NewLocalStorageClient(cfg.OutputDir)
			if err != nil {
				return err
			}
			defer store.Close()

			path, err := storage.StoreArtifact(ctx, store, "dashboard", ".html", []byte(html), time.Now())
			if err != nil {
				return err
			}
			logger.Info("dashboard rendered", logger.Fields{"path": path, "panels": len(parsed)})
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(store.BaseDir(), filepath.FromSlash(path)))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&panels, "panel", nil, "Panel as preset[:surface]=source, repeatable")
	cmd.Flags().StringVar(&title, "title", "Home Dashboard", "Page title")
	cmd.Flags().StringVar(&introFile, "intro", "", "Markdown file shown above the charts")
	cmd.Flags().StringVar(&theme, "theme", "", "Override the theme: dark or plain")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write the page to stdout instead of the output directory")
	return cmd
}
