package charts

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Data"

// XLSXRenderer writes the chart data to a workbook sheet with a native
// Excel chart over it. Bar cells are filled with their threshold color.
type XLSXRenderer struct{}

func (XLSXRenderer) Format() Format { return FormatXLSX }

func (r XLSXRenderer) Render(ctx context.Context, surface Surface, cfg *ChartConfig) (*Widget, error) {
	var chartType excelize.ChartType
	switch cfg.Type {
	case KindBar:
		chartType = excelize.Col
	case KindLine:
		chartType = excelize.Line
	default:
		return nil, fmt.Errorf("%w: unsupported chart kind %q", ErrInvalidInput, cfg.Type)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeSheetData(f, cfg); err != nil {
		return nil, err
	}

	series, err := sheetSeries(cfg)
	if err != nil {
		return nil, err
	}

	width, height := surface.Size()
	legend := "none"
	if cfg.Options.Plugins.Legend.Display {
		legend = "bottom"
	}
	zero := 0.0
	xlChart := &excelize.Chart{
		Type:      chartType,
		Series:    series,
		Dimension: excelize.ChartDimension{Width: uint(width), Height: uint(height)},
		Legend:    excelize.ChartLegend{Position: legend},
		XAxis:     excelize.ChartAxis{Title: richText(cfg.XTitle())},
		YAxis:     excelize.ChartAxis{Title: richText(cfg.YTitle()), Minimum: &zero, MajorGridLines: true},
	}
	if cfg.Title != "" {
		xlChart.Title = richText(cfg.Title)
	}

	anchor, err := excelize.CoordinatesToCellName(len(cfg.Data.Datasets)+3, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to place chart: %w", err)
	}
	if err := f.AddChart(xlsxSheet, anchor, xlChart); err != nil {
		return nil, fmt.Errorf("failed to add chart: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return &Widget{SurfaceID: surface.ID, Format: FormatXLSX, Content: buf.Bytes()}, nil
}

func writeSheetData(f *excelize.File, cfg *ChartConfig) error {
	header := []interface{}{cfg.XTitle()}
	if header[0] == "" {
		header[0] = "Label"
	}
	for i, ds := range cfg.Data.Datasets {
		header = append(header, seriesName(ds, i))
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	styles := make(map[string]int)
	for i, label := range cfg.Data.Labels {
		if label == "" {
			label = strconv.Itoa(i + 1)
		}
		row := []interface{}{label}
		for _, ds := range cfg.Data.Datasets {
			if i < len(ds.Data) {
				row = append(row, ds.Data[i])
			} else {
				row = append(row, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}

		if cfg.Type != KindBar {
			continue
		}
		for j, ds := range cfg.Data.Datasets {
			hex := ds.BackgroundColor.At(i).Hex()
			style, ok := styles[hex]
			if !ok {
				style, err = f.NewStyle(&excelize.Style{
					Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex}},
				})
				if err != nil {
					return fmt.Errorf("failed to create cell style: %w", err)
				}
				styles[hex] = style
			}
			valueCell, err := excelize.CoordinatesToCellName(j+2, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(xlsxSheet, valueCell, valueCell, style); err != nil {
				return fmt.Errorf("failed to style %s: %w", valueCell, err)
			}
		}
	}
	return nil
}

func sheetSeries(cfg *ChartConfig) ([]excelize.ChartSeries, error) {
	// An empty range would make Excel reject the chart part.
	end := cfg.Len() + 1
	if end < 2 {
		end = 2
	}

	series := make([]excelize.ChartSeries, 0, len(cfg.Data.Datasets))
	for i, ds := range cfg.Data.Datasets {
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return nil, err
		}
		s := excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", xlsxSheet, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", xlsxSheet, end),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", xlsxSheet, col, col, end),
		}
		if cfg.Type == KindLine {
			s.Line = excelize.ChartLine{Smooth: ds.Tension > 0, Width: 2}
			s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{ds.BorderColor.At(0).Hex()}}
		} else if len(ds.BackgroundColor) == 1 {
			s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{ds.BackgroundColor[0].Hex()}}
		}
		series = append(series, s)
	}
	return series, nil
}

func seriesName(ds Dataset, i int) string {
	if ds.Label != "" {
		return ds.Label
	}
	return fmt.Sprintf("Series %d", i+1)
}

func richText(s string) []excelize.RichTextRun {
	if s == "" {
		return nil
	}
	return []excelize.RichTextRun{{Text: s}}
}
