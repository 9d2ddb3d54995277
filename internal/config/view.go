package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/locvowork/excel_intelligence/pkg/pdfexport"
	"github.com/locvowork/excel_intelligence/pkg/sheetview"
	"github.com/locvowork/excel_intelligence/pkg/xlsxexport"
)

// ViewConfig holds the presentation defaults of every view.
type ViewConfig struct {
	Highlight HighlightConfig   `yaml:"highlight"`
	Grid      GridConfig        `yaml:"grid"`
	PDF       pdfexport.Options `yaml:"pdf"`
	XLSX      XLSXConfig        `yaml:"xlsx"`
}

type HighlightConfig struct {
	Keywords []string `yaml:"keywords"`
	Color    string   `yaml:"color"`
}

type GridConfig struct {
	sheetview.GridOptions `yaml:",inline"`
	InteractiveHeight     int `yaml:"interactive_height"`
	ExecutiveHeight       int `yaml:"executive_height"`
}

type XLSXConfig struct {
	HeaderFill  string  `yaml:"header_fill"`
	BorderColor string  `yaml:"border_color"`
	ColumnWidth float64 `yaml:"column_width"`
}

func DefaultViewConfig() ViewConfig {
	xo := xlsxexport.DefaultOptions()
	return ViewConfig{
		Highlight: HighlightConfig{
			Keywords: append([]string(nil), sheetview.DefaultKeywords...),
			Color:    sheetview.DefaultHighlightColor,
		},
		Grid: GridConfig{
			GridOptions:       sheetview.DefaultGridOptions(),
			InteractiveHeight: 650,
			ExecutiveHeight:   520,
		},
		PDF: pdfexport.DefaultOptions(),
		XLSX: XLSXConfig{
			HeaderFill:  xo.HeaderFill,
			BorderColor: xo.BorderColor,
			ColumnWidth: xo.ColumnWidth,
		},
	}
}

// XLSXOptions converts the xlsx section to exporter options.
func (c ViewConfig) XLSXOptions() xlsxexport.Options {
	return xlsxexport.Options{
		HeaderFill:  c.XLSX.HeaderFill,
		BorderColor: c.XLSX.BorderColor,
		ColumnWidth: c.XLSX.ColumnWidth,
	}
}

// ParseViewConfig decodes YAML on top of the defaults: keys missing from the
// document keep their default value.
func ParseViewConfig(data []byte) (ViewConfig, error) {
	cfg := DefaultViewConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ViewConfig{}, fmt.Errorf("decode view config: %w", err)
	}
	if err := sheetview.ValidateColor(cfg.Highlight.Color); err != nil {
		return ViewConfig{}, err
	}
	return cfg, nil
}

// LoadViewConfig reads the YAML file at path. An empty path yields the
// defaults.
func LoadViewConfig(path string) (ViewConfig, error) {
	if path == "" {
		return DefaultViewConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ViewConfig{}, fmt.Errorf("read view config: %w", err)
	}
	return ParseViewConfig(data)
}
