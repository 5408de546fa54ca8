package cli

import (
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nanofab/reticle/pkg/gds"
	"github.com/nanofab/reticle/pkg/mask"
)

// fileConfig mirrors the optional placement-geometry config file. Lengths
// are millimeters; unset keys keep their compiled-in defaults.
type fileConfig struct {
	Template templateConfig `toml:"template"`
	Layers   layersConfig   `toml:"layers"`
	Geometry geomConfig     `toml:"geometry"`
}

type templateConfig struct {
	DesignCell string `toml:"design_cell"`
}

type layersConfig struct {
	ReservedLayer    int16 `toml:"reserved_layer"`
	ReservedDatatype int16 `toml:"reserved_datatype"`
}

type geomConfig struct {
	BarHeight float64 `toml:"bar_height"`
	QuietZone float64 `toml:"quiet_zone"`
	TextSize  float64 `toml:"text_size"`
	BarcodeX  float64 `toml:"barcode_x"`
	BarcodeY  float64 `toml:"barcode_y"`
	LabelX    float64 `toml:"label_x"`
	LabelY    float64 `toml:"label_y"`
	DateX     float64 `toml:"date_x"`
	DateY     float64 `toml:"date_y"`
}

// dbPerMM converts millimeters to database units (1 nm grid).
const dbPerMM = 1_000_000

func mmToDB(v float64) int32 {
	return int32(math.Round(v * dbPerMM))
}

func dbToMM(v int32) float64 {
	return float64(v) / dbPerMM
}

// defaultFileConfig expresses mask.DefaultGeometry in file units, so a
// partial config file overrides only the keys it names.
func defaultFileConfig() fileConfig {
	geo := mask.DefaultGeometry()
	return fileConfig{
		Template: templateConfig{DesignCell: geo.DesignCell},
		Layers: layersConfig{
			ReservedLayer:    geo.Reserved.Layer,
			ReservedDatatype: geo.Reserved.Datatype,
		},
		Geometry: geomConfig{
			BarHeight: dbToMM(geo.BarHeight),
			QuietZone: dbToMM(geo.QuietZone),
			TextSize:  dbToMM(geo.TextSize),
			BarcodeX:  dbToMM(geo.Barcode.X),
			BarcodeY:  dbToMM(geo.Barcode.Y),
			LabelX:    dbToMM(geo.Label.X),
			LabelY:    dbToMM(geo.Label.Y),
			DateX:     dbToMM(geo.Date.X),
			DateY:     dbToMM(geo.Date.Y),
		},
	}
}

func (c fileConfig) geometry() mask.Geometry {
	return mask.Geometry{
		Reserved: gds.LayerDatatype{
			Layer:    c.Layers.ReservedLayer,
			Datatype: c.Layers.ReservedDatatype,
		},
		DesignCell: c.Template.DesignCell,
		BarHeight:  mmToDB(c.Geometry.BarHeight),
		QuietZone:  mmToDB(c.Geometry.QuietZone),
		TextSize:   mmToDB(c.Geometry.TextSize),
		Barcode:    gds.Point{X: mmToDB(c.Geometry.BarcodeX), Y: mmToDB(c.Geometry.BarcodeY)},
		Label:      gds.Point{X: mmToDB(c.Geometry.LabelX), Y: mmToDB(c.Geometry.LabelY)},
		Date:       gds.Point{X: mmToDB(c.Geometry.DateX), Y: mmToDB(c.Geometry.DateY)},
	}
}

// loadGeometry returns the placement geometry, applying TOML overrides
// from path when one is given.
func loadGeometry(path string) (mask.Geometry, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg.geometry(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return mask.Geometry{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return mask.Geometry{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.geometry(), nil
}
