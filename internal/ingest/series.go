package ingest

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"weatherops/internal/model"
)

// Series table columns.
const (
	colDateTime = "DateTime"
	colHeight   = "Height"

	colWindSpeed    = "Wind Speed at 10m (m/s)"
	colWaveHs       = "Significant Wave Height, Hs (m)"
	colWavePeriod   = "Wave Period (s)"
	colTidalCurrent = "Tidal Current (knots)"
	colTidalLevel   = "Tidal Level (mOD)"
	colVis          = "Visibility (nm)"
)

// timeLayouts accepted for series timestamps, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// TideSeries parses a DateTime,Height CSV into a time-sorted series.
func TideSeries(r io.Reader) ([]model.TidePoint, error) {
	table, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("tide series: %w", err)
	}
	for _, required := range []string{colDateTime, colHeight} {
		if !table.has(required) {
			return nil, fmt.Errorf("tide series: missing column %q", required)
		}
	}
	out := make([]model.TidePoint, 0, len(table.rows))
	for i, row := range table.rows {
		ts, err := parseTime(table.get(row, colDateTime))
		if err != nil {
			return nil, fmt.Errorf("tide series row %d: %w", i+2, err)
		}
		h, err := strconv.ParseFloat(table.get(row, colHeight), 64)
		if err != nil {
			return nil, fmt.Errorf("tide series row %d: invalid height %q", i+2, table.get(row, colHeight))
		}
		out = append(out, model.TidePoint{Time: ts, Height: h})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("tide series: no rows")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// ForecastSeries parses a forecast CSV. Missing or empty weather columns
// read as zero.
func ForecastSeries(r io.Reader) ([]model.ForecastPoint, error) {
	table, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("forecast series: %w", err)
	}
	if !table.has(colDateTime) {
		return nil, fmt.Errorf("forecast series: missing column %q", colDateTime)
	}
	out := make([]model.ForecastPoint, 0, len(table.rows))
	for i, row := range table.rows {
		ts, err := parseTime(table.get(row, colDateTime))
		if err != nil {
			return nil, fmt.Errorf("forecast series row %d: %w", i+2, err)
		}
		p := model.ForecastPoint{Time: ts}
		var perr error
		field := func(col string) float64 {
			raw := table.get(row, col)
			if raw == "" || !table.has(col) {
				return 0
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				perr = fmt.Errorf("forecast series row %d: invalid %s value %q", i+2, col, raw)
				return 0
			}
			return v
		}
		p.WindSpeed = field(colWindSpeed)
		p.WaveHeight = field(colWaveHs)
		p.WavePeriod = field(colWavePeriod)
		p.TidalCurrent = field(colTidalCurrent)
		p.TidalLevel = field(colTidalLevel)
		p.Visibility = field(colVis)
		if perr != nil {
			return nil, perr
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("forecast series: no rows")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}
