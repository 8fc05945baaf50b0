// Package ingest parses the CSV tables a plan is built from: the activity
// list, its constraint table, and tide/forecast time series. Column naming
// follows the operation planning sheets the tables are exported from.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"weatherops/internal/model"
)

// Activity table columns.
const (
	colID          = "ID"
	colName        = "Name"
	colSubActivity = "Sub Activity"
	colPreds       = "Predecessor ID(s)"
	colDuration    = "Duration (hours)"
	colGroup       = "Group"
	colConstraint  = "Constraint_ID"
)

// Constraint table weather-limit columns.
const (
	colMaxWind       = "Maximum Wind Speed at 10m (m/s)"
	colMaxHs         = "Maximum Significant Wave Height, Hs (m)"
	colMaxWavePeriod = "Maximum Wave Period (s)"
	colMaxCurrent    = "Maximum Tidal Current (knots)"
	colMinTidalLevel = "Minimum Tidal Level (mOD)"
	colVisibility    = "Visibility (nm)"
)

// constraint is one row of the constraint table.
type constraint struct {
	daylight bool
	tide     model.TideRequirement
	weather  model.WeatherLimits
}

// Activities parses the activity table and its constraint table into domain
// activities. Constraint_ID values in the activity table that have no row
// in the constraint table leave the activity unconstrained, matching the
// source sheets where "-" marks unconstrained work.
func Activities(activities, constraints io.Reader) ([]*model.Activity, error) {
	cmap, err := parseConstraints(constraints)
	if err != nil {
		return nil, fmt.Errorf("constraint table: %w", err)
	}

	table, err := readTable(activities)
	if err != nil {
		return nil, fmt.Errorf("activity table: %w", err)
	}
	for _, required := range []string{colID, colName, colPreds, colDuration, colGroup} {
		if !table.has(required) {
			return nil, fmt.Errorf("activity table: missing column %q", required)
		}
	}

	out := make([]*model.Activity, 0, len(table.rows))
	for i, row := range table.rows {
		id := table.get(row, colID)
		if id == "" {
			return nil, fmt.Errorf("activity table row %d: empty ID", i+2)
		}
		a := &model.Activity{
			ID:           id,
			Name:         table.get(row, colName),
			Description:  table.get(row, colSubActivity),
			Predecessors: splitIDs(table.get(row, colPreds)),
			Group:        table.get(row, colGroup),
		}
		if err := parseDuration(a, table.get(row, colDuration)); err != nil {
			return nil, fmt.Errorf("activity %q: %w", id, err)
		}
		if cid := table.get(row, colConstraint); cid != "" && cid != "-" {
			if c, ok := cmap[cid]; ok {
				a.DaylightRequired = c.daylight
				a.TideRequirement = c.tide
				a.Weather = c.weather
			}
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("activity table: no rows")
	}
	return out, nil
}

// splitIDs parses a comma-separated ID list; "-" and empty mean none.
func splitIDs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseDuration handles plain hour values and "until <ID>" references.
func parseDuration(a *model.Activity, raw string) error {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(raw), "until") {
		ref := strings.TrimSpace(raw[len("until"):])
		if ref == "" {
			return fmt.Errorf("duration %q names no reference activity", raw)
		}
		a.DurationRef = ref
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q", raw)
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q", raw)
	}
	a.DurationHours = v
	return nil
}

func parseConstraints(r io.Reader) (map[string]constraint, error) {
	table, err := readTable(r)
	if err != nil {
		return nil, err
	}
	if !table.has(colConstraint) {
		return nil, fmt.Errorf("missing column %q", colConstraint)
	}

	// Daylight and tidal-window columns are matched by substring: the
	// sheets vary the exact phrasing ("Daylight Required", "Daylight
	// Only Operation?").
	daylightCol := table.find("Daylight")
	tideCol := table.find("Tidal Window")

	out := make(map[string]constraint, len(table.rows))
	for i, row := range table.rows {
		cid := table.get(row, colConstraint)
		if cid == "" {
			continue
		}
		var c constraint
		if daylightCol != "" {
			c.daylight = parseYes(table.get(row, daylightCol))
		}
		if tideCol != "" {
			c.tide = parseTide(table.get(row, tideCol))
			if !c.tide.Valid() {
				return nil, fmt.Errorf("row %d: unknown tidal window value %q", i+2, table.get(row, tideCol))
			}
		}
		var perr error
		limit := func(col string) *float64 {
			raw := table.get(row, col)
			if raw == "" || raw == "-" || !table.has(col) {
				return nil
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				perr = fmt.Errorf("row %d: invalid %s value %q", i+2, col, raw)
				return nil
			}
			return &v
		}
		c.weather = model.WeatherLimits{
			MaxWindSpeed:    limit(colMaxWind),
			MaxWaveHeight:   limit(colMaxHs),
			MaxWavePeriod:   limit(colMaxWavePeriod),
			MaxTidalCurrent: limit(colMaxCurrent),
			MinTidalLevel:   limit(colMinTidalLevel),
			MinVisibility:   limit(colVisibility),
		}
		if perr != nil {
			return nil, perr
		}
		out[cid] = c
	}
	return out, nil
}

func parseYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

func parseTide(s string) model.TideRequirement {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "slack":
		return model.TideSlack
	case "slackhw":
		return model.TideSlackHW
	case "", "-", "no", "n", "none", "false", "0":
		return model.TideNone
	}
	// Surfaced as invalid by the caller.
	return model.TideRequirement(s)
}

// table is a header-indexed CSV.
type table struct {
	cols map[string]int
	rows [][]string
}

func readTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.TrimSpace(h)] = i
	}
	return &table{cols: cols, rows: records[1:]}, nil
}

func (t *table) has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

// find returns the first header containing the given substring.
func (t *table) find(substr string) string {
	for name := range t.cols {
		if strings.Contains(name, substr) {
			return name
		}
	}
	return ""
}

func (t *table) get(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
