package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"weatherops/internal/model"
)

// ScheduleCSV renders the computed schedule as a CSV table. When zeroHourID
// names an activity, two extra columns express start and end as hours
// relative to that activity's start, matching the countdown sheets used on
// operations where a single event (punch-out, first pull) defines T=0.
func ScheduleCSV(activities []*model.Activity, zeroHourID string) ([]byte, error) {
	if len(activities) == 0 {
		return nil, fmt.Errorf("nothing to export")
	}
	var zero *time.Time
	if zeroHourID != "" {
		for _, a := range activities {
			if a.ID == zeroHourID {
				if a.Start == nil {
					return nil, fmt.Errorf("zero-hour activity %q has no computed start", zeroHourID)
				}
				zero = a.Start
				break
			}
		}
		if zero == nil {
			return nil, fmt.Errorf("zero-hour activity %q not found", zeroHourID)
		}
	}

	header := []string{
		"ID", "Name", "Description", "Group",
		"Predecessor IDs", "Successor IDs",
		"Duration (hours)", "Start", "End",
		"Earliest Start", "Latest End", "Float (hours)", "Critical",
	}
	if zero != nil {
		header = append(header, "Start (hours from zero)", "End (hours from zero)")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, a := range activities {
		if !a.Scheduled() {
			return nil, fmt.Errorf("activity %q has no computed schedule", a.ID)
		}
		row := []string{
			a.ID, a.Name, a.Description, a.Group,
			strings.Join(a.Predecessors, ", "),
			strings.Join(a.Successors, ", "),
			hours(a.DurationHours),
			stamp(*a.Start), stamp(*a.End),
			optStamp(a.EarliestStart), optStamp(a.LatestEnd),
			optHours(a.FloatHours),
			strconv.FormatBool(a.Critical),
		}
		if zero != nil {
			row = append(row,
				hours(a.Start.Sub(*zero).Hours()),
				hours(a.End.Sub(*zero).Hours()),
			)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func hours(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func optHours(v *float64) string {
	if v == nil {
		return ""
	}
	return hours(*v)
}

func optStamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return stamp(*t)
}
