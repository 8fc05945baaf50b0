// Package tide extracts high- and low-water slack windows from a tide
// height series.
package tide

import (
	"errors"
	"fmt"
	"time"

	"weatherops/internal/model"
)

// DefaultSlackWidth is the total slack window width used when the caller
// does not specify one.
const DefaultSlackWidth = time.Hour

var ErrTooFewPoints = errors.New("tide series needs at least three points")

// SlackWindows locates local extrema in a time-sorted tide height series and
// returns a slack window of the given total width centered on each: HW at
// local maxima, LW at local minima. The series must be strictly increasing
// in time. Flat-topped extrema (equal neighbouring heights) are credited to
// the first sample of the plateau.
func SlackWindows(points []model.TidePoint, width time.Duration) ([]model.TideWindow, error) {
	if len(points) < 3 {
		return nil, ErrTooFewPoints
	}
	if width <= 0 {
		width = DefaultSlackWidth
	}
	for i := 1; i < len(points); i++ {
		if !points[i].Time.After(points[i-1].Time) {
			return nil, fmt.Errorf("tide series not strictly time-ordered at %s", points[i].Time.Format(time.RFC3339))
		}
	}

	half := width / 2
	var out []model.TideWindow
	for i := 1; i < len(points)-1; i++ {
		prev, cur, next := points[i-1].Height, points[i].Height, points[i+1].Height
		var kind model.TideWindowType
		switch {
		case cur > prev && cur >= next:
			kind = model.HighWater
		case cur < prev && cur <= next:
			kind = model.LowWater
		default:
			continue
		}
		out = append(out, model.TideWindow{
			Type:  kind,
			Start: points[i].Time.Add(-half),
			End:   points[i].Time.Add(half),
		})
	}
	return out, nil
}
