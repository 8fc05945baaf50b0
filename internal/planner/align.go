package planner

import (
	"sort"
	"time"

	"weatherops/internal/model"
)

// tideWindows returns the slack windows admissible for the activity's tide
// requirement.
func (s *Scheduler) tideWindows(req model.TideRequirement) []model.Window {
	return s.tide[req]
}

// overlapsDaylight reports whether [start, start+d) intersects any daylight
// window.
func (s *Scheduler) overlapsDaylight(start time.Time, d time.Duration) bool {
	end := start.Add(d)
	for _, w := range s.daylight {
		lo := start
		if w.Start.After(lo) {
			lo = w.Start
		}
		hi := end
		if w.End.Before(hi) {
			hi = w.End
		}
		if hi.After(lo) {
			return true
		}
	}
	return false
}

// findAlignedStart returns the earliest admissible start for a at or after
// earliest.
//
// Tide-constrained activities are centered on the midpoint of the first
// slack window (ordered by midpoint) whose centered start is not before
// earliest and, when daylight is also required, overlaps daylight. If the
// tide search fails, a daylight-only placement is attempted; failing that
// the activity starts at earliest unaligned.
func (s *Scheduler) findAlignedStart(a *model.Activity, earliest time.Time) time.Time {
	d := s.duration(a)
	if a.TideRequirement != model.TideNone {
		windows := append([]model.Window{}, s.tideWindows(a.TideRequirement)...)
		sort.Slice(windows, func(i, j int) bool {
			return windows[i].Mid().Before(windows[j].Mid())
		})
		for _, w := range windows {
			proposed := w.Mid().Add(-d / 2)
			if proposed.Before(earliest) {
				continue
			}
			if !a.DaylightRequired || s.overlapsDaylight(proposed, d) {
				return proposed
			}
		}
	}
	if a.DaylightRequired {
		for _, w := range s.daylight {
			if !w.Start.Before(earliest) && w.Duration() >= d {
				return w.Start
			}
		}
	}
	return earliest
}

// findLatestAlignedStart mirrors findAlignedStart from the other end: the
// latest admissible start such that the activity finishes by latestEnd.
// Windows are scanned newest first and the activity is right-aligned into
// the first one it fits. With no admissible window the activity simply
// finishes at latestEnd.
func (s *Scheduler) findLatestAlignedStart(a *model.Activity, latestEnd time.Time) time.Time {
	d := s.duration(a)
	latestStart := latestEnd.Add(-d)
	if a.TideRequirement != model.TideNone {
		windows := append([]model.Window{}, s.tideWindows(a.TideRequirement)...)
		sort.Slice(windows, func(i, j int) bool {
			return windows[i].End.After(windows[j].End)
		})
		for _, w := range windows {
			windowEnd := w.End
			if latestEnd.Before(windowEnd) {
				windowEnd = latestEnd
			}
			windowStart := windowEnd.Add(-d)
			if windowStart.Before(w.Start) || windowStart.After(latestStart) {
				continue
			}
			if !a.DaylightRequired || s.overlapsDaylight(windowStart, d) {
				return windowStart
			}
		}
	}
	if a.DaylightRequired {
		windows := append([]model.Window{}, s.daylight...)
		sort.Slice(windows, func(i, j int) bool {
			return windows[i].End.After(windows[j].End)
		})
		for _, w := range windows {
			windowEnd := w.End
			if latestEnd.Before(windowEnd) {
				windowEnd = latestEnd
			}
			windowStart := windowEnd.Add(-d)
			if !windowStart.Before(w.Start) && !windowStart.After(latestStart) {
				return windowStart
			}
		}
	}
	return latestStart
}
