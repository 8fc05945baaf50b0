// Package planner implements the activity scheduling engine: a precedence
// network of activities placed on the timeline subject to daylight and tidal
// slack window constraints. The package is pure computation; it performs no
// I/O and mutates only the activities it was given.
package planner

import (
	"errors"
	"fmt"
	"time"

	"weatherops/internal/model"
)

var (
	ErrNoActivities   = errors.New("no activities to schedule")
	ErrAnchorNotFound = errors.New("anchor activity not found")
)

// Scheduler places a plan's activity network on the timeline. Build one with
// New, then call Forward or AroundAnchor. The scheduler writes computed
// times back onto the activities it was constructed with.
type Scheduler struct {
	order        []*model.Activity
	byID         map[string]*model.Activity
	daylight     []model.Window
	tide         map[model.TideRequirement][]model.Window
	projectStart time.Time
	now          func() time.Time
}

// Options configure a Scheduler.
type Options struct {
	// ProjectStart anchors root activities with no pinned start.
	ProjectStart time.Time
	// Daylight windows, one per day, time-sorted.
	Daylight []model.Window
	// Tide slack windows (HW and LW mixed).
	Tide []model.TideWindow
	// Now is used only as a last-resort latest-end fallback; defaults to
	// time.Now.
	Now func() time.Time
}

// New validates the activity network and returns a Scheduler over it.
// Validation rejects duplicate IDs, references to unknown activities
// (predecessors and duration references) and dependency cycles.
func New(activities []*model.Activity, opts Options) (*Scheduler, error) {
	if len(activities) == 0 {
		return nil, ErrNoActivities
	}
	byID := make(map[string]*model.Activity, len(activities))
	for _, a := range activities {
		if a.ID == "" {
			return nil, fmt.Errorf("activity %q has an empty id", a.Name)
		}
		if _, dup := byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate activity id %q", a.ID)
		}
		byID[a.ID] = a
	}
	for _, a := range activities {
		a.Successors = nil
	}
	for _, a := range activities {
		for _, pid := range a.Predecessors {
			p, ok := byID[pid]
			if !ok {
				return nil, fmt.Errorf("activity %q references unknown predecessor %q", a.ID, pid)
			}
			p.Successors = append(p.Successors, a.ID)
		}
		if a.DurationRef != "" {
			if _, ok := byID[a.DurationRef]; !ok {
				return nil, fmt.Errorf("activity %q runs until unknown activity %q", a.ID, a.DurationRef)
			}
		}
	}
	s := &Scheduler{
		order:        activities,
		byID:         byID,
		daylight:     opts.Daylight,
		tide:         splitTide(opts.Tide),
		projectStart: opts.ProjectStart,
		now:          opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if err := s.checkCycles(); err != nil {
		return nil, err
	}
	return s, nil
}

// splitTide indexes slack windows by the requirement they satisfy: slackhw
// admits HW windows only, slack admits both.
func splitTide(windows []model.TideWindow) map[model.TideRequirement][]model.Window {
	out := map[model.TideRequirement][]model.Window{}
	for _, w := range windows {
		if w.Type == model.HighWater {
			out[model.TideSlackHW] = append(out[model.TideSlackHW], w.Window())
		}
		out[model.TideSlack] = append(out[model.TideSlack], w.Window())
	}
	return out
}

// checkCycles runs a coloured depth-first search over precedence and
// duration-reference edges. Scheduling recurses over the same edges, so an
// undetected cycle would never terminate.
func (s *Scheduler) checkCycles() error {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	colour := make(map[string]int, len(s.order))
	var visit func(a *model.Activity) error
	visit = func(a *model.Activity) error {
		colour[a.ID] = grey
		edges := a.Predecessors
		if a.DurationRef != "" {
			edges = append(append([]string{}, edges...), a.DurationRef)
		}
		for _, id := range edges {
			next := s.byID[id]
			switch colour[next.ID] {
			case grey:
				return fmt.Errorf("dependency cycle through activity %q", next.ID)
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		colour[a.ID] = black
		return nil
	}
	for _, a := range s.order {
		if colour[a.ID] == white {
			if err := visit(a); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Scheduler) reset() {
	for _, a := range s.order {
		a.Start = nil
		a.End = nil
		a.EarliestStart = nil
		a.LatestEnd = nil
		a.FloatHours = nil
		a.Critical = false
	}
}

func (s *Scheduler) duration(a *model.Activity) time.Duration {
	return time.Duration(a.DurationHours * float64(time.Hour))
}

// Forward computes an earliest-start schedule from the project start, then
// derives each activity's latest end and float without moving it.
func (s *Scheduler) Forward() error {
	s.reset()
	for _, a := range s.order {
		if err := s.scheduleForward(a); err != nil {
			return err
		}
	}
	projectEnd := s.projectStart
	for _, a := range s.order {
		if a.End.After(projectEnd) {
			projectEnd = *a.End
		}
	}
	for _, a := range s.order {
		le := projectEnd
		for _, sid := range a.Successors {
			succ := s.byID[sid]
			if succ.Start != nil && succ.Start.Before(le) {
				le = *succ.Start
			}
		}
		a.LatestEnd = &le
	}
	s.computeFloat()
	return nil
}

// AroundAnchor pins the named activity at start and schedules the rest of
// the network around it: predecessor chains are right-aligned backward from
// the anchor, successor chains run forward from it, and activities outside
// both chains are scheduled forward and then shifted to their latest
// admissible start.
func (s *Scheduler) AroundAnchor(anchorID string, start time.Time) error {
	s.reset()
	anchor, ok := s.byID[anchorID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrAnchorNotFound, anchorID)
	}
	if anchor.DurationRef != "" {
		return fmt.Errorf("activity %q runs until %q and cannot be anchored", anchorID, anchor.DurationRef)
	}

	as := start.Truncate(time.Minute)
	ae := as.Add(s.duration(anchor)).Truncate(time.Minute)
	anchor.Start = &as
	anchor.End = &ae

	var backward func(a *model.Activity, latestEnd time.Time)
	backward = func(a *model.Activity, latestEnd time.Time) {
		s.scheduleLatest(a, latestEnd)
		for _, pid := range a.Predecessors {
			backward(s.byID[pid], *a.Start)
		}
	}
	for _, pid := range anchor.Predecessors {
		backward(s.byID[pid], *anchor.Start)
	}

	var forward func(a *model.Activity) error
	forward = func(a *model.Activity) error {
		if err := s.scheduleForward(a); err != nil {
			return err
		}
		for _, sid := range a.Successors {
			if err := forward(s.byID[sid]); err != nil {
				return err
			}
		}
		return nil
	}
	for _, sid := range anchor.Successors {
		if err := forward(s.byID[sid]); err != nil {
			return err
		}
	}

	// Activities on neither chain.
	for _, a := range s.order {
		if a.End == nil {
			if err := s.scheduleForward(a); err != nil {
				return err
			}
		}
	}
	// Anything not yet carrying a latest end is shifted to its latest
	// admissible position for float reporting.
	anchor.EarliestStart = anchor.Start
	anchor.LatestEnd = anchor.End
	for _, a := range s.order {
		if a.LatestEnd == nil {
			s.scheduleLatestDerived(a)
		}
	}
	s.computeFloat()
	return nil
}

// scheduleForward computes the earliest aligned start and end for a and,
// recursively, any unscheduled predecessors. Already scheduled activities
// (including a pinned anchor) are left alone.
func (s *Scheduler) scheduleForward(a *model.Activity) error {
	if a.End != nil {
		return nil
	}
	var earliest time.Time
	switch {
	case len(a.Predecessors) > 0:
		for _, pid := range a.Predecessors {
			p := s.byID[pid]
			if p.End == nil {
				if err := s.scheduleForward(p); err != nil {
					return err
				}
			}
			if p.End.After(earliest) {
				earliest = *p.End
			}
		}
	case a.Start != nil:
		earliest = *a.Start
	default:
		earliest = s.projectStart
	}
	es := earliest
	a.EarliestStart = &es

	if a.DurationRef != "" {
		ref := s.byID[a.DurationRef]
		if ref.Start == nil {
			if err := s.scheduleForward(ref); err != nil {
				return err
			}
		}
		start := s.findAlignedStart(a, earliest).Truncate(time.Minute)
		end := ref.Start.Truncate(time.Minute)
		if !end.After(start) {
			return fmt.Errorf("activity %q cannot end at or before its start: runs until %q which starts %s",
				a.ID, ref.ID, ref.Start.Format(time.RFC3339))
		}
		a.Start = &start
		a.End = &end
		a.DurationHours = end.Sub(start).Hours()
		zero := 0.0
		a.FloatHours = &zero
		return nil
	}

	start := s.findAlignedStart(a, earliest).Truncate(time.Minute)
	end := start.Add(s.duration(a)).Truncate(time.Minute)
	a.Start = &start
	a.End = &end
	return nil
}

// scheduleLatest right-aligns a to finish by latestEnd.
func (s *Scheduler) scheduleLatest(a *model.Activity, latestEnd time.Time) {
	le := latestEnd
	a.LatestEnd = &le
	start := s.findLatestAlignedStart(a, latestEnd).Truncate(time.Minute)
	end := start.Add(s.duration(a)).Truncate(time.Minute)
	a.Start = &start
	a.End = &end
	es := start
	a.EarliestStart = &es
}

// scheduleLatestDerived derives a's latest end from its successors (or from
// the project end when it has none) and right-aligns it there.
func (s *Scheduler) scheduleLatestDerived(a *model.Activity) {
	var latestEnd time.Time
	var found bool
	for _, sid := range a.Successors {
		succ := s.byID[sid]
		if succ.Start != nil && (!found || succ.Start.Before(latestEnd)) {
			latestEnd = *succ.Start
			found = true
		}
	}
	if !found {
		for _, other := range s.order {
			if other.End != nil && other.End.After(latestEnd) {
				latestEnd = *other.End
				found = true
			}
		}
	}
	if !found {
		latestEnd = s.now()
	}
	s.scheduleLatest(a, latestEnd)
}

// computeFloat sets float hours from the earliest-start/latest-end envelope.
// Until-reference activities always carry zero float.
func (s *Scheduler) computeFloat() {
	for _, a := range s.order {
		if a.DurationRef != "" {
			zero := 0.0
			a.FloatHours = &zero
			a.Critical = true
			continue
		}
		if a.EarliestStart == nil || a.LatestEnd == nil {
			continue
		}
		f := a.LatestEnd.Sub(*a.EarliestStart).Hours() - a.DurationHours
		a.FloatHours = &f
		a.Critical = f <= 1e-9
	}
}
