package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherops/internal/model"
)

var base = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

func act(id string, hours float64, preds ...string) *model.Activity {
	return &model.Activity{ID: id, Name: id, DurationHours: hours, Predecessors: preds}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name       string
		activities []*model.Activity
		wantErr    string
	}{
		{
			name:    "empty network",
			wantErr: "no activities to schedule",
		},
		{
			name:       "duplicate id",
			activities: []*model.Activity{act("A", 1), act("A", 2)},
			wantErr:    `duplicate activity id "A"`,
		},
		{
			name:       "empty id",
			activities: []*model.Activity{{Name: "unnamed", DurationHours: 1}},
			wantErr:    "empty id",
		},
		{
			name:       "unknown predecessor",
			activities: []*model.Activity{act("A", 1, "Z")},
			wantErr:    `references unknown predecessor "Z"`,
		},
		{
			name: "unknown duration reference",
			activities: []*model.Activity{
				{ID: "A", DurationRef: "Z"},
			},
			wantErr: `runs until unknown activity "Z"`,
		},
		{
			name:       "two node cycle",
			activities: []*model.Activity{act("A", 1, "B"), act("B", 1, "A")},
			wantErr:    "dependency cycle",
		},
		{
			name: "cycle through duration reference",
			activities: []*model.Activity{
				{ID: "A", DurationRef: "B"},
				act("B", 1, "A"),
			},
			wantErr: "dependency cycle",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.activities, Options{ProjectStart: base})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestForward_ChainAndFloat(t *testing.T) {
	a := act("A", 4)
	b := act("B", 2, "A")
	c := act("C", 3, "A")

	s, err := New([]*model.Activity{a, b, c}, Options{ProjectStart: base})
	require.NoError(t, err)
	require.NoError(t, s.Forward())

	assert.Equal(t, at(0), *a.Start)
	assert.Equal(t, at(4), *a.End)
	assert.Equal(t, at(4), *b.Start)
	assert.Equal(t, at(6), *b.End)
	assert.Equal(t, at(4), *c.Start)
	assert.Equal(t, at(7), *c.End)

	// A's latest end is its earliest successor start; B and C inherit
	// the project end.
	assert.Equal(t, at(4), *a.LatestEnd)
	assert.Equal(t, at(7), *b.LatestEnd)
	assert.Equal(t, at(7), *c.LatestEnd)

	assert.InDelta(t, 0, *a.FloatHours, 1e-9)
	assert.True(t, a.Critical)
	assert.InDelta(t, 1, *b.FloatHours, 1e-9)
	assert.False(t, b.Critical)
	assert.InDelta(t, 0, *c.FloatHours, 1e-9)
	assert.True(t, c.Critical)
}

func TestForward_TruncatesToMinute(t *testing.T) {
	a := act("A", 1.5)
	start := base.Add(45 * time.Second)

	s, err := New([]*model.Activity{a}, Options{ProjectStart: start})
	require.NoError(t, err)
	require.NoError(t, s.Forward())

	assert.Equal(t, base, *a.Start)
	assert.Equal(t, base.Add(90*time.Minute), *a.End)
}

func TestForward_DaylightFirstFit(t *testing.T) {
	daylight := []model.Window{
		{Start: at(6), End: at(18)},
		{Start: at(30), End: at(42)},
	}
	a := act("A", 2)
	a.DaylightRequired = true
	b := act("B", 2, "A")
	b.DaylightRequired = true

	s, err := New([]*model.Activity{a, b}, Options{ProjectStart: base, Daylight: daylight})
	require.NoError(t, err)
	require.NoError(t, s.Forward())

	// A snaps to sunrise. First fit is by window start, so B waits for
	// the next day's window rather than starting mid-window.
	assert.Equal(t, at(6), *a.Start)
	assert.Equal(t, at(8), *a.End)
	assert.Equal(t, at(30), *b.Start)
}

func TestForward_DaylightWindowTooShort(t *testing.T) {
	daylight := []model.Window{
		{Start: at(6), End: at(7)},
		{Start: at(30), End: at(42)},
	}
	a := act("A", 3)
	a.DaylightRequired = true

	s, err := New([]*model.Activity{a}, Options{ProjectStart: base, Daylight: daylight})
	require.NoError(t, err)
	require.NoError(t, s.Forward())

	assert.Equal(t, at(30), *a.Start)
}

func TestForward_TideAlignment(t *testing.T) {
	windows := []model.TideWindow{
		{Type: model.HighWater, Start: at(3).Add(-30 * time.Minute), End: at(3).Add(30 * time.Minute)},
		{Type: model.LowWater, Start: at(9).Add(-30 * time.Minute), End: at(9).Add(30 * time.Minute)},
	}

	t.Run("centered on first window midpoint", func(t *testing.T) {
		a := act("A", 1)
		a.TideRequirement = model.TideSlack
		s, err := New([]*model.Activity{a}, Options{ProjectStart: base, Tide: windows})
		require.NoError(t, err)
		require.NoError(t, s.Forward())

		assert.Equal(t, at(3).Add(-30*time.Minute), *a.Start)
		assert.Equal(t, at(3).Add(30*time.Minute), *a.End)
	})

	t.Run("slackhw skips low water", func(t *testing.T) {
		p := act("P", 4)
		a := act("A", 2, "P")
		a.TideRequirement = model.TideSlackHW

		s, err := New([]*model.Activity{p, a}, Options{ProjectStart: base, Tide: windows})
		require.NoError(t, err)
		require.NoError(t, s.Forward())

		// The only high water window is already past, so the activity
		// starts unaligned at its earliest.
		assert.Equal(t, at(4), *a.Start)
	})

	t.Run("slack admits low water", func(t *testing.T) {
		p := act("P", 4)
		a := act("A", 1, "P")
		a.TideRequirement = model.TideSlack

		s, err := New([]*model.Activity{p, a}, Options{ProjectStart: base, Tide: windows})
		require.NoError(t, err)
		require.NoError(t, s.Forward())

		assert.Equal(t, at(9).Add(-30*time.Minute), *a.Start)
	})

	t.Run("tide plus daylight requires overlap", func(t *testing.T) {
		a := act("A", 1)
		a.TideRequirement = model.TideSlack
		a.DaylightRequired = true
		daylight := []model.Window{{Start: at(6), End: at(18)}}

		s, err := New([]*model.Activity{a}, Options{ProjectStart: base, Tide: windows, Daylight: daylight})
		require.NoError(t, err)
		require.NoError(t, s.Forward())

		// The high water window sits in darkness; the low water one is
		// the first whose placement overlaps daylight.
		assert.Equal(t, at(9).Add(-30*time.Minute), *a.Start)
	})
}

func TestForward_UntilReference(t *testing.T) {
	a := act("A", 4)
	c := act("C", 2, "A")
	b := &model.Activity{ID: "B", DurationRef: "C"}

	s, err := New([]*model.Activity{a, c, b}, Options{ProjectStart: base})
	require.NoError(t, err)
	require.NoError(t, s.Forward())

	// B spans from the project start to C's start and derives its
	// duration from that span.
	assert.Equal(t, at(0), *b.Start)
	assert.Equal(t, at(4), *b.End)
	assert.InDelta(t, 4, b.DurationHours, 1e-9)
	assert.InDelta(t, 0, *b.FloatHours, 1e-9)
	assert.True(t, b.Critical)
}

func TestForward_UntilReferenceBeforeStart(t *testing.T) {
	a := act("A", 0)
	b := &model.Activity{ID: "B", DurationRef: "A"}

	s, err := New([]*model.Activity{a, b}, Options{ProjectStart: base})
	require.NoError(t, err)
	err = s.Forward()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot end at or before its start")
}

func TestAroundAnchor(t *testing.T) {
	a := act("A", 2)
	b := act("B", 2, "A")
	c := act("C", 2, "B")
	anchorStart := at(48)

	s, err := New([]*model.Activity{a, b, c}, Options{ProjectStart: base})
	require.NoError(t, err)
	require.NoError(t, s.AroundAnchor("B", anchorStart))

	// B is pinned; A right-aligns into it; C follows it.
	assert.Equal(t, at(48), *b.Start)
	assert.Equal(t, at(50), *b.End)
	assert.Equal(t, at(46), *a.Start)
	assert.Equal(t, at(48), *a.End)
	assert.Equal(t, at(50), *c.Start)
	assert.Equal(t, at(52), *c.End)

	for _, x := range []*model.Activity{a, b, c} {
		assert.InDelta(t, 0, *x.FloatHours, 1e-9, x.ID)
		assert.True(t, x.Critical, x.ID)
	}
}

func TestAroundAnchor_DetachedActivity(t *testing.T) {
	a := act("A", 2)
	b := act("B", 2, "A")
	d := act("D", 1)
	anchorStart := at(48)

	s, err := New([]*model.Activity{a, b, d}, Options{ProjectStart: base})
	require.NoError(t, err)
	require.NoError(t, s.AroundAnchor("B", anchorStart))

	// D sits on neither chain: scheduled forward from the project start,
	// then shifted to its latest admissible position (the project end).
	assert.Equal(t, at(49), *d.Start)
	assert.Equal(t, at(50), *d.End)
}

func TestAroundAnchor_Errors(t *testing.T) {
	a := act("A", 2)
	b := &model.Activity{ID: "B", DurationRef: "A"}

	s, err := New([]*model.Activity{a, b}, Options{ProjectStart: base})
	require.NoError(t, err)

	err = s.AroundAnchor("missing", at(1))
	assert.ErrorIs(t, err, ErrAnchorNotFound)

	err = s.AroundAnchor("B", at(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be anchored")
}

func TestAroundAnchor_TideBackwardAlignment(t *testing.T) {
	windows := []model.TideWindow{
		{Type: model.HighWater, Start: at(44), End: at(46)},
	}
	a := act("A", 1)
	a.TideRequirement = model.TideSlack
	b := act("B", 2, "A")

	s, err := New([]*model.Activity{a, b}, Options{ProjectStart: base, Tide: windows})
	require.NoError(t, err)
	require.NoError(t, s.AroundAnchor("B", at(48)))

	// A right-aligns into the end of the admissible slack window.
	assert.Equal(t, at(45), *a.Start)
	assert.Equal(t, at(46), *a.End)
	// Float spans from the aligned start to the anchored latest end.
	assert.InDelta(t, 2, *a.FloatHours, 1e-9)
	assert.False(t, a.Critical)
}
