package postgres

import (
	"context"
	"testing"
	"time"

	"weatherops/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitPtr(v float64) *float64 { return &v }

func TestActivityPostgres_Replace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewActivityPostgres(db)
	acts := []*model.Activity{
		{
			ID:            "A10",
			Name:          "Mobilise",
			Predecessors:  nil,
			DurationHours: 12,
			Group:         "Tug",
		},
		{
			ID:               "A20",
			Name:             "Lift",
			Predecessors:     []string{"A10"},
			DurationHours:    4,
			Group:            "Crane",
			DaylightRequired: true,
			TideRequirement:  model.TideSlack,
			Weather:          model.WeatherLimits{MaxWindSpeed: limitPtr(12)},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM activities").WithArgs("plan-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO activities").
		WithArgs("plan-1", 0, "A10", "Mobilise", "", "", 12.0, "", "Tug", false, "",
			nil, nil, nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO activities").
		WithArgs("plan-1", 1, "A20", "Lift", "", "A10", 4.0, "", "Crane", true, "slack",
			acts[1].Weather.MaxWindSpeed, nil, nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Replace(context.Background(), "plan-1", acts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityPostgres_Replace_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewActivityPostgres(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM activities").WithArgs("plan-1").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	assert.Error(t, repo.Replace(context.Background(), "plan-1", []*model.Activity{{ID: "A"}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityPostgres_ByPlan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewActivityPostgres(db)
	start := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	cols := []string{
		"id", "name", "description", "predecessors", "duration_hours", "duration_ref",
		"group_name", "daylight_required", "tide_requirement",
		"max_wind_speed", "max_wave_height", "max_wave_period", "max_tidal_current", "min_tidal_level", "min_visibility",
		"start_at", "end_at", "earliest_start", "latest_end", "float_hours", "critical",
	}
	rows := sqlmock.NewRows(cols).
		AddRow("A10", "Mobilise", "", "", 12.0, "", "Tug", false, "",
			nil, nil, nil, nil, nil, nil,
			nil, nil, nil, nil, nil, false).
		AddRow("A20", "Lift", "Place caisson", "A10,A15", 4.0, "", "Crane", true, "slack",
			12.5, nil, nil, nil, nil, nil,
			start, end, start, end, 0.0, true)
	mock.ExpectQuery("SELECT (.+) FROM activities").WithArgs("plan-1").WillReturnRows(rows)

	got, err := repo.ByPlan(context.Background(), "plan-1")
	assert.NoError(t, err)
	require.Len(t, got, 2)

	a10 := got[0]
	assert.Nil(t, a10.Predecessors)
	assert.Nil(t, a10.Start)
	assert.Nil(t, a10.Weather.MaxWindSpeed)
	assert.False(t, a10.Scheduled())

	a20 := got[1]
	assert.Equal(t, []string{"A10", "A15"}, a20.Predecessors)
	assert.Equal(t, model.TideSlack, a20.TideRequirement)
	require.NotNil(t, a20.Weather.MaxWindSpeed)
	assert.Equal(t, 12.5, *a20.Weather.MaxWindSpeed)
	require.NotNil(t, a20.Start)
	assert.Equal(t, start, a20.Start.UTC())
	require.NotNil(t, a20.FloatHours)
	assert.Zero(t, *a20.FloatHours)
	assert.True(t, a20.Critical)
	assert.True(t, a20.Scheduled())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityPostgres_SaveSchedule(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewActivityPostgres(db)
	start := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)
	f := 0.0
	a := &model.Activity{
		ID:            "A10",
		DurationHours: 4,
		Start:         &start,
		End:           &end,
		EarliestStart: &start,
		LatestEnd:     &end,
		FloatHours:    &f,
		Critical:      true,
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE activities").
		WithArgs("plan-1", "A10", a.Start, a.End, a.EarliestStart, a.LatestEnd, a.FloatHours, true, 4.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.SaveSchedule(context.Background(), "plan-1", []*model.Activity{a}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
