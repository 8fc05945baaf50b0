package model

import "time"

// TideRequirement constrains an activity to tidal slack windows.
type TideRequirement string

const (
	// TideNone places no tidal constraint on the activity.
	TideNone TideRequirement = ""
	// TideSlack accepts both high-water and low-water slack windows.
	TideSlack TideRequirement = "slack"
	// TideSlackHW accepts high-water slack windows only.
	TideSlackHW TideRequirement = "slackhw"
)

// Valid reports whether t is one of the recognized requirement values.
func (t TideRequirement) Valid() bool {
	return t == TideNone || t == TideSlack || t == TideSlackHW
}

// WeatherLimits are the operational limits an activity may carry. A nil
// field means the parameter is unrestricted. Units follow the source
// operation tables: wind in m/s at 10 m, Hs in metres, wave period in
// seconds, tidal current in knots, tidal level in mOD, visibility in
// nautical miles.
type WeatherLimits struct {
	MaxWindSpeed    *float64 `json:"max_wind_speed_ms,omitempty"`
	MaxWaveHeight   *float64 `json:"max_wave_height_m,omitempty"`
	MaxWavePeriod   *float64 `json:"max_wave_period_s,omitempty"`
	MaxTidalCurrent *float64 `json:"max_tidal_current_kn,omitempty"`
	MinTidalLevel   *float64 `json:"min_tidal_level_mod,omitempty"`
	MinVisibility   *float64 `json:"min_visibility_nm,omitempty"`
}

// Empty reports whether no limit is set.
func (w WeatherLimits) Empty() bool {
	return w.MaxWindSpeed == nil && w.MaxWaveHeight == nil && w.MaxWavePeriod == nil &&
		w.MaxTidalCurrent == nil && w.MinTidalLevel == nil && w.MinVisibility == nil
}

// Activity is one task in a plan's network. ID is the short code used in
// predecessor references and is unique within a plan.
//
// DurationHours holds the planned duration. When DurationRef is set the
// activity instead runs from its aligned start until the referenced
// activity's start, and DurationHours is derived during scheduling.
//
// The pointer fields are computed by the scheduler and are nil until a
// schedule has been produced.
type Activity struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Predecessors []string `json:"predecessors,omitempty"`
	Successors   []string `json:"successors,omitempty"`

	DurationHours float64 `json:"duration_hours"`
	DurationRef   string  `json:"duration_ref,omitempty"`
	Group         string  `json:"group"`

	DaylightRequired bool            `json:"daylight_required"`
	TideRequirement  TideRequirement `json:"tide_requirement,omitempty"`
	Weather          WeatherLimits   `json:"weather_limits"`

	Start         *time.Time `json:"start,omitempty"`
	End           *time.Time `json:"end,omitempty"`
	EarliestStart *time.Time `json:"earliest_start,omitempty"`
	LatestEnd     *time.Time `json:"latest_end,omitempty"`
	FloatHours    *float64   `json:"float_hours,omitempty"`
	Critical      bool       `json:"critical"`
}

// Scheduled reports whether the activity carries computed start and end times.
func (a *Activity) Scheduled() bool {
	return a.Start != nil && a.End != nil
}
