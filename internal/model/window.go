package model

import "time"

// Window is a half-open [Start, End) interval of admissible time, such as a
// single day's daylight.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the window length.
func (w Window) Duration() time.Duration { return w.End.Sub(w.Start) }

// Mid returns the window midpoint. Tide-constrained activities are centered
// on this point.
func (w Window) Mid() time.Time { return w.Start.Add(w.End.Sub(w.Start) / 2) }

// TideWindowType labels a slack window by the extremum it surrounds.
type TideWindowType string

const (
	HighWater TideWindowType = "HW"
	LowWater  TideWindowType = "LW"
)

// TideWindow is a slack window around a high- or low-water extremum.
type TideWindow struct {
	Type  TideWindowType `json:"type"`
	Start time.Time      `json:"start"`
	End   time.Time      `json:"end"`
}

// Window returns the plain interval of the slack window.
func (t TideWindow) Window() Window { return Window{Start: t.Start, End: t.End} }

// TidePoint is one sample of a tide height series, height in metres above
// ordnance datum.
type TidePoint struct {
	Time   time.Time `json:"time"`
	Height float64   `json:"height"`
}

// ForecastPoint is one sample of a weather forecast series, using the same
// units as WeatherLimits.
type ForecastPoint struct {
	Time         time.Time `json:"time"`
	WindSpeed    float64   `json:"wind_speed_ms"`
	WaveHeight   float64   `json:"wave_height_m"`
	WavePeriod   float64   `json:"wave_period_s"`
	TidalCurrent float64   `json:"tidal_current_kn"`
	TidalLevel   float64   `json:"tidal_level_mod"`
	Visibility   float64   `json:"visibility_nm"`
}

// WeatherViolation records a forecast sample that breaches an activity's
// operational limit.
type WeatherViolation struct {
	ActivityID string    `json:"activity_id"`
	Parameter  string    `json:"parameter"`
	At         time.Time `json:"at"`
	Limit      float64   `json:"limit"`
	Observed   float64   `json:"observed"`
}
