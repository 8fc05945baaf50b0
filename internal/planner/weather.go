package planner

import "weatherops/internal/model"

// CheckWeather evaluates a computed schedule against a forecast series.
// Every forecast sample falling inside a scheduled activity's [start, end)
// interval is compared with that activity's limits; breaches are returned
// in activity order. Activities without computed times or without limits
// are skipped. No rescheduling is attempted.
func CheckWeather(activities []*model.Activity, forecast []model.ForecastPoint) []model.WeatherViolation {
	var out []model.WeatherViolation
	for _, a := range activities {
		if !a.Scheduled() || a.Weather.Empty() {
			continue
		}
		for _, p := range forecast {
			if p.Time.Before(*a.Start) || !p.Time.Before(*a.End) {
				continue
			}
			out = append(out, checkPoint(a, p)...)
		}
	}
	return out
}

func checkPoint(a *model.Activity, p model.ForecastPoint) []model.WeatherViolation {
	var v []model.WeatherViolation
	add := func(param string, limit, observed float64) {
		v = append(v, model.WeatherViolation{
			ActivityID: a.ID,
			Parameter:  param,
			At:         p.Time,
			Limit:      limit,
			Observed:   observed,
		})
	}
	w := a.Weather
	if w.MaxWindSpeed != nil && p.WindSpeed > *w.MaxWindSpeed {
		add("wind_speed_ms", *w.MaxWindSpeed, p.WindSpeed)
	}
	if w.MaxWaveHeight != nil && p.WaveHeight > *w.MaxWaveHeight {
		add("wave_height_m", *w.MaxWaveHeight, p.WaveHeight)
	}
	if w.MaxWavePeriod != nil && p.WavePeriod > *w.MaxWavePeriod {
		add("wave_period_s", *w.MaxWavePeriod, p.WavePeriod)
	}
	if w.MaxTidalCurrent != nil && p.TidalCurrent > *w.MaxTidalCurrent {
		add("tidal_current_kn", *w.MaxTidalCurrent, p.TidalCurrent)
	}
	if w.MinTidalLevel != nil && p.TidalLevel < *w.MinTidalLevel {
		add("tidal_level_mod", *w.MinTidalLevel, p.TidalLevel)
	}
	if w.MinVisibility != nil && p.Visibility < *w.MinVisibility {
		add("visibility_nm", *w.MinVisibility, p.Visibility)
	}
	return v
}
