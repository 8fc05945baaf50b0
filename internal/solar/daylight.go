// Package solar derives daylight windows for a site from astronomical
// sunrise and sunset times.
package solar

import (
	"time"

	"github.com/nathan-osman/go-sunrise"

	"weatherops/internal/model"
)

// DaylightWindows returns one sunrise-to-sunset window per calendar day from
// the day containing from through the day containing to, inclusive, at the
// given coordinates. Days without a sunrise or sunset (polar night or
// midnight sun at extreme latitudes) contribute no window. Times are UTC.
func DaylightWindows(lat, lon float64, from, to time.Time) []model.Window {
	var out []model.Window
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	for !day.After(last) {
		rise, set := sunrise.SunriseSunset(lat, lon, day.Year(), day.Month(), day.Day())
		if !rise.IsZero() && !set.IsZero() && set.After(rise) {
			out = append(out, model.Window{Start: rise, End: set})
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}
