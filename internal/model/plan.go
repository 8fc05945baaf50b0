package model

import "time"

// Site is the geographic location a plan is scheduled against. Latitude and
// longitude drive daylight window generation; Timezone is an IANA name used
// when rendering local times.
type Site struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// Plan is a scheduling campaign: a set of activities, the tide and daylight
// data they are constrained by, and the schedule computed from them.
// This is a pure domain model with no database-specific dependencies or tags.
type Plan struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Site         Site      `json:"site"`
	ProjectStart time.Time `json:"project_start"`
	CreatedAt    time.Time `json:"created_at"`
}
