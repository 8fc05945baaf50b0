package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherops/internal/model"
)

const constraintCSV = `Constraint_ID,Daylight Only Operation?,Tidal Window,Maximum Wind Speed at 10m (m/s),"Maximum Significant Wave Height, Hs (m)",Maximum Wave Period (s),Maximum Tidal Current (knots),Minimum Tidal Level (mOD),Visibility (nm)
C1,Yes,slack,12,1.5,-,0.8,-,0.5
C2,No,slackhw,-,-,8,-,2.1,-
C3,No,-,-,-,-,-,-,-
`

func TestActivities(t *testing.T) {
	activityCSV := `ID,Name,Sub Activity,Predecessor ID(s),Duration (hours),Group,Constraint_ID
A10,Mobilise,Load out,-,12,Tug,-
A20,Transit,To site,A10,6,Tug,C2
A30,Lift,Place caisson,"A10, A20",until A40,Crane,C1
A40,Demobilise,,A20,4,Tug,C9
`
	acts, err := Activities(strings.NewReader(activityCSV), strings.NewReader(constraintCSV))
	require.NoError(t, err)
	require.Len(t, acts, 4)

	a10 := acts[0]
	assert.Equal(t, "A10", a10.ID)
	assert.Equal(t, "Mobilise", a10.Name)
	assert.Equal(t, "Load out", a10.Description)
	assert.Nil(t, a10.Predecessors)
	assert.Equal(t, 12.0, a10.DurationHours)
	assert.Equal(t, "Tug", a10.Group)
	assert.False(t, a10.DaylightRequired)
	assert.Equal(t, model.TideNone, a10.TideRequirement)
	assert.True(t, a10.Weather.Empty())

	a20 := acts[1]
	assert.Equal(t, []string{"A10"}, a20.Predecessors)
	assert.False(t, a20.DaylightRequired)
	assert.Equal(t, model.TideSlackHW, a20.TideRequirement)
	require.NotNil(t, a20.Weather.MaxWavePeriod)
	assert.Equal(t, 8.0, *a20.Weather.MaxWavePeriod)
	require.NotNil(t, a20.Weather.MinTidalLevel)
	assert.Equal(t, 2.1, *a20.Weather.MinTidalLevel)
	assert.Nil(t, a20.Weather.MaxWindSpeed)

	a30 := acts[2]
	assert.Equal(t, []string{"A10", "A20"}, a30.Predecessors)
	assert.Equal(t, "A40", a30.DurationRef)
	assert.Zero(t, a30.DurationHours)
	assert.True(t, a30.DaylightRequired)
	assert.Equal(t, model.TideSlack, a30.TideRequirement)
	require.NotNil(t, a30.Weather.MaxWindSpeed)
	assert.Equal(t, 12.0, *a30.Weather.MaxWindSpeed)
	require.NotNil(t, a30.Weather.MinVisibility)
	assert.Equal(t, 0.5, *a30.Weather.MinVisibility)

	// Constraint IDs with no matching row leave the activity
	// unconstrained.
	a40 := acts[3]
	assert.False(t, a40.DaylightRequired)
	assert.True(t, a40.Weather.Empty())
}

func TestActivities_Errors(t *testing.T) {
	tests := []struct {
		name        string
		activities  string
		constraints string
		wantErr     string
	}{
		{
			name:        "missing column",
			activities:  "ID,Name\nA1,x\n",
			constraints: constraintCSV,
			wantErr:     `missing column "Predecessor ID(s)"`,
		},
		{
			name:        "empty id",
			activities:  "ID,Name,Predecessor ID(s),Duration (hours),Group\n,x,-,1,G\n",
			constraints: constraintCSV,
			wantErr:     "empty ID",
		},
		{
			name:        "invalid duration",
			activities:  "ID,Name,Predecessor ID(s),Duration (hours),Group\nA1,x,-,soon,G\n",
			constraints: constraintCSV,
			wantErr:     `invalid duration "soon"`,
		},
		{
			name:        "negative duration",
			activities:  "ID,Name,Predecessor ID(s),Duration (hours),Group\nA1,x,-,-2,G\n",
			constraints: constraintCSV,
			wantErr:     `negative duration "-2"`,
		},
		{
			name:        "until with no reference",
			activities:  "ID,Name,Predecessor ID(s),Duration (hours),Group\nA1,x,-,until,G\n",
			constraints: constraintCSV,
			wantErr:     "names no reference activity",
		},
		{
			name:        "no activity rows",
			activities:  "ID,Name,Predecessor ID(s),Duration (hours),Group\n",
			constraints: constraintCSV,
			wantErr:     "no rows",
		},
		{
			name:        "bad tidal window value",
			activities:  "ID,Name,Predecessor ID(s),Duration (hours),Group\nA1,x,-,1,G\n",
			constraints: "Constraint_ID,Tidal Window\nC1,sometimes\n",
			wantErr:     `unknown tidal window value "sometimes"`,
		},
		{
			name:        "bad weather limit",
			activities:  "ID,Name,Predecessor ID(s),Duration (hours),Group\nA1,x,-,1,G\n",
			constraints: "Constraint_ID,Maximum Wind Speed at 10m (m/s)\nC1,breezy\n",
			wantErr:     "invalid Maximum Wind Speed",
		},
		{
			name:        "constraint table missing id column",
			activities:  "ID,Name,Predecessor ID(s),Duration (hours),Group\nA1,x,-,1,G\n",
			constraints: "Name,Daylight\nC1,Yes\n",
			wantErr:     `missing column "Constraint_ID"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Activities(strings.NewReader(tt.activities), strings.NewReader(tt.constraints))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSplitIDs(t *testing.T) {
	assert.Nil(t, splitIDs("-"))
	assert.Nil(t, splitIDs(""))
	assert.Nil(t, splitIDs("  "))
	assert.Equal(t, []string{"A1"}, splitIDs("A1"))
	assert.Equal(t, []string{"A1", "B2", "C3"}, splitIDs(" A1, B2 ,C3 "))
}

func TestParseDuration_UntilCaseInsensitive(t *testing.T) {
	var a model.Activity
	require.NoError(t, parseDuration(&a, "Until A99"))
	assert.Equal(t, "A99", a.DurationRef)
}
