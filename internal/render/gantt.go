// Package render produces schedule exports: a self-contained Plotly Gantt
// page and a CSV table.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"weatherops/internal/model"
)

// groupColors is the fixed palette for resource groups; unknown groups fall
// back to grey.
var groupColors = map[string]string{
	"Excavator":                       "#800080",
	"Deck hands":                      "#808080",
	"Jack-up barge":                   "#FF0000",
	"Horizontal Directional Drilling": "#FFAE00",
	"Pipe Management":                 "#90EE90",
	"Crew Transfer Vessel":            "#FFA4B4",
	"Winch":                           "#FCFC5F",
	"Diving":                          "#018D8D",
	"Crane":                           "#BA71FF",
}

const fallbackColor = "#4F6D7A"

// GanttInput carries everything the Gantt page displays.
type GanttInput struct {
	Plan        model.Plan
	Activities  []*model.Activity
	Daylight    []model.Window
	TideWindows []model.TideWindow
	TidePoints  []model.TidePoint
}

const ganttPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>{{.Title}}</title>
  <script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
</head>
<body>
  <div id="gantt"></div>
  <script>
    Plotly.newPlot('gantt', {{.Data}}, {{.Layout}}, {responsive: true});
  </script>
</body>
</html>`

var ganttTmpl = template.Must(template.New("gantt").Parse(ganttPage))

type trace map[string]any
type layoutShape map[string]any

// Gantt renders the schedule as a self-contained HTML page: a tide height
// subplot with HW/LW slack bands on top, and the activity timeline with
// daylight bands below. Activities must carry computed times.
func Gantt(in GanttInput) ([]byte, error) {
	for _, a := range in.Activities {
		if !a.Scheduled() {
			return nil, fmt.Errorf("activity %q has no computed schedule", a.ID)
		}
	}
	if len(in.Activities) == 0 {
		return nil, fmt.Errorf("nothing to render")
	}

	hasTide := len(in.TidePoints) > 0
	var data []trace
	var shapes []layoutShape
	var annotations []map[string]any

	if hasTide {
		xs := make([]string, len(in.TidePoints))
		ys := make([]float64, len(in.TidePoints))
		for i, p := range in.TidePoints {
			xs[i] = stamp(p.Time)
			ys[i] = p.Height
		}
		data = append(data, trace{
			"type": "scatter", "mode": "lines",
			"x": xs, "y": ys,
			"name":  "Tide Height",
			"line":  map[string]any{"color": "blue", "width": 2},
			"yaxis": "y2",
		})
		for _, w := range in.TideWindows {
			fill := "lightgreen"
			if w.Type == model.LowWater {
				fill = "lightblue"
			}
			shapes = append(shapes, band(w.Start, w.End, "y2 domain", fill))
		}
	}

	for _, w := range in.Daylight {
		shapes = append(shapes, band(w.Start, w.End, "y domain", "yellow"))
	}

	for _, a := range in.Activities {
		color, ok := groupColors[a.Group]
		if !ok {
			color = fallbackColor
		}
		hover := fmt.Sprintf("ID: %s<br>Description: %s<br>Group: %s<br>Duration: %.2f hours<br>Start: %s<br>End: %s<br>Tide: %s<br>Daylight: %t",
			a.ID, a.Description, a.Group, a.DurationHours,
			stamp(*a.Start), stamp(*a.End), tideLabel(a.TideRequirement), a.DaylightRequired)
		data = append(data, trace{
			"type": "scatter", "mode": "lines",
			"x":             []string{stamp(*a.Start), stamp(*a.End)},
			"y":             []string{a.ID, a.ID},
			"line":          map[string]any{"color": color, "width": 10},
			"name":          a.Group,
			"showlegend":    false,
			"hovertemplate": hover,
		})
		// Dotted float lead-in from the earliest start to the chosen start.
		if a.FloatHours != nil && *a.FloatHours > 0 && a.EarliestStart != nil && !a.EarliestStart.Equal(*a.Start) {
			floatColor := "black"
			if a.DaylightRequired || a.TideRequirement != model.TideNone {
				floatColor = "grey"
			}
			data = append(data, trace{
				"type": "scatter", "mode": "lines",
				"x":          []string{stamp(*a.EarliestStart), stamp(*a.Start)},
				"y":          []string{a.ID, a.ID},
				"line":       map[string]any{"color": floatColor, "width": 2, "dash": "dot"},
				"showlegend": false,
				"hoverinfo":  "skip",
			})
		}
		annotations = append(annotations, map[string]any{
			"x": stamp(*a.End), "y": a.ID,
			"xref": "x", "yref": "y",
			"text": a.Name, "showarrow": false,
			"xanchor": "left", "yanchor": "middle",
			"font": map[string]any{"color": nameColor(a), "size": 12},
		})
	}

	// One legend entry per group actually present.
	seen := map[string]bool{}
	for _, a := range in.Activities {
		if seen[a.Group] {
			continue
		}
		seen[a.Group] = true
		color, ok := groupColors[a.Group]
		if !ok {
			color = fallbackColor
		}
		data = append(data, trace{
			"type": "scatter", "mode": "lines",
			"x": []any{nil}, "y": []any{nil},
			"line": map[string]any{"color": color, "width": 10},
			"name": a.Group, "showlegend": true,
		})
	}

	schedDomain := []float64{0, 1}
	layout := map[string]any{
		"title":       fmt.Sprintf("%s Operation Schedule", in.Plan.Name),
		"height":      1100,
		"shapes":      shapes,
		"annotations": annotations,
		"legend":      map[string]any{"title": map[string]any{"text": "Group"}},
		"yaxis": map[string]any{
			"title":     "Activity",
			"autorange": "reversed",
			"domain":    schedDomain,
		},
		"xaxis": map[string]any{"title": "Datetime", "type": "date"},
	}
	if hasTide {
		layout["yaxis"] = map[string]any{
			"title":     "Activity",
			"autorange": "reversed",
			"domain":    []float64{0, 0.8},
		}
		layout["yaxis2"] = map[string]any{
			"title":  "Tide Height (m)",
			"domain": []float64{0.85, 1},
		}
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal traces: %w", err)
	}
	layoutJSON, err := json.Marshal(layout)
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}

	var buf bytes.Buffer
	err = ganttTmpl.Execute(&buf, struct {
		Title  string
		Data   template.JS
		Layout template.JS
	}{
		Title:  in.Plan.Name,
		Data:   template.JS(dataJSON),
		Layout: template.JS(layoutJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("render gantt: %w", err)
	}
	return buf.Bytes(), nil
}

// band builds a vertical rectangle shape spanning the full height of one
// subplot.
func band(from, to time.Time, yref, fill string) layoutShape {
	return layoutShape{
		"type": "rect",
		"xref": "x", "yref": yref,
		"x0": stamp(from), "x1": stamp(to),
		"y0": 0, "y1": 1,
		"fillcolor": fill, "opacity": 0.3,
		"layer": "below", "line": map[string]any{"width": 0},
	}
}

// nameColor mirrors the constraint colour coding of the source plots: red
// for tide+daylight, blue for tide, orange for daylight, black otherwise.
func nameColor(a *model.Activity) string {
	tide := a.TideRequirement != model.TideNone
	switch {
	case tide && a.DaylightRequired:
		return "red"
	case tide:
		return "blue"
	case a.DaylightRequired:
		return "orange"
	}
	return "black"
}

func tideLabel(t model.TideRequirement) string {
	if t == model.TideNone {
		return "none"
	}
	return string(t)
}

func stamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
