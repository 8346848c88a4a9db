// Package plot builds and renders displacement scatter figures for a target.
package plot

import (
	"fmt"
	"math"
	"time"

	"github.com/ccollicutt/survmon/pkg/survey"
)

// Group labels.
const (
	LabelBefore = "before construction"
	LabelAfter  = "after construction"
)

// Point is one reading in the horizontal plane.
type Point struct {
	// X and Y are the easting and northing displacements in millimetres.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Time is the survey time, shown as hover text.
	Time time.Time `json:"time"`

	Horizontal float64 `json:"horizontal"`
}

// Group is a set of points drawn with one marker colour.
type Group struct {
	Label  string  `json:"label"`
	Points []Point `json:"points"`
}

// XValues returns the easting displacements.
func (g Group) XValues() []float64 {
	xs := make([]float64, len(g.Points))
	for i, p := range g.Points {
		xs[i] = p.X
	}
	return xs
}

// YValues returns the northing displacements.
func (g Group) YValues() []float64 {
	ys := make([]float64, len(g.Points))
	for i, p := range g.Points {
		ys[i] = p.Y
	}
	return ys
}

// Times returns the survey times, parallel to XValues and YValues.
func (g Group) Times() []time.Time {
	ts := make([]time.Time, len(g.Points))
	for i, p := range g.Points {
		ts[i] = p.Time
	}
	return ts
}

// Len returns the number of points.
func (g Group) Len() int {
	return len(g.Points)
}

// Circle is a trigger-level ring centred on the origin.
type Circle struct {
	Label  string        `json:"label"`
	Status survey.Status `json:"status"`
	Radius float64       `json:"radius"`
}

// Figure is everything needed to draw one target.
type Figure struct {
	Title             string    `json:"title"`
	ConstructionStart time.Time `json:"construction_start"`

	Before Group `json:"before"`
	After  Group `json:"after"`

	// Latest is the most recent reading, highlighted on the plot.
	Latest *Point `json:"latest,omitempty"`

	Circles []Circle `json:"circles"`
}

// NewFigure builds the figure for target. It fails with
// survey.ErrTargetNotFound when the dataset has no readings for target.
func NewFigure(ds survey.Dataset, target string, constructionStart time.Time, levels survey.TriggerLevels) (*Figure, error) {
	series, err := ds.Series(target)
	if err != nil {
		return nil, err
	}

	before, after := Partition(series, constructionStart)

	fig := &Figure{
		Title:             target,
		ConstructionStart: constructionStart,
		Before:            before,
		After:             after,
		Circles: []Circle{
			{Label: fmt.Sprintf("amber trigger (%g mm)", levels.Amber), Status: survey.StatusAmber, Radius: levels.Amber},
			{Label: fmt.Sprintf("red trigger (%g mm)", levels.Red), Status: survey.StatusRed, Radius: levels.Red},
		},
	}

	if ts, r, ok := series.Latest(); ok {
		fig.Latest = &Point{X: r.Movement.DX, Y: r.Movement.DY, Time: ts, Horizontal: r.Horizontal}
	}

	return fig, nil
}

// Partition splits a series at constructionStart. Readings strictly before
// it go to the first group, everything else to the second. Both groups are in
// chronological order.
func Partition(series survey.Series, constructionStart time.Time) (before, after Group) {
	before.Label = LabelBefore
	after.Label = LabelAfter

	for _, ts := range series.Times() {
		r := series[ts]
		p := Point{X: r.Movement.DX, Y: r.Movement.DY, Time: ts, Horizontal: r.Horizontal}
		if ts.Before(constructionStart) {
			before.Points = append(before.Points, p)
		} else {
			after.Points = append(after.Points, p)
		}
	}
	return before, after
}

// Extent returns the half-width of the square plotting area: large enough for
// every point and circle plus a margin.
func (f *Figure) Extent() float64 {
	extent := 0.0
	for _, c := range f.Circles {
		extent = math.Max(extent, c.Radius)
	}
	for _, g := range []Group{f.Before, f.After} {
		for _, p := range g.Points {
			extent = math.Max(extent, math.Max(math.Abs(p.X), math.Abs(p.Y)))
		}
	}
	if extent == 0 {
		extent = 1
	}
	return extent * 1.1
}
