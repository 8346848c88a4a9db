// Package survey loads dated survey snapshots into an in-memory displacement dataset.
package survey

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrTargetNotFound is returned when a target has no readings in the dataset.
var ErrTargetNotFound = errors.New("target not found")

// Coordinate is a surveyed position in metres.
type Coordinate struct {
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
	Height   float64 `json:"height"`
}

// Vector is a displacement in millimetres.
type Vector struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
	DZ float64 `json:"dz"`
}

// Reading is one measurement of a target against its baseline.
type Reading struct {
	// Location is the free-text description from the snapshot.
	Location string `json:"location,omitempty"`

	Baseline Coordinate `json:"baseline"`
	Measured Coordinate `json:"measured"`

	// Movement is Measured minus Baseline, scaled to millimetres and rounded
	// to five decimal places per axis.
	Movement Vector `json:"movement"`

	// Horizontal is the planar magnitude of Movement.
	Horizontal float64 `json:"horizontal"`

	// Vertical is Movement.DZ.
	Vertical float64 `json:"vertical"`
}

// Series holds the readings of a single target keyed by survey time.
type Series map[time.Time]Reading

// Times returns the series timestamps in chronological order.
func (s Series) Times() []time.Time {
	times := make([]time.Time, 0, len(s))
	for ts := range s {
		times = append(times, ts)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}

// Latest returns the most recent reading and its timestamp.
func (s Series) Latest() (time.Time, Reading, bool) {
	var (
		latest time.Time
		found  bool
	)
	for ts := range s {
		if !found || ts.After(latest) {
			latest = ts
			found = true
		}
	}
	if !found {
		return time.Time{}, Reading{}, false
	}
	return latest, s[latest], true
}

// Dataset maps target identifiers to their series.
type Dataset map[string]Series

// NewDataset returns an empty dataset.
func NewDataset() Dataset {
	return make(Dataset)
}

// Put inserts or overwrites the reading for target at ts.
func (d Dataset) Put(target string, ts time.Time, r Reading) {
	series, ok := d[target]
	if !ok {
		series = make(Series)
		d[target] = series
	}
	series[ts] = r
}

// Series returns the readings for target.
func (d Dataset) Series(target string) (Series, error) {
	series, ok := d[target]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTargetNotFound, target)
	}
	return series, nil
}

// Targets returns the target identifiers in lexical order.
func (d Dataset) Targets() []string {
	targets := make([]string, 0, len(d))
	for t := range d {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}

// ReadingCount returns the number of readings across all targets.
func (d Dataset) ReadingCount() int {
	n := 0
	for _, s := range d {
		n += len(s)
	}
	return n
}
