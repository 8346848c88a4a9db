package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrShortRow is returned for a data row with fewer than RowColumns fields.
	ErrShortRow = errors.New("row has too few columns")

	// ErrBadNumber is returned when a coordinate column other than the
	// measured easting does not parse as a number.
	ErrBadNumber = errors.New("malformed coordinate")

	// ErrEmptySnapshot is returned for a snapshot without even a header row.
	ErrEmptySnapshot = errors.New("snapshot is empty")
)

// Positional column layout of a snapshot row.
const (
	ColTarget = iota
	ColLocation
	ColBaselineEasting
	ColBaselineNorthing
	ColBaselineHeight
	ColMeasuredEasting
	ColMeasuredNorthing
	ColMeasuredHeight

	// RowColumns is the number of columns every data row must carry.
	RowColumns
)

// mmPerMetre scales coordinate differences to millimetres.
const mmPerMetre = 1000

// movementPrecision is the number of decimal places kept on each axis.
const movementPrecision = 5

// LoadStats counts what happened to the data rows of one snapshot.
type LoadStats struct {
	// Rows is the number of data rows read, excluding the header.
	Rows int `json:"rows"`

	// Loaded is the number of rows stored in the dataset.
	Loaded int `json:"loaded"`

	// Skipped is the number of rows without a usable measured easting.
	Skipped int `json:"skipped"`
}

// Load reads one snapshot from r and stores every usable row in the dataset
// under timestamp ts. The first row is a header and is ignored.
//
// Rows whose measured easting is empty, NULL or otherwise not a number are
// skipped. Any other malformed row aborts the load, as does a stream with no
// header row (ErrEmptySnapshot). Stray quotes inside unquoted fields are kept
// as literal characters.
func (d Dataset) Load(r io.Reader, ts time.Time) (LoadStats, error) {
	var stats LoadStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return stats, fmt.Errorf("%w: %w", ErrEmptySnapshot, err)
		}
		return stats, fmt.Errorf("reading header: %w", err)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("reading row: %w", err)
		}

		stats.Rows++
		line, _ := reader.FieldPos(0)

		if len(record) < RowColumns {
			return stats, fmt.Errorf("line %d: %w (got %d, want %d)", line, ErrShortRow, len(record), RowColumns)
		}

		measuredEasting, ok := parseOptional(record[ColMeasuredEasting])
		if !ok {
			stats.Skipped++
			continue
		}

		reading, err := parseReading(record, measuredEasting)
		if err != nil {
			return stats, fmt.Errorf("line %d: %w", line, err)
		}

		d.Put(record[ColTarget], ts, reading)
		stats.Loaded++
	}
}

func parseReading(record []string, measuredEasting float64) (Reading, error) {
	var values [RowColumns]float64
	values[ColMeasuredEasting] = measuredEasting

	for _, col := range []int{
		ColBaselineEasting, ColBaselineNorthing, ColBaselineHeight,
		ColMeasuredNorthing, ColMeasuredHeight,
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
		if err != nil {
			return Reading{}, fmt.Errorf("%w in column %d: %q", ErrBadNumber, col, record[col])
		}
		values[col] = v
	}

	baseline := Coordinate{
		Easting:  values[ColBaselineEasting],
		Northing: values[ColBaselineNorthing],
		Height:   values[ColBaselineHeight],
	}
	measured := Coordinate{
		Easting:  values[ColMeasuredEasting],
		Northing: values[ColMeasuredNorthing],
		Height:   values[ColMeasuredHeight],
	}

	return NewReading(record[ColLocation], baseline, measured), nil
}

// NewReading derives the displacement of measured from baseline.
func NewReading(location string, baseline, measured Coordinate) Reading {
	movement := Vector{
		DX: displacement(measured.Easting, baseline.Easting),
		DY: displacement(measured.Northing, baseline.Northing),
		DZ: displacement(measured.Height, baseline.Height),
	}

	return Reading{
		Location:   location,
		Baseline:   baseline,
		Measured:   measured,
		Movement:   movement,
		Horizontal: math.Hypot(movement.DX, movement.DY),
		Vertical:   movement.DZ,
	}
}

func displacement(measured, baseline float64) float64 {
	return round(mmPerMetre*(measured-baseline), movementPrecision)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// parseOptional parses a numeric field that may legitimately be missing.
// NULL placeholders and fields without digits fail to parse and report false.
func parseOptional(field string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
