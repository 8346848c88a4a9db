package plot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/survmon/pkg/survey"
)

var (
	constructionStart = time.Date(2023, 3, 12, 0, 0, 0, 0, time.UTC)
	levels            = survey.TriggerLevels{Amber: 8, Red: 15}
)

func testDataset() survey.Dataset {
	ds := survey.NewDataset()
	ds.Put("SO5.2", time.Date(2023, 1, 15, 9, 30, 0, 0, time.UTC), reading(1, 0.5))
	ds.Put("SO5.2", time.Date(2023, 4, 2, 14, 0, 0, 0, time.UTC), reading(3, -4))
	return ds
}

func reading(dx, dy float64) survey.Reading {
	base := survey.Coordinate{Easting: 100, Northing: 200, Height: 50}
	measured := survey.Coordinate{Easting: 100 + dx/1000, Northing: 200 + dy/1000, Height: 50}
	return survey.NewReading("", base, measured)
}

func TestNewFigure_PartitionsByConstructionStart(t *testing.T) {
	fig, err := NewFigure(testDataset(), "SO5.2", constructionStart, levels)
	require.NoError(t, err)

	assert.Equal(t, "SO5.2", fig.Title)
	require.Equal(t, 1, fig.Before.Len())
	require.Equal(t, 1, fig.After.Len())
	assert.Equal(t, LabelBefore, fig.Before.Label)
	assert.Equal(t, LabelAfter, fig.After.Label)
	assert.InDelta(t, 1.0, fig.Before.Points[0].X, 1e-9)
	assert.InDelta(t, -4.0, fig.After.Points[0].Y, 1e-9)
	assert.InDelta(t, 5.0, fig.After.Points[0].Horizontal, 1e-9)

	require.NotNil(t, fig.Latest)
	assert.Equal(t, time.Date(2023, 4, 2, 14, 0, 0, 0, time.UTC), fig.Latest.Time)

	require.Len(t, fig.Circles, 2)
	assert.Equal(t, 8.0, fig.Circles[0].Radius)
	assert.Equal(t, survey.StatusAmber, fig.Circles[0].Status)
	assert.Equal(t, 15.0, fig.Circles[1].Radius)
	assert.Equal(t, survey.StatusRed, fig.Circles[1].Status)
}

func TestNewFigure_UnknownTarget(t *testing.T) {
	_, err := NewFigure(testDataset(), "nope", constructionStart, levels)
	assert.ErrorIs(t, err, survey.ErrTargetNotFound)
}

func TestPartition_BoundaryGoesAfter(t *testing.T) {
	series := survey.Series{
		constructionStart:                      reading(1, 1),
		constructionStart.Add(-time.Minute):    reading(2, 2),
		constructionStart.Add(24 * time.Hour):  reading(3, 3),
		constructionStart.Add(-48 * time.Hour): reading(4, 4),
	}

	before, after := Partition(series, constructionStart)

	require.Equal(t, 2, before.Len())
	require.Equal(t, 2, after.Len())
	assert.Equal(t, []time.Time{constructionStart.Add(-48 * time.Hour), constructionStart.Add(-time.Minute)}, before.Times())
	assert.Equal(t, []time.Time{constructionStart, constructionStart.Add(24 * time.Hour)}, after.Times())
	assert.Len(t, before.XValues(), 2)
	assert.Len(t, after.YValues(), 2)
}

func TestFigure_Extent(t *testing.T) {
	fig, err := NewFigure(testDataset(), "SO5.2", constructionStart, levels)
	require.NoError(t, err)
	assert.InDelta(t, 16.5, fig.Extent(), 1e-9)

	fig.After.Points = append(fig.After.Points, Point{X: -30})
	assert.InDelta(t, 33.0, fig.Extent(), 1e-9)
}

func TestCirclePoints(t *testing.T) {
	xs, ys := CirclePoints(8, 4)
	require.Len(t, xs, 5)
	require.Len(t, ys, 5)
	assert.InDelta(t, 8.0, xs[0], 1e-9)
	assert.InDelta(t, 8.0, ys[1], 1e-9)
	assert.InDelta(t, xs[0], xs[4], 1e-9)
	assert.InDelta(t, ys[0], ys[4], 1e-9)
}
