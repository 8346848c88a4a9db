package plot

import (
	"bytes"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ccollicutt/survmon/pkg/survey"
)

// Format selects the output encoding of a figure.
type Format string

const (
	FormatHTML Format = "html"
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
)

// DefaultSize is the canvas edge in pixels when none is given.
const DefaultSize = 800

// circleSegments is the number of chords used to approximate a trigger ring.
const circleSegments = 120

var (
	colorBefore = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	colorAfter  = drawing.Color{R: 214, G: 39, B: 40, A: 255}
	colorAmber  = drawing.Color{R: 255, G: 165, B: 0, A: 255}
	colorRed    = drawing.Color{R: 255, G: 0, B: 0, A: 255}
	colorLatest = drawing.Color{R: 0, G: 0, B: 0, A: 255}
)

// RenderOptions controls figure rendering.
type RenderOptions struct {
	// Size is the edge of the square canvas in pixels.
	Size int
}

func (o RenderOptions) size() int {
	if o.Size <= 0 {
		return DefaultSize
	}
	return o.Size
}

// Render writes fig to w in the requested format.
func Render(fig *Figure, format Format, w io.Writer, opts RenderOptions) error {
	switch format {
	case FormatPNG:
		return renderChart(fig, chart.PNG, w, opts, nil)
	case FormatSVG:
		return renderChart(fig, chart.SVG, w, opts, nil)
	case FormatHTML:
		return renderHTML(fig, w, opts)
	default:
		return fmt.Errorf("unknown plot format %q (use html, png or svg)", format)
	}
}

func renderChart(fig *Figure, provider chart.RendererProvider, w io.Writer, opts RenderOptions, spots *[]hotspot) error {
	ch := buildChart(fig, opts.size(), spots)
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

// buildChart lays out the scatter. Both axes share one symmetric range on a
// square canvas so that the trigger rings stay circular. When spots is
// non-nil it receives the pixel position of every before and after point.
func buildChart(fig *Figure, size int, spots *[]hotspot) chart.Chart {
	extent := fig.Extent()
	axisRange := &chart.ContinuousRange{Min: -extent, Max: extent}

	var series []chart.Series
	for _, c := range fig.Circles {
		series = append(series, circleSeries(c))
	}
	if fig.Before.Len() > 0 {
		series = append(series, scatterSeries(fig.Before, colorBefore, 6, spots))
	}
	if fig.After.Len() > 0 {
		series = append(series, scatterSeries(fig.After, colorAfter, 6, spots))
	}
	if fig.Latest != nil {
		series = append(series, chart.ContinuousSeries{
			Name: "latest (" + fig.Latest.Time.Format("2006-01-02 15:04") + ")",
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    9,
				DotColor:    colorLatest,
			},
			XValues: []float64{fig.Latest.X},
			YValues: []float64{fig.Latest.Y},
		})
	}

	ch := chart.Chart{
		Title:  fig.Title,
		Width:  size,
		Height: size,
		Background: chart.Style{
			Padding: chart.Box{Top: 48, Left: 24, Right: 24, Bottom: 24},
		},
		XAxis: chart.XAxis{
			Name:  "dE (mm)",
			Range: axisRange,
		},
		YAxis: chart.YAxis{
			Name:  "dN (mm)",
			Range: axisRange,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.LegendThin(&ch)}
	return ch
}

// hotspot is where a point landed on the rendered canvas.
type hotspot struct {
	X, Y  int
	Point Point
}

// pointSeries is a marker-only series that records its hotspots as it draws.
type pointSeries struct {
	chart.ContinuousSeries
	points []Point
	spots  *[]hotspot
}

// Render draws the markers, then maps each point with the same translation
// go-chart uses for dots.
func (ps pointSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	ps.ContinuousSeries.Render(r, canvasBox, xrange, yrange, defaults)
	if ps.spots == nil {
		return
	}
	for _, p := range ps.points {
		*ps.spots = append(*ps.spots, hotspot{
			X:     canvasBox.Left + xrange.Translate(p.X),
			Y:     canvasBox.Bottom - yrange.Translate(p.Y),
			Point: p,
		})
	}
}

func scatterSeries(g Group, color drawing.Color, dot float64, spots *[]hotspot) pointSeries {
	return pointSeries{
		ContinuousSeries: chart.ContinuousSeries{
			Name: g.Label,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    dot,
				DotColor:    color,
			},
			XValues: g.XValues(),
			YValues: g.YValues(),
		},
		points: g.Points,
		spots:  spots,
	}
}

func circleSeries(c Circle) chart.ContinuousSeries {
	color := colorAmber
	if c.Status == survey.StatusRed {
		color = colorRed
	}

	xs, ys := CirclePoints(c.Radius, circleSegments)
	return chart.ContinuousSeries{
		Name: c.Label,
		Style: chart.Style{
			StrokeWidth: 2,
			StrokeColor: color,
		},
		XValues: xs,
		YValues: ys,
	}
}

// CirclePoints returns a closed polyline of n chords around the origin.
func CirclePoints(radius float64, n int) (xs, ys []float64) {
	xs = make([]float64, n+1)
	ys = make([]float64, n+1)
	for i := 0; i <= n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		xs[i] = radius * math.Cos(theta)
		ys[i] = radius * math.Sin(theta)
	}
	return xs, ys
}

// renderSVG renders the chart into a string for embedding, along with the
// canvas position of every point.
func renderSVG(fig *Figure, opts RenderOptions) (string, []hotspot, error) {
	var (
		buf   bytes.Buffer
		spots []hotspot
	)
	if err := renderChart(fig, chart.SVG, &buf, opts, &spots); err != nil {
		return "", nil, err
	}
	return buf.String(), spots, nil
}
