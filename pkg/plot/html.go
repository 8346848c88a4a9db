package plot

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04"

var pageTemplate = template.Must(template.New("figure").Funcs(template.FuncMap{
	"when": func(t time.Time) string { return t.Format(timeLayout) },
	"mm":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Figure.Title}} displacement</title>
<style>
body { font-family: sans-serif; margin: 1.5em; color: #222; }
.chart svg { max-width: 100%; height: auto; }
table { border-collapse: collapse; margin-top: 1em; }
th, td { padding: 0.25em 0.75em; text-align: right; border-bottom: 1px solid #ddd; }
th:first-child, td:first-child { text-align: left; }
tr.before td:first-child { color: #1f77b4; }
tr.after td:first-child { color: #d62728; }
tr:hover { background: #f4f4f4; }
</style>
</head>
<body>
<h1>{{.Figure.Title}}</h1>
<p>Construction start: {{when .Figure.ConstructionStart}}{{range .Figure.Circles}} &middot; {{.Label}}{{end}}</p>
<div class="chart">{{.SVG}}</div>
<table>
<thead><tr><th>Group</th><th>Surveyed</th><th>dE (mm)</th><th>dN (mm)</th><th>Horizontal (mm)</th></tr></thead>
<tbody>
{{- range $g := .Groups}}{{range .Points}}
<tr class="{{$g.Class}}" title="{{when .Time}}"><td>{{$g.Label}}</td><td>{{when .Time}}</td><td>{{mm .X}}</td><td>{{mm .Y}}</td><td>{{mm .Horizontal}}</td></tr>
{{- end}}{{end}}
</tbody>
</table>
</body>
</html>
`))

// hoverTemplate draws an invisible circle over each marker whose title is
// shown as a tooltip.
var hoverTemplate = template.Must(template.New("hover").Funcs(template.FuncMap{
	"when": func(t time.Time) string { return t.Format(timeLayout) },
	"mm":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`<g class="hover">
{{- range .Spots}}
<circle cx="{{.X}}" cy="{{.Y}}" r="{{$.Radius}}" fill="#000" fill-opacity="0"><title>{{when .Point.Time}} ({{mm .Point.Horizontal}} mm)</title></circle>
{{- end}}
</g>`))

// hoverRadius is the pointer target around each marker in pixels.
const hoverRadius = 6

type hoverLayer struct {
	Radius int
	Spots  []hotspot
}

type pageGroup struct {
	Group
	Class string
}

type pageData struct {
	Figure *Figure
	SVG    template.HTML
	Groups []pageGroup
}

// renderHTML writes a self-contained viewer page: the SVG chart followed by
// a table of every point with its survey time.
func renderHTML(fig *Figure, w io.Writer, opts RenderOptions) error {
	svg, spots, err := renderSVG(fig, opts)
	if err != nil {
		return err
	}
	svg, err = addHoverTitles(svg, spots)
	if err != nil {
		return err
	}

	data := pageData{
		Figure: fig,
		SVG:    template.HTML(svg), // #nosec G203 -- generated by the chart renderer and hoverTemplate
		Groups: []pageGroup{
			{Group: fig.Before, Class: "before"},
			{Group: fig.After, Class: "after"},
		},
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("writing viewer page: %w", err)
	}
	return nil
}

// addHoverTitles appends a hover layer to the end of the chart's SVG so
// pointing at a marker shows its survey time.
func addHoverTitles(svg string, spots []hotspot) (string, error) {
	end := strings.LastIndex(svg, "</svg>")
	if end < 0 || len(spots) == 0 {
		return svg, nil
	}

	var layer bytes.Buffer
	if err := hoverTemplate.Execute(&layer, hoverLayer{Radius: hoverRadius, Spots: spots}); err != nil {
		return "", fmt.Errorf("writing hover layer: %w", err)
	}
	return svg[:end] + layer.String() + svg[end:], nil
}
