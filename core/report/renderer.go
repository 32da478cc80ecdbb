// Package report renders aggregation series as chart images and
// workbooks. It performs no aggregation of its own.
package report

import (
	"image/color"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"waste-cost/core/types"
	"waste-cost/internal/errors"
	"waste-cost/internal/logging"
)

// Axis labels shared by the charts
const (
	CostAxisLabel   = "Custo (R$)"
	PeriodAxisLabel = "Período"
)

// Default chart image size in pixels
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// screenDPI is the resolution gonum/plot rasterizes PNGs at
const screenDPI = 96

var barColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// Renderer writes chart images into a single output directory.
// The directory is created on the first write.
type Renderer struct {
	dir    string
	width  int
	height int
}

// Option configures a Renderer
type Option func(*Renderer)

// WithSize sets the image size in pixels
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// NewRenderer creates a renderer writing into dir
func NewRenderer(dir string, opts ...Option) *Renderer {
	r := &Renderer{
		dir:    dir,
		width:  DefaultWidth,
		height: DefaultHeight,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the output directory
func (r *Renderer) Dir() string {
	return r.dir
}

// Bar renders s as a bar chart in series order with rotated category labels
func (r *Renderer) Bar(s *types.Series, title, file string) (string, error) {
	if s.Len() == 0 {
		return "", errors.Input("no data to plot for " + title)
	}

	p := newPlot(title)
	p.Y.Label.Text = CostAxisLabel

	bars, err := plotter.NewBarChart(plotter.Values(s.Floats()), vg.Points(barWidth(r.width, s.Len())))
	if err != nil {
		return "", errors.Internal("cannot build bar chart", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(s.Keys()...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return r.save(p, file)
}

// Line renders s as a line with point markers, one tick per group
func (r *Renderer) Line(s *types.Series, title, file string) (string, error) {
	if s.Len() == 0 {
		return "", errors.Input("no data to plot for " + title)
	}

	p := newPlot(title)
	p.Y.Label.Text = CostAxisLabel
	p.X.Label.Text = PeriodAxisLabel

	values := s.Floats()
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i].X = float64(i)
		xys[i].Y = v
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return "", errors.Internal("cannot build line chart", err)
	}
	line.Color = barColor
	line.Width = vg.Points(1.5)
	points.Shape = draw.CircleGlyph{}
	points.Color = barColor
	points.Radius = vg.Points(3)
	p.Add(plotter.NewGrid(), line, points)

	p.NominalX(s.Keys()...)

	return r.save(p, file)
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	return p
}

// barWidth spreads bars over roughly 80% of the plot width
func barWidth(widthPx, n int) float64 {
	w := float64(widthPx) * 0.8 / float64(n) * 72 / screenDPI * 0.6
	return math.Max(2, math.Min(w, 60))
}

func (r *Renderer) save(p *plot.Plot, file string) (string, error) {
	path, err := r.prepare(file)
	if err != nil {
		return "", err
	}
	if err := p.Save(pixels(r.width), pixels(r.height), path); err != nil {
		return "", errors.OutputWrite(path, err)
	}
	logging.Info("chart written", zap.String("path", path))
	return path, nil
}

// prepare ensures the output directory exists and returns the target path
func (r *Renderer) prepare(file string) (string, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", errors.OutputWrite(r.dir, err)
	}
	return filepath.Join(r.dir, file), nil
}

func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / screenDPI
}
