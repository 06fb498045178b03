// Package chart draws dashboard chart descriptions as SVG or PNG images.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/preston-bernstein/nhl-dashboard/internal/app/dashboard"
)

var (
	// ErrNoData is returned for a chart with nothing to draw.
	ErrNoData = errors.New("chart has no data")
	// ErrUnsupportedFormat is returned for an image format other than svg or png.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Format is an output image encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat resolves a format name; empty means svg.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(raw)) {
	case "", FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() gochart.RendererProvider {
	if f == FormatPNG {
		return gochart.PNG
	}
	return gochart.SVG
}

// Size is the image size in pixels.
type Size struct {
	Width  int
	Height int
}

const (
	defaultWidth  = 800
	defaultHeight = 450
)

func (s Size) orDefault() Size {
	if s.Width <= 0 {
		s.Width = defaultWidth
	}
	if s.Height <= 0 {
		s.Height = defaultHeight
	}
	return s
}

// Renderer draws charts at a fixed size.
type Renderer struct {
	size Size
}

// NewRenderer constructs a Renderer; non-positive dimensions use 800x450.
func NewRenderer(size Size) *Renderer {
	return &Renderer{size: size.orDefault()}
}

// Render writes spec to w.
func (r *Renderer) Render(w io.Writer, spec dashboard.ChartSpec, format Format) error {
	return Render(w, spec, format, r.size)
}

// Render draws spec in the given format and size.
func Render(w io.Writer, spec dashboard.ChartSpec, format Format, size Size) error {
	if spec.Empty() {
		return ErrNoData
	}
	if format == "" {
		format = FormatSVG
	}
	if format != FormatSVG && format != FormatPNG {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	size = size.orDefault()

	var err error
	switch spec.Type {
	case dashboard.ChartBar, dashboard.ChartHistogram:
		err = renderBars(w, spec, format, size)
	case dashboard.ChartLine, dashboard.ChartScatter:
		err = renderXY(w, spec, format, size)
	case dashboard.ChartPie:
		err = renderPie(w, spec, format, size)
	default:
		return fmt.Errorf("unsupported chart type %q", spec.Type)
	}
	if err != nil {
		return fmt.Errorf("render %s chart: %w", spec.Type, err)
	}
	return nil
}

func renderBars(w io.Writer, spec dashboard.ChartSpec, format Format, size Size) error {
	bars := barValues(spec)
	if len(bars) == 0 {
		return ErrNoData
	}
	hi := 0.0
	lo := 0.0
	for _, b := range bars {
		hi = math.Max(hi, b.Value)
		lo = math.Min(lo, b.Value)
	}
	if hi == lo {
		hi = lo + 1
	}

	// Fit every bar inside the canvas, two thirds bar and one third gap.
	slot := (size.Width - 120) / len(bars)
	if slot < 3 {
		slot = 3
	}
	bc := gochart.BarChart{
		Title:      spec.Title,
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   slot * 2 / 3,
		BarSpacing: slot - slot*2/3,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: gochart.YAxis{
			Name:  spec.YLabel,
			Range: &gochart.ContinuousRange{Min: lo, Max: hi * 1.1},
		},
		Bars: bars,
	}
	return bc.Render(format.provider(), w)
}

// barValues flattens the spec into bars. Several series become grouped bars ordered by
// x, then by series, each labelled with its series name.
func barValues(spec dashboard.ChartSpec) []gochart.Value {
	multi := len(spec.Series) > 1
	type bar struct {
		x      float64
		series int
		value  gochart.Value
	}
	var bars []bar
	for si, s := range spec.Series {
		for _, p := range s.Points {
			label := p.Label
			if p.Text != "" {
				label = p.Label + ": " + p.Text
			}
			if multi {
				label = s.Name + " " + p.Label
			}
			color := p.Color
			if color == "" {
				color = s.Color
			}
			v := gochart.Value{Label: label, Value: p.Y}
			if color != "" {
				c := hexColor(color)
				v.Style = gochart.Style{FillColor: c, StrokeColor: c}
			}
			bars = append(bars, bar{x: p.X, series: si, value: v})
		}
	}
	if multi {
		sort.SliceStable(bars, func(i, j int) bool {
			if bars[i].x != bars[j].x {
				return bars[i].x < bars[j].x
			}
			return bars[i].series < bars[j].series
		})
	}
	out := make([]gochart.Value, 0, len(bars))
	for _, b := range bars {
		out = append(out, b.value)
	}
	return out
}

func renderXY(w io.Writer, spec dashboard.ChartSpec, format Format, size Size) error {
	scatter := spec.Type == dashboard.ChartScatter
	xr := newSpan()
	yr := newSpan()
	var ticks []gochart.Tick
	seen := map[float64]bool{}

	series := make([]gochart.Series, 0, len(spec.Series))
	for i, s := range spec.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, 0, len(s.Points))
		ys := make([]float64, 0, len(s.Points))
		for _, p := range s.Points {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
			xr.add(p.X)
			yr.add(p.Y)
			if p.Label != "" && !seen[p.X] {
				seen[p.X] = true
				ticks = append(ticks, gochart.Tick{Value: p.X, Label: p.Label})
			}
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   seriesStyle(s.Color, i, scatter),
		})
	}
	if len(series) == 0 {
		return ErrNoData
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Value < ticks[j].Value })
	ticks = thinTicks(ticks, size.Width/60)

	ch := gochart.Chart{
		Title:      spec.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  spec.XLabel,
			Range: xr.padded(0.5),
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  spec.YLabel,
			Range: yr.padded(yr.width() * 0.1),
		},
		Series: series,
	}
	if len(series) > 1 {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}
	return ch.Render(format.provider(), w)
}

func seriesStyle(color string, index int, scatter bool) gochart.Style {
	c := paletteColor(index)
	if color != "" {
		c = hexColor(color)
	}
	if scatter {
		return gochart.Style{
			StrokeWidth: gochart.Disabled,
			DotWidth:    5,
			DotColor:    c,
		}
	}
	return gochart.Style{
		StrokeColor: c,
		StrokeWidth: 2,
		DotWidth:    4,
		DotColor:    c,
	}
}

func renderPie(w io.Writer, spec dashboard.ChartSpec, format Format, size Size) error {
	var values []gochart.Value
	i := 0
	for _, s := range spec.Series {
		for _, p := range s.Points {
			// Slices must be positive to have an angle.
			if p.Y <= 0 {
				continue
			}
			c := paletteColor(i)
			if p.Color != "" {
				c = hexColor(p.Color)
			}
			values = append(values, gochart.Value{
				Label: fmt.Sprintf("%s (%s)", p.Label, formatValue(p.Y)),
				Value: p.Y,
				Style: gochart.Style{FillColor: c},
			})
			i++
		}
	}
	if len(values) == 0 {
		return ErrNoData
	}
	pc := gochart.PieChart{
		Title:  spec.Title,
		Width:  size.Width,
		Height: size.Height,
		Values: values,
	}
	return pc.Render(format.provider(), w)
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.3g", v)
}

// thinTicks keeps at most limit ticks, evenly spaced, always keeping the first and last.
func thinTicks(ticks []gochart.Tick, limit int) []gochart.Tick {
	if limit < 2 {
		limit = 2
	}
	if len(ticks) <= limit {
		return ticks
	}
	step := int(math.Ceil(float64(len(ticks)-1) / float64(limit-1)))
	out := make([]gochart.Tick, 0, limit+1)
	for i := 0; i < len(ticks); i += step {
		out = append(out, ticks[i])
	}
	if last := ticks[len(ticks)-1]; out[len(out)-1].Value != last.Value {
		out = append(out, last)
	}
	return out
}

type span struct {
	min, max float64
	set      bool
}

func newSpan() *span { return &span{} }

func (s *span) add(v float64) {
	if !s.set {
		s.min, s.max, s.set = v, v, true
		return
	}
	s.min = math.Min(s.min, v)
	s.max = math.Max(s.max, v)
}

func (s *span) width() float64 { return s.max - s.min }

// padded widens the span by pad on each side, and by at least 1 when it is a single value
// so go-chart never sees a zero-width range.
func (s *span) padded(pad float64) *gochart.ContinuousRange {
	if pad <= 0 || s.width() == 0 {
		pad = math.Max(pad, 1)
	}
	return &gochart.ContinuousRange{Min: s.min - pad, Max: s.max + pad}
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

var defaultPalette = []string{"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a", "#19d3f3", "#ff6692", "#b6e880", "#ff97ff", "#fecb52"}

func paletteColor(i int) drawing.Color {
	return hexColor(defaultPalette[i%len(defaultPalette)])
}
