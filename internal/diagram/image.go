package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
)

var loadColors = map[asce7.LoadType]color.RGBA{
	asce7.Dead:    {R: 90, G: 90, B: 90, A: 255},
	asce7.Live:    {R: 0, G: 100, B: 0, A: 255},
	asce7.Snow:    {R: 70, G: 130, B: 180, A: 255},
	asce7.Wind:    {R: 0, G: 0, B: 200, A: 255},
	asce7.Seismic: {R: 200, G: 0, B: 0, A: 255},
	asce7.Crane:   {R: 255, G: 140, B: 0, A: 255},
}

// ExportFrameDiagram draws the frame elevation and its load arrows to an
// image. The format follows the extension (.png, .svg, .pdf); anything
// else is saved as PNG.
func ExportFrameDiagram(data FrameDiagramData, filename string) error {
	if len(data.Members) == 0 {
		return fmt.Errorf("frame diagram %q has no members", data.Title)
	}

	p := plot.New()
	p.Title.Text = data.Title
	p.X.Label.Text = axisLabel("Width", data.LengthUnit)
	p.Y.Label.Text = axisLabel("Height", data.LengthUnit)

	for _, m := range data.Members {
		line, err := plotter.NewLine(plotter.XYs{{X: m.From.X, Y: m.From.Y}, {X: m.To.X, Y: m.To.Y}})
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = color.Black
		p.Add(line)
	}

	// one legend entry per load type, in combination order
	byType := map[asce7.LoadType][]Arrow{}
	for _, a := range data.Arrows {
		byType[a.Type] = append(byType[a.Type], a)
	}
	for _, lt := range asce7.LoadTypes {
		arrows := byType[lt]
		if len(arrows) == 0 {
			continue
		}
		c, ok := loadColors[lt]
		if !ok {
			c = color.RGBA{A: 255}
		}

		heads := make(plotter.XYs, 0, len(arrows))
		for _, a := range arrows {
			shaft, err := plotter.NewLine(plotter.XYs{{X: a.Tail.X, Y: a.Tail.Y}, {X: a.Head.X, Y: a.Head.Y}})
			if err != nil {
				return err
			}
			shaft.LineStyle.Width = vg.Points(1)
			shaft.LineStyle.Color = c
			p.Add(shaft)
			heads = append(heads, plotter.XY{X: a.Head.X, Y: a.Head.Y})
		}

		scatter, err := plotter.NewScatter(heads)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = c
		scatter.GlyphStyle.Radius = vg.Points(3)
		scatter.GlyphStyle.Shape = draw.TriangleGlyph{}
		p.Add(scatter)
		p.Legend.Add(strings.ToLower(string(lt)), scatter)
	}

	if labels := magnitudeLabels(data); labels != nil {
		l, err := plotter.NewLabels(*labels)
		if err != nil {
			return err
		}
		p.Add(l)
	}

	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	width := 8 * vg.Inch
	height := 6 * vg.Inch
	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
	default:
		filename += ".png"
	}
	return p.Save(width, height, filename)
}

// magnitudeLabels annotates the largest arrow of each load type
func magnitudeLabels(data FrameDiagramData) *plotter.XYLabels {
	largest := map[asce7.LoadType]Arrow{}
	for _, a := range data.Arrows {
		if cur, ok := largest[a.Type]; !ok || a.Magnitude > cur.Magnitude {
			largest[a.Type] = a
		}
	}
	if len(largest) == 0 {
		return nil
	}

	types := make([]asce7.LoadType, 0, len(largest))
	for lt := range largest {
		types = append(types, lt)
	}
	slices.Sort(types)

	labels := &plotter.XYLabels{}
	for _, lt := range types {
		a := largest[lt]
		labels.XYs = append(labels.XYs, plotter.XY{X: a.Tail.X, Y: a.Tail.Y})
		labels.Labels = append(labels.Labels, fmt.Sprintf("%.3g %s", a.Magnitude, data.ForceUnit))
	}
	return labels
}

func axisLabel(name, unit string) string {
	if unit == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, unit)
}
