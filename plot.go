package gan_go

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotLosses Renders discriminator and generator loss histories as a line
// chart saved to fname. X axis is the report index.
func PlotLosses(dLoss, gLoss []float64, fname string) error {
	if len(dLoss) != len(gLoss) {
		return fmt.Errorf("Loss histories must have same length, but got %d and %d", len(dLoss), len(gLoss))
	}
	toXYs := func(vals []float64) plotter.XYs {
		xys := make(plotter.XYs, len(vals))
		for i, v := range vals {
			xys[i].X = float64(i)
			xys[i].Y = v
		}
		return xys
	}
	dLine, err := plotter.NewLine(toXYs(dLoss))
	if err != nil {
		return errors.Wrap(err, "Can't init discriminator loss line")
	}
	dLine.Color = color.RGBA{R: 255, B: 128, A: 255}
	gLine, err := plotter.NewLine(toXYs(gLoss))
	if err != nil {
		return errors.Wrap(err, "Can't init generator loss line")
	}
	gLine.Color = color.RGBA{B: 255, G: 128, A: 255}
	p := plot.New()
	p.X.Label.Text = "Report"
	p.Y.Label.Text = "Loss"
	p.Add(plotter.NewGrid())
	p.Add(dLine, gLine)
	p.Legend.Add("discriminator", dLine)
	p.Legend.Add("generator", gLine)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, fname); err != nil {
		return errors.Wrap(err, "Can't save plot")
	}
	return nil
}

// imageGrid plotter.GridXYZ over a composite of tiled grayscale images
type imageGrid struct {
	data       []float64
	rows, cols int
}

func (g *imageGrid) Dims() (int, int) { return g.cols, g.rows }
func (g *imageGrid) X(c int) float64  { return float64(c) }
func (g *imageGrid) Y(r int) float64  { return float64(r) }

func (g *imageGrid) Z(c, r int) float64 {
	// Row 0 of the composite is the top of the picture, heat maps draw
	// increasing Y upwards
	return g.data[(g.rows-1-r)*g.cols+c]
}

// SaveImageGrid Renders a batch of generated images as a tiled grid saved to
// fname. Each row of the batch is one flattened imgH×imgW image in [-1, 1];
// values are rescaled to [0, 1] for display.
func SaveImageGrid(images *Matrix, imgH, imgW, gridCols int, fname string) error {
	if imgH*imgW != images.cols {
		return fmt.Errorf("Image of %dx%d pixels doesn't match flattened dimension %d", imgH, imgW, images.cols)
	}
	if gridCols < 1 {
		return fmt.Errorf("Grid must have one column atleast")
	}
	numImages := images.rows
	gridRows := (numImages + gridCols - 1) / gridCols
	composite := &imageGrid{
		rows: gridRows * imgH,
		cols: gridCols * imgW,
	}
	composite.data = make([]float64, composite.rows*composite.cols)
	for img := 0; img < numImages; img++ {
		tileRow := img / gridCols
		tileCol := img % gridCols
		for y := 0; y < imgH; y++ {
			for x := 0; x < imgW; x++ {
				v := (images.data[img*images.cols+y*imgW+x] + 1.0) / 2.0
				composite.data[(tileRow*imgH+y)*composite.cols+tileCol*imgW+x] = v
			}
		}
	}
	heatMap := plotter.NewHeatMap(composite, palette.Heat(16, 1))
	p := plot.New()
	p.HideAxes()
	p.Add(heatMap)
	if err := p.Save(vg.Length(gridCols)*vg.Inch, vg.Length(gridRows)*vg.Inch, fname); err != nil {
		return errors.Wrap(err, "Can't save image grid")
	}
	return nil
}
