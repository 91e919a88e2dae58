package report

import (
	"errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/signalnine/darwindeck/deckevolve/evolution"
)

// WriteFitnessPlot draws best and average fitness per generation. The
// image format follows the extension of outPath.
func WriteFitnessPlot(history []evolution.GenerationStats, title, outPath string) error {
	if len(history) == 0 {
		return errors.New("no generations to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Win rate (%)"
	p.Y.Min = 0
	p.Y.Max = 100

	bestPts := make(plotter.XYs, len(history))
	avgPts := make(plotter.XYs, len(history))
	for i, s := range history {
		bestPts[i].X = float64(s.Generation)
		bestPts[i].Y = s.BestFitness
		avgPts[i].X = float64(s.Generation)
		avgPts[i].Y = s.AvgFitness
	}

	bestLine, err := plotter.NewLine(bestPts)
	if err != nil {
		return err
	}
	avgLine, err := plotter.NewLine(avgPts)
	if err != nil {
		return err
	}
	avgLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(plotter.NewGrid(), bestLine, avgLine)
	p.Legend.Add("best", bestLine)
	p.Legend.Add("avg", avgLine)
	p.Legend.Top = true
	p.Legend.Left = true

	return p.Save(6*vg.Inch, 4*vg.Inch, outPath)
}
