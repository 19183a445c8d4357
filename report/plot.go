package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

var metricNames = []string{"Accuracy", "Precision", "Recall", "F1 Score"}

func metricValues(e Entry) []float64 {
	return []float64{e.Scores.Accuracy, e.Scores.Precision, e.Scores.Recall, e.Scores.F1}
}

// PlotComparison saves a grouped bar chart of the four metrics per model.
// The image format follows the file extension of path (.png, .svg, .pdf).
func PlotComparison(path string, entries []Entry) error {
	if len(entries) == 0 {
		return errors.NewModelError("report.PlotComparison", "nothing to plot", errors.ErrEmptyData)
	}

	p := plot.New()
	p.Title.Text = "Model comparison"
	p.Y.Label.Text = "score"
	p.Y.Min = 0
	p.Y.Max = 1

	barWidth := vg.Points(12)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	for m, metric := range metricNames {
		values := make(plotter.Values, len(entries))
		for i, e := range entries {
			values[i] = metricValues(e)[m]
		}
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return errors.Wrapf(err, "bars for %s", metric)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(m)
		bars.Offset = barWidth * vg.Length(2*m-len(metricNames)+1) / 2
		p.Add(bars)
		p.Legend.Add(metric, bars)
	}
	p.Legend.Top = true
	p.NominalX(names...)

	width := vg.Length(len(entries)) * 1.6 * vg.Inch
	if err := p.Save(max(width, 6*vg.Inch), 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save chart %s", path)
	}
	return nil
}
