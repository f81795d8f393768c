package visualization

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// GenerateReplayComparisonChart charts a live run's speedup series against
// a replayed trace's speedup series over the same iterations, the way the
// teacher's base-comparison chart plotted a live mechanism's fees against
// fees replayed from a recorded chain.
func (g *Generator) GenerateReplayComparisonChart(name string, data RunData, replayed RunData, filename string) error {
	if len(data.Speedups) != len(replayed.Speedups) {
		return fmt.Errorf("visualization: live and replayed runs have different lengths (%d vs %d)",
			len(data.Speedups), len(replayed.Speedups))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1400px", Height: "1000px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Live vs replayed run: %s", name),
			Subtitle: "Speedup comparison",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Iteration", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Speedup", Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "10%"}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true), Type: "png", Title: "Save as Image"},
				DataZoom:    &opts.ToolBoxFeatureDataZoom{Show: opts.Bool(true), Title: map[string]string{"zoom": "Zoom", "back": "Back"}},
			},
		}),
	)

	liveData := make([]opts.LineData, len(data.Speedups))
	for i, u := range data.Speedups {
		liveData[i] = opts.LineData{Value: []interface{}{data.Iterations[i], u}}
	}

	replayedData := make([]opts.LineData, len(replayed.Speedups))
	for i, u := range replayed.Speedups {
		replayedData[i] = opts.LineData{Value: []interface{}{data.Iterations[i], u}}
	}

	line.AddSeries("Live speedup", liveData,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: 3}),
	).
		AddSeries("Replayed speedup", replayedData,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: 2, Type: "dashed"}),
		)

	if !strings.HasSuffix(filename, ".html") {
		filename = strings.TrimSuffix(filename, ".png") + ".html"
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("visualization: creating %s: %w", filename, err)
	}
	defer file.Close()

	return line.Render(file)
}
