package visualization

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// GenerateRunChart creates a chart of speedup and workload estimate over a
// run, on a linear Y-axis.
func (g *Generator) GenerateRunChart(name string, data RunData, filename string) error {
	return g.generateRunChart(name, data, filename, false)
}

// GenerateRunChartWithLogScale is GenerateRunChart with a logarithmic
// speedup axis, useful when a run spans a wide speedup range.
func (g *Generator) GenerateRunChartWithLogScale(name string, data RunData, filename string) error {
	return g.generateRunChart(name, data, filename, true)
}

func (g *Generator) generateRunChart(name string, data RunData, filename string, useLogScale bool) error {
	yAxisType := "value"
	yAxisOpts := opts.YAxis{Name: "Speedup", Type: yAxisType}
	if useLogScale {
		yAxisOpts = opts.YAxis{Name: "Speedup (log scale)", Type: "log", Min: 1e-6}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Controller run: %s", name),
			Subtitle: func() string {
				if useLogScale {
					return "Speedup and workload estimate, logarithmic scale"
				}
				return "Speedup and workload estimate"
			}(),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Iteration", Type: "value"}),
		charts.WithYAxisOpts(yAxisOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "10%"}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true), Type: "png", Title: "Save as Image"},
				DataZoom:    &opts.ToolBoxFeatureDataZoom{Show: opts.Bool(true), Title: map[string]string{"zoom": "Zoom", "back": "Back"}},
			},
		}),
	)

	line.ExtendYAxis(opts.YAxis{
		Name:     "Workload estimate",
		Type:     "value",
		Position: "right",
		SplitLine: &opts.SplitLine{
			Show: opts.Bool(false),
		},
	})

	speedupData := make([]opts.LineData, len(data.Speedups))
	for i, u := range data.Speedups {
		v := u
		if useLogScale && v <= 0 {
			v = 1e-9
		}
		speedupData[i] = opts.LineData{Value: []interface{}{data.Iterations[i], v}}
	}

	workloadData := make([]opts.LineData, len(data.Workloads))
	for i, w := range data.Workloads {
		workloadData[i] = opts.LineData{Value: []interface{}{data.Iterations[i], w}}
	}

	line.AddSeries("Speedup", speedupData,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	).
		AddSeries("Workload estimate", workloadData,
			charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1, Smooth: opts.Bool(true)}),
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}),
		)

	if !strings.HasSuffix(filename, ".html") {
		filename = strings.TrimSuffix(filename, ".png") + ".html"
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("visualization: creating %s: %w", filename, err)
	}
	defer file.Close()

	if err := line.Render(file); err != nil {
		return fmt.Errorf("visualization: rendering %s: %w", filename, err)
	}
	return nil
}
