package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/soocke/gauge-reader-go/domain/gauge"
)

// HealthChart renders the health timeline of both players as an ECharts line
// chart (self-contained HTML).
func HealthChart(w io.Writer, readings []gauge.Reading) error {
	if len(readings) == 0 {
		return fmt.Errorf("no readings to chart")
	}

	x := make([]string, 0, len(readings))
	p1 := make([]opts.LineData, 0, len(readings))
	p2 := make([]opts.LineData, 0, len(readings))
	rounds := 0
	for _, r := range readings {
		x = append(x, fmt.Sprintf("%.1f", float64(r.TimestampMS)/1000))
		p1 = append(p1, opts.LineData{Value: r.P1Health})
		p2 = append(p2, opts.LineData{Value: r.P2Health})
		if r.Round+1 > rounds {
			rounds = r.Round + 1
		}
	}

	durationS := float64(readings[len(readings)-1].TimestampMS) / 1000

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Health Timeline", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Health Timeline",
			Subtitle: fmt.Sprintf("readings=%d rounds=%d duration=%.1fs", len(readings), rounds, durationS),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time (s)", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 100, Name: "health (%)", NameLocation: "middle", NameGap: 40}),
	)
	line.SetXAxis(x)
	line.AddSeries("p1_health", p1, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#2e7d32"}))
	line.AddSeries("p2_health", p2, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#c62828"}))

	return line.Render(w)
}

// WriteHealthChart renders the health chart to an HTML file.
func WriteHealthChart(path string, readings []gauge.Reading) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return HealthChart(f, readings)
}
