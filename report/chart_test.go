package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soocke/gauge-reader-go/domain/gauge"
)

func sampleReadings() []gauge.Reading {
	return []gauge.Reading{
		{TimestampMS: 0, Phase: gauge.PhaseRoundStart, P1Health: 100, P2Health: 100},
		{TimestampMS: 100, Phase: gauge.PhaseBattle, P1Health: 80, P2Health: 100},
		{TimestampMS: 200, Round: 1, Phase: gauge.PhaseBattle, P1Health: 100, P2Health: 60},
	}
}

func TestHealthChartContainsBothSeries(t *testing.T) {
	var buf strings.Builder
	if err := HealthChart(&buf, sampleReadings()); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if len(html) == 0 {
		t.Fatal("empty chart output")
	}
	for _, want := range []string{"p1_health", "p2_health", "Health Timeline", "rounds=2"} {
		if !strings.Contains(html, want) {
			t.Errorf("chart HTML missing %q", want)
		}
	}
}

func TestHealthChartEmptyReadings(t *testing.T) {
	var buf strings.Builder
	if err := HealthChart(&buf, nil); err == nil {
		t.Fatal("rendered a chart from no readings")
	}
}

func TestWriteHealthChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.html")
	if err := WriteHealthChart(path, sampleReadings()); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "echarts") {
		t.Error("chart file does not reference echarts")
	}
}
