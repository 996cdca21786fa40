package timeline

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/soocke/gauge-reader-go/domain/gauge"
)

func TestReadingsRoundTrip(t *testing.T) {
	readings := []gauge.Reading{
		{TimestampMS: 0, Round: 0, Phase: gauge.PhaseIntro},
		{TimestampMS: 100, Round: 0, Phase: gauge.PhaseRoundStart, P1Health: 100, P2Health: 100},
		{TimestampMS: 200, Round: 0, Phase: gauge.PhaseBattle, P1Health: 72.5, P1Damage: 10.1, P2Health: 100},
		{TimestampMS: 300, Round: 1, Phase: gauge.PhaseKO, P1Health: 0, P2Health: 55.3},
	}

	var buf strings.Builder
	if err := WriteReadings(&buf, readings); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadReadings(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff(readings, got); diff != "" {
		t.Fatalf("round trip mismatch (-wrote +read):\n%s", diff)
	}
}

func TestWriteReadingsColumnContract(t *testing.T) {
	var buf strings.Builder
	err := WriteReadings(&buf, []gauge.Reading{
		{TimestampMS: 1500, Round: 2, Phase: gauge.PhaseBattle, P1Health: 66.666, P2Health: 100},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "timestamp_ms,round,phase,p1_health,p1_damage,p2_health,p2_damage" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "1500,2,battle,66.7,0.0,100.0,0.0" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestReadReadingsRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"wrong header":    "a,b,c,d,e,f,g\n",
		"bad phase":       "timestamp_ms,round,phase,p1_health,p1_damage,p2_health,p2_damage\n0,0,banana,100.0,0.0,100.0,0.0\n",
		"health past 100": "timestamp_ms,round,phase,p1_health,p1_damage,p2_health,p2_damage\n0,0,battle,150.0,0.0,100.0,0.0\n",
		"bad timestamp":   "timestamp_ms,round,phase,p1_health,p1_damage,p2_health,p2_damage\nxyz,0,battle,100.0,0.0,100.0,0.0\n",
	}
	for name, input := range cases {
		if _, err := ReadReadings(strings.NewReader(input)); err == nil {
			t.Errorf("%s: accepted", name)
		}
	}
}

func TestWriteEventsTimeColumn(t *testing.T) {
	events := []Event{
		{TimestampMS: 0, Type: EventRoundStart, Target: "-", P1Health: 100, P2Health: 100},
		{TimestampMS: 12345, Type: EventP2Damage, Target: "p2", Damage: 7.5, P1Health: 100, P2Health: 92.5},
	}
	var buf strings.Builder
	if err := WriteEvents(&buf, events); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "timestamp_ms,time,event_type,target,damage,p1_health,p2_health,description,comment" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "0,0.0,round_start,-,0.0,100.0,100.0,," {
		t.Errorf("round_start row = %q", lines[1])
	}
	if lines[2] != "12345,12.3,p2_damage,p2,7.5,100.0,92.5,," {
		t.Errorf("damage row = %q", lines[2])
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0.0"},
		{99, "0.0"},
		{100, "0.1"},
		{1000, "1.0"},
		{61950, "61.9"},
	}
	for _, c := range cases {
		if got := formatSeconds(c.ms); got != c.want {
			t.Errorf("formatSeconds(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}
