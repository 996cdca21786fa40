package timeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/soocke/gauge-reader-go/domain/gauge"
)

// readingHeader is the column contract of the health timeline CSV. Downstream
// tooling matches columns by name, so order and spelling are fixed.
var readingHeader = []string{
	"timestamp_ms", "round", "phase",
	"p1_health", "p1_damage", "p2_health", "p2_damage",
}

// WriteReadings writes the reading sequence as CSV. Percentages carry one
// decimal place, phases are their lowercase names.
func WriteReadings(w io.Writer, readings []gauge.Reading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(readingHeader); err != nil {
		return err
	}
	for _, r := range readings {
		rec := []string{
			strconv.FormatInt(r.TimestampMS, 10),
			strconv.Itoa(r.Round),
			r.Phase.String(),
			strconv.FormatFloat(r.P1Health, 'f', 1, 64),
			strconv.FormatFloat(r.P1Damage, 'f', 1, 64),
			strconv.FormatFloat(r.P2Health, 'f', 1, 64),
			strconv.FormatFloat(r.P2Damage, 'f', 1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadReadings parses a health timeline CSV written by WriteReadings.
func ReadReadings(r io.Reader) ([]gauge.Reading, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(readingHeader) {
		return nil, fmt.Errorf("unexpected header %v", header)
	}
	for i, name := range readingHeader {
		if header[i] != name {
			return nil, fmt.Errorf("column %d is %q, want %q", i, header[i], name)
		}
	}

	var readings []gauge.Reading
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		reading, err := parseReading(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		readings = append(readings, reading)
	}
	return readings, nil
}

func parseReading(rec []string) (gauge.Reading, error) {
	var r gauge.Reading
	var err error
	if r.TimestampMS, err = strconv.ParseInt(rec[0], 10, 64); err != nil {
		return r, fmt.Errorf("timestamp_ms: %w", err)
	}
	if r.Round, err = strconv.Atoi(rec[1]); err != nil {
		return r, fmt.Errorf("round: %w", err)
	}
	if r.Phase, err = gauge.ParsePhase(rec[2]); err != nil {
		return r, err
	}
	fields := []struct {
		name string
		dst  *float64
		raw  string
	}{
		{"p1_health", &r.P1Health, rec[3]},
		{"p1_damage", &r.P1Damage, rec[4]},
		{"p2_health", &r.P2Health, rec[5]},
		{"p2_damage", &r.P2Damage, rec[6]},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return r, fmt.Errorf("%s: %w", f.name, err)
		}
		if v < 0 || v > 100 {
			return r, fmt.Errorf("%s %v outside [0,100]", f.name, v)
		}
		*f.dst = v
	}
	return r, nil
}

// eventHeader is the column contract of the event timeline CSV. The
// description and comment columns are left empty for downstream annotation
// passes to fill in.
var eventHeader = []string{
	"timestamp_ms", "time", "event_type", "target", "damage",
	"p1_health", "p2_health", "description", "comment",
}

// WriteEvents writes the event timeline as CSV. The time column is
// seconds.tenths for human scanning.
func WriteEvents(w io.Writer, events []Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(eventHeader); err != nil {
		return err
	}
	for _, e := range events {
		rec := []string{
			strconv.FormatInt(e.TimestampMS, 10),
			formatSeconds(e.TimestampMS),
			string(e.Type),
			e.Target,
			strconv.FormatFloat(e.Damage, 'f', 1, 64),
			strconv.FormatFloat(e.P1Health, 'f', 1, 64),
			strconv.FormatFloat(e.P2Health, 'f', 1, 64),
			e.Description,
			e.Comment,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatSeconds renders a millisecond timestamp as "seconds.tenths".
func formatSeconds(ms int64) string {
	return fmt.Sprintf("%d.%d", ms/1000, ms%1000/100)
}
