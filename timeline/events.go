package timeline

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/soocke/gauge-reader-go/domain/gauge"
)

// EventType classifies a timeline event.
type EventType string

const (
	EventRoundStart EventType = "round_start"
	EventKO         EventType = "ko"
	EventP1Damage   EventType = "p1_damage"
	EventP2Damage   EventType = "p2_damage"
	EventExchange   EventType = "exchange"
)

// Event is one annotated moment of the match derived from the health
// timeline. Target names who the event happened to: "p1", "p2", "both", or
// "-" for round starts. Description and Comment stay empty here; later
// annotation passes fill them.
type Event struct {
	TimestampMS int64
	Type        EventType
	Target      string
	Damage      float64
	P1Health    float64
	P2Health    float64
	Description string
	Comment     string
}

// Extraction defaults.
const (
	// DefaultMinDamage is the smallest health drop (in percent) worth an
	// event of its own.
	DefaultMinDamage = 2.0
	// DefaultMergeWindowMS merges health drops closer together than this
	// into one event.
	DefaultMergeWindowMS = 500
)

// extractor accumulates pending damage while folding the reading sequence.
type extractor struct {
	minDamage     float64
	mergeWindowMS int64

	events []Event

	pendingP1Damage float64
	pendingP2Damage float64
	pendingStartMS  int64
	pendingP1Health float64
	pendingP2Health float64
}

// ExtractEvents folds a health timeline into match events: round starts, KOs
// and damage events, with drops within the merge window combined. Events
// before the first detected round start are discarded as intro noise; when no
// round start is found all events are kept.
func ExtractEvents(readings []gauge.Reading, minDamage float64, mergeWindowMS int64) []Event {
	ex := &extractor{minDamage: minDamage, mergeWindowMS: mergeWindowMS}

	started := false
	var prevP1, prevP2 float64
	for _, r := range readings {
		if !started {
			started = true
			prevP1, prevP2 = r.P1Health, r.P2Health
			continue
		}

		// Both bars back at full from a depleted state marks a round
		// start; the frame carries no damage information of its own.
		if r.P1Health >= 99.5 && r.P2Health >= 99.5 && (prevP1 < 90 || prevP2 < 90) {
			ex.flush()
			ex.events = append(ex.events, Event{
				TimestampMS: r.TimestampMS,
				Type:        EventRoundStart,
				Target:      "-",
				P1Health:    r.P1Health,
				P2Health:    r.P2Health,
			})
			prevP1, prevP2 = r.P1Health, r.P2Health
			continue
		}

		p1Took := prevP1 - r.P1Health
		p2Took := prevP2 - r.P2Health
		if p1Took > 0 || p2Took > 0 {
			if ex.pendingStartMS > 0 && r.TimestampMS-ex.pendingStartMS > ex.mergeWindowMS {
				ex.flush()
			}
			if ex.pendingP1Damage == 0 && ex.pendingP2Damage == 0 {
				ex.pendingStartMS = r.TimestampMS
			}
			ex.pendingP1Damage += math.Max(0, p1Took)
			ex.pendingP2Damage += math.Max(0, p2Took)
			ex.pendingP1Health = r.P1Health
			ex.pendingP2Health = r.P2Health
		}

		// KO on the downward crossing only, one player per frame.
		if r.P1Health <= 1.0 && prevP1 > 1.0 {
			ex.flush()
			ex.events = append(ex.events, Event{
				TimestampMS: r.TimestampMS,
				Type:        EventKO,
				Target:      "p1",
				P1Health:    r.P1Health,
				P2Health:    r.P2Health,
			})
		} else if r.P2Health <= 1.0 && prevP2 > 1.0 {
			ex.flush()
			ex.events = append(ex.events, Event{
				TimestampMS: r.TimestampMS,
				Type:        EventKO,
				Target:      "p2",
				P1Health:    r.P1Health,
				P2Health:    r.P2Health,
			})
		}

		prevP1, prevP2 = r.P1Health, r.P2Health
	}
	ex.flush()

	return dropPreRound(ex.events)
}

// flush commits the pending damage accumulator as an event if it crossed the
// minimum. The pending start timestamp deliberately survives the flush; it
// feeds the next merge-window check.
func (ex *extractor) flush() {
	p1, p2 := ex.pendingP1Damage, ex.pendingP2Damage
	ex.pendingP1Damage = 0
	ex.pendingP2Damage = 0
	if p1 < ex.minDamage && p2 < ex.minDamage {
		return
	}

	var typ EventType
	var target string
	var damage float64
	switch {
	case p1 >= ex.minDamage && p2 >= ex.minDamage:
		typ, target, damage = EventExchange, "both", math.Max(p1, p2)
	case p1 >= ex.minDamage:
		typ, target, damage = EventP1Damage, "p1", p1
	default:
		typ, target, damage = EventP2Damage, "p2", p2
	}

	ex.events = append(ex.events, Event{
		TimestampMS: ex.pendingStartMS,
		Type:        typ,
		Target:      target,
		Damage:      math.Round(damage*10) / 10,
		P1Health:    ex.pendingP1Health,
		P2Health:    ex.pendingP2Health,
	})
}

func dropPreRound(events []Event) []Event {
	for i, e := range events {
		if e.Type == EventRoundStart {
			return events[i:]
		}
	}
	return events
}

// Summary aggregates an event timeline for the post-extraction log line.
type Summary struct {
	Events     int
	Rounds     int
	KOs        int
	Exchanges  int
	P1Hits     int
	P2Hits     int
	MeanDamage float64
	MaxDamage  float64
}

// Summarize computes aggregate statistics over the damage-bearing events.
func Summarize(events []Event) Summary {
	s := Summary{Events: len(events)}
	var damages []float64
	for _, e := range events {
		switch e.Type {
		case EventRoundStart:
			s.Rounds++
		case EventKO:
			s.KOs++
		case EventExchange:
			s.Exchanges++
			damages = append(damages, e.Damage)
		case EventP1Damage:
			s.P1Hits++
			damages = append(damages, e.Damage)
		case EventP2Damage:
			s.P2Hits++
			damages = append(damages, e.Damage)
		}
	}
	if len(damages) > 0 {
		s.MeanDamage = stat.Mean(damages, nil)
		for _, d := range damages {
			if d > s.MaxDamage {
				s.MaxDamage = d
			}
		}
	}
	return s
}
