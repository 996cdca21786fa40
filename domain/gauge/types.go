package gauge

import "fmt"

// Phase enumerates the finite match phases.
type Phase int

const (
	PhaseIntro Phase = iota
	PhaseRoundStart
	PhaseBattle
	PhaseKO
	PhaseRoundEnd
	// PhaseMatchEnd is never produced by the detector; it exists for
	// downstream consumers that close out a match externally.
	PhaseMatchEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhaseRoundStart:
		return "round_start"
	case PhaseBattle:
		return "battle"
	case PhaseKO:
		return "ko"
	case PhaseRoundEnd:
		return "round_end"
	case PhaseMatchEnd:
		return "match_end"
	default:
		return "unknown"
	}
}

// ParsePhase maps a lower-case phase name back to its Phase value.
func ParsePhase(s string) (Phase, error) {
	for p := PhaseIntro; p <= PhaseMatchEnd; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PhaseIntro, fmt.Errorf("unknown phase %q", s)
}

// BarState is one frame's raw measurement of a single health bar.
// Health, Damage and ConfirmedDamage are percentages in [0,100] and satisfy
// health = clamp(100 - confirmed - damage, 0, 100).
type BarState struct {
	Health          float64 // remaining health
	Damage          float64 // uncommitted damage (red fill)
	ConfirmedDamage float64 // permanently lost health (dark fill)
	IsFull          bool    // gold full-bar rendering detected
}

// Reading is one finalized, filtered sample of the match timeline. Readings
// are appended in timestamp order and never mutated afterwards.
type Reading struct {
	TimestampMS int64
	Round       int
	Phase       Phase
	P1Health    float64
	P1Damage    float64
	P2Health    float64
	P2Damage    float64
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
