package gauge

import "github.com/soocke/gauge-reader-go/config"

// Both players must read at least this healthy, after a blackout, for the
// filter to commit to a round start and reset its damage trackers.
const roundResetHealth = 99.5

// TemporalFilter reconciles successive raw bar readings into a physically
// consistent stream: damage never un-confirms, confirmed damage only appears
// through a transitional red signal, and health never rises mid-round. It is
// the only stateful stage besides the phase detector's brightness memory.
//
// Create one filter per video and call Apply (or Unavailable) once per
// sampled frame, in timestamp order, from a single goroutine.
type TemporalFilter struct {
	cfg *config.Config

	prevP1Health    float64
	prevP2Health    float64
	prevP1Confirmed float64
	prevP2Confirmed float64
	afterBlackout   bool
	round           int
	phase           Phase

	corrections int
}

// NewTemporalFilter returns a filter in its pre-round state: round 0, phase
// intro, waiting for the first round start.
func NewTemporalFilter(cfg *config.Config) *TemporalFilter {
	return &TemporalFilter{cfg: cfg, afterBlackout: true, phase: PhaseIntro}
}

// Round returns the current round counter.
func (f *TemporalFilter) Round() int { return f.round }

// Phase returns the most recently emitted phase.
func (f *TemporalFilter) Phase() Phase { return f.phase }

// Corrections returns how many raw readings the filter has overridden to
// preserve the monotonicity invariants. Diagnostic only; corrections are
// silent by design.
func (f *TemporalFilter) Corrections() int { return f.corrections }

// Unavailable emits the default reading for a frame whose bars could not be
// measured (decode or region-extraction failure). The filter's trackers are
// left untouched so a single bad frame cannot corrupt the stream.
func (f *TemporalFilter) Unavailable(timestampMS int64) Reading {
	return Reading{TimestampMS: timestampMS, Round: f.round, Phase: PhaseIntro}
}

// Apply folds one frame's raw bar states into the filtered stream and returns
// the finalized reading. brightness is the frame's full-image mean luma;
// gaugeVisible and flash come from the phase detector for the same frame.
func (f *TemporalFilter) Apply(timestampMS int64, p1Raw, p2Raw BarState, brightness float64, gaugeVisible, flash bool) Reading {
	if brightness < f.cfg.BlackoutBrightness {
		f.afterBlackout = true
	}

	// Round start: after a blackout both bars come back full.
	if f.afterBlackout && p1Raw.Health >= roundResetHealth && p2Raw.Health >= roundResetHealth {
		f.prevP1Confirmed = 0
		f.prevP2Confirmed = 0
		f.afterBlackout = false
	}

	// Between the blackout and the confirmed round start any confirmed
	// damage is fade-transition noise.
	if f.afterBlackout {
		f.prevP1Confirmed = 0
		f.prevP2Confirmed = 0
	}

	p1Confirmed := f.acceptConfirmed(p1Raw, &f.prevP1Confirmed)
	p2Confirmed := f.acceptConfirmed(p2Raw, &f.prevP2Confirmed)

	p1Health := 100 - p1Confirmed - p1Raw.Damage
	p2Health := 100 - p2Confirmed - p2Raw.Damage

	// Health never rises mid-round. The source game has no healing, so a
	// rise is always detection noise.
	if !f.afterBlackout {
		if f.prevP1Health > 0 && p1Health > f.prevP1Health {
			p1Health = f.prevP1Health
			f.corrections++
		}
		if f.prevP2Health > 0 && p2Health > f.prevP2Health {
			p2Health = f.prevP2Health
			f.corrections++
		}
	}

	p1Health = clamp(p1Health, 0, 100)
	p2Health = clamp(p2Health, 0, 100)

	newPhase := Transition(f.phase, gaugeVisible, flash, p1Health, p2Health)
	if (f.phase == PhaseKO || f.phase == PhaseRoundEnd) && newPhase == PhaseRoundStart {
		f.round++
	}
	f.phase = newPhase

	// Explicit KO override regardless of the transition outcome.
	if p1Health <= KOHealth || p2Health <= KOHealth {
		f.phase = PhaseKO
	}

	r := Reading{
		TimestampMS: timestampMS,
		Round:       f.round,
		Phase:       f.phase,
		P1Health:    p1Health,
		P1Damage:    clamp(p1Raw.Damage, 0, 100),
		P2Health:    p2Health,
		P2Damage:    clamp(p2Raw.Damage, 0, 100),
	}

	f.prevP1Health = p1Health
	f.prevP2Health = p2Health
	return r
}

// acceptConfirmed applies the confirmed-damage hysteresis for one player:
// a drop never un-confirms, and a jump without a transitional red signal is
// a misdetection. tracked is updated to the accepted value.
func (f *TemporalFilter) acceptConfirmed(raw BarState, tracked *float64) float64 {
	confirmed := raw.ConfirmedDamage
	switch {
	case confirmed < *tracked:
		confirmed = *tracked
		f.corrections++
	case confirmed > *tracked && raw.Damage == 0:
		confirmed = *tracked
		f.corrections++
	}
	*tracked = confirmed
	return confirmed
}
