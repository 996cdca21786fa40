package gauge

import (
	"image"

	"github.com/soocke/gauge-reader-go/config"
)

// Health extremes driving phase transitions.
const (
	// KOHealth is the health at or below which a player counts as KO'd.
	KOHealth = 1.0
	// roundStartHealth is the health both players must be back at for a
	// KO/round-end to roll over into the next round's start.
	roundStartHealth = 99.0
)

// Transition is the phase transition function, evaluated strictly in order.
// It is pure; callers own the inputs (gauge visibility, flash detection and
// the filtered healths of both players).
func Transition(prev Phase, gaugeVisible, flash bool, p1Health, p2Health float64) Phase {
	if !gaugeVisible {
		return PhaseIntro
	}
	if flash {
		return PhaseRoundStart
	}
	if (prev == PhaseKO || prev == PhaseRoundEnd) && p1Health >= roundStartHealth && p2Health >= roundStartHealth {
		return PhaseRoundStart
	}
	if p1Health <= KOHealth || p2Health <= KOHealth {
		return PhaseKO
	}
	if prev == PhaseKO {
		return PhaseRoundEnd
	}
	return PhaseBattle
}

// PhaseDetector evaluates the per-frame signals the transition function
// needs: gauge visibility and screen-flash detection. It carries one piece of
// state, the previous frame's top-band brightness.
//
// Not safe for concurrent use; feed frames from a single goroutine in
// timestamp order.
type PhaseDetector struct {
	cfg      *config.Config
	analyzer *Analyzer

	prevBrightness float64
	hasPrev        bool
}

// NewPhaseDetector builds a detector sharing the analyzer's color classes.
func NewPhaseDetector(cfg *config.Config, analyzer *Analyzer) *PhaseDetector {
	return &PhaseDetector{cfg: cfg, analyzer: analyzer}
}

// GaugeVisible reports whether both bar regions read as on-screen gauges.
func (d *PhaseDetector) GaugeVisible(frame *image.RGBA) bool {
	return d.analyzer.GaugeVisible(frame)
}

// ScreenFlash reports a round-start style flash: either a jump in top-band
// brightness against the previous call, or outright high brightness. The
// stored previous brightness is updated on every call.
func (d *PhaseDetector) ScreenFlash(frame *image.RGBA) bool {
	current := TopBandBrightness(frame)
	flash := false
	if d.hasPrev {
		diff := current - d.prevBrightness
		if diff < 0 {
			diff = -diff
		}
		if diff > d.cfg.FlashDiffThreshold || current > d.cfg.FlashBrightnessThreshold {
			flash = true
		}
	}
	d.prevBrightness = current
	d.hasPrev = true
	return flash
}

// Detect evaluates one frame's phase. When the gauges are not visible the
// frame is intro footage and the flash memory is left untouched, matching the
// visibility-first evaluation order of Transition.
func (d *PhaseDetector) Detect(frame *image.RGBA, prev Phase, p1Health, p2Health float64) Phase {
	if !d.GaugeVisible(frame) {
		return PhaseIntro
	}
	flash := d.ScreenFlash(frame)
	return Transition(prev, true, flash, p1Health, p2Health)
}
