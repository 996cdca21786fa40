package gauge

import (
	"testing"

	"github.com/soocke/gauge-reader-go/config"
)

func newFilter(t *testing.T) *TemporalFilter {
	t.Helper()
	return NewTemporalFilter(config.DefaultConfig())
}

// state builds a BarState honoring health = 100 - confirmed - damage.
func state(confirmed, damage float64) BarState {
	return BarState{
		Health:          clamp(100-confirmed-damage, 0, 100),
		Damage:          damage,
		ConfirmedDamage: confirmed,
	}
}

// startRound drives the filter out of its initial after-blackout state.
func startRound(t *testing.T, f *TemporalFilter, ts int64) {
	t.Helper()
	r := f.Apply(ts, state(0, 0), state(0, 0), 120, true, true)
	if r.Phase != PhaseRoundStart {
		t.Fatalf("expected round_start, got %v", r.Phase)
	}
}

func TestFilterRoundStartResetsTrackers(t *testing.T) {
	f := newFilter(t)
	// Fade-in noise while still after the initial blackout: confirmed damage
	// is suppressed.
	r := f.Apply(0, state(35, 0), state(10, 0), 120, false, false)
	if r.P1Health != 100 || r.P2Health != 100 {
		t.Fatalf("pre-round noise must be suppressed, got %v/%v", r.P1Health, r.P2Health)
	}
	if r.Phase != PhaseIntro {
		t.Fatalf("got %v, want intro", r.Phase)
	}
	// Both bars full: the round start commits and trackers reset.
	startRound(t, f, 100)
}

func TestFilterConfirmedDamageNeverDrops(t *testing.T) {
	f := newFilter(t)
	startRound(t, f, 0)
	f.Apply(100, state(20, 5), state(0, 0), 120, true, false) // health 75
	// Raw confirmed collapses to 5: tracked stays 20, and with the red gone
	// the recomputed health (80) is clamped back to the previous 75.
	r := f.Apply(200, state(5, 0), state(0, 0), 120, true, false)
	if r.P1Health != 75 {
		t.Fatalf("confirmed damage un-confirmed: health %v, want 75", r.P1Health)
	}
	if f.Corrections() == 0 {
		t.Fatalf("the drop should count as a correction")
	}
}

func TestFilterConfirmedJumpWithoutRedRejected(t *testing.T) {
	f := newFilter(t)
	startRound(t, f, 0)
	f.Apply(100, state(10, 5), state(0, 0), 120, true, false) // health 85
	// Raw confirmed rises 10 -> 15 with zero uncommitted damage: rejected,
	// and losing the red would raise health to 90, clamped back to 85.
	r := f.Apply(200, state(15, 0), state(0, 0), 120, true, false)
	if r.P1Health != 85 {
		t.Fatalf("jump without red accepted: health %v, want 85", r.P1Health)
	}
}

func TestFilterConfirmedJumpWithRedAccepted(t *testing.T) {
	f := newFilter(t)
	startRound(t, f, 0)
	f.Apply(100, state(10, 5), state(0, 0), 120, true, false)
	r := f.Apply(200, state(15, 3), state(0, 0), 120, true, false)
	if r.P1Health != 82 {
		t.Fatalf("health %v, want 82 (confirmed 15 + damage 3)", r.P1Health)
	}
}

func TestFilterHealthNeverRisesMidRound(t *testing.T) {
	f := newFilter(t)
	startRound(t, f, 0)
	f.Apply(100, state(0, 40), state(0, 0), 120, true, false)
	// Red recovers in the raw signal; filtered health must not climb back.
	r := f.Apply(200, state(0, 10), state(0, 0), 120, true, false)
	if r.P1Health != 60 {
		t.Fatalf("health rose mid-round: %v, want 60", r.P1Health)
	}
}

func TestFilterBlackoutAllowsNewRoundRecovery(t *testing.T) {
	f := newFilter(t)
	startRound(t, f, 0)
	f.Apply(100, state(30, 10), state(0, 0), 120, true, false) // p1 at 60%

	// Blackout between rounds: the frame reads as all-lost, which the
	// hysteresis rejects outright, and the monotonicity clamp is suspended.
	r := f.Apply(200, state(100, 0), state(100, 0), 10, false, false)
	if r.Phase != PhaseIntro {
		t.Fatalf("blackout frame should read intro, got %v", r.Phase)
	}

	// Bars back at full after the blackout: trackers reset and health
	// recovers to full, which mid-round would have been clamped away.
	r = f.Apply(300, state(0, 0), state(0, 0), 120, true, true)
	if r.P1Health != 100 || r.P2Health != 100 {
		t.Fatalf("new round should recover to full, got %v/%v", r.P1Health, r.P2Health)
	}
	if r.Phase != PhaseRoundStart {
		t.Fatalf("phase = %v, want round_start", r.Phase)
	}
}

func TestFilterRoundIncrementsOnKOToStart(t *testing.T) {
	f := newFilter(t)
	startRound(t, f, 0)
	f.Apply(100, state(90, 10), state(0, 0), 120, true, false) // p1 at 0: KO
	if f.Phase() != PhaseKO {
		t.Fatalf("expected ko, got %v", f.Phase())
	}
	// Gauges stay visible into the next round's opening flash: the KO ->
	// round_start transition is the one that advances the round counter.
	r := f.Apply(200, state(0, 0), state(0, 0), 120, true, true)
	if r.Phase != PhaseRoundStart {
		t.Fatalf("phase = %v, want round_start", r.Phase)
	}
	if r.Round != 1 {
		t.Fatalf("round = %d, want 1", r.Round)
	}
}

func TestFilterRoundIncrementsOnlyOnKOToStart(t *testing.T) {
	f := newFilter(t)
	startRound(t, f, 0) // intro -> round_start: no increment
	if f.Round() != 0 {
		t.Fatalf("first round must stay 0, got %d", f.Round())
	}
	// A flash mid-battle re-enters round_start but not from KO/round_end.
	f.Apply(100, state(0, 10), state(0, 0), 120, true, false)
	f.Apply(200, state(0, 10), state(0, 0), 120, true, true)
	if f.Round() != 0 {
		t.Fatalf("battle -> round_start must not increment, got %d", f.Round())
	}
}

func TestFilterKOOverride(t *testing.T) {
	f := newFilter(t)
	startRound(t, f, 0)
	// A flash on the KO frame: the transition says round_start but the
	// explicit override forces ko.
	r := f.Apply(100, state(90, 10), state(0, 0), 120, true, true)
	if r.Phase != PhaseKO {
		t.Fatalf("ko override lost to %v", r.Phase)
	}
}

func TestFilterUnavailableKeepsTrackers(t *testing.T) {
	f := newFilter(t)
	startRound(t, f, 0)
	f.Apply(100, state(30, 5), state(0, 0), 120, true, false)

	r := f.Unavailable(200)
	if r.Phase != PhaseIntro || r.P1Health != 0 || r.P2Health != 0 {
		t.Fatalf("default reading wrong: %+v", r)
	}
	if r.Round != 0 {
		t.Fatalf("default reading keeps the current round, got %d", r.Round)
	}

	// The next good frame continues from the tracked 30% confirmed.
	next := f.Apply(300, state(5, 0), state(0, 0), 120, true, false)
	if next.P1Health != 65 {
		t.Fatalf("trackers mutated across unavailable frame: health %v, want 65", next.P1Health)
	}
}

func TestFilterOutputsStayInRange(t *testing.T) {
	f := newFilter(t)
	startRound(t, f, 0)
	r := f.Apply(100, state(90, 40), state(0, 0), 120, true, false)
	if r.P1Health < 0 || r.P1Health > 100 || r.P1Damage < 0 || r.P1Damage > 100 {
		t.Fatalf("outputs out of range: %+v", r)
	}
	if r.P1Health != 0 {
		t.Fatalf("overlapping damage must clamp health to 0, got %v", r.P1Health)
	}
}
