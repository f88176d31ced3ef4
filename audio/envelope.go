package audio

import "sync/atomic"

type phase int

const (
	phaseIdle phase = iota
	phaseAttack
	phaseHold
	phaseRelease
)

// Duration ceilings in milliseconds. The 0-1 attack/hold/release parameter
// fractions scale up to these.
const (
	maxAttackMs  = 50
	maxHoldMs    = 500
	maxReleaseMs = 1000
)

// envelope is the gain state machine driven one tick per sample by the
// block processor. It owns phase and timing state; the duration, curve and
// mode parameters are read through atomics so control-thread edits never
// tear. A phase length is computed once at phase entry and not revised
// mid-phase, so a parameter edit takes effect on the next phase start.
type envelope struct {
	attack  *atomic.Value // float64
	hold    *atomic.Value // float64
	release *atomic.Value // float64
	curve   *atomic.Value // Curve
	mode    *atomic.Value // Mode

	phase  phase
	pos    int // sample counter within the current phase
	length int // total samples in the current phase
	depth  float64
	from   float64 // gain at release entry; release recovers from here to 1
	gain   float64 // current multiplier: 1 = pass-through, 1-depth = full duck
}

func newEnvelope(attack, hold, release, curve, mode *atomic.Value) *envelope {
	return &envelope{
		attack:  attack,
		hold:    hold,
		release: release,
		curve:   curve,
		mode:    mode,
		gain:    1,
	}
}

func msToSamples(ms float64) int {
	return int(ms * (sampleRate / 1000.0))
}

func (e *envelope) attackSamples() int {
	return msToSamples(e.attack.Load().(float64) * maxAttackMs)
}

func (e *envelope) holdSamples() int {
	return msToSamples(e.hold.Load().(float64) * maxHoldMs)
}

func (e *envelope) releaseSamples() int {
	return msToSamples(e.release.Load().(float64) * maxReleaseMs)
}

func (e *envelope) curveVal() Curve {
	return e.curve.Load().(Curve)
}

func (e *envelope) modeVal() Mode {
	return e.mode.Load().(Mode)
}

// startAttack begins a new cycle at the given effective depth, discarding
// any cycle in progress. Zero-length phases collapse in the same tick: the
// loop falls through attack→hold→release until a phase with a positive
// length is found, so the envelope can never stall with zero remaining
// samples. Two stops apply: gate mode waits in hold for its release event
// no matter the hold length, and a zero-length release is left for the next
// tick to retire, so a fully zero cycle is still observable as a release.
func (e *envelope) startAttack(depth float64) {
	e.depth = depth
	p, length := phaseAttack, e.attackSamples()
	for length <= 0 && p != phaseRelease {
		if p == phaseAttack {
			e.gain = 1 - e.depth
			p, length = phaseHold, e.holdSamples()
			continue
		}
		if e.modeVal() == ModeGate {
			// Zero-length hold: gate mode stays logically held here
			// until the release event arrives.
			break
		}
		e.from = e.gain
		p, length = phaseRelease, e.releaseSamples()
	}
	e.phase = p
	e.pos = 0
	e.length = length
}

// startRelease moves the envelope into its release phase, recovering from
// whatever gain the attack or hold reached. Calls in release or idle are
// no-ops. A zero-length release snaps straight back to unity gain.
func (e *envelope) startRelease() {
	if e.phase != phaseAttack && e.phase != phaseHold {
		return
	}
	e.from = e.gain
	e.phase = phaseRelease
	e.pos = 0
	e.length = e.releaseSamples()
	if e.length <= 0 {
		e.phase = phaseIdle
		e.gain = 1
	}
}

// tick advances the envelope by one sample. The gain is always recomputed
// from the phase position, never incremented, so long cycles cannot drift.
func (e *envelope) tick() {
	switch e.phase {
	case phaseAttack:
		if e.length > 0 {
			t := float64(e.pos) / float64(e.length)
			e.gain = 1 - e.depth*shapeCurve(e.curveVal(), t, false)
		}
		e.pos++
		if e.pos >= e.length {
			e.gain = 1 - e.depth
			e.phase = phaseHold
			e.pos = 0
			e.length = e.holdSamples()
			if e.length <= 0 && e.modeVal() == ModeTrigger {
				e.from = e.gain
				e.phase = phaseRelease
				e.length = e.releaseSamples()
			}
		}
	case phaseHold:
		e.gain = 1 - e.depth
		e.pos++
		// Gate mode holds until the release event, regardless of length.
		if e.modeVal() == ModeTrigger && e.pos >= e.length {
			e.from = e.gain
			e.phase = phaseRelease
			e.pos = 0
			e.length = e.releaseSamples()
		}
	case phaseRelease:
		if e.length > 0 {
			t := float64(e.pos) / float64(e.length)
			e.gain = e.from + (1-e.from)*shapeCurve(e.curveVal(), t, true)
		}
		e.pos++
		if e.pos >= e.length {
			e.phase = phaseIdle
			e.gain = 1
		}
	}
}
