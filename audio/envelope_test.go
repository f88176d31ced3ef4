package audio

import (
	"math"
	"testing"
)

func testEnvelope(t *testing.T, attack, hold, release float64, curve Curve, mode Mode) (*envelope, *Params) {
	t.Helper()
	p := NewParams()
	a := p.MustRegister(PropAttack, clampFloat(0, 1), attack)
	h := p.MustRegister(PropHold, clampFloat(0, 1), hold)
	r := p.MustRegister(PropRelease, clampFloat(0, 1), release)
	c := p.MustRegister(PropCurve, setCurve, curve.String())
	m := p.MustRegister(PropMode, setMode, mode.String())
	return newEnvelope(a, h, r, c, m), p
}

func TestTriggerCycleBounds(t *testing.T) {
	// attack 10ms, hold 50ms, release 100ms
	env, _ := testEnvelope(t, 0.2, 0.1, 0.1, CurveLinear, ModeTrigger)
	env.startAttack(0.5)

	total := env.attackSamples() + env.holdSamples() + env.releaseSamples()
	for i := 0; i < total; i++ {
		env.tick()
		if env.gain < 0.5-1e-9 || env.gain > 1+1e-9 {
			t.Fatalf("gain out of range at sample %d: %v", i, env.gain)
		}
	}
	if env.phase != phaseIdle {
		t.Errorf("expected idle after full cycle, got phase %v", env.phase)
	}
	if env.gain != 1 {
		t.Errorf("expected unity gain after full cycle, got %v", env.gain)
	}
}

func TestZeroAttackSnapsToFullDepth(t *testing.T) {
	env, _ := testEnvelope(t, 0, 0.1, 0.1, CurveLinear, ModeTrigger)
	env.startAttack(1)
	if env.phase != phaseHold {
		t.Fatalf("expected hold after zero-length attack, got %v", env.phase)
	}
	env.tick()
	if env.gain != 0 {
		t.Errorf("first sample should already be fully ducked, gain = %v", env.gain)
	}
}

func TestZeroAttackZeroHoldCascadesToRelease(t *testing.T) {
	env, _ := testEnvelope(t, 0, 0, 0.1, CurveLinear, ModeTrigger)
	env.startAttack(1)
	if env.phase != phaseRelease {
		t.Fatalf("expected release in the same tick, got phase %v", env.phase)
	}
	if env.length != env.releaseSamples() {
		t.Errorf("wrong release length: want %v, got %v", env.releaseSamples(), env.length)
	}
}

func TestFullyZeroCycle(t *testing.T) {
	env, _ := testEnvelope(t, 0, 0, 0, CurveLinear, ModeTrigger)
	env.startAttack(1)
	if env.phase != phaseRelease {
		t.Fatalf("expected release after trigger, got phase %v", env.phase)
	}
	env.tick()
	if env.phase != phaseIdle || env.gain != 1 {
		t.Errorf("expected idle at unity gain, got phase %v gain %v", env.phase, env.gain)
	}
}

func TestGateZeroHoldWaitsForRelease(t *testing.T) {
	env, _ := testEnvelope(t, 0, 0, 0.1, CurveLinear, ModeGate)
	env.startAttack(1)
	if env.phase != phaseHold {
		t.Fatalf("gate mode must wait in hold, got phase %v", env.phase)
	}
	for i := 0; i < 10000; i++ {
		env.tick()
	}
	if env.phase != phaseHold || env.gain != 0 {
		t.Fatalf("gate hold must not expire on its own, got phase %v gain %v", env.phase, env.gain)
	}
	env.startRelease()
	if env.phase != phaseRelease {
		t.Errorf("expected release, got phase %v", env.phase)
	}
}

func TestGateReleaseFromPartialAttack(t *testing.T) {
	// attack 50ms deep duck, released after 1000 samples
	env, _ := testEnvelope(t, 1, 0.1, 0.1, CurveLinear, ModeGate)
	env.startAttack(1)
	for i := 0; i < 1000; i++ {
		env.tick()
	}
	reached := env.gain
	if reached >= 1 || reached <= 0 {
		t.Fatalf("attack should be partway down, gain = %v", reached)
	}
	env.startRelease()
	env.tick()
	if math.Abs(env.gain-reached) > 1e-9 {
		t.Errorf("release must start from the gain the attack reached: want %v, got %v", reached, env.gain)
	}
	for i := 0; i < env.releaseSamples(); i++ {
		if env.gain < reached-1e-9 {
			t.Fatalf("release dipped below its starting gain: %v < %v", env.gain, reached)
		}
		env.tick()
	}
	if env.phase != phaseIdle || env.gain != 1 {
		t.Errorf("expected idle at unity gain, got phase %v gain %v", env.phase, env.gain)
	}
}

func TestZeroReleaseSnapsToIdle(t *testing.T) {
	env, _ := testEnvelope(t, 0, 0.5, 0, CurveLinear, ModeGate)
	env.startAttack(1)
	env.tick()
	if env.gain != 0 {
		t.Fatalf("expected full duck, gain = %v", env.gain)
	}
	env.startRelease()
	if env.phase != phaseIdle || env.gain != 1 {
		t.Errorf("zero-length release must snap to idle at unity, got phase %v gain %v", env.phase, env.gain)
	}
}

func TestStartReleaseIgnoredWhenIdle(t *testing.T) {
	env, _ := testEnvelope(t, 0.1, 0.1, 0.1, CurveLinear, ModeGate)
	env.startRelease()
	if env.phase != phaseIdle || env.gain != 1 {
		t.Errorf("release without a cycle must be a no-op, got phase %v gain %v", env.phase, env.gain)
	}
}

func TestPhaseLengthFixedAtEntry(t *testing.T) {
	env, p := testEnvelope(t, 0, 0.1, 0.1, CurveLinear, ModeTrigger)
	env.startAttack(1)
	want := env.length
	if err := p.Set(PropHold, 1.0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < want; i++ {
		if env.phase != phaseHold {
			t.Fatalf("hold ended early at sample %d", i)
		}
		env.tick()
	}
	// The edit applies at the next phase entry, not mid-phase.
	if env.phase != phaseRelease {
		t.Errorf("expected release after the original hold length, got phase %v", env.phase)
	}
}

func TestRetriggerRestartsCycle(t *testing.T) {
	env, _ := testEnvelope(t, 1, 0.1, 0.1, CurveLinear, ModeTrigger)
	env.startAttack(0.5)
	for i := 0; i < 500; i++ {
		env.tick()
	}
	env.startAttack(1)
	if env.phase != phaseAttack || env.pos != 0 {
		t.Errorf("retrigger must restart the attack, got phase %v pos %v", env.phase, env.pos)
	}
	if env.depth != 1 {
		t.Errorf("retrigger must recapture depth, got %v", env.depth)
	}
}
