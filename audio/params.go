package audio

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// Mode decides how the envelope lets go of the signal. Trigger runs a fixed
// attack/hold/release cycle per note; Gate holds the duck until the last
// matching note is released.
type Mode int

const (
	ModeTrigger Mode = iota
	ModeGate
)

func (m Mode) String() string {
	if m == ModeGate {
		return "Gate"
	}
	return "Trigger"
}

// Parameter keys. These double as the field names of the persisted state.
const (
	PropChannel = "channel"
	PropNote    = "trigger_note"
	PropMode    = "mode"
	PropDepth   = "depth"
	PropAttack  = "attack"
	PropHold    = "hold"
	PropRelease = "release"
	PropCurve   = "curve"
	PropVelSens = "vel_sens"
)

// Params stores effect configuration that can be updated without locks.
// Every property lives in its own atomic.Value, so the audio thread reads
// each field tear-free while a control thread replaces it. All properties
// should be registered before any reads take place.
//
// Setters never reject a value: out-of-range numbers are clamped and
// unrecognized enum names fall back to a numeric reading, since the value
// may come from a lossy UI control. Only unknown keys are an error.
type Params struct {
	properties map[string]*atomic.Value
	setters    map[string]setter
}

func NewParams() *Params {
	return &Params{
		properties: make(map[string]*atomic.Value),
		setters:    make(map[string]setter),
	}
}

// Set updates the property with value. The key has to be registered first
// using Register. Accepted value types are string, float64 and int.
func (p *Params) Set(key string, value interface{}) error {
	prop, ok := p.properties[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	set := p.setters[key]
	if err := set(value, prop); err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	return nil
}

func (p *Params) Get(key string) (interface{}, error) {
	prop, ok := p.properties[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	return prop.Load(), nil
}

// Register adds a new property.
func (p *Params) Register(key string, set setter, init interface{}) (*atomic.Value, error) {
	var prop atomic.Value
	p.properties[key] = &prop
	p.setters[key] = set
	return &prop, set(init, &prop)
}

func (p *Params) MustRegister(key string, set setter, init interface{}) *atomic.Value {
	prop, err := p.Register(key, set, init)
	if err != nil {
		panic(err)
	}
	return prop
}

type setter func(val interface{}, dest *atomic.Value) error

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("value is not a number: %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value is not a number: %v", v)
	}
}

// clampFloat stores a float64, clamped into [min, max].
func clampFloat(min, max float64) setter {
	return func(v interface{}, dest *atomic.Value) error {
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		dest.Store(clamp(f, min, max))
		return nil
	}
}

// setNote stores a note number clamped into [0, 127].
func setNote(v interface{}, dest *atomic.Value) error {
	f, err := toFloat(v)
	if err != nil {
		return err
	}
	dest.Store(int(clamp(f, 0, 127)))
	return nil
}

// setChannel stores a channel filter: 0 is omni, 1-16 a single channel.
// "Omni" and channel numbers are accepted directly; anything else is read
// as a 0-1 fraction of the channel range.
func setChannel(v interface{}, dest *atomic.Value) error {
	if s, ok := v.(string); ok {
		dest.Store(parseChannel(s))
		return nil
	}
	f, err := toFloat(v)
	if err != nil {
		return err
	}
	dest.Store(channelFromFraction(f))
	return nil
}

func parseChannel(s string) int {
	if s == "Omni" {
		return 0
	}
	if ch, err := strconv.Atoi(s); err == nil && ch >= 0 && ch <= 16 {
		return ch
	}
	f, _ := strconv.ParseFloat(s, 64)
	return channelFromFraction(f)
}

func channelFromFraction(f float64) int {
	return int(clamp(f, 0, 1)*16 + 0.5)
}

func channelName(ch int) string {
	if ch <= 0 || ch > 16 {
		return "Omni"
	}
	return strconv.Itoa(ch)
}

// setMode accepts "Trigger"/"Gate" or a numeric fraction, > 0.5 meaning Gate.
func setMode(v interface{}, dest *atomic.Value) error {
	if s, ok := v.(string); ok {
		dest.Store(parseMode(s))
		return nil
	}
	f, err := toFloat(v)
	if err != nil {
		return err
	}
	dest.Store(modeFromFraction(f))
	return nil
}

func parseMode(s string) Mode {
	switch s {
	case "Trigger":
		return ModeTrigger
	case "Gate":
		return ModeGate
	}
	f, _ := strconv.ParseFloat(s, 64)
	return modeFromFraction(f)
}

func modeFromFraction(f float64) Mode {
	if f > 0.5 {
		return ModeGate
	}
	return ModeTrigger
}

// setCurve accepts a curve name or a numeric fraction of the curve list.
func setCurve(v interface{}, dest *atomic.Value) error {
	if s, ok := v.(string); ok {
		dest.Store(parseCurve(s))
		return nil
	}
	f, err := toFloat(v)
	if err != nil {
		return err
	}
	dest.Store(curveFromFraction(f))
	return nil
}

func parseCurve(s string) Curve {
	for i, name := range curveNames {
		if s == name {
			return Curve(i)
		}
	}
	f, _ := strconv.ParseFloat(s, 64)
	return curveFromFraction(f)
}

func curveFromFraction(f float64) Curve {
	return Curve(clamp(f*(numCurves-1)+0.5, 0, numCurves-1))
}
