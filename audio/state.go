package audio

import "encoding/json"

// stateJSON is the persisted configuration: a flat object with numeric
// encodings for the enum fields.
type stateJSON struct {
	Channel int     `json:"channel"`
	Note    int     `json:"trigger_note"`
	Mode    int     `json:"mode"`
	Depth   float64 `json:"depth"`
	Attack  float64 `json:"attack"`
	Hold    float64 `json:"hold"`
	Release float64 `json:"release"`
	Curve   int     `json:"curve"`
	VelSens float64 `json:"vel_sens"`
}

func (d *Ducker) marshalState() []byte {
	s := stateJSON{
		Channel: d.channel.Load().(int),
		Note:    d.note.Load().(int),
		Mode:    int(d.mode.Load().(Mode)),
		Depth:   d.depth.Load().(float64),
		Attack:  d.attack.Load().(float64),
		Hold:    d.hold.Load().(float64),
		Release: d.release.Load().(float64),
		Curve:   int(d.curve.Load().(Curve)),
		VelSens: d.velSens.Load().(float64),
	}
	b, err := json.Marshal(s)
	if err != nil {
		// Closed schema of numbers; cannot happen.
		return []byte("{}")
	}
	return b
}

// applyState restores recognized fields from a serialized configuration.
// channel, mode and curve accept either their string names or numbers, and
// a number here is the raw value (a channel number, a 0/1 mode, a 0-3 curve
// index) rather than the fraction used by set-by-name. Unknown fields are
// ignored; missing fields leave current values unchanged.
func (d *Ducker) applyState(data []byte) {
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		d.logf("restore state: %v", err)
		return
	}
	for key, v := range fields {
		switch key {
		case PropChannel:
			switch n := v.(type) {
			case string:
				d.channel.Store(parseChannel(n))
			case float64:
				d.channel.Store(int(clamp(n, 0, 16)))
			}
		case PropMode:
			switch n := v.(type) {
			case string:
				d.mode.Store(parseMode(n))
			case float64:
				d.mode.Store(Mode(clamp(n, 0, 1)))
			}
		case PropCurve:
			switch n := v.(type) {
			case string:
				d.curve.Store(parseCurve(n))
			case float64:
				d.curve.Store(Curve(clamp(n, 0, numCurves-1)))
			}
		case PropNote, PropDepth, PropAttack, PropHold, PropRelease, PropVelSens:
			if n, ok := v.(float64); ok {
				// The numeric setters clamp; errors can't occur.
				_ = d.Set(key, n)
			}
		}
	}
}
