// Package audio implements a MIDI-triggered ducking effect: a note message
// starts a timed attack/hold/release envelope that attenuates an audio
// stream, producing sidechain-style pumping without a sidechain input.
package audio

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"sync/atomic"
)

const (
	sampleRate = 44100
	bufferSize = 512
)

// ErrUnknownParam is returned by Param and ReadParam for keys the effect
// doesn't know about.
var ErrUnknownParam = errors.New("unknown parameter")

// Ducker is one instance of the effect. All audio-path state is mutated
// only from Process; note messages arriving on other goroutines are handed
// off through a lock-free queue and applied at the start of the next block.
// Parameters live in per-field atomics (see Params) so the audio path reads
// them without locks while a control thread edits them.
type Ducker struct {
	*Params

	channel *atomic.Value // int: 0 = omni, 1-16
	note    *atomic.Value // int: 0-127
	mode    *atomic.Value // Mode
	depth   *atomic.Value // float64
	attack  *atomic.Value // float64
	hold    *atomic.Value // float64
	release *atomic.Value // float64
	curve   *atomic.Value // Curve
	velSens *atomic.Value // float64

	env    *envelope
	events *eventBuffer
	held   int // matching notes currently down; gates the release

	dir string
	log *log.Logger
}

// New creates an effect instance with default parameters, optionally
// restoring a serialized configuration. dir is an opaque working-directory
// hint from the host and is not interpreted. logger may be nil.
func New(dir, config string, logger *log.Logger) *Ducker {
	p := NewParams()
	d := &Ducker{
		Params:  p,
		channel: p.MustRegister(PropChannel, setChannel, "1"),
		note:    p.MustRegister(PropNote, setNote, 36),
		mode:    p.MustRegister(PropMode, setMode, "Trigger"),
		depth:   p.MustRegister(PropDepth, clampFloat(0, 1), 1.0),
		attack:  p.MustRegister(PropAttack, clampFloat(0, 1), 0.1),
		hold:    p.MustRegister(PropHold, clampFloat(0, 1), 0.2),
		release: p.MustRegister(PropRelease, clampFloat(0, 1), 0.3),
		curve:   p.MustRegister(PropCurve, setCurve, "Linear"),
		velSens: p.MustRegister(PropVelSens, clampFloat(0, 1), 0.0),
		events:  newEventBuffer(64),
		dir:     dir,
		log:     logger,
	}
	d.env = newEnvelope(d.attack, d.hold, d.release, d.curve, d.mode)
	if config != "" {
		d.applyState([]byte(config))
	}
	d.logf("instance created")
	return d
}

func (d *Ducker) logf(format string, args ...interface{}) {
	if d.log != nil {
		d.log.Printf("ducker: "+format, args...)
	}
}

// OnMidi feeds a raw 3-byte note message into the effect. Messages on the
// wrong channel or note, and anything malformed, are dropped. Matching
// events are queued and take effect at the start of the next processed
// block, so this is safe to call from a control goroutine while audio runs.
// source tags the message origin for the host and is not interpreted here.
func (d *Ducker) OnMidi(msg []byte, source int) {
	if d == nil {
		return
	}
	ev, ok := parseNote(msg)
	if !ok {
		return
	}
	if ch := d.channel.Load().(int); ch > 0 && ev.channel != ch {
		return
	}
	if ev.note != d.note.Load().(int) {
		return
	}
	d.events.push(ev)
}

// dispatch applies one filtered note event to the envelope. Runs on the
// audio thread only.
func (d *Ducker) dispatch(ev noteEvent) {
	if ev.on {
		d.held++
		sens := d.velSens.Load().(float64)
		scale := 1 - sens + sens*(float64(ev.velocity)/127)
		d.env.startAttack(d.depth.Load().(float64) * scale)
		return
	}
	if d.held > 0 {
		d.held--
	}
	// Trigger mode releases on its own clock; only gate mode cares about
	// the last note going up.
	if d.held == 0 && d.mode.Load().(Mode) == ModeGate {
		d.env.startRelease()
	}
}

// Process runs the effect in place over an interleaved stereo int16 buffer.
// Pending note events are applied first; then for each frame the envelope
// advances exactly once and both channel samples are scaled by the current
// gain and clamped back into the int16 range. No allocation, no blocking.
func (d *Ducker) Process(out []int16) {
	if d == nil {
		return
	}
	d.events.drain(d.dispatch)
	for i := 0; i+1 < len(out); i += 2 {
		d.env.tick()
		gain := d.env.gain
		l := float64(out[i]) * gain
		r := float64(out[i+1]) * gain
		out[i] = int16(clamp(l, -32768, 32767))
		out[i+1] = int16(clamp(r, -32768, 32767))
	}
}

// SetParam sets a parameter from its string representation. Unknown keys
// are ignored. The reserved key "state" applies a full serialized
// configuration, leaving fields it doesn't mention untouched.
func (d *Ducker) SetParam(key, value string) {
	if d == nil {
		return
	}
	if key == "state" {
		d.applyState([]byte(value))
		return
	}
	// Values are clamped or coerced by the setters; the only possible
	// error is an unknown key, which the host contract ignores.
	_ = d.Set(key, value)
}

// Param returns the string representation of a parameter. Beyond the
// configuration fields there are four reserved keys: "state" (the full
// serialized configuration), "name" (a fixed identifier), and
// "ui_hierarchy" / "chain_params" (static layout metadata for hosts).
func (d *Ducker) Param(key string) (string, error) {
	if d == nil {
		return "", ErrUnknownParam
	}
	switch key {
	case PropChannel:
		return channelName(d.channel.Load().(int)), nil
	case PropNote:
		return strconv.Itoa(d.note.Load().(int)), nil
	case PropMode:
		return d.mode.Load().(Mode).String(), nil
	case PropCurve:
		return d.curve.Load().(Curve).String(), nil
	case PropDepth, PropAttack, PropHold, PropRelease, PropVelSens:
		v, err := d.Get(key)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%.2f", v), nil
	case "name":
		return effectName, nil
	case "state":
		return string(d.marshalState()), nil
	case "ui_hierarchy":
		return uiHierarchy, nil
	case "chain_params":
		return chainParams, nil
	}
	return "", ErrUnknownParam
}

// ReadParam formats a parameter into buf and returns the number of bytes
// written. A buffer too small for the value fails with io.ErrShortBuffer,
// which keeps it distinguishable from a successful zero-length result.
func (d *Ducker) ReadParam(key string, buf []byte) (int, error) {
	s, err := d.Param(key)
	if err != nil {
		return 0, err
	}
	if len(buf) < len(s) {
		return 0, io.ErrShortBuffer
	}
	return copy(buf, s), nil
}

const effectName = "DUCKER"

// Static host metadata, passed through as-is.
const uiHierarchy = `{` +
	`"modes":null,` +
	`"levels":{` +
	`"root":{` +
	`"children":null,` +
	`"knobs":["channel","trigger_note","mode","depth","attack","hold","release","curve"],` +
	`"params":["channel","trigger_note","mode","depth","attack","hold","release","curve","vel_sens"]` +
	`}}}`

const chainParams = `[` +
	`{"key":"channel","name":"Channel","type":"enum","options":["Omni","1","2","3","4","5","6","7","8","9","10","11","12","13","14","15","16"],"default":"1"},` +
	`{"key":"trigger_note","name":"Trigger","type":"int","min":0,"max":127,"default":36,"step":1},` +
	`{"key":"mode","name":"Mode","type":"enum","options":["Trigger","Gate"],"default":"Trigger"},` +
	`{"key":"depth","name":"Depth","type":"float","min":0,"max":1,"default":1,"step":0.01},` +
	`{"key":"attack","name":"Attack","type":"float","min":0,"max":1,"default":0.1,"step":0.01},` +
	`{"key":"hold","name":"Hold","type":"float","min":0,"max":1,"default":0.2,"step":0.01},` +
	`{"key":"release","name":"Release","type":"float","min":0,"max":1,"default":0.3,"step":0.01},` +
	`{"key":"curve","name":"Curve","type":"enum","options":["Linear","Expo","S-Curve","Pump"],"default":"Linear"}` +
	`]`
