package main

import (
	"fmt"
	"os"
	"strconv"

	wav "github.com/youpy/go-wav"

	"github.com/mrdg/ducker/audio"
)

const sampleRate = 44100

// render bounces a wav file through a fresh effect instance seeded with the
// live instance's state, sending the configured trigger note once per beat
// (note-off half a beat later, which is what drives gate mode).
func render(live *audio.Ducker, inPath, outPath string, bpm float64) error {
	if bpm <= 0 {
		return fmt.Errorf("bpm out of range: %v", bpm)
	}
	snd, err := loadSound(inPath)
	if err != nil {
		return err
	}
	state, err := live.Param("state")
	if err != nil {
		return err
	}
	d := audio.New("", state, nil)

	ch, note := triggerAddress(d)
	noteOn := []byte{0x90 | byte(ch-1), byte(note), 127}
	noteOff := []byte{0x80 | byte(ch-1), byte(note), 0}

	out := make([]int16, len(snd.buf))
	copy(out, snd.buf)

	var (
		beat    = int(sampleRate * 60 / bpm) // frames per beat
		block   = 512 * 2
		nextOn  = 0
		nextOff = beat / 2
	)
	for start := 0; start < len(out); start += block {
		frame := start / 2
		if frame >= nextOn {
			d.OnMidi(noteOn, 0)
			nextOn += beat
		}
		if frame >= nextOff {
			d.OnMidi(noteOff, 0)
			nextOff += beat
		}
		end := start + block
		if end > len(out) {
			end = len(out)
		}
		d.Process(out[start:end])
	}
	return writeSound(outPath, out)
}

// triggerAddress reads the configured channel and note back from the
// instance; omni filters get their trigger sent on channel 1.
func triggerAddress(d *audio.Ducker) (int, int) {
	ch := 1
	if s, err := d.Param("channel"); err == nil && s != "Omni" {
		if n, err := strconv.Atoi(s); err == nil {
			ch = n
		}
	}
	note := 36
	if s, err := d.Param("trigger_note"); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			note = n
		}
	}
	return ch, note
}

func writeSound(path string, buf []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	numSamples := uint32(len(buf) / 2)
	w := wav.NewWriter(f, numSamples, 2, sampleRate, 16)
	samples := make([]wav.Sample, numSamples)
	for i := range samples {
		samples[i].Values[0] = int(buf[2*i])
		samples[i].Values[1] = int(buf[2*i+1])
	}
	return w.WriteSamples(samples)
}
