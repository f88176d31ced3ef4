package main

import (
	"io"
	"os"
	"sync"

	wav "github.com/youpy/go-wav"
)

// sound is a wav file decoded to interleaved stereo int16. Mono files get
// their single channel duplicated.
type sound struct {
	file string
	buf  []int16
}

func loadSound(path string) (*sound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, err
	}
	snd := &sound{file: path}
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, sample := range samples {
			l := r.FloatValue(sample, 0)
			right := l
			if format.NumChannels > 1 {
				right = r.FloatValue(sample, 1)
			}
			snd.buf = append(snd.buf, toInt16(l), toInt16(right))
		}
	}
	return snd, nil
}

func toInt16(v float64) int16 {
	const scale = 1 << 15
	v *= scale
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return int16(v)
}

// player loops a sound into the output buffer, giving the effect a signal
// to chew on during live sessions. It implements audio.Source.
type player struct {
	mu      sync.Mutex
	snd     *sound
	pos     int
	playing bool
}

func (p *player) Fill(out []int16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing || p.snd == nil || len(p.snd.buf) == 0 {
		return
	}
	for i := range out {
		out[i] = p.snd.buf[p.pos]
		p.pos++
		if p.pos >= len(p.snd.buf) {
			p.pos = 0
		}
	}
}

func (p *player) load(snd *sound) {
	p.mu.Lock()
	p.snd = snd
	p.pos = 0
	p.playing = true
	p.mu.Unlock()
}

func (p *player) setPlaying(on bool) {
	p.mu.Lock()
	p.playing = on
	p.mu.Unlock()
}
