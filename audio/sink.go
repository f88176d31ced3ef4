package audio

import (
	"github.com/gordonklaus/portaudio"
)

// Source fills an interleaved stereo int16 buffer with audio.
type Source interface {
	Fill(out []int16)
}

// Processor transforms an interleaved stereo int16 buffer in place.
type Processor interface {
	Process(out []int16)
}

// Sink drives the audio callback: sources fill the buffer, then processors
// transform it in place, in registration order.
type Sink struct {
	sources    []Source
	processors []Processor
	stream     *portaudio.Stream
}

func NewSink() (*Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	var s Sink
	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, bufferSize, s.process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	s.stream = stream
	return &s, nil
}

func (s *Sink) Start() error {
	return s.stream.Start()
}

func (s *Sink) Stop() error {
	s.stream.Close()
	portaudio.Terminate()
	return nil
}

func (s *Sink) AddSources(sources ...Source) {
	s.sources = append(s.sources, sources...)
}

func (s *Sink) AddProcessors(processors ...Processor) {
	s.processors = append(s.processors, processors...)
}

func (s *Sink) process(out []int16) {
	for i := range out {
		out[i] = 0
	}
	for _, source := range s.sources {
		source.Fill(out)
	}
	for _, processor := range s.processors {
		processor.Process(out)
	}
}
