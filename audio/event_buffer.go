package audio

import (
	"sync/atomic"
)

// eventBuffer is a lock-free spsc queue carrying note events from a control
// thread into the audio thread.
type eventBuffer struct {
	events      []noteEvent
	read, write *uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{
		events: make([]noteEvent, size),
		read:   new(uint32),
		write:  new(uint32),
	}
}

// push adds ev, dropping it when the queue is full: a stalled consumer must
// not back up into the sender.
func (b *eventBuffer) push(ev noteEvent) bool {
	read := atomic.LoadUint32(b.read)
	write := atomic.LoadUint32(b.write)
	if write-read == uint32(len(b.events)) {
		return false
	}
	b.events[write%uint32(len(b.events))] = ev
	atomic.StoreUint32(b.write, write+1)
	return true
}

// drain consumes all pending events in arrival order.
func (b *eventBuffer) drain(f func(noteEvent)) {
	read := atomic.LoadUint32(b.read)
	write := atomic.LoadUint32(b.write)
	for read != write {
		f(b.events[read%uint32(len(b.events))])
		read++
	}
	atomic.StoreUint32(b.read, read)
}
