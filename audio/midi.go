package audio

// noteEvent is a decoded note message.
type noteEvent struct {
	channel  int // 1-16
	note     int
	velocity int
	on       bool
}

// parseNote decodes a raw 3-byte note message: high nibble of the status
// byte is the event class, low nibble the channel minus one. A note-on with
// velocity zero counts as a note-off. Truncated messages, stray data bytes
// with the high bit set and anything that isn't a note message are reported
// as not ok, and the caller drops them.
func parseNote(msg []byte) (noteEvent, bool) {
	if len(msg) < 3 || msg[1]&0x80 != 0 || msg[2]&0x80 != 0 {
		return noteEvent{}, false
	}
	ev := noteEvent{
		channel:  int(msg[0]&0x0F) + 1,
		note:     int(msg[1]),
		velocity: int(msg[2]),
	}
	switch msg[0] & 0xF0 {
	case 0x90:
		ev.on = ev.velocity > 0
	case 0x80:
		ev.on = false
	default:
		return noteEvent{}, false
	}
	return ev, true
}
