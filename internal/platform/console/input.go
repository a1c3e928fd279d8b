package console

import (
	"bytes"
	"io"
	"iter"

	"github.com/vovakirdan/letterbox/internal/core"
	"github.com/vovakirdan/letterbox/internal/loop"
)

// Key byte sequences understood by the input reader.
var keyActions = []struct {
	seq    []byte
	action core.Action
}{
	{[]byte("\x1b[23~"), core.ActionFullscreen}, // F11
	{[]byte{0x03}, core.ActionQuit},             // Ctrl+C
	{[]byte{0x13}, core.ActionScreenshot},       // Ctrl+S
	{[]byte("q"), core.ActionQuit},
	{[]byte("Q"), core.ActionQuit},
	{[]byte("f"), core.ActionFullscreen},
	{[]byte("F"), core.ActionFullscreen},
}

// DecodeKeys maps one read from a raw terminal to actions. A lone escape
// byte quits; other escape sequences are ignored unless listed.
func DecodeKeys(b []byte) []core.Action {
	if len(b) == 1 && b[0] == 0x1b {
		return []core.Action{core.ActionQuit}
	}

	var actions []core.Action
	for len(b) > 0 {
		matched := false
		for _, k := range keyActions {
			if bytes.HasPrefix(b, k.seq) {
				actions = append(actions, k.action)
				b = b[len(k.seq):]
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if b[0] == 0x1b {
			// Unknown escape sequence, drop the rest of the read.
			break
		}
		b = b[1:]
	}
	return actions
}

// Input reads keys on a background goroutine and hands them to the loop
// as events. Drain never blocks.
type Input struct {
	events  chan loop.Event
	pending []loop.Event
}

// NewInput starts reading r. The goroutine exits when r returns an error.
func NewInput(r io.Reader) *Input {
	in := &Input{events: make(chan loop.Event, 64)}
	go in.read(r)
	return in
}

func (in *Input) read(r io.Reader) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, a := range DecodeKeys(buf[:n]) {
			if a == core.ActionQuit {
				in.events <- loop.QuitEvent{}
			} else {
				in.events <- loop.ActionEvent{Action: a}
			}
		}
		if err != nil {
			return
		}
	}
}

// Drain yields the events read since the last call. Events not consumed
// because the caller stopped early are kept for the next drain.
func (in *Input) Drain() iter.Seq[loop.Event] {
	return func(yield func(loop.Event) bool) {
	collect:
		for {
			select {
			case ev := <-in.events:
				in.pending = append(in.pending, ev)
			default:
				break collect
			}
		}

		for len(in.pending) > 0 {
			ev := in.pending[0]
			in.pending = in.pending[1:]
			if !yield(ev) {
				return
			}
		}
	}
}
