package velocity

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Source produces the raw per-tick displacement from the configured probes.
type Source struct {
	window  WindowProbe
	pointer PointerProbe

	mode        Mode
	sensitivity float64

	prevWindow r2.Vec
	haveWindow bool

	prevPointer r2.Vec
	havePointer bool
}

// NewSource creates a source. Either probe may be nil.
func NewSource(window WindowProbe, pointer PointerProbe) *Source {
	return &Source{
		window:      window,
		pointer:     pointer,
		mode:        ModeEither,
		sensitivity: 1,
	}
}

// Configure sets the input mode and pointer sensitivity.
func (s *Source) Configure(mode Mode, sensitivity float64) {
	if mode != ModeWindow && mode != ModePointer {
		mode = ModeEither
	}
	s.mode = mode
	s.sensitivity = sensitivity
}

// Mode returns the configured input mode.
func (s *Source) Mode() Mode { return s.mode }

// Prime records the current probe positions so the next Sample starts from
// them instead of producing a jump.
func (s *Source) Prime() {
	s.haveWindow = false
	s.havePointer = false
	s.readWindow()
	s.readPointer()
}

// Sample returns the displacement since the previous call.
//
// Window motion counts only while active. Pointer motion counts while dragging
// when the window produced nothing. Both remembered positions are refreshed on
// every call, including when the delta is discarded.
func (s *Source) Sample(active, dragging bool) r2.Vec {
	var delta r2.Vec

	prevWin, hadWin := s.prevWindow, s.haveWindow
	if cur, ok := s.readWindow(); ok && hadWin && active && s.mode.usesWindow() {
		delta = r2.Sub(cur, prevWin)
	}

	prevPtr, hadPtr := s.prevPointer, s.havePointer
	cur, ok := s.readPointer()
	if delta == (r2.Vec{}) && ok && hadPtr && dragging && s.mode.usesPointer() {
		delta = r2.Scale(s.sensitivity, r2.Sub(cur, prevPtr))
	}

	return delta
}

func (s *Source) readWindow() (r2.Vec, bool) {
	if s.window == nil {
		s.haveWindow = false
		return r2.Vec{}, false
	}
	x, y, ok := s.window.WindowPosition()
	if !ok {
		s.haveWindow = false
		return r2.Vec{}, false
	}
	s.prevWindow = r2.Vec{X: float64(x), Y: float64(y)}
	s.haveWindow = true
	return s.prevWindow, true
}

func (s *Source) readPointer() (r2.Vec, bool) {
	if s.pointer == nil {
		s.havePointer = false
		return r2.Vec{}, false
	}
	x, y := s.pointer.PointerPosition()
	s.prevPointer = r2.Vec{X: x, Y: y}
	s.havePointer = true
	return s.prevPointer, true
}
