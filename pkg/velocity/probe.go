// Package velocity turns window or pointer positions into a per-frame 2D
// displacement and smooths it.
package velocity

import (
	"fmt"
	"strings"
)

// WindowProbe reports the hosting window's screen position. ok is false when
// the platform cannot answer.
type WindowProbe interface {
	WindowPosition() (x, y int, ok bool)
}

// PointerProbe reports the pointer position in screen pixels.
type PointerProbe interface {
	PointerPosition() (x, y float64)
}

// NoWindow is a WindowProbe for platforms without a window-position query.
type NoWindow struct{}

// WindowPosition always reports unavailable.
func (NoWindow) WindowPosition() (int, int, bool) { return 0, 0, false }

// Mode selects which probe feeds the source.
type Mode string

const (
	// ModeWindow uses only window motion.
	ModeWindow Mode = "window"
	// ModePointer uses only pointer motion.
	ModePointer Mode = "pointer"
	// ModeEither prefers window motion and falls back to the pointer.
	ModeEither Mode = "either"
)

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeWindow:
		return ModeWindow, nil
	case ModePointer:
		return ModePointer, nil
	case ModeEither, "":
		return ModeEither, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) usesWindow() bool  { return m == ModeWindow || m == ModeEither }
func (m Mode) usesPointer() bool { return m == ModePointer || m == ModeEither }
