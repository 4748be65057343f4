package gridview

import "github.com/go-gl/mathgl/mgl64"

// Key is a logical key of the viewer, hosts map their physical keys to it
type Key uint16

const (
	KeyForward Key = 1 << iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyFast
	KeyGridIncrease
	KeyGridDecrease
)

// KeySet is a set of keys
type KeySet uint16

func NewKeySet(keys ...Key) KeySet {
	var s KeySet
	for _, k := range keys {
		s = s.With(k)
	}
	return s
}

func (s KeySet) Has(k Key) bool {
	return uint16(s)&uint16(k) != 0
}

func (s KeySet) With(k Key) KeySet {
	return s | KeySet(k)
}

// MouseButton is a set of mouse buttons held down
type MouseButton uint8

const (
	MouseLeft MouseButton = 1 << iota
	MouseRight
	MouseMiddle
)

// Input is the state of the input devices for one frame, sampled by the host
type Input struct {
	// Mouse position in screen coordinates, origin top-left
	Mouse   mgl64.Vec2
	Buttons MouseButton
	// Keys held down
	Down KeySet
	// Keys that went down during this frame
	Pressed KeySet
	// Elapsed time since the previous frame, in seconds
	Dt float64
}

func (in Input) IsButtonDown(b MouseButton) bool {
	return in.Buttons&b != 0
}
