package gridview

import (
	"github.com/akmonengine/gridview/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	BOX_ENTER EventType = iota
	BOX_STAY
	BOX_EXIT
	CELL_CHANGED
	GRID_SIZE_CHANGED
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Pick events, driven by the pick ray hitting the box
type BoxEnterEvent struct {
	Point mgl64.Vec3
}

func (e BoxEnterEvent) Type() EventType { return BOX_ENTER }

type BoxStayEvent struct {
	Point mgl64.Vec3
}

func (e BoxStayEvent) Type() EventType { return BOX_STAY }

type BoxExitEvent struct {
	Point mgl64.Vec3
}

func (e BoxExitEvent) Type() EventType { return BOX_EXIT }

// CellChangedEvent is sent when the first cell under the mouse changes while hovering the box.
// On entering the box, Previous is the zero cell.
type CellChangedEvent struct {
	Previous geometry.Vec3i
	Current  geometry.Vec3i
}

func (e CellChangedEvent) Type() EventType { return CELL_CHANGED }

// GridSizeChangedEvent is sent when the preferred grid cell size changes
type GridSizeChangedEvent struct {
	Previous int
	Current  int
}

func (e GridSizeChangedEvent) Type() EventType { return GRID_SIZE_CHANGED }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Hover tracking for Enter/Stay/Exit detection
	previousHit  bool
	previousCell geometry.Vec3i
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 16),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordPick compares the pick of this frame with the previous one to detect Enter/Stay/Exit
func (e *Events) recordPick(result *PickResult) {
	switch {
	case result.Hit && !e.previousHit:
		e.buffer = append(e.buffer, BoxEnterEvent{Point: result.Point})
	case result.Hit && e.previousHit:
		e.buffer = append(e.buffer, BoxStayEvent{Point: result.Point})
	case !result.Hit && e.previousHit:
		e.buffer = append(e.buffer, BoxExitEvent{Point: result.Point})
		e.previousCell = geometry.Vec3i{}
	}

	if result.Hit && len(result.Cells) > 0 {
		current := result.Cells[0]
		if !e.previousHit || current != e.previousCell {
			e.buffer = append(e.buffer, CellChangedEvent{Previous: e.previousCell, Current: current})
		}
		e.previousCell = current
	}

	e.previousHit = result.Hit
}

func (e *Events) emitGridSizeChanged(previous, current int) {
	if previous == current {
		return
	}
	e.buffer = append(e.buffer, GridSizeChangedEvent{Previous: previous, Current: current})
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
