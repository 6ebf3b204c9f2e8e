package backend

// EventType identifies the kind of input event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
)

// Key identifies a non-rune key press.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyCtrlB
	KeyCtrlC
	KeyCtrlQ
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlX
)

// MouseButton identifies which button (or wheel direction) an EventMouse
// carries.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseRight
	MouseRelease
	MouseWheelUp
	MouseWheelDown
)

// ModMask is a bitmask of modifier keys.
type ModMask int

const (
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Event is a single input event from the terminal.
type Event struct {
	Type EventType

	Key  Key
	Rune rune
	Mod  ModMask

	MouseX      int
	MouseY      int
	MouseButton MouseButton

	Width  int
	Height int
}
