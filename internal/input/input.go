// Package input translates tcell events into the frame-oriented key and
// mouse predicates the game core reads. The core never touches tcell
// event types: states ask "was this key just pressed", the manager
// answers from whatever the renderer's event loop fed it this frame.
package input

import "github.com/gdamore/tcell/v2"

// Key identifies a key in engine terms: printable keys are their rune,
// special keys are negative codes.
type Key rune

const (
	KeyNone Key = 0

	KeyUp Key = -(iota + 1)
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyEnter
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyBackspace
)

// Manager accumulates one frame's worth of discrete events. Terminals
// only deliver key-down, so "pressed" and "just pressed" coincide within
// a frame; both predicates exist because callers come from the contract,
// not the terminal.
type Manager struct {
	justPressed map[Key]bool

	mouseButtons tcell.ButtonMask
	mouseMoved   bool
	cursorX      int
	cursorY      int
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{justPressed: make(map[Key]bool)}
}

// HandleEvent feeds one tcell event into the frame state.
func (m *Manager) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if k := translate(ev); k != KeyNone {
			m.justPressed[k] = true
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		if x != m.cursorX || y != m.cursorY {
			m.mouseMoved = true
		}
		m.cursorX, m.cursorY = x, y
		m.mouseButtons = ev.Buttons()
	}
}

// EndFrame clears the just-pressed and moved state; call once after the
// game consumed this frame's input.
func (m *Manager) EndFrame() {
	for k := range m.justPressed {
		delete(m.justPressed, k)
	}
	m.mouseMoved = false
}

// IsKeyJustPressed reports whether k arrived this frame.
func (m *Manager) IsKeyJustPressed(k Key) bool { return m.justPressed[k] }

// IsKeyPressed reports whether k is held. Terminals don't report key-up,
// so this is the same frame-local fact as IsKeyJustPressed.
func (m *Manager) IsKeyPressed(k Key) bool { return m.justPressed[k] }

// IsMousePressed reports whether mouse button b (1-based) is down.
func (m *Manager) IsMousePressed(b int) bool {
	return m.mouseButtons&tcell.ButtonMask(1<<(b-1)) != 0
}

// MouseMoved reports whether the cursor moved this frame.
func (m *Manager) MouseMoved() bool { return m.mouseMoved }

// CursorLocation returns the mouse position in screen cells.
func (m *Manager) CursorLocation() (int, int) { return m.cursorX, m.cursorY }

// JustPressedRune returns the printable key pressed this frame, or 0.
// Item-select states use it to read slot letters without enumerating the
// alphabet.
func (m *Manager) JustPressedRune() rune {
	for k := range m.justPressed {
		if k > 0 {
			return rune(k)
		}
	}
	return 0
}

// Direction maps this frame's input to a movement delta, in the usual
// roguelike trinity of arrows, vi keys, and the keypad diagonals. ok is
// false when no direction key arrived.
func (m *Manager) Direction() (dx, dy int, ok bool) {
	switch {
	case m.justPressed[KeyUp] || m.justPressed['k']:
		return 0, -1, true
	case m.justPressed[KeyDown] || m.justPressed['j']:
		return 0, 1, true
	case m.justPressed[KeyLeft] || m.justPressed['h']:
		return -1, 0, true
	case m.justPressed[KeyRight] || m.justPressed['l']:
		return 1, 0, true
	case m.justPressed['y'] || m.justPressed[KeyHome]:
		return -1, -1, true
	case m.justPressed['u'] || m.justPressed[KeyPageUp]:
		return 1, -1, true
	case m.justPressed['b'] || m.justPressed[KeyEnd]:
		return -1, 1, true
	case m.justPressed['n'] || m.justPressed[KeyPageDown]:
		return 1, 1, true
	}
	return 0, 0, false
}

func translate(ev *tcell.EventKey) Key {
	switch ev.Key() {
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyPgUp:
		return KeyPageUp
	case tcell.KeyPgDn:
		return KeyPageDown
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyRune:
		return Key(ev.Rune())
	}
	return KeyNone
}
