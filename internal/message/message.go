// Package message implements the in-game message log: an append-only ring
// of colored text lines the renderer reads. Consecutive identical messages
// coalesce into one entry with a repeat counter instead of flooding the
// log. This is player-facing text only — engine diagnostics go through
// internal/diag.
package message

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Color atoms for message categories. The renderer only ever sees the
// resolved tcell color; game code passes the atom so the palette stays in
// one place.
type Color string

const (
	ColorNeutral        Color = "neutral"
	ColorImpossible     Color = "impossible"
	ColorPlayerAtk      Color = "player_atk"
	ColorEnemyAtk       Color = "enemy_atk"
	ColorPlayerDie      Color = "player_die"
	ColorEnemyDie       Color = "enemy_die"
	ColorHealthRecover  Color = "health_recovered"
	ColorStatusEffect   Color = "status_effect_applied"
	ColorWelcome        Color = "welcome_text"
	ColorMenuText       Color = "menu_text"
	ColorMenuTitle      Color = "menu_title"
)

var palette = map[Color]tcell.Color{
	ColorNeutral:       tcell.ColorWhite,
	ColorImpossible:    tcell.ColorGray,
	ColorPlayerAtk:     tcell.ColorLightGray,
	ColorEnemyAtk:      tcell.ColorOrangeRed,
	ColorPlayerDie:     tcell.ColorRed,
	ColorEnemyDie:      tcell.ColorOrange,
	ColorHealthRecover: tcell.ColorGreen,
	ColorStatusEffect:  tcell.ColorGreenYellow,
	ColorWelcome:       tcell.ColorDeepSkyBlue,
	ColorMenuText:      tcell.ColorWhite,
	ColorMenuTitle:     tcell.ColorYellow,
}

// FG resolves a color atom to its terminal color, defaulting to white for
// unknown atoms so a typo'd color never crashes a draw call.
func FG(c Color) tcell.Color {
	if col, ok := palette[c]; ok {
		return col
	}
	return tcell.ColorWhite
}

// Entry is one logged message. Count tracks how many consecutive times
// the same text was added.
type Entry struct {
	Text  string
	FG    Color
	Count int
}

// FullText is the display form: the text plus a repeat suffix when the
// message coalesced.
func (e Entry) FullText() string {
	if e.Count > 1 {
		return fmt.Sprintf("%s (x%d)", e.Text, e.Count)
	}
	return e.Text
}

// Log is the append-only message ring. Cap bounds memory; the oldest
// entries fall off the front once it is exceeded.
type Log struct {
	entries []Entry
	cap     int
}

// NewLog creates a Log retaining at most capacity entries.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = 200
	}
	return &Log{cap: capacity}
}

// Add appends a message, or bumps the tail counter when text matches the
// most recent entry exactly.
func (l *Log) Add(text string, fg Color) {
	if n := len(l.entries); n > 0 && l.entries[n-1].Text == text {
		l.entries[n-1].Count++
		return
	}
	l.entries = append(l.entries, Entry{Text: text, FG: fg, Count: 1})
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
}

// Addf is Add with Sprintf formatting.
func (l *Log) Addf(fg Color, format string, args ...interface{}) {
	l.Add(fmt.Sprintf(format, args...), fg)
}

// Entries returns the log contents, oldest first. The returned slice is
// the log's backing storage; callers must not mutate it.
func (l *Log) Entries() []Entry {
	return l.entries
}

// Tail returns up to n of the newest entries, oldest of those first.
func (l *Log) Tail(n int) []Entry {
	if n >= len(l.entries) {
		return l.entries
	}
	return l.entries[len(l.entries)-n:]
}

// Len reports how many entries the log currently retains.
func (l *Log) Len() int { return len(l.entries) }
