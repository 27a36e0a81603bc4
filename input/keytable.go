// Package input maps terminal key and mouse events to list actions.
package input

import "github.com/gdamore/tcell/v2"

// Action is what a key asks the list to do
type Action uint8

const (
	ActionNone Action = iota
	ActionLineDown
	ActionLineUp
	ActionHalfPageDown
	ActionHalfPageUp
	ActionTop
	ActionBottom
	ActionWheelDown
	ActionWheelUp
	ActionToggleMode
	ActionRedraw
	ActionQuit
)

var actionNames = [...]string{
	ActionNone:         "none",
	ActionLineDown:     "line_down",
	ActionLineUp:       "line_up",
	ActionHalfPageDown: "half_page_down",
	ActionHalfPageUp:   "half_page_up",
	ActionTop:          "top",
	ActionBottom:       "bottom",
	ActionWheelDown:    "wheel_down",
	ActionWheelUp:      "wheel_up",
	ActionToggleMode:   "toggle_mode",
	ActionRedraw:       "redraw",
	ActionQuit:         "quit",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// ActionByName resolves a config action name
func ActionByName(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return ActionNone, false
}

// KeyTable binds printable runes and special keys to actions
type KeyTable struct {
	Runes map[rune]Action
	Keys  map[tcell.Key]Action
}

// DefaultKeyTable returns the stock bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Runes: map[rune]Action{
			'j': ActionLineDown,
			'k': ActionLineUp,
			'd': ActionHalfPageDown,
			'u': ActionHalfPageUp,
			' ': ActionHalfPageDown,
			'g': ActionTop,
			'G': ActionBottom,
			'm': ActionToggleMode,
			'q': ActionQuit,
		},
		Keys: map[tcell.Key]Action{
			tcell.KeyDown:   ActionLineDown,
			tcell.KeyUp:     ActionLineUp,
			tcell.KeyPgDn:   ActionHalfPageDown,
			tcell.KeyPgUp:   ActionHalfPageUp,
			tcell.KeyCtrlD:  ActionHalfPageDown,
			tcell.KeyCtrlU:  ActionHalfPageUp,
			tcell.KeyHome:   ActionTop,
			tcell.KeyEnd:    ActionBottom,
			tcell.KeyCtrlL:  ActionRedraw,
			tcell.KeyEscape: ActionQuit,
			tcell.KeyCtrlC:  ActionQuit,
		},
	}
}

// Clone returns a deep copy
func (kt *KeyTable) Clone() *KeyTable {
	out := &KeyTable{
		Runes: make(map[rune]Action, len(kt.Runes)),
		Keys:  make(map[tcell.Key]Action, len(kt.Keys)),
	}
	for k, v := range kt.Runes {
		out.Runes[k] = v
	}
	for k, v := range kt.Keys {
		out.Keys[k] = v
	}
	return out
}
