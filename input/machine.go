package input

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
)

// Intent is a resolved action with its repeat count
type Intent struct {
	Action Action
	Count  int
}

// Machine turns events into intents, accumulating a numeric count prefix
// like vi ("5j" moves five lines)
type Machine struct {
	table *KeyTable
	count int
}

// NewMachine uses the default table when kt is nil
func NewMachine(kt *KeyTable) *Machine {
	if kt == nil {
		kt = DefaultKeyTable()
	}
	return &Machine{table: kt}
}

// Pending returns the count typed so far, empty when none
func (m *Machine) Pending() string {
	if m.count == 0 {
		return ""
	}
	return strconv.Itoa(m.count)
}

// Reset drops a pending count
func (m *Machine) Reset() {
	m.count = 0
}

// Process resolves one event, returning ActionNone for events that bind to nothing
func (m *Machine) Process(ev tcell.Event) Intent {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return m.Key(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		return m.processMouse(ev)
	}
	return Intent{}
}

// Key resolves one key press, r is only read for tcell.KeyRune
func (m *Machine) Key(k tcell.Key, r rune) Intent {
	if k != tcell.KeyRune {
		if a, ok := m.table.Keys[k]; ok {
			return m.emit(a)
		}
		m.Reset()
		return Intent{}
	}

	if a, ok := m.table.Runes[r]; ok {
		return m.emit(a)
	}

	// Digits build a count, a leading 0 is not a count
	if r >= '0' && r <= '9' && (m.count > 0 || r != '0') {
		if m.count < 10000 {
			m.count = m.count*10 + int(r-'0')
		}
		return Intent{}
	}

	m.Reset()
	return Intent{}
}

func (m *Machine) processMouse(ev *tcell.EventMouse) Intent {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		return Intent{Action: ActionWheelUp, Count: 1}
	case buttons&tcell.WheelDown != 0:
		return Intent{Action: ActionWheelDown, Count: 1}
	}
	return Intent{}
}

func (m *Machine) emit(a Action) Intent {
	n := max(m.count, 1)
	m.count = 0
	return Intent{Action: a, Count: n}
}
