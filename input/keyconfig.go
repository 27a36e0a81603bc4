package input

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Rune aliases for keys that can't be bare single-char TOML keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
}

// Special key names accepted in a [keys] section, lowercase
var keyNames = map[string]tcell.Key{
	"up":     tcell.KeyUp,
	"down":   tcell.KeyDown,
	"pgup":   tcell.KeyPgUp,
	"pgdn":   tcell.KeyPgDn,
	"home":   tcell.KeyHome,
	"end":    tcell.KeyEnd,
	"esc":    tcell.KeyEscape,
	"enter":  tcell.KeyEnter,
	"tab":    tcell.KeyTab,
	"ctrl-c": tcell.KeyCtrlC,
	"ctrl-d": tcell.KeyCtrlD,
	"ctrl-u": tcell.KeyCtrlU,
	"ctrl-f": tcell.KeyCtrlF,
	"ctrl-b": tcell.KeyCtrlB,
	"ctrl-l": tcell.KeyCtrlL,
}

// ApplyBindings returns base with the given key name → action name overrides
// A binding to "none" removes the key
// Returns error on unknown key or action names
func ApplyBindings(base *KeyTable, bindings map[string]string) (*KeyTable, error) {
	kt := base.Clone()

	for keyStr, actionName := range bindings {
		action, ok := ActionByName(strings.ToLower(strings.TrimSpace(actionName)))
		if !ok {
			return nil, fmt.Errorf("key %q: unknown action: %q", keyStr, actionName)
		}

		if k, ok := keyNames[strings.ToLower(keyStr)]; ok {
			setOrDelete(kt.Keys, k, action)
			continue
		}

		r, err := resolveRune(keyStr)
		if err != nil {
			return nil, err
		}
		setOrDelete(kt.Runes, r, action)
	}

	return kt, nil
}

func setOrDelete[K comparable](m map[K]Action, k K, a Action) {
	if a == ActionNone {
		delete(m, k)
		return
	}
	m[k] = a
}

// resolveRune converts a TOML key string to a rune
// Accepts single characters and named aliases
func resolveRune(s string) (rune, error) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, nil
	}

	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}

	return 0, fmt.Errorf("invalid key: %q (expected single character, alias or key name)", s)
}
