package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyNames maps the key names used in config files to ebiten keys
var keyNames = map[string]ebiten.Key{
	"KeyA": ebiten.KeyA, "KeyB": ebiten.KeyB, "KeyC": ebiten.KeyC, "KeyD": ebiten.KeyD, "KeyE": ebiten.KeyE,
	"KeyF": ebiten.KeyF, "KeyG": ebiten.KeyG, "KeyH": ebiten.KeyH, "KeyI": ebiten.KeyI, "KeyJ": ebiten.KeyJ,
	"KeyK": ebiten.KeyK, "KeyL": ebiten.KeyL, "KeyM": ebiten.KeyM, "KeyN": ebiten.KeyN, "KeyO": ebiten.KeyO,
	"KeyP": ebiten.KeyP, "KeyQ": ebiten.KeyQ, "KeyR": ebiten.KeyR, "KeyS": ebiten.KeyS, "KeyT": ebiten.KeyT,
	"KeyU": ebiten.KeyU, "KeyV": ebiten.KeyV, "KeyW": ebiten.KeyW, "KeyX": ebiten.KeyX, "KeyY": ebiten.KeyY,
	"KeyZ": ebiten.KeyZ,

	"Key0": ebiten.Key0, "Key1": ebiten.Key1, "Key2": ebiten.Key2, "Key3": ebiten.Key3, "Key4": ebiten.Key4,
	"Key5": ebiten.Key5, "Key6": ebiten.Key6, "Key7": ebiten.Key7, "Key8": ebiten.Key8, "Key9": ebiten.Key9,

	"Space": ebiten.KeySpace, "Backspace": ebiten.KeyBackspace, "Enter": ebiten.KeyEnter,
	"Escape": ebiten.KeyEscape, "Tab": ebiten.KeyTab,
	"Home": ebiten.KeyHome, "End": ebiten.KeyEnd, "PageUp": ebiten.KeyPageUp, "PageDown": ebiten.KeyPageDown,
	"ArrowUp": ebiten.KeyArrowUp, "ArrowDown": ebiten.KeyArrowDown,
	"ArrowLeft": ebiten.KeyArrowLeft, "ArrowRight": ebiten.KeyArrowRight,

	"Comma": ebiten.KeyComma, "Period": ebiten.KeyPeriod, "Slash": ebiten.KeySlash,
	"Semicolon": ebiten.KeySemicolon, "Quote": ebiten.KeyQuote, "Minus": ebiten.KeyMinus, "Equal": ebiten.KeyEqual,

	"Numpad0": ebiten.KeyNumpad0, "Numpad1": ebiten.KeyNumpad1, "Numpad2": ebiten.KeyNumpad2,
	"Numpad3": ebiten.KeyNumpad3, "Numpad4": ebiten.KeyNumpad4, "Numpad5": ebiten.KeyNumpad5,
	"Numpad6": ebiten.KeyNumpad6, "Numpad7": ebiten.KeyNumpad7, "Numpad8": ebiten.KeyNumpad8,
	"Numpad9": ebiten.KeyNumpad9, "NumpadEnter": ebiten.KeyNumpadEnter,
}

// Modifiers is the exact set of modifier keys a binding requires held.
// Key and mouse bindings share it.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// heldModifiers reads the modifier keys held this frame
func heldModifiers() Modifiers {
	return Modifiers{
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
	}
}

// splitBinding separates a binding like "Ctrl+Shift+KeyB" into its trigger
// name and modifiers
func splitBinding(binding string) (string, Modifiers, error) {
	var mods Modifiers
	if binding == "" {
		return "", mods, fmt.Errorf("empty binding")
	}

	parts := strings.Split(binding, "+")
	for _, part := range parts[:len(parts)-1] {
		switch strings.ToLower(part) {
		case "shift":
			mods.Shift = true
		case "ctrl":
			mods.Ctrl = true
		case "alt":
			mods.Alt = true
		default:
			return "", mods, fmt.Errorf("unknown modifier: %s", part)
		}
	}
	return parts[len(parts)-1], mods, nil
}

// KeyCombination is a parsed key binding
type KeyCombination struct {
	Key ebiten.Key
	Modifiers
}

func parseKeyCombination(binding string) (KeyCombination, error) {
	name, mods, err := splitBinding(binding)
	if err != nil {
		return KeyCombination{}, err
	}
	key, ok := keyNames[name]
	if !ok {
		return KeyCombination{}, fmt.Errorf("unknown key: %s", name)
	}
	return KeyCombination{Key: key, Modifiers: mods}, nil
}

// KeybindingManager resolves the key bindings of one action scope. Bindings
// are parsed once; each frame only compares keys against them.
type KeybindingManager struct {
	keybindings map[string][]string
	combos      map[string][]KeyCombination
	order       []string

	justPressed func(key ebiten.Key) bool
	held        func() Modifiers
}

// NewKeybindingManager creates a KeybindingManager for the actions of scope.
// Bindings that do not parse are skipped; config loading reports them.
func NewKeybindingManager(scope ActionScope, keybindings map[string][]string) *KeybindingManager {
	combos := make(map[string][]KeyCombination, len(keybindings))
	for action, bindings := range keybindings {
		for _, binding := range bindings {
			if combo, err := parseKeyCombination(binding); err == nil {
				combos[action] = append(combos[action], combo)
			}
		}
	}
	return &KeybindingManager{
		keybindings: keybindings,
		combos:      combos,
		order:       actionNames(scope),
		justPressed: inpututil.IsKeyJustPressed,
		held:        heldModifiers,
	}
}

// PressedActions returns the actions triggered this frame, in definition
// order. A binding fires only when the held modifiers match it exactly.
func (km *KeybindingManager) PressedActions() []string {
	held := km.held()
	var actions []string
	for _, action := range km.order {
		for _, combo := range km.combos[action] {
			if combo.Modifiers == held && km.justPressed(combo.Key) {
				actions = append(actions, action)
				break
			}
		}
	}
	return actions
}

// GetKeybindings returns the current keybindings map (for display purposes)
func (km *KeybindingManager) GetKeybindings() map[string][]string {
	return km.keybindings
}
