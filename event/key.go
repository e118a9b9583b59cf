// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package event

import (
	"sync"
)

// Key is a layout-independent virtual key.
type Key uint8

const (
	// KeyUnknown is never reported, see [Convert].
	KeyUnknown Key = iota
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyCapsLock
	KeyScrollLock
	KeyNumLock
	KeyPrintScreen
	KeyPause
	KeySpace
	KeyApostrophe
	KeyComma
	KeyMinus
	KeyPeriod
	KeySlash
	KeySemicolon
	KeyEquals
	KeyLBracket
	KeyBackslash
	KeyRBracket
	KeyGrave
	KeyNumpad0
	KeyNumpad1
	KeyNumpad2
	KeyNumpad3
	KeyNumpad4
	KeyNumpad5
	KeyNumpad6
	KeyNumpad7
	KeyNumpad8
	KeyNumpad9
	KeyLShift
	KeyLControl
	KeyLAlt
	KeyLSuper
	KeyRShift
	KeyRControl
	KeyRAlt
	KeyRSuper
	KeyMenu
)

var keyNames = [...]string{
	KeyUnknown:     "Unknown",
	Key0:           "0",
	Key1:           "1",
	Key2:           "2",
	Key3:           "3",
	Key4:           "4",
	Key5:           "5",
	Key6:           "6",
	Key7:           "7",
	Key8:           "8",
	Key9:           "9",
	KeyA:           "A",
	KeyB:           "B",
	KeyC:           "C",
	KeyD:           "D",
	KeyE:           "E",
	KeyF:           "F",
	KeyG:           "G",
	KeyH:           "H",
	KeyI:           "I",
	KeyJ:           "J",
	KeyK:           "K",
	KeyL:           "L",
	KeyM:           "M",
	KeyN:           "N",
	KeyO:           "O",
	KeyP:           "P",
	KeyQ:           "Q",
	KeyR:           "R",
	KeyS:           "S",
	KeyT:           "T",
	KeyU:           "U",
	KeyV:           "V",
	KeyW:           "W",
	KeyX:           "X",
	KeyY:           "Y",
	KeyZ:           "Z",
	KeyF1:          "F1",
	KeyF2:          "F2",
	KeyF3:          "F3",
	KeyF4:          "F4",
	KeyF5:          "F5",
	KeyF6:          "F6",
	KeyF7:          "F7",
	KeyF8:          "F8",
	KeyF9:          "F9",
	KeyF10:         "F10",
	KeyF11:         "F11",
	KeyF12:         "F12",
	KeyEscape:      "Escape",
	KeyEnter:       "Enter",
	KeyTab:         "Tab",
	KeyBackspace:   "Backspace",
	KeyInsert:      "Insert",
	KeyDelete:      "Delete",
	KeyRight:       "Right",
	KeyLeft:        "Left",
	KeyDown:        "Down",
	KeyUp:          "Up",
	KeyPageUp:      "PageUp",
	KeyPageDown:    "PageDown",
	KeyHome:        "Home",
	KeyEnd:         "End",
	KeyCapsLock:    "CapsLock",
	KeyScrollLock:  "ScrollLock",
	KeyNumLock:     "NumLock",
	KeyPrintScreen: "PrintScreen",
	KeyPause:       "Pause",
	KeySpace:       "Space",
	KeyApostrophe:  "Apostrophe",
	KeyComma:       "Comma",
	KeyMinus:       "Minus",
	KeyPeriod:      "Period",
	KeySlash:       "Slash",
	KeySemicolon:   "Semicolon",
	KeyEquals:      "Equals",
	KeyLBracket:    "LBracket",
	KeyBackslash:   "Backslash",
	KeyRBracket:    "RBracket",
	KeyGrave:       "Grave",
	KeyNumpad0:     "Numpad0",
	KeyNumpad1:     "Numpad1",
	KeyNumpad2:     "Numpad2",
	KeyNumpad3:     "Numpad3",
	KeyNumpad4:     "Numpad4",
	KeyNumpad5:     "Numpad5",
	KeyNumpad6:     "Numpad6",
	KeyNumpad7:     "Numpad7",
	KeyNumpad8:     "Numpad8",
	KeyNumpad9:     "Numpad9",
	KeyLShift:      "LShift",
	KeyLControl:    "LControl",
	KeyLAlt:        "LAlt",
	KeyLSuper:      "LSuper",
	KeyRShift:      "RShift",
	KeyRControl:    "RControl",
	KeyRAlt:        "RAlt",
	KeyRSuper:      "RSuper",
	KeyMenu:        "Menu",
}

func (x Key) String() string {
	if int(x) < len(keyNames) && keyNames[x] != "" {
		return keyNames[x]
	}
	return "Unknown"
}

// keyCodes maps raw key codes (GLFW's key tokens) to keys.
var keyCodes = map[uint32]Key{
	32:  KeySpace,
	39:  KeyApostrophe,
	44:  KeyComma,
	45:  KeyMinus,
	46:  KeyPeriod,
	47:  KeySlash,
	48:  Key0,
	49:  Key1,
	50:  Key2,
	51:  Key3,
	52:  Key4,
	53:  Key5,
	54:  Key6,
	55:  Key7,
	56:  Key8,
	57:  Key9,
	59:  KeySemicolon,
	61:  KeyEquals,
	65:  KeyA,
	66:  KeyB,
	67:  KeyC,
	68:  KeyD,
	69:  KeyE,
	70:  KeyF,
	71:  KeyG,
	72:  KeyH,
	73:  KeyI,
	74:  KeyJ,
	75:  KeyK,
	76:  KeyL,
	77:  KeyM,
	78:  KeyN,
	79:  KeyO,
	80:  KeyP,
	81:  KeyQ,
	82:  KeyR,
	83:  KeyS,
	84:  KeyT,
	85:  KeyU,
	86:  KeyV,
	87:  KeyW,
	88:  KeyX,
	89:  KeyY,
	90:  KeyZ,
	91:  KeyLBracket,
	92:  KeyBackslash,
	93:  KeyRBracket,
	96:  KeyGrave,
	256: KeyEscape,
	257: KeyEnter,
	258: KeyTab,
	259: KeyBackspace,
	260: KeyInsert,
	261: KeyDelete,
	262: KeyRight,
	263: KeyLeft,
	264: KeyDown,
	265: KeyUp,
	266: KeyPageUp,
	267: KeyPageDown,
	268: KeyHome,
	269: KeyEnd,
	280: KeyCapsLock,
	281: KeyScrollLock,
	282: KeyNumLock,
	283: KeyPrintScreen,
	284: KeyPause,
	290: KeyF1,
	291: KeyF2,
	292: KeyF3,
	293: KeyF4,
	294: KeyF5,
	295: KeyF6,
	296: KeyF7,
	297: KeyF8,
	298: KeyF9,
	299: KeyF10,
	300: KeyF11,
	301: KeyF12,
	320: KeyNumpad0,
	321: KeyNumpad1,
	322: KeyNumpad2,
	323: KeyNumpad3,
	324: KeyNumpad4,
	325: KeyNumpad5,
	326: KeyNumpad6,
	327: KeyNumpad7,
	328: KeyNumpad8,
	329: KeyNumpad9,
	340: KeyLShift,
	341: KeyLControl,
	342: KeyLAlt,
	343: KeyLSuper,
	344: KeyRShift,
	345: KeyRControl,
	346: KeyRAlt,
	347: KeyRSuper,
	348: KeyMenu,
}

var (
	keysByName = sync.OnceValue(func() map[string]Key {
		m := make(map[string]Key, len(keyNames))
		for k, name := range keyNames {
			if name != "" && Key(k) != KeyUnknown {
				m[name] = Key(k)
			}
		}
		return m
	})
	codesByKey = sync.OnceValue(func() map[Key]uint32 {
		m := make(map[Key]uint32, len(keyCodes))
		for code, k := range keyCodes {
			m[k] = code
		}
		return m
	})
)

// ParseKey returns the key named name, as per [Key.String].
func ParseKey(name string) (Key, bool) {
	k, ok := keysByName()[name]
	return k, ok
}

// Code returns the raw key code that [Convert] maps to x.
func (x Key) Code() (uint32, bool) {
	code, ok := codesByKey()[x]
	return code, ok
}
