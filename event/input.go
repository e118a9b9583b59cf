// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package event

import (
	"strconv"
	"strings"
)

type (
	// ElementState is the state of a key or button.
	ElementState uint8

	// MouseButton identifies a mouse button. Buttons beyond the standard
	// three are [MouseButtonOther] plus an offset.
	MouseButton uint8

	// ScrollDelta is an amount scrolled, either in lines of text, or in
	// pixels, depending on the input device.
	ScrollDelta struct {
		Delta Vec2
		// Pixels is true if Delta is in pixels, rather than lines.
		Pixels bool
	}

	// Modifiers is a set of held modifier keys.
	Modifiers uint8

	// PointerID identifies a pointing device.
	PointerID uint64

	// GamepadID identifies a connected gamepad.
	GamepadID uint64

	// GamepadButtonKind identifies a button on a standard gamepad.
	GamepadButtonKind uint8

	// GamepadAxisKind identifies an axis on a standard gamepad.
	GamepadAxisKind uint8
)

const (
	Released ElementState = iota
	Pressed
)

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonOther
)

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	// ModLogo is the Windows or Command key.
	ModLogo
)

const (
	GamepadSouth GamepadButtonKind = iota
	GamepadEast
	GamepadWest
	GamepadNorth
	GamepadLeftShoulder
	GamepadRightShoulder
	GamepadSelect
	GamepadStart
	GamepadMode
	GamepadLeftStick
	GamepadRightStick
	GamepadDPadUp
	GamepadDPadRight
	GamepadDPadDown
	GamepadDPadLeft
	GamepadLeftTrigger
	GamepadRightTrigger
)

const (
	GamepadLeftStickX GamepadAxisKind = iota
	GamepadLeftStickY
	GamepadRightStickX
	GamepadRightStickY
	GamepadLeftZ
	GamepadRightZ
)

func (x ElementState) String() string {
	if x == Pressed {
		return "Pressed"
	}
	return "Released"
}

func (x MouseButton) String() string {
	switch x {
	case MouseButtonLeft:
		return "Left"
	case MouseButtonRight:
		return "Right"
	case MouseButtonMiddle:
		return "Middle"
	default:
		return "Other(" + strconv.Itoa(int(x-MouseButtonOther)) + ")"
	}
}

// Shift reports whether shift is held.
func (x Modifiers) Shift() bool { return x&ModShift != 0 }

// Ctrl reports whether control is held.
func (x Modifiers) Ctrl() bool { return x&ModCtrl != 0 }

// Alt reports whether alt is held.
func (x Modifiers) Alt() bool { return x&ModAlt != 0 }

// Logo reports whether the Windows or Command key is held.
func (x Modifiers) Logo() bool { return x&ModLogo != 0 }

func (x Modifiers) String() string {
	var parts []string
	if x.Shift() {
		parts = append(parts, "Shift")
	}
	if x.Ctrl() {
		parts = append(parts, "Ctrl")
	}
	if x.Alt() {
		parts = append(parts, "Alt")
	}
	if x.Logo() {
		parts = append(parts, "Logo")
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "|")
}

var gamepadButtonNames = [...]string{
	GamepadSouth:         "South",
	GamepadEast:          "East",
	GamepadWest:          "West",
	GamepadNorth:         "North",
	GamepadLeftShoulder:  "LeftShoulder",
	GamepadRightShoulder: "RightShoulder",
	GamepadSelect:        "Select",
	GamepadStart:         "Start",
	GamepadMode:          "Mode",
	GamepadLeftStick:     "LeftStick",
	GamepadRightStick:    "RightStick",
	GamepadDPadUp:        "DPadUp",
	GamepadDPadRight:     "DPadRight",
	GamepadDPadDown:      "DPadDown",
	GamepadDPadLeft:      "DPadLeft",
	GamepadLeftTrigger:   "LeftTrigger",
	GamepadRightTrigger:  "RightTrigger",
}

func (x GamepadButtonKind) String() string {
	if int(x) < len(gamepadButtonNames) {
		return gamepadButtonNames[x]
	}
	return "Unknown"
}

var gamepadAxisNames = [...]string{
	GamepadLeftStickX:  "LeftStickX",
	GamepadLeftStickY:  "LeftStickY",
	GamepadRightStickX: "RightStickX",
	GamepadRightStickY: "RightStickY",
	GamepadLeftZ:       "LeftZ",
	GamepadRightZ:      "RightZ",
}

func (x GamepadAxisKind) String() string {
	if int(x) < len(gamepadAxisNames) {
		return gamepadAxisNames[x]
	}
	return "Unknown"
}
