// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package event

// RawKind identifies the type of a [Raw] callback.
type RawKind uint8

const (
	// RawUnknown is never converted.
	RawUnknown RawKind = iota
	// RawResized sets X and Y to the new size.
	RawResized
	// RawScaleFactor sets Value to the new scale factor.
	RawScaleFactor
	// RawFocus sets Focused.
	RawFocus
	// RawCharacter sets Char.
	RawCharacter
	// RawKey sets Code to a GLFW key code, and Action.
	RawKey
	// RawCursorEntered sets Device.
	RawCursorEntered
	// RawCursorLeft sets Device.
	RawCursorLeft
	// RawCursorMoved sets Device, and X and Y to the position.
	RawCursorMoved
	// RawMouseButton sets Device, Code to a GLFW mouse button, and Action.
	RawMouseButton
	// RawScroll sets X and Y to the scroll amount, and Pixels.
	RawScroll
	// RawModifiers sets Mods.
	RawModifiers
	// RawGamepadConnected sets Device.
	RawGamepadConnected
	// RawGamepadDisconnected sets Device.
	RawGamepadDisconnected
	// RawGamepadButton sets Device, Code to a GLFW gamepad button, and
	// Action.
	RawGamepadButton
	// RawGamepadAxis sets Device, Code to a GLFW gamepad axis, and Value.
	RawGamepadAxis
)

// Action is the action reported for keys and buttons, mirroring GLFW.
type Action uint8

const (
	// ActionRelease maps to [Released].
	ActionRelease Action = iota
	// ActionPress maps to [Pressed].
	ActionPress
	// ActionRepeat is dropped for keys and mouse buttons, and is reported as
	// a pressed repeat for gamepad buttons.
	ActionRepeat
)

// Raw is the shape of a platform-native input callback, as delivered by a
// windowing library. Codes follow GLFW's conventions. Only the fields
// relevant to Kind are set.
type Raw struct {
	// X and Y are the size, position, or scroll amount.
	X, Y float64
	// Value is the scale factor, or axis value.
	Value float64
	// Device identifies the pointer or gamepad.
	Device uint64
	// Code is the key, mouse button, gamepad button, or gamepad axis.
	Code uint32
	Char rune
	Kind RawKind
	// Mods is a GLFW modifier bit mask, see [ModShift] and friends.
	Mods   Modifiers
	Action Action
	// Focused is the new focus state, for RawFocus.
	Focused bool
	// Pixels indicates a pixel (rather than line) scroll, for RawScroll.
	Pixels bool
}

// Convert translates a raw callback into an event. The second return value
// is false for callbacks that have no corresponding event: unknown kinds,
// unknown keys, key repeats, and unmapped gamepad buttons or axes.
func Convert(raw Raw) (Event, bool) {
	switch raw.Kind {
	case RawResized:
		return Resized{Size: vec2(raw.X, raw.Y)}, true

	case RawScaleFactor:
		return ScaleFactorChanged{Scale: float32(raw.Value)}, true

	case RawFocus:
		return FocusChanged{Focused: raw.Focused}, true

	case RawCharacter:
		return ReceivedCharacter{Char: raw.Char}, true

	case RawKey:
		if raw.Action == ActionRepeat {
			return nil, false
		}
		key, ok := keyCodes[raw.Code]
		if !ok {
			return nil, false
		}
		return KeyboardInput{Key: key, State: state(raw.Action)}, true

	case RawCursorEntered:
		return PointerEntered{Pointer: PointerID(raw.Device)}, true

	case RawCursorLeft:
		return PointerLeft{Pointer: PointerID(raw.Device)}, true

	case RawCursorMoved:
		return PointerMoved{
			Location: vec2(raw.X, raw.Y),
			Pointer:  PointerID(raw.Device),
		}, true

	case RawMouseButton:
		if raw.Action == ActionRepeat {
			return nil, false
		}
		button, ok := mouseButton(raw.Code)
		if !ok {
			return nil, false
		}
		return PointerInput{
			Pointer: PointerID(raw.Device),
			Button:  button,
			State:   state(raw.Action),
		}, true

	case RawScroll:
		return ScrollInput{Delta: ScrollDelta{
			Delta:  vec2(raw.X, raw.Y),
			Pixels: raw.Pixels,
		}}, true

	case RawModifiers:
		return ModifiersChanged{Modifiers: raw.Mods & (ModShift | ModCtrl | ModAlt | ModLogo)}, true

	case RawGamepadConnected:
		return GamepadConnected{Gamepad: GamepadID(raw.Device)}, true

	case RawGamepadDisconnected:
		return GamepadDisconnected{Gamepad: GamepadID(raw.Device)}, true

	case RawGamepadButton:
		if raw.Code >= uint32(len(gamepadButtonCodes)) {
			return nil, false
		}
		return GamepadButton{
			Gamepad: GamepadID(raw.Device),
			Button:  gamepadButtonCodes[raw.Code],
			State:   state(raw.Action),
			Repeat:  raw.Action == ActionRepeat,
		}, true

	case RawGamepadAxis:
		if raw.Code >= uint32(len(gamepadAxisCodes)) {
			return nil, false
		}
		return GamepadAxis{
			Gamepad: GamepadID(raw.Device),
			Value:   float32(raw.Value),
			Axis:    gamepadAxisCodes[raw.Code],
		}, true

	default:
		return nil, false
	}
}

func vec2(x, y float64) Vec2 {
	return Vec2{X: float32(x), Y: float32(y)}
}

// state treats repeats as held down.
func state(action Action) ElementState {
	if action == ActionRelease {
		return Released
	}
	return Pressed
}

func mouseButton(code uint32) (MouseButton, bool) {
	switch {
	case code == 0:
		return MouseButtonLeft, true
	case code == 1:
		return MouseButtonRight, true
	case code == 2:
		return MouseButtonMiddle, true
	case code <= 255:
		return MouseButton(code), true
	default:
		return 0, false
	}
}

// indexed by GLFW gamepad button
var gamepadButtonCodes = [...]GamepadButtonKind{
	GamepadSouth,
	GamepadEast,
	GamepadWest,
	GamepadNorth,
	GamepadLeftShoulder,
	GamepadRightShoulder,
	GamepadSelect,
	GamepadStart,
	GamepadMode,
	GamepadLeftStick,
	GamepadRightStick,
	GamepadDPadUp,
	GamepadDPadRight,
	GamepadDPadDown,
	GamepadDPadLeft,
}

// indexed by GLFW gamepad axis
var gamepadAxisCodes = [...]GamepadAxisKind{
	GamepadLeftStickX,
	GamepadLeftStickY,
	GamepadRightStickX,
	GamepadRightStickY,
	GamepadLeftZ,
	GamepadRightZ,
}
