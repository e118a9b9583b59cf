// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package event models the domain events of a windowed application: window
// changes, keyboard, pointer, and gamepad input.
//
// Events are plain values. [Convert] translates a [Raw] platform callback
// into an [Event], and is a suitable tickstream.Converter.
package event

type (
	// Event is implemented by each of the event types in this package. The
	// set of implementations is closed; use a type switch to handle them.
	Event interface {
		isEvent()
	}

	// Vec2 is a two-dimensional vector, in logical pixels unless stated
	// otherwise.
	Vec2 struct {
		X, Y float32
	}

	// Resized indicates the window has a new size.
	Resized struct {
		Size Vec2
	}

	// ScaleFactorChanged indicates the window's DPI scale factor changed.
	ScaleFactorChanged struct {
		Scale float32
	}

	// FocusChanged indicates the window gained (true) or lost (false) focus.
	FocusChanged struct {
		Focused bool
	}

	// ReceivedCharacter is a unit of text input. Use this, and not
	// [KeyboardInput], for text, as the mapping from keys to characters
	// depends on the user's keyboard layout.
	ReceivedCharacter struct {
		Char rune
	}

	// KeyboardInput indicates a key was pressed or released. Key repeats
	// are not reported.
	KeyboardInput struct {
		Key   Key
		State ElementState
	}

	// PointerEntered indicates the pointer entered the window.
	PointerEntered struct {
		Pointer PointerID
	}

	// PointerLeft indicates the pointer left the window.
	PointerLeft struct {
		Pointer PointerID
	}

	// PointerMoved indicates a new pointer position, within the window.
	PointerMoved struct {
		Location Vec2
		Pointer  PointerID
	}

	// PointerInput indicates a mouse button was pressed or released.
	PointerInput struct {
		Pointer PointerID
		Button  MouseButton
		State   ElementState
	}

	// ScrollInput indicates the mouse wheel (or similar) scrolled.
	ScrollInput struct {
		Delta ScrollDelta
	}

	// ModifiersChanged indicates a change in the held modifier keys.
	ModifiersChanged struct {
		Modifiers Modifiers
	}

	// GamepadConnected indicates a gamepad was connected.
	GamepadConnected struct {
		Gamepad GamepadID
	}

	// GamepadDisconnected indicates a gamepad was disconnected.
	GamepadDisconnected struct {
		Gamepad GamepadID
	}

	// GamepadButton indicates a gamepad button was pressed, repeated, or
	// released.
	GamepadButton struct {
		Gamepad GamepadID
		Button  GamepadButtonKind
		State   ElementState
		Repeat  bool
	}

	// GamepadAxis indicates a new value for a gamepad axis, in [-1, 1].
	GamepadAxis struct {
		Gamepad GamepadID
		Value   float32
		Axis    GamepadAxisKind
	}
)

func (Resized) isEvent()             {}
func (ScaleFactorChanged) isEvent()  {}
func (FocusChanged) isEvent()        {}
func (ReceivedCharacter) isEvent()   {}
func (KeyboardInput) isEvent()       {}
func (PointerEntered) isEvent()      {}
func (PointerLeft) isEvent()         {}
func (PointerMoved) isEvent()        {}
func (PointerInput) isEvent()        {}
func (ScrollInput) isEvent()         {}
func (ModifiersChanged) isEvent()    {}
func (GamepadConnected) isEvent()    {}
func (GamepadDisconnected) isEvent() {}
func (GamepadButton) isEvent()       {}
func (GamepadAxis) isEvent()         {}
