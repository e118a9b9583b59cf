// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package event

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		raw      Raw
		expected Event
	}{
		{
			name:     "Resized",
			raw:      Raw{Kind: RawResized, X: 800, Y: 600},
			expected: Resized{Size: Vec2{X: 800, Y: 600}},
		},
		{
			name:     "ScaleFactor",
			raw:      Raw{Kind: RawScaleFactor, Value: 1.5},
			expected: ScaleFactorChanged{Scale: 1.5},
		},
		{
			name:     "Focus",
			raw:      Raw{Kind: RawFocus, Focused: true},
			expected: FocusChanged{Focused: true},
		},
		{
			name:     "Character",
			raw:      Raw{Kind: RawCharacter, Char: 'é'},
			expected: ReceivedCharacter{Char: 'é'},
		},
		{
			name:     "KeyPress",
			raw:      Raw{Kind: RawKey, Code: 256, Action: ActionPress},
			expected: KeyboardInput{Key: KeyEscape, State: Pressed},
		},
		{
			name:     "KeyRelease",
			raw:      Raw{Kind: RawKey, Code: 65, Action: ActionRelease},
			expected: KeyboardInput{Key: KeyA, State: Released},
		},
		{
			name: "KeyRepeat",
			raw:  Raw{Kind: RawKey, Code: 65, Action: ActionRepeat},
		},
		{
			name: "KeyUnknownCode",
			raw:  Raw{Kind: RawKey, Code: 9999, Action: ActionPress},
		},
		{
			name:     "CursorEntered",
			raw:      Raw{Kind: RawCursorEntered, Device: 3},
			expected: PointerEntered{Pointer: 3},
		},
		{
			name:     "CursorLeft",
			raw:      Raw{Kind: RawCursorLeft, Device: 3},
			expected: PointerLeft{Pointer: 3},
		},
		{
			name:     "CursorMoved",
			raw:      Raw{Kind: RawCursorMoved, Device: 1, X: 10.5, Y: -2},
			expected: PointerMoved{Location: Vec2{X: 10.5, Y: -2}, Pointer: 1},
		},
		{
			name:     "MouseMiddle",
			raw:      Raw{Kind: RawMouseButton, Code: 2, Action: ActionPress},
			expected: PointerInput{Button: MouseButtonMiddle, State: Pressed},
		},
		{
			name:     "MouseOther",
			raw:      Raw{Kind: RawMouseButton, Code: 5, Action: ActionRelease},
			expected: PointerInput{Button: MouseButtonOther + 2, State: Released},
		},
		{
			name: "MouseOutOfRange",
			raw:  Raw{Kind: RawMouseButton, Code: 256, Action: ActionPress},
		},
		{
			name:     "ScrollLines",
			raw:      Raw{Kind: RawScroll, Y: -1},
			expected: ScrollInput{Delta: ScrollDelta{Delta: Vec2{Y: -1}}},
		},
		{
			name:     "ScrollPixels",
			raw:      Raw{Kind: RawScroll, X: 4, Pixels: true},
			expected: ScrollInput{Delta: ScrollDelta{Delta: Vec2{X: 4}, Pixels: true}},
		},
		{
			name:     "Modifiers",
			raw:      Raw{Kind: RawModifiers, Mods: ModShift | ModLogo | 0x30},
			expected: ModifiersChanged{Modifiers: ModShift | ModLogo},
		},
		{
			name:     "GamepadConnected",
			raw:      Raw{Kind: RawGamepadConnected, Device: 7},
			expected: GamepadConnected{Gamepad: 7},
		},
		{
			name:     "GamepadDisconnected",
			raw:      Raw{Kind: RawGamepadDisconnected, Device: 7},
			expected: GamepadDisconnected{Gamepad: 7},
		},
		{
			name:     "GamepadButtonRepeat",
			raw:      Raw{Kind: RawGamepadButton, Device: 7, Code: 14, Action: ActionRepeat},
			expected: GamepadButton{Gamepad: 7, Button: GamepadDPadLeft, State: Pressed, Repeat: true},
		},
		{
			name: "GamepadButtonUnmapped",
			raw:  Raw{Kind: RawGamepadButton, Device: 7, Code: 15, Action: ActionPress},
		},
		{
			name:     "GamepadAxis",
			raw:      Raw{Kind: RawGamepadAxis, Device: 7, Code: 5, Value: -0.5},
			expected: GamepadAxis{Gamepad: 7, Value: -0.5, Axis: GamepadRightZ},
		},
		{
			name: "GamepadAxisUnmapped",
			raw:  Raw{Kind: RawGamepadAxis, Device: 7, Code: 6, Value: 1},
		},
		{
			name: "Unknown",
			raw:  Raw{Kind: RawUnknown},
		},
		{
			name: "InvalidKind",
			raw:  Raw{Kind: 200},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := Convert(tt.raw)
			if tt.expected == nil {
				assert.False(t, ok)
				assert.Nil(t, ev)
				return
			}
			assert.True(t, ok)
			if diff := cmp.Diff(tt.expected, ev); diff != "" {
				t.Errorf("unexpected event (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeyCodes_unique(t *testing.T) {
	seen := make(map[Key]uint32, len(keyCodes))
	for code, key := range keyCodes {
		if other, ok := seen[key]; ok {
			t.Errorf("key %s mapped from both %d and %d", key, other, code)
		}
		seen[key] = code
		assert.NotEqual(t, KeyUnknown, key)
		assert.NotEqual(t, "Unknown", key.String(), "code %d", code)
	}
	// every key except KeyUnknown is reachable
	assert.Len(t, seen, len(keyNames)-1)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "Escape", KeyEscape.String())
	assert.Equal(t, "Unknown", Key(250).String())
	assert.Equal(t, "Pressed", Pressed.String())
	assert.Equal(t, "Released", Released.String())
	assert.Equal(t, "Left", MouseButtonLeft.String())
	assert.Equal(t, "Other(4)", (MouseButtonOther + 4).String())
	assert.Equal(t, "None", Modifiers(0).String())
	assert.Equal(t, "Shift|Alt", (ModShift | ModAlt).String())
	assert.Equal(t, "DPadLeft", GamepadDPadLeft.String())
	assert.Equal(t, "Unknown", GamepadButtonKind(100).String())
	assert.Equal(t, "RightZ", GamepadRightZ.String())
	assert.Equal(t, "Unknown", GamepadAxisKind(100).String())
}

func TestModifiers(t *testing.T) {
	m := ModCtrl | ModLogo
	assert.False(t, m.Shift())
	assert.True(t, m.Ctrl())
	assert.False(t, m.Alt())
	assert.True(t, m.Logo())
}

func TestParseKey(t *testing.T) {
	for k := range Key(len(keyNames)) {
		if k == KeyUnknown {
			continue
		}
		parsed, ok := ParseKey(k.String())
		if assert.True(t, ok, "key %d", k) {
			assert.Equal(t, k, parsed)
		}

		code, ok := k.Code()
		if assert.True(t, ok, "key %s", k) {
			ev, ok := Convert(Raw{Kind: RawKey, Code: code, Action: ActionPress})
			assert.True(t, ok)
			assert.Equal(t, KeyboardInput{Key: k, State: Pressed}, ev)
		}
	}

	_, ok := ParseKey("Unknown")
	assert.False(t, ok)
	_, ok = ParseKey("nope")
	assert.False(t, ok)
	_, ok = KeyUnknown.Code()
	assert.False(t, ok)
}
