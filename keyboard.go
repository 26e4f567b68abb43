package main

import (
	"github.com/go-gl/glfw/v3.2/glfw"

	"github.com/mpingram/chip8vm/cpu"
)

// keyMap maps the left hand side of a QWERTY keyboard to the hexadecimal Chip8 keypad:
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
var keyMap = [...]struct {
	key  glfw.Key
	code cpu.KeyCode
}{
	{glfw.Key1, cpu.Key1}, {glfw.Key2, cpu.Key2}, {glfw.Key3, cpu.Key3}, {glfw.Key4, cpu.KeyC},
	{glfw.KeyQ, cpu.Key4}, {glfw.KeyW, cpu.Key5}, {glfw.KeyE, cpu.Key6}, {glfw.KeyR, cpu.KeyD},
	{glfw.KeyA, cpu.Key7}, {glfw.KeyS, cpu.Key8}, {glfw.KeyD, cpu.Key9}, {glfw.KeyF, cpu.KeyE},
	{glfw.KeyZ, cpu.KeyA}, {glfw.KeyX, cpu.Key0}, {glfw.KeyC, cpu.KeyB}, {glfw.KeyV, cpu.KeyF},
}

// metaAction is an emulator control triggered from the keyboard.
type metaAction int

const (
	actionPowerOff metaAction = iota
	actionPause
	actionResume
	actionStep
	actionDump

	metaActionCount
)

var metaKeys = [metaActionCount]glfw.Key{
	actionPowerOff: glfw.KeyEscape,
	actionPause:    glfw.KeyP,
	actionResume:   glfw.KeyLeftBracket,
	actionStep:     glfw.KeyRightBracket,
	actionDump:     glfw.KeyO,
}

// keyStateFrom returns the Chip8 keypad state for the keyboard keys reported down by isDown.
func keyStateFrom(isDown func(glfw.Key) bool) cpu.KeyState {
	var state cpu.KeyState
	for _, m := range keyMap {
		if isDown(m.key) {
			state[m.code] = true
		}
	}
	return state
}

// keyboardInput feeds the Chip8 keypad from the window and detects meta key presses.
type keyboardInput struct {
	isDown func(glfw.Key) bool
	keypad *cpu.Keypad
	held   [metaActionCount]bool
}

func newGLFWKeyboardInput(window *glfw.Window, keypad *cpu.Keypad) *keyboardInput {
	return newKeyboardInput(func(key glfw.Key) bool {
		return window.GetKey(key) == glfw.Press
	}, keypad)
}

func newKeyboardInput(isDown func(glfw.Key) bool, keypad *cpu.Keypad) *keyboardInput {
	return &keyboardInput{isDown: isDown, keypad: keypad}
}

// update copies the current keyboard state to the keypad. It has to be called after the
// window events were polled. It returns the meta actions whose keys went down since the
// previous update; holding a meta key down triggers its action only once.
func (input *keyboardInput) update() []metaAction {
	input.keypad.Set(keyStateFrom(input.isDown))

	var actions []metaAction
	for action, key := range metaKeys {
		down := input.isDown(key)
		if down && !input.held[action] {
			actions = append(actions, metaAction(action))
		}
		input.held[action] = down
	}
	return actions
}
