package cpu

import "sync"

// A KeyCode is a number that represents a key on the Chip-8 hexadecimal keyboard.
// Only the numbers 0 through 15 (0x0 through 0xF) are valid KeyCodes.
type KeyCode byte

const (
	Key0 KeyCode = iota
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
)

// KeyState stores the state of the keyboard. Each index corresponds to one key,
// index 0 = '0', index 15 = 'F'. If the element at a key's index is true, the key is pressed.
type KeyState [16]bool

// Pressed reports whether key is pressed. Only the low nibble of key is used.
func (k KeyState) Pressed(key byte) bool {
	return k[key&0x0F]
}

// newlyPressed returns the lowest key that is pressed in k but was not pressed in prev.
func (k KeyState) newlyPressed(prev KeyState) (KeyCode, bool) {
	for i := range k {
		if k[i] && !prev[i] {
			return KeyCode(i), true
		}
	}
	return 0, false
}

// Keypad is a Keyboard that is fed from the outside, usually from the goroutine that
// handles window events, while the Chip8 polls it from its own goroutine.
// Poll always returns a consistent copy of all 16 keys.
type Keypad struct {
	mu    sync.Mutex
	state KeyState
}

// NewKeypad returns a Keypad with all keys released.
func NewKeypad() *Keypad {
	return &Keypad{}
}

// Press marks key as pressed.
func (k *Keypad) Press(key KeyCode) {
	k.mu.Lock()
	k.state[key&0x0F] = true
	k.mu.Unlock()
}

// Release marks key as released.
func (k *Keypad) Release(key KeyCode) {
	k.mu.Lock()
	k.state[key&0x0F] = false
	k.mu.Unlock()
}

// Set replaces the state of all keys at once.
func (k *Keypad) Set(state KeyState) {
	k.mu.Lock()
	k.state = state
	k.mu.Unlock()
}

// Poll implements Keyboard.
func (k *Keypad) Poll() KeyState {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.state
}
