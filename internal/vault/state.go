package vault

// State is the lifecycle state of a KeyManager.
type State int

const (
	// StateUninitialized means no master key material exists.
	StateUninitialized State = iota
	// StateLocked means key material exists but the data key is not loaded.
	StateLocked
	// StateUnlocked means the data key is loaded and records can be sealed and opened.
	StateUnlocked
	// StateRotating is held while new key material is being persisted.
	StateRotating
)

// String returns a string representation of State.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	case StateRotating:
		return "rotating"
	default:
		return "unknown"
	}
}
