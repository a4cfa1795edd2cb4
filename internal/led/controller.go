package led

// Controller abstracts LED hardware control across different boards.
// Implementations map logical LED names to board-specific outputs.
type Controller interface {
	// Set switches a named LED on or off.
	// Returns an error if the name is unknown to this controller.
	Set(name string, on bool) error

	// Available returns the LED names this controller can drive.
	Available() []string

	// Close releases any held lines or handles.
	Close() error
}
