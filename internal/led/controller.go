package led

// Controller drives the board status LEDs used as the record indicator.
// Boards name their LEDs differently and support different trigger patterns,
// so both are exposed for discovery rather than hardcoded.
type Controller interface {
	// Set switches one LED on or off. A non-empty pattern also installs a
	// trigger ("solid", "blink", "heartbeat"); an empty pattern leaves the
	// current trigger alone.
	Set(ledType string, enabled bool, pattern string) error

	// Available lists the LED identifiers this controller can drive.
	Available() []string

	// Patterns lists the trigger patterns this controller understands.
	Patterns() []string
}
