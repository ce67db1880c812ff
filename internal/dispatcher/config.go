package dispatcher

import "fmt"

// Dispatch modes.
const (
	// ModeTable resolves labels through the registry map.
	ModeTable = "table"

	// ModeChain walks a chain of responsibility built from the registry
	// in registration order.
	ModeChain = "chain"
)

// Config holds dispatcher configuration options.
type Config struct {
	// Mode selects how a label is resolved to its handler.
	Mode string

	// EnableMetrics enables dispatch timing and statistics collection.
	EnableMetrics bool

	// RecoverFromPanic wraps handler execution in panic recovery.
	RecoverFromPanic bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Mode:             ModeTable,
		EnableMetrics:    false,
		RecoverFromPanic: true,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.Mode {
	case "", ModeTable, ModeChain:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, c.Mode)
	}
}

// WithMode returns a copy of the config with the dispatch mode set.
func (c Config) WithMode(mode string) Config {
	c.Mode = mode
	return c
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}
