// Package api defines the boundary between the host-controlled runtime and
// the reconciliation core. The host calls into the core only through the
// Module interface; everything behind it is an implementation detail.
package api

// Module is the fixed polymorphic surface a host uses to drive one module.
type Module interface {
	// Init registers the module's producers and spawns the first generation
	// of watcher and coordinator tasks.
	Init()

	// UpdateConfig parses and applies a raw configuration. On a parse error
	// the previous good configuration is retained and the error returned;
	// there is no partial apply.
	UpdateConfig(raw []byte) error

	// DefaultConfig returns the serialized compiled-default configuration.
	DefaultConfig() ([]byte, error)

	// CLICommand executes a host-forwarded CLI command and returns its output.
	CLICommand(command string) (string, error)

	// RestartProducers replaces the current producer generation wholesale.
	RestartProducers()
}
