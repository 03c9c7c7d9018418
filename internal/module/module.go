package module

import (
	"fmt"
	"strings"
	"sync"

	"powerisland/internal/activity"
	"powerisland/internal/api"
	"powerisland/internal/config"
	"powerisland/internal/producer"
	"powerisland/internal/uiserver"
	"powerisland/internal/watcher"
	"powerisland/pkg/logging"
)

const (
	// Name is the module name carried in every activity identifier.
	Name = "power"

	activityKind = "power-activity"
)

// Module is the power module: it keeps the activity set synchronized with the
// resolved configuration and the devices on the bus. It implements the host
// boundary (api.Module).
type Module struct {
	mu       sync.RWMutex
	cfg      config.MainConfig
	registry *activity.Registry
	rt       *producer.Runtime
	bus      watcher.Bus
	ui       uiserver.Server
}

var _ api.Module = (*Module)(nil)

// New creates the module with the compiled-default configuration. The module
// being loaded means at least one activity, so the default window map gets
// one default instance under the empty window name.
func New(bus watcher.Bus, ui uiserver.Server) *Module {
	cfg := config.DefaultMain()
	cfg.Windows[""] = []config.BaseConfig{config.Default()}

	return &Module{
		cfg:      cfg,
		registry: activity.NewRegistry(),
		rt:       producer.New(),
		bus:      bus,
		ui:       ui,
	}
}

// Init registers the reconciliation producer, which also spawns the first
// generation of tasks.
func (m *Module) Init() {
	m.rt.RegisterProducer(m.producer)
}

// Config returns the current resolved configuration as a whole value.
func (m *Module) Config() config.MainConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Registry returns the activity registry.
func (m *Module) Registry() *activity.Registry {
	return m.registry
}

// Runtime returns the producer runtime.
func (m *Module) Runtime() *producer.Runtime {
	return m.rt
}

// UpdateConfig parses a raw overlay configuration and replaces the current
// MainConfig wholesale. On a parse error the previous good configuration is
// retained.
func (m *Module) UpdateConfig(raw []byte) error {
	overlay, err := config.ParseOverlayMain(raw)
	if err != nil {
		logging.Error("Module", err, "Failed to parse configuration")
		return err
	}
	m.SetMainConfig(overlay.ResolveMain())
	return nil
}

// SetMainConfig replaces the current configuration with an already resolved
// one. An empty window map gets one default instance so the module always
// shows something.
func (m *Module) SetMainConfig(cfg config.MainConfig) {
	if len(cfg.Windows) == 0 {
		cfg.Windows = map[string][]config.BaseConfig{"": {cfg.DefaultConf()}}
	}

	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()

	logging.Debug("Module", "Configuration replaced (%d windows)", len(cfg.Windows))
}

// DefaultConfig returns the serialized compiled-default configuration.
func (m *Module) DefaultConfig() ([]byte, error) {
	return config.DefaultYAML()
}

// RestartProducers replaces the current producer generation wholesale:
// shutdown, reset, then respawn every producer against the current
// configuration. Used on structural config changes or an explicit restart.
func (m *Module) RestartProducers() {
	m.rt.Restart()
}

// Shutdown stops the producer runtime and withdraws every registered
// activity from the UI server.
func (m *Module) Shutdown() error {
	err := m.rt.Shutdown()
	if err != nil {
		logging.Warn("Module", "Shutdown incomplete: %v", err)
	}

	for _, act := range m.registry.All() {
		m.unregisterActivity(act.Identifier())
	}
	return err
}

// CLICommand executes a host-forwarded CLI command.
func (m *Module) CLICommand(command string) (string, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return cliHelp, nil
	}
	switch fields[0] {
	case "list":
		return ListDevices()
	case "help":
		return cliHelp, nil
	default:
		return "", fmt.Errorf("unknown command: %s", command)
	}
}

const cliHelp = `Commands:
    list: list the available batteries`

// unregisterActivity withdraws one activity from the UI server and the
// registry. UI failures are logged; the local removal still happens.
func (m *Module) unregisterActivity(id activity.Identifier) {
	if _, registered := m.registry.Get(id); !registered {
		return
	}
	if err := m.ui.RemoveActivity(id); err != nil {
		logging.Error("Module", err, "Failed to remove activity %s from UI server", id)
	}
	if err := m.registry.Unregister(id); err != nil {
		logging.Error("Module", err, "Failed to unregister activity %s", id)
	}
}
