package app

import (
	"fmt"
	"io"
	"os"

	"powerisland/internal/config"
	"powerisland/internal/module"
	"powerisland/internal/uiserver"
	"powerisland/internal/upower"
	"powerisland/pkg/logging"
)

// Application bootstraps and runs the power module. Initialization is two
// phases: load configuration and construct the module, then Run spawns the
// producer generation and blocks until shutdown.
type Application struct {
	config     *Config
	configPath string
	bus        *upower.Client
	module     *module.Module
}

// NewApplication performs the bootstrap sequence: logging, bus connection,
// module construction and initial configuration load.
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	var logOutput io.Writer = os.Stdout
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(appLogLevel, logOutput)

	configPath := cfg.ConfigPath
	if configPath == "" {
		var err error
		configPath, err = config.DefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	bus, err := upower.NewSystem()
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to connect to the device bus")
		return nil, fmt.Errorf("failed to connect to the device bus: %w", err)
	}

	m := module.New(bus, uiserver.LogServer{})

	mainCfg, err := config.Load(configPath)
	if err != nil {
		bus.Close()
		logging.Error("Bootstrap", err, "Failed to load configuration from %s", configPath)
		return nil, err
	}
	m.SetMainConfig(mainCfg)

	return &Application{
		config:     cfg,
		configPath: configPath,
		bus:        bus,
		module:     m,
	}, nil
}

// Module returns the bootstrapped module.
func (a *Application) Module() *module.Module {
	return a.module
}
