package config

import (
	"gopkg.in/yaml.v3"
)

// OverlayConfig mirrors BaseConfig with every field optional. Absent fields
// degrade to the corresponding default during resolution; present fields
// always win, one field at a time.
type OverlayConfig struct {
	Battery          *string       `yaml:"battery"`
	Name             *string       `yaml:"name"`
	HideIfMissing    *bool         `yaml:"hide_if_missing"`
	PercentageMarkup *string       `yaml:"percentage_markup"`
	ChargingColor    *string       `yaml:"charging_color"`
	NormalColor      *string       `yaml:"normal_color"`
	LowColor         *string       `yaml:"low_color"`
	BackgroundColor  *string       `yaml:"background_color"`
	Graph            *GraphOverlay `yaml:"graph"`
}

// GraphOverlay mirrors GraphConfig with every field optional.
type GraphOverlay struct {
	MaxDurationSecs *uint32 `yaml:"max_duration_secs"`
	DrawBars        *bool   `yaml:"draw_bars"`
}

// OverlayMain mirrors MainConfig with every global field optional plus the
// per-window lists of per-instance overlays.
type OverlayMain struct {
	HideIfMissing    *bool         `yaml:"hide_if_missing"`
	PercentageMarkup *string       `yaml:"percentage_markup"`
	ChargingColor    *string       `yaml:"charging_color"`
	NormalColor      *string       `yaml:"normal_color"`
	LowColor         *string       `yaml:"low_color"`
	BackgroundColor  *string       `yaml:"background_color"`
	Graph            *GraphOverlay `yaml:"graph"`

	Windows map[string][]OverlayConfig `yaml:"windows"`
}

func orDefault[T any](overlay *T, def T) T {
	if overlay != nil {
		return *overlay
	}
	return def
}

// Resolve merges the overlay against a fully defined default. Plain fields
// resolve with presence-wins semantics; the compound graph field resolves
// recursively against the default's graph.
func (o OverlayConfig) Resolve(def BaseConfig) BaseConfig {
	var graph GraphConfig
	if o.Graph != nil {
		graph = o.Graph.Resolve(def.Graph)
	} else {
		graph = def.Graph
	}
	return BaseConfig{
		Battery:          orDefault(o.Battery, def.Battery),
		Name:             orDefault(o.Name, def.Name),
		HideIfMissing:    orDefault(o.HideIfMissing, def.HideIfMissing),
		PercentageMarkup: orDefault(o.PercentageMarkup, def.PercentageMarkup),
		ChargingColor:    orDefault(o.ChargingColor, def.ChargingColor),
		NormalColor:      orDefault(o.NormalColor, def.NormalColor),
		LowColor:         orDefault(o.LowColor, def.LowColor),
		BackgroundColor:  orDefault(o.BackgroundColor, def.BackgroundColor),
		Graph:            graph,
	}
}

// Resolve merges the graph overlay against a fully defined default.
func (o GraphOverlay) Resolve(def GraphConfig) GraphConfig {
	return GraphConfig{
		MaxDurationSecs: orDefault(o.MaxDurationSecs, def.MaxDurationSecs),
		DrawBars:        orDefault(o.DrawBars, def.DrawBars),
	}
}

// ResolveMain resolves the top-level overlay into a complete MainConfig.
//
// Global fields resolve against the compiled defaults. Each per-instance
// overlay then resolves its ordinary fields against the resolved globals,
// while child-only fields resolve against the child default: a per-window
// default never supplies a child-only value. A window absent from the overlay
// simply has zero instances.
func (o OverlayMain) ResolveMain() MainConfig {
	childDefault := Default()
	main := MainConfig{
		HideIfMissing:    orDefault(o.HideIfMissing, childDefault.HideIfMissing),
		PercentageMarkup: orDefault(o.PercentageMarkup, childDefault.PercentageMarkup),
		ChargingColor:    orDefault(o.ChargingColor, childDefault.ChargingColor),
		NormalColor:      orDefault(o.NormalColor, childDefault.NormalColor),
		LowColor:         orDefault(o.LowColor, childDefault.LowColor),
		BackgroundColor:  orDefault(o.BackgroundColor, childDefault.BackgroundColor),
		Graph:            childDefault.Graph,
		Windows:          make(map[string][]BaseConfig),
	}
	if o.Graph != nil {
		main.Graph = o.Graph.Resolve(childDefault.Graph)
	}

	instanceDefault := main.DefaultConf()
	for window, overlays := range o.Windows {
		entries := make([]BaseConfig, 0, len(overlays))
		for _, overlay := range overlays {
			entries = append(entries, overlay.Resolve(instanceDefault))
		}
		main.Windows[window] = entries
	}
	return main
}

// ParseOverlayMain parses raw YAML into a top-level overlay. Malformed input
// surfaces a parse error to the caller; resolution itself never fails once
// parsing succeeded.
func ParseOverlayMain(raw []byte) (OverlayMain, error) {
	var overlay OverlayMain
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return OverlayMain{}, &ConfigError{
			ErrorType: ErrorTypeParse,
			Message:   "malformed overlay configuration",
			Err:       err,
		}
	}
	return overlay, nil
}

// DefaultYAML serializes the compiled-default MainConfig, used by the host's
// default-config entry point.
func DefaultYAML() ([]byte, error) {
	out, err := yaml.Marshal(DefaultMain())
	if err != nil {
		return nil, &ConfigError{
			ErrorType: ErrorTypeSerialize,
			Message:   "failed to serialize default configuration",
			Err:       err,
		}
	}
	return out, nil
}
