package config

// BaseConfig is one fully resolved activity configuration. Every field is
// always defined: values come from a per-instance overlay, the resolved
// globals or the compiled defaults, merged one field at a time.
//
// Battery and Name are child-only: they vary per instance and are never
// supplied by a per-window default, only by a per-instance overlay or the
// compiled default.
type BaseConfig struct {
	// Battery is the stable native path of the device to track. Empty means
	// track the bus's aggregate display device.
	Battery string `yaml:"battery"`

	// Name is a human-readable label shown as the widget tooltip.
	Name string `yaml:"name"`

	// HideIfMissing controls hysteresis: when false, an activity whose device
	// disappears stays registered and shows the aggregate device instead.
	HideIfMissing bool `yaml:"hide_if_missing"`

	// PercentageMarkup is the markup template for the percentage label.
	PercentageMarkup string `yaml:"percentage_markup"`

	ChargingColor   string `yaml:"charging_color"`
	NormalColor     string `yaml:"normal_color"`
	LowColor        string `yaml:"low_color"`
	BackgroundColor string `yaml:"background_color"`

	// Graph holds the history graph settings, a compound field with its own
	// overlay type.
	Graph GraphConfig `yaml:"graph"`
}

// GraphConfig configures the battery history graph.
type GraphConfig struct {
	// MaxDurationSecs is the history timespan requested from the bus.
	MaxDurationSecs uint32 `yaml:"max_duration_secs"`

	// DrawBars selects bar rendering instead of a line.
	DrawBars bool `yaml:"draw_bars"`
}

// MainConfig is the fully resolved module configuration: the globally shared
// non-child-only fields plus the per-window instance lists. List order is the
// sole source of instance indices; entry i of a window's list is instance i.
//
// MainConfig is replaced wholesale on every successful config reload, never
// mutated field by field.
type MainConfig struct {
	HideIfMissing    bool        `yaml:"hide_if_missing"`
	PercentageMarkup string      `yaml:"percentage_markup"`
	ChargingColor    string      `yaml:"charging_color"`
	NormalColor      string      `yaml:"normal_color"`
	LowColor         string      `yaml:"low_color"`
	BackgroundColor  string      `yaml:"background_color"`
	Graph            GraphConfig `yaml:"graph"`

	Windows map[string][]BaseConfig `yaml:"windows"`
}

// DefaultConf returns the configuration used for any activity that has no
// per-instance entry: the globally configured non-child-only fields combined
// with the compiled defaults of the child-only fields.
func (m MainConfig) DefaultConf() BaseConfig {
	childDefault := Default()
	return BaseConfig{
		Battery:          childDefault.Battery,
		Name:             childDefault.Name,
		HideIfMissing:    m.HideIfMissing,
		PercentageMarkup: m.PercentageMarkup,
		ChargingColor:    m.ChargingColor,
		NormalColor:      m.NormalColor,
		LowColor:         m.LowColor,
		BackgroundColor:  m.BackgroundColor,
		Graph:            m.Graph,
	}
}

// GetForWindow returns the resolved configuration for one activity instance.
// An index beyond the configured list, or a window with no configured
// entries, yields DefaultConf rather than an error: an activity always gets a
// usable configuration.
func (m MainConfig) GetForWindow(window string, idx int) BaseConfig {
	if entries, ok := m.Windows[window]; ok {
		if idx >= 0 && idx < len(entries) {
			return entries[idx]
		}
	}
	return m.DefaultConf()
}
