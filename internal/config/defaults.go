package config

// Default returns the compiled-in default activity configuration.
func Default() BaseConfig {
	return BaseConfig{
		Battery:          "",
		Name:             "",
		HideIfMissing:    true,
		PercentageMarkup: `<span font_desc="Monospace Bold 11" foreground="#FFFFFF00">{}</span>`,
		ChargingColor:    "#2EE81AFF",
		NormalColor:      "white",
		LowColor:         "#FDC400FF",
		BackgroundColor:  "#E6E6E699",
		Graph:            DefaultGraph(),
	}
}

// DefaultGraph returns the compiled-in default graph settings.
func DefaultGraph() GraphConfig {
	return GraphConfig{
		MaxDurationSecs: 36000,
		DrawBars:        true,
	}
}

// DefaultMain returns the compiled-in default module configuration: the
// non-child-only defaults with an empty window map.
func DefaultMain() MainConfig {
	childDefault := Default()
	return MainConfig{
		HideIfMissing:    childDefault.HideIfMissing,
		PercentageMarkup: childDefault.PercentageMarkup,
		ChargingColor:    childDefault.ChargingColor,
		NormalColor:      childDefault.NormalColor,
		LowColor:         childDefault.LowColor,
		BackgroundColor:  childDefault.BackgroundColor,
		Graph:            childDefault.Graph,
		Windows:          make(map[string][]BaseConfig),
	}
}
