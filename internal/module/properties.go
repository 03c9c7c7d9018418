package module

import (
	"powerisland/internal/activity"
	"powerisland/internal/config"
	"powerisland/internal/upower"
	"powerisland/internal/watcher"
	"powerisland/pkg/logging"
)

// Style properties driven by configuration. Widgets subscribe to these the
// same way they subscribe to device readings.
const (
	PropTooltip          = "tooltip"
	PropChargingColor    = "charging-color"
	PropNormalColor      = "normal-color"
	PropLowColor         = "low-color"
	PropBackgroundColor  = "background-color"
	PropPercentageMarkup = "percentage-markup"
	PropDrawBars         = "draw-bars"
	PropMaxDurationSecs  = "max-duration-secs"
)

// declareProperties registers every property the module publishes on a new
// activity's bag. Declared once, at creation.
func declareProperties(act *activity.Activity) error {
	if _, err := activity.DeclareProp(act, watcher.PropPercentage, 0.0); err != nil {
		return err
	}
	if _, err := activity.DeclareProp(act, watcher.PropCharging, false); err != nil {
		return err
	}
	if _, err := activity.DeclareProp(act, watcher.PropTimeTo, watcher.TimeTo{}); err != nil {
		return err
	}
	if _, err := activity.DeclareProp(act, watcher.PropPoints, []upower.HistoryEntry(nil)); err != nil {
		return err
	}

	if _, err := activity.DeclareProp(act, PropTooltip, ""); err != nil {
		return err
	}
	if _, err := activity.DeclareProp(act, PropChargingColor, ""); err != nil {
		return err
	}
	if _, err := activity.DeclareProp(act, PropNormalColor, ""); err != nil {
		return err
	}
	if _, err := activity.DeclareProp(act, PropLowColor, ""); err != nil {
		return err
	}
	if _, err := activity.DeclareProp(act, PropBackgroundColor, ""); err != nil {
		return err
	}
	if _, err := activity.DeclareProp(act, PropPercentageMarkup, ""); err != nil {
		return err
	}
	if _, err := activity.DeclareProp(act, PropDrawBars, false); err != nil {
		return err
	}
	if _, err := activity.DeclareProp(act, PropMaxDurationSecs, uint32(0)); err != nil {
		return err
	}
	return nil
}

// applyConfig publishes a resolved configuration into an activity's style
// properties. Called at creation and again whenever the coordinator registers
// the activity under a reloaded configuration.
func applyConfig(act *activity.Activity, cfg config.BaseConfig) {
	setProp(act, PropTooltip, cfg.Name)
	setProp(act, PropChargingColor, cfg.ChargingColor)
	setProp(act, PropNormalColor, cfg.NormalColor)
	setProp(act, PropLowColor, cfg.LowColor)
	setProp(act, PropBackgroundColor, cfg.BackgroundColor)
	setProp(act, PropPercentageMarkup, cfg.PercentageMarkup)
	setProp(act, PropDrawBars, cfg.Graph.DrawBars)
	setProp(act, PropMaxDurationSecs, cfg.Graph.MaxDurationSecs)
}

func setProp[T any](act *activity.Activity, name string, value T) {
	p, err := activity.Prop[T](act, name)
	if err != nil {
		logging.Error("Module", err, "Cannot apply config to %s", act.Identifier())
		return
	}
	p.Set(value)
}
