package watcher

import "powerisland/internal/upower"

// Property names published into an activity's property bag by the update
// loop. Widgets subscribe to these by name.
const (
	PropPercentage = "percentage"
	PropCharging   = "charging"
	PropTimeTo     = "time-to"
	PropPoints     = "points"
)

// TimeTo is the value of the "time-to" property: the device state together
// with the estimated seconds to empty and to full.
type TimeTo struct {
	State       upower.State
	ToEmptySecs uint64
	ToFullSecs  uint64
}
