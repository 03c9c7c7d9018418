package upower

// State is the charge state reported by a power device.
type State uint32

const (
	StateUnknown State = iota
	StateCharging
	StateDischarging
	StateEmpty
	StateFullyCharged
	StatePendingCharge
	StatePendingDischarge
)

// String makes State satisfy fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateCharging:
		return "charging"
	case StateDischarging:
		return "discharging"
	case StateEmpty:
		return "empty"
	case StateFullyCharged:
		return "fully-charged"
	case StatePendingCharge:
		return "pending-charge"
	case StatePendingDischarge:
		return "pending-discharge"
	default:
		return "unknown"
	}
}

// BatteryLevel is the coarse charge level for devices that report one.
type BatteryLevel uint32

const (
	LevelUnknown  BatteryLevel = 0
	LevelNone     BatteryLevel = 1
	LevelLow      BatteryLevel = 3
	LevelCritical BatteryLevel = 4
	LevelNormal   BatteryLevel = 6
	LevelHigh     BatteryLevel = 7
	LevelFull     BatteryLevel = 8
)

// Technology is the battery chemistry reported by the device.
type Technology uint32

const (
	TechnologyUnknown Technology = iota
	TechnologyLithiumIon
	TechnologyLithiumPolymer
	TechnologyLithiumIronPhosphate
	TechnologyLeadAcid
	TechnologyNickelCadmium
	TechnologyNickelMetalHydride
)

// WarningLevel is the device's warning severity.
type WarningLevel uint32

const (
	WarningUnknown WarningLevel = iota
	WarningNone
	WarningDischarging
	WarningLow
	WarningCritical
	WarningAction
)

// HistoryType selects which recorded series to fetch from a device.
type HistoryType string

const (
	HistoryCharge HistoryType = "charge"
	HistoryRate   HistoryType = "rate"
)

// HistoryEntry is one recorded sample of a device's history.
type HistoryEntry struct {
	Timestamp uint32
	Value     float64
	State     State
}
