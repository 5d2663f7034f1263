package thermal

// Config is the immutable input record for one engine invocation.
type Config struct {
	// Room geometry (meters)
	RoomLength float64
	RoomWidth  float64
	RoomHeight float64

	// Rack layout
	NumRows     int
	RacksPerRow int
	RackPowerKW float64

	// Cooling stages
	DCLCEffectiveness float64 // fraction of IT heat captured at the chip
	RDHXEffectiveness float64 // fraction of rack exhaust heat captured at the door
	NumHeatExchangers int
	HXCapacityKW      float64 // per unit

	// Air handling
	NumAirHandlers int
	CFMPerHandler  float64

	// Temperatures (°C)
	InletTempC      float64
	AlertThresholdC float64
}

// Validate checks the domain constraints callers are expected to enforce
// before invoking Compute. Zero rack counts and zero handler/exchanger counts
// are legal degenerate configurations, not errors.
func (c Config) Validate() error {
	if c.RoomLength <= 0 || c.RoomWidth <= 0 || c.RoomHeight <= 0 {
		return ErrInvalidGeometry
	}
	if c.NumRows < 0 || c.RacksPerRow < 0 {
		return ErrInvalidLayout
	}
	if c.RackPowerKW < 0 {
		return ErrInvalidRackPower
	}
	if c.DCLCEffectiveness < 0 || c.DCLCEffectiveness >= 1 {
		return ErrInvalidEffectiveness
	}
	if c.RDHXEffectiveness < 0 || c.RDHXEffectiveness >= 1 {
		return ErrInvalidEffectiveness
	}
	if c.NumHeatExchangers < 0 || c.HXCapacityKW < 0 {
		return ErrInvalidHXConfig
	}
	if c.NumAirHandlers < 0 || c.CFMPerHandler < 0 {
		return ErrInvalidAirflowConfig
	}
	return nil
}

// TotalRacks is the rack count the layout generator will produce.
func (c Config) TotalRacks() int {
	return c.NumRows * c.RacksPerRow
}

// RoomVolume in m³.
func (c Config) RoomVolume() float64 {
	return c.RoomLength * c.RoomWidth * c.RoomHeight
}
