package thermal

// Constants groups the physical and geometric constants the engine depends
// on. They are passed explicitly into Compute rather than hidden as package
// globals so scenario sweeps and tests can override individual values.
type Constants struct {
	// Air properties
	AirDensity   float64 // kg/m³
	SpecificHeat float64 // J/(kg·K)

	// Unit conversion
	CFMPerM3s float64 // CFM in one m³/s

	// Rack-local airflow assumption, distinct from room-level handler flow.
	RackCFMPerKW float64

	// Efficiency model
	FanWattsPerCFM      float64
	BaseCoolingOverhead float64 // overhead fraction of a pure air-cooled room
	LiquidCoolingCredit float64 // overhead reduction at 100% liquid capture

	// Natural-convection fallback when no air handlers are configured.
	NaturalACHMin float64
	NaturalACHMax float64

	// Rack layout geometry (meters)
	RackWidth     float64
	RackDepth     float64
	WallClearance float64
	AisleWidth    float64

	// Air handler footprint (meters)
	AHULength float64
	AHUWidth  float64

	// Heat exchanger footprint (meters)
	HXLength float64
	HXWidth  float64

	// Field synthesis
	GridSpacing     float64 // meters per cell
	MinGridCells    int     // per axis
	PlumeDegPerKW   float64 // °C contributed per kW escaping a rack
	RackPlumeRadius float64 // meters
	AHUPlumeRadius  float64 // meters
	HXPlumeRadius   float64 // meters
}

// DefaultConstants returns the reference values for a high-density air/liquid
// cooled room. Rack and AHU footprints are standard 19" rack and large CRAH
// dimensions.
func DefaultConstants() Constants {
	return Constants{
		AirDensity:   1.184,
		SpecificHeat: 1007.0,

		CFMPerM3s: 2119.0,

		RackCFMPerKW: 250.0,

		FanWattsPerCFM:      0.75,
		BaseCoolingOverhead: 0.50,
		LiquidCoolingCredit: 0.35,

		NaturalACHMin: 5.0,
		NaturalACHMax: 20.0,

		RackWidth:     0.762,
		RackDepth:     1.1684,
		WallClearance: 1.5,
		AisleWidth:    1.2446,

		AHULength: 1.6256,
		AHUWidth:  2.7432,

		HXLength: 1.2,
		HXWidth:  0.6,

		GridSpacing:     0.2,
		MinGridCells:    30,
		PlumeDegPerKW:   0.08,
		RackPlumeRadius: 0.8,
		AHUPlumeRadius:  3.0,
		HXPlumeRadius:   2.5,
	}
}
