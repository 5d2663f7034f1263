package thermal

// Airflow is the room-level air circulation derived from the handler
// configuration, or from the natural-convection fallback when no handlers
// are configured.
type Airflow struct {
	TotalCFM          float64 `json:"total_cfm"`
	CFMPerHandler     float64 `json:"cfm_per_handler"`
	VolumetricFlowM3s float64 `json:"volumetric_flow_m3s"`
	MassFlowKgS       float64 `json:"mass_flow_kg_s"`
	ACH               float64 `json:"ach"`
	PowerDensityWM3   float64 `json:"power_density_w_m3"`
}

// Temperatures holds the bulk and rack-local temperature chain. All in °C
// except DeltaT values which are temperature rises in K.
type Temperatures struct {
	Inlet               float64 `json:"t_inlet"`
	Room                float64 `json:"t_room"`
	DeltaT              float64 `json:"delta_t"`
	RackExhaust         float64 `json:"t_rack_exhaust"`
	RackExhaustPostRDHX float64 `json:"t_rack_exhaust_after_rdhx"`
}

// deriveAirflow converts the handler configuration into SI mass-flow terms.
// With zero handlers the room still breathes: air changes scale with power
// density, clamped to the natural-convection band, and flow is back-derived
// from that ACH. A zero-volume room yields zero flow rather than dividing.
func deriveAirflow(cfg Config, k Constants, qTotalW float64) Airflow {
	volume := cfg.RoomVolume()

	var density float64
	if volume > 0 {
		density = qTotalW / volume
	}

	var a Airflow
	a.PowerDensityWM3 = density

	if cfg.NumAirHandlers > 0 {
		a.TotalCFM = float64(cfg.NumAirHandlers) * cfg.CFMPerHandler
		a.VolumetricFlowM3s = a.TotalCFM / k.CFMPerM3s
		a.MassFlowKgS = a.VolumetricFlowM3s * k.AirDensity
		if volume > 0 {
			a.ACH = a.VolumetricFlowM3s * 3600.0 / volume
		}
		a.CFMPerHandler = a.TotalCFM / float64(cfg.NumAirHandlers)
		return a
	}

	a.ACH = clamp(k.NaturalACHMin+density/1000.0, k.NaturalACHMin, k.NaturalACHMax)
	a.VolumetricFlowM3s = volume * a.ACH / 3600.0
	a.MassFlowKgS = a.VolumetricFlowM3s * k.AirDensity
	a.TotalCFM = a.VolumetricFlowM3s * k.CFMPerM3s
	return a
}

// deriveTemperatures applies Q = ṁ·cp·ΔT at two scales: the room loop
// (stage-4 remaining heat through the handler mass flow) and the rack
// exhaust stream (heat after DCLC through the rack-local flow estimated at
// RackCFMPerKW of IT load). The rack-exhaust rise uses heat after DCLC, not
// after RDHX, because it is the air arriving at the RDHX inlet; the
// post-RDHX exhaust scales that same rise by the uncaptured fraction.
func deriveTemperatures(cfg Config, k Constants, hb HeatBalance, air Airflow) Temperatures {
	t := Temperatures{
		Inlet:               cfg.InletTempC,
		Room:                cfg.InletTempC,
		RackExhaust:         cfg.InletTempC,
		RackExhaustPostRDHX: cfg.InletTempC,
	}

	qRemainingW := hb.QRemainingKW * 1000
	if air.MassFlowKgS > 0 && qRemainingW > 0 {
		t.DeltaT = qRemainingW / (air.MassFlowKgS * k.SpecificHeat)
	}
	t.Room = cfg.InletTempC + t.DeltaT

	if cfg.TotalRacks() > 0 {
		rackCFM := hb.QTotalKW * k.RackCFMPerKW
		rackMassFlow := rackCFM / k.CFMPerM3s * k.AirDensity

		var deltaTRack float64
		if rackMassFlow > 0 {
			deltaTRack = hb.QAfterDCLCKW * 1000 / (rackMassFlow * k.SpecificHeat)
		}
		t.RackExhaust = cfg.InletTempC + deltaTRack
		t.RackExhaustPostRDHX = cfg.InletTempC + deltaTRack*(1-cfg.RDHXEffectiveness)
	}

	return t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
