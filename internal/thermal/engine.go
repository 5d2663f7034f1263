package thermal

// Result is the complete output record of one engine invocation: the
// heat-balance chain, airflow and temperature derivations, efficiency
// figures, the generated equipment layout, the synthesized temperature field
// and its statistics.
type Result struct {
	Balance      HeatBalance  `json:"balance"`
	Airflow      Airflow      `json:"airflow"`
	Temperatures Temperatures `json:"temperatures"`
	Efficiency   Efficiency   `json:"efficiency"`
	Stats        FieldStats   `json:"stats"`

	Racks          []Rack      `json:"racks"`
	AirHandlers    []Placement `json:"air_handlers"`
	HeatExchangers []Placement `json:"heat_exchangers"`

	Field Field `json:"field"`

	RoomVolumeM3    float64 `json:"room_volume_m3"`
	AlertThresholdC float64 `json:"alert_threshold_c"`
}

// Compute runs the steady-state thermal model: layout generation, the
// four-stage heat cascade, airflow and temperature derivation, efficiency,
// then field synthesis and statistics. It is a pure function of its inputs;
// degenerate configurations (zero racks, zero handlers, zero volume) produce
// defined zero-valued outputs, never a fault.
func Compute(cfg Config, k Constants) Result {
	racks := GenerateRacks(cfg, k)
	handlers := PlaceAirHandlers(cfg, k)
	exchangers := PlaceHeatExchangers(cfg, k)

	hb := ComputeHeatBalance(cfg)
	air := deriveAirflow(cfg, k, hb.QTotalKW*1000)
	temps := deriveTemperatures(cfg, k, hb, air)
	eff := deriveEfficiency(cfg, k, hb, air)

	field := synthesizeField(cfg, k, hb, air, temps, racks, handlers, exchangers)

	return Result{
		Balance:         hb,
		Airflow:         air,
		Temperatures:    temps,
		Efficiency:      eff,
		Stats:           field.Stats(cfg.AlertThresholdC),
		Racks:           racks,
		AirHandlers:     handlers,
		HeatExchangers:  exchangers,
		Field:           field,
		RoomVolumeM3:    cfg.RoomVolume(),
		AlertThresholdC: cfg.AlertThresholdC,
	}
}
