package thermal

// Efficiency is the facility-level power picture derived from the cascade.
type Efficiency struct {
	PUE                   float64 `json:"pue"`
	LiquidCoolingFraction float64 `json:"liquid_cooling_fraction"`
	CoolingOverhead       float64 `json:"cooling_overhead_fraction"`
	TotalFacilityPowerKW  float64 `json:"total_facility_power_kw"`
}

// deriveEfficiency models cooling overhead as the air-cooled baseline minus
// a credit proportional to the liquid-captured fraction, plus fan power when
// air handlers run. A zero-load room is defined to have PUE 1.0.
func deriveEfficiency(cfg Config, k Constants, hb HeatBalance, air Airflow) Efficiency {
	var e Efficiency
	e.PUE = 1.0

	qTotalW := hb.QTotalKW * 1000
	if qTotalW > 0 {
		e.LiquidCoolingFraction = hb.QLiquidCoolingKW / hb.QTotalKW
	}

	overhead := k.BaseCoolingOverhead - k.LiquidCoolingCredit*e.LiquidCoolingFraction
	if cfg.NumAirHandlers > 0 && qTotalW > 0 {
		overhead += air.TotalCFM * k.FanWattsPerCFM / qTotalW
	}
	e.CoolingOverhead = overhead

	totalW := qTotalW * (1 + overhead)
	e.TotalFacilityPowerKW = totalW / 1000
	if qTotalW > 0 {
		e.PUE = totalW / qTotalW
	}
	return e
}
