package thermal

// HeatBalance is the four-stage cooling cascade applied to the total IT
// load. Stages are strictly ordered; each stage's input is the previous
// stage's unrecovered remainder, so the captured quantities and the final
// remainder always sum back to QTotalKW.
type HeatBalance struct {
	QTotalKW float64 `json:"q_total_kw"`

	// Stage 1: direct liquid cooling at the chip.
	QDCLCKW      float64 `json:"q_dclc_kw"`
	QAfterDCLCKW float64 `json:"q_after_dclc_kw"`

	// Stage 2: rear-door heat exchangers on rack exhaust.
	QRDHXKW          float64 `json:"q_rdhx_kw"`
	QToAirBeforeHXKW float64 `json:"q_to_air_before_hx_kw"`

	// Stage 3: capacity-limited waste-heat-recovery exchangers.
	QHXRemovedKW float64 `json:"q_hx_removed_kw"`

	// Stage 4: whatever is left lands on the room air loop.
	QRemainingKW float64 `json:"q_remaining_kw"`

	// DCLC + RDHX + HX, the heat available for reuse.
	QLiquidCoolingKW float64 `json:"q_liquid_cooling_kw"`
}

// ComputeHeatBalance runs the cascade. Effectiveness fractions are bounded
// to [0,1) by validation and the stage-3 capture is clamped to its input, so
// no stage can capture more heat than it receives.
func ComputeHeatBalance(cfg Config) HeatBalance {
	qTotal := float64(cfg.TotalRacks()) * cfg.RackPowerKW

	qDCLC := qTotal * cfg.DCLCEffectiveness
	qAfterDCLC := qTotal - qDCLC

	qRDHX := qAfterDCLC * cfg.RDHXEffectiveness
	qToAirBeforeHX := qAfterDCLC - qRDHX

	hxCapacity := float64(cfg.NumHeatExchangers) * cfg.HXCapacityKW
	qHXRemoved := min(qToAirBeforeHX, hxCapacity)
	qRemaining := qToAirBeforeHX - qHXRemoved

	return HeatBalance{
		QTotalKW:         qTotal,
		QDCLCKW:          qDCLC,
		QAfterDCLCKW:     qAfterDCLC,
		QRDHXKW:          qRDHX,
		QToAirBeforeHXKW: qToAirBeforeHX,
		QHXRemovedKW:     qHXRemoved,
		QRemainingKW:     qRemaining,
		QLiquidCoolingKW: qDCLC + qRDHX + qHXRemoved,
	}
}
