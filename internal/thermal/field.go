package thermal

import "math"

// Field is the synthesized 2-D temperature distribution over the room
// footprint. T is row-major: T[j][i] is the cell at (X[i], Y[j]).
type Field struct {
	X []float64   `json:"x"`
	Y []float64   `json:"y"`
	T [][]float64 `json:"t"`
}

// FieldStats are the scalar statistics read off the grid.
type FieldStats struct {
	TMax           float64 `json:"t_max"`
	TMin           float64 `json:"t_min"`
	TAvg           float64 `json:"t_avg"`
	HotSpots       int     `json:"hot_spots"`
	HotSpotPercent float64 `json:"hot_spot_percent"`
}

// synthesizeField superimposes Gaussian plumes on the bulk room temperature:
// a heat bump per rack sized by the heat escaping to room air, a cooling dip
// per air handler splitting the airflow temperature drop, and a cooling dip
// per heat exchanger sized from its share of the stage-3 capture. The result
// is clamped to the physical band between slightly-mixed inlet air and the
// hottest plausible exhaust zone. This is a closed-form superposition, not a
// fluid solve; the constants are part of the output contract.
func synthesizeField(cfg Config, k Constants, hb HeatBalance, air Airflow, temps Temperatures,
	racks []Rack, handlers, exchangers []Placement) Field {

	nx := max(int(cfg.RoomLength/k.GridSpacing), k.MinGridCells)
	ny := max(int(cfg.RoomWidth/k.GridSpacing), k.MinGridCells)

	f := Field{
		X: linspace(0, cfg.RoomLength, nx),
		Y: linspace(0, cfg.RoomWidth, ny),
		T: make([][]float64, ny),
	}
	for j := range f.T {
		f.T[j] = make([]float64, nx)
		for i := range f.T[j] {
			f.T[j][i] = temps.Room
		}
	}

	// Heat not captured by DCLC or RDHX escapes near the racks.
	escapeFraction := (1 - cfg.DCLCEffectiveness) * (1 - cfg.RDHXEffectiveness)
	for _, rack := range racks {
		amplitude := rack.PowerKW * escapeFraction * k.PlumeDegPerKW
		addPlume(&f, rack.X, rack.Y, amplitude, k.RackPlumeRadius)
	}

	if cfg.NumAirHandlers > 0 && air.MassFlowKgS > 0 {
		perHandler := temps.DeltaT * 0.5 / float64(cfg.NumAirHandlers)
		for _, h := range handlers {
			addPlume(&f, h.X, h.Y, -perHandler, k.AHUPlumeRadius)
		}
	}

	if cfg.NumHeatExchangers > 0 && hb.QHXRemovedKW > 0 {
		var reduction float64
		if air.MassFlowKgS > 0 {
			reduction = hb.QHXRemovedKW * 1000 / (air.MassFlowKgS * k.SpecificHeat)
		}
		perHX := reduction / float64(cfg.NumHeatExchangers) * 0.3
		for _, hx := range exchangers {
			addPlume(&f, hx.X, hx.Y, -perHX, k.HXPlumeRadius)
		}
	}

	lo := cfg.InletTempC - 1.0
	hi := math.Max(temps.Room+10, temps.RackExhaustPostRDHX+3)
	for j := range f.T {
		for i := range f.T[j] {
			f.T[j][i] = clamp(f.T[j][i], lo, hi)
		}
	}
	return f
}

// addPlume adds a radially symmetric Gaussian bump (or dip, for negative
// amplitude) centered at (cx, cy) with the given falloff radius.
func addPlume(f *Field, cx, cy, amplitude, radius float64) {
	for j, y := range f.Y {
		dy := y - cy
		for i, x := range f.X {
			dx := x - cx
			d2 := dx*dx + dy*dy
			f.T[j][i] += amplitude * math.Exp(-d2/(radius*radius))
		}
	}
}

// Stats scans the grid once for min/max/mean and the cells above threshold.
func (f Field) Stats(thresholdC float64) FieldStats {
	s := FieldStats{
		TMin: math.Inf(1),
		TMax: math.Inf(-1),
	}
	var sum float64
	var cells int
	for j := range f.T {
		for _, t := range f.T[j] {
			s.TMin = math.Min(s.TMin, t)
			s.TMax = math.Max(s.TMax, t)
			sum += t
			cells++
			if t > thresholdC {
				s.HotSpots++
			}
		}
	}
	if cells > 0 {
		s.TAvg = sum / float64(cells)
		s.HotSpotPercent = float64(s.HotSpots) / float64(cells) * 100
	}
	return s
}

func linspace(lo, hi float64, n int) []float64 {
	xs := make([]float64, n)
	if n == 1 {
		xs[0] = lo
		return xs
	}
	step := (hi - lo) / float64(n-1)
	for i := range xs {
		xs[i] = lo + float64(i)*step
	}
	return xs
}
