package thermal

import (
	"math"
	"testing"
)

func assertConserved(t *testing.T, hb HeatBalance) {
	t.Helper()
	sum := hb.QDCLCKW + hb.QRDHXKW + hb.QHXRemovedKW + hb.QRemainingKW
	if hb.QTotalKW == 0 {
		if sum != 0 {
			t.Fatalf("zero-load cascade leaked %v kW", sum)
		}
		return
	}
	rel := math.Abs(sum-hb.QTotalKW) / hb.QTotalKW
	if rel > 1e-6 {
		t.Fatalf("energy not conserved: stages sum to %v, total %v (rel err %v)",
			sum, hb.QTotalKW, rel)
	}
}

func TestHeatBalanceConservation(t *testing.T) {
	tests := []struct {
		name string
		opt  func(*Config)
	}{
		{"baseline", func(c *Config) {}},
		{"zero effectiveness", func(c *Config) {
			c.DCLCEffectiveness = 0
			c.RDHXEffectiveness = 0
		}},
		{"max effectiveness", func(c *Config) {
			c.DCLCEffectiveness = 0.5
			c.RDHXEffectiveness = 0.97
		}},
		{"zero heat exchangers", func(c *Config) { c.NumHeatExchangers = 0 }},
		{"saturated heat exchangers", func(c *Config) {
			c.NumHeatExchangers = 2
			c.HXCapacityKW = 30
		}},
		{"oversized heat exchangers", func(c *Config) {
			c.NumHeatExchangers = 2
			c.HXCapacityKW = 5000
		}},
		{"zero air handlers", func(c *Config) { c.NumAirHandlers = 0 }},
		{"zero load", func(c *Config) { c.NumRows = 0 }},
		{"single rack", func(c *Config) {
			c.NumRows = 1
			c.RacksPerRow = 1
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertConserved(t, ComputeHeatBalance(newTestConfig(tt.opt)))
		})
	}
}

func TestHeatBalanceCapacityClamp(t *testing.T) {
	// 10 racks × 40 kW, no DCLC, RDHX tuned so exactly 100 kW reaches the
	// exchangers; a single 60 kW unit must clamp, not absorb everything.
	cfg := newTestConfig(func(c *Config) {
		c.NumRows = 1
		c.RacksPerRow = 10
		c.DCLCEffectiveness = 0
		c.RDHXEffectiveness = 0.75
		c.NumHeatExchangers = 1
		c.HXCapacityKW = 60
	})
	hb := ComputeHeatBalance(cfg)

	assertApprox(t, "QToAirBeforeHX", hb.QToAirBeforeHXKW, 100, 1e-9)
	assertApprox(t, "QHXRemoved", hb.QHXRemovedKW, 60, 1e-9)
	assertApprox(t, "QRemaining", hb.QRemainingKW, 40, 1e-9)
	assertConserved(t, hb)
}

func TestHeatBalanceStageOrdering(t *testing.T) {
	hb := ComputeHeatBalance(newTestConfig(func(c *Config) {
		c.NumHeatExchangers = 2
	}))

	if hb.QDCLCKW > hb.QTotalKW {
		t.Fatal("DCLC captured more than the total load")
	}
	if hb.QRDHXKW > hb.QAfterDCLCKW {
		t.Fatal("RDHX captured more than its input")
	}
	if hb.QHXRemovedKW > hb.QToAirBeforeHXKW {
		t.Fatal("heat exchangers captured more than their input")
	}
	if hb.QRemainingKW < 0 {
		t.Fatal("negative remaining heat")
	}
}

func TestHeatBalanceMonotonicity(t *testing.T) {
	k := DefaultConstants()

	prevRemaining := math.Inf(1)
	prevRoom := math.Inf(1)
	for _, eff := range []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5} {
		res := Compute(newTestConfig(func(c *Config) {
			c.DCLCEffectiveness = eff
		}), k)
		if res.Balance.QRemainingKW > prevRemaining {
			t.Fatalf("raising DCLC to %v increased remaining heat", eff)
		}
		if res.Temperatures.Room > prevRoom {
			t.Fatalf("raising DCLC to %v increased room temperature", eff)
		}
		prevRemaining = res.Balance.QRemainingKW
		prevRoom = res.Temperatures.Room
	}

	prevRemaining = math.Inf(1)
	prevRoom = math.Inf(1)
	for _, eff := range []float64{0, 0.3, 0.6, 0.9, 0.97} {
		res := Compute(newTestConfig(func(c *Config) {
			c.RDHXEffectiveness = eff
		}), k)
		if res.Balance.QRemainingKW > prevRemaining {
			t.Fatalf("raising RDHX to %v increased remaining heat", eff)
		}
		if res.Temperatures.Room > prevRoom {
			t.Fatalf("raising RDHX to %v increased room temperature", eff)
		}
		prevRemaining = res.Balance.QRemainingKW
		prevRoom = res.Temperatures.Room
	}
}

func TestLiquidCoolingTotal(t *testing.T) {
	hb := ComputeHeatBalance(newTestConfig(func(c *Config) {
		c.NumHeatExchangers = 1
		c.HXCapacityKW = 60
	}))
	want := hb.QDCLCKW + hb.QRDHXKW + hb.QHXRemovedKW
	assertApprox(t, "QLiquidCooling", hb.QLiquidCoolingKW, want, 1e-9)
}
