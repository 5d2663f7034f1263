package thermal

import "testing"

func TestGenerateRacksCountAndPower(t *testing.T) {
	cfg := newTestConfig()
	racks := GenerateRacks(cfg, DefaultConstants())

	if len(racks) != 60 {
		t.Fatalf("expected 60 racks, got %d", len(racks))
	}
	for i, r := range racks {
		if r.PowerKW != cfg.RackPowerKW {
			t.Fatalf("rack %d power = %v, want %v", i, r.PowerKW, cfg.RackPowerKW)
		}
	}
}

func TestGenerateRacksRowSpacing(t *testing.T) {
	cfg := newTestConfig(func(c *Config) {
		c.NumRows = 3
		c.RacksPerRow = 2
	})
	k := DefaultConstants()
	racks := GenerateRacks(cfg, k)

	// First row sits at clearance + depth/2; each following row advances by
	// depth + aisle.
	wantY := k.WallClearance + k.RackDepth/2
	for row := 0; row < 3; row++ {
		for i := 0; i < 2; i++ {
			got := racks[row*2+i].Y
			assertApprox(t, "row y", got, wantY, 1e-12)
		}
		wantY += k.RackDepth + k.AisleWidth
	}
}

func TestGenerateRacksRowCentering(t *testing.T) {
	cfg := newTestConfig(func(c *Config) {
		c.NumRows = 1
		c.RacksPerRow = 4
	})
	k := DefaultConstants()
	racks := GenerateRacks(cfg, k)

	// Mean rack X must land on the room's horizontal center.
	var sum float64
	for _, r := range racks {
		sum += r.X
	}
	assertApprox(t, "row center", sum/4, cfg.RoomLength/2, 1e-9)

	// Adjacent racks abut exactly.
	for i := 1; i < len(racks); i++ {
		assertApprox(t, "rack pitch", racks[i].X-racks[i-1].X, k.RackWidth, 1e-12)
	}
}

func TestGenerateRacksUniquePositions(t *testing.T) {
	racks := GenerateRacks(newTestConfig(), DefaultConstants())

	seen := make(map[[2]float64]bool, len(racks))
	for _, r := range racks {
		key := [2]float64{r.X, r.Y}
		if seen[key] {
			t.Fatalf("duplicate rack position (%v, %v)", r.X, r.Y)
		}
		seen[key] = true
	}
}

func TestPlaceAirHandlers(t *testing.T) {
	tests := []struct {
		count     int
		wantSides []string
	}{
		{0, nil},
		{1, []string{"left"}},
		{2, []string{"left", "right"}},
		{3, []string{"left", "right", "top"}},
		{4, []string{"left", "right", "top", "bottom"}},
	}

	k := DefaultConstants()
	for _, tt := range tests {
		cfg := newTestConfig(func(c *Config) { c.NumAirHandlers = tt.count })
		units := PlaceAirHandlers(cfg, k)
		if len(units) != len(tt.wantSides) {
			t.Fatalf("count %d: got %d placements, want %d", tt.count, len(units), len(tt.wantSides))
		}
		for i, side := range tt.wantSides {
			if units[i].Side != side {
				t.Fatalf("count %d placement %d: side %q, want %q", tt.count, i, units[i].Side, side)
			}
		}
	}
}

func TestPlaceAirHandlersRotation(t *testing.T) {
	cfg := newTestConfig(func(c *Config) { c.NumAirHandlers = 4 })
	k := DefaultConstants()
	units := PlaceAirHandlers(cfg, k)

	// Wall units stand upright, top/bottom units are rotated.
	if units[0].Width != k.AHULength || units[0].Height != k.AHUWidth {
		t.Fatalf("left unit footprint %vx%v, want %vx%v",
			units[0].Width, units[0].Height, k.AHULength, k.AHUWidth)
	}
	if units[2].Width != k.AHUWidth || units[2].Height != k.AHULength {
		t.Fatalf("top unit footprint %vx%v, want %vx%v",
			units[2].Width, units[2].Height, k.AHUWidth, k.AHULength)
	}
}

func TestPlaceHeatExchangers(t *testing.T) {
	k := DefaultConstants()

	for count := 0; count <= 2; count++ {
		cfg := newTestConfig(func(c *Config) { c.NumHeatExchangers = count })
		units := PlaceHeatExchangers(cfg, k)
		if len(units) != count {
			t.Fatalf("count %d: got %d placements", count, len(units))
		}
	}

	cfg := newTestConfig(func(c *Config) { c.NumHeatExchangers = 2 })
	units := PlaceHeatExchangers(cfg, k)
	assertApprox(t, "hx1 x", units[0].X, cfg.RoomLength*0.25, 1e-12)
	assertApprox(t, "hx2 x", units[1].X, cfg.RoomLength*0.75, 1e-12)
}
