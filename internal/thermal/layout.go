package thermal

// Rack is one physical unit in the generated layout. X/Y are the center of
// its footprint within the room.
type Rack struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	PowerKW float64 `json:"power_kw"`
	Width   float64 `json:"width"`
	Depth   float64 `json:"depth"`
}

// Placement is a cooling unit (air handler or heat exchanger) footprint.
// Side is set for air handlers only and names the wall the unit sits against.
type Placement struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Side   string  `json:"side,omitempty"`
}

// GenerateRacks lays out NumRows × RacksPerRow racks. Rows advance along the
// room's width axis from the wall clearance; racks within a row are centered
// along the room's length. The generator does not check that the layout fits
// inside the room.
func GenerateRacks(cfg Config, k Constants) []Rack {
	racks := make([]Rack, 0, cfg.TotalRacks())
	availableLength := cfg.RoomLength - 2*k.WallClearance

	for row := 0; row < cfg.NumRows; row++ {
		y := k.WallClearance + k.RackDepth/2 + float64(row)*(k.RackDepth+k.AisleWidth)
		rowWidth := float64(cfg.RacksPerRow) * k.RackWidth
		startX := k.WallClearance + (availableLength-rowWidth)/2

		for i := 0; i < cfg.RacksPerRow; i++ {
			racks = append(racks, Rack{
				X:       startX + float64(i)*k.RackWidth + k.RackWidth/2,
				Y:       y,
				PowerKW: cfg.RackPowerKW,
				Width:   k.RackWidth,
				Depth:   k.RackDepth,
			})
		}
	}
	return racks
}

// PlaceAirHandlers assigns up to four handlers to the canonical wall
// positions: left, right, top, bottom, in that order. Units on the top and
// bottom walls are rotated, so their footprint is swapped.
func PlaceAirHandlers(cfg Config, k Constants) []Placement {
	var units []Placement
	if cfg.NumAirHandlers >= 1 {
		units = append(units, Placement{
			X: 0.7, Y: cfg.RoomWidth / 2,
			Width: k.AHULength, Height: k.AHUWidth,
			Side: "left",
		})
	}
	if cfg.NumAirHandlers >= 2 {
		units = append(units, Placement{
			X: cfg.RoomLength - 0.7, Y: cfg.RoomWidth / 2,
			Width: k.AHULength, Height: k.AHUWidth,
			Side: "right",
		})
	}
	if cfg.NumAirHandlers >= 3 {
		units = append(units, Placement{
			X: cfg.RoomLength / 2, Y: 0.7,
			Width: k.AHUWidth, Height: k.AHULength,
			Side: "top",
		})
	}
	if cfg.NumAirHandlers >= 4 {
		units = append(units, Placement{
			X: cfg.RoomLength / 2, Y: cfg.RoomWidth - 0.7,
			Width: k.AHUWidth, Height: k.AHULength,
			Side: "bottom",
		})
	}
	return units
}

// PlaceHeatExchangers assigns up to two exchangers along the front wall at
// one quarter and three quarters of the room length.
func PlaceHeatExchangers(cfg Config, k Constants) []Placement {
	var units []Placement
	if cfg.NumHeatExchangers >= 1 {
		units = append(units, Placement{
			X: cfg.RoomLength * 0.25, Y: 0.7,
			Width: k.HXLength, Height: k.HXWidth,
		})
	}
	if cfg.NumHeatExchangers >= 2 {
		units = append(units, Placement{
			X: cfg.RoomLength * 0.75, Y: 0.7,
			Width: k.HXLength, Height: k.HXWidth,
		})
	}
	return units
}
