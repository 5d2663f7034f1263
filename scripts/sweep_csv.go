package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/pacelab/roomtherm/internal/thermal"
)

// Sweeps RDHX effectiveness over the baseline room and records how the heat
// balance, room temperature and PUE respond. Output is meant for plotting.
func SweepRDHX(filename string, steps int) error {
	cfg := thermal.Config{
		RoomLength:        23.5712,
		RoomWidth:         27.1272,
		RoomHeight:        3.0,
		NumRows:           3,
		RacksPerRow:       20,
		RackPowerKW:       40,
		DCLCEffectiveness: 0.20,
		NumAirHandlers:    2,
		CFMPerHandler:     155000,
		InletTempC:        23.3,
		AlertThresholdC:   30,
	}
	consts := thermal.DefaultConstants()

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{
		"RDHXEffectiveness", "QRDHX", "QRemaining", "RoomTemp", "DeltaT", "PUE", "LiquidFraction", "HotSpotPercent",
	}); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for i := 0; i <= steps; i++ {
		cfg.RDHXEffectiveness = 0.97 * float64(i) / float64(steps)

		res := thermal.Compute(cfg, consts)

		if err := writer.Write([]string{
			fmt.Sprintf("%.3f", cfg.RDHXEffectiveness),
			fmt.Sprintf("%.2f", res.Balance.QRDHXKW),
			fmt.Sprintf("%.2f", res.Balance.QRemainingKW),
			fmt.Sprintf("%.2f", res.Temperatures.Room),
			fmt.Sprintf("%.2f", res.Temperatures.DeltaT),
			fmt.Sprintf("%.3f", res.Efficiency.PUE),
			fmt.Sprintf("%.3f", res.Efficiency.LiquidCoolingFraction),
			fmt.Sprintf("%.2f", res.Stats.HotSpotPercent),
		}); err != nil {
			return fmt.Errorf("failed to write CSV record: %v", err)
		}
	}

	return nil
}

func main() {
	if err := SweepRDHX("rdhx_sweep.csv", 50); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
