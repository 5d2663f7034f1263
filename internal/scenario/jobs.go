package scenario

import "fmt"

// PowerTier is an integer enum for the per-rack power draw of a scheduled
// job.
type PowerTier int

const (
	TierUnknown PowerTier = iota
	TierLow
	TierMedium
	TierHigh
)

func (p PowerTier) Valid() bool {
	return p == TierLow || p == TierMedium || p == TierHigh
}

func (p PowerTier) String() string {
	switch p {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// KW is the per-rack power draw the tier stands for.
func (p PowerTier) KW() float64 {
	switch p {
	case TierLow:
		return 20.0
	case TierMedium:
		return 40.0
	case TierHigh:
		return 55.0
	default:
		return 0
	}
}

func ParsePowerTier(s string) (PowerTier, error) {
	switch s {
	case "low":
		return TierLow, nil
	case "medium":
		return TierMedium, nil
	case "high":
		return TierHigh, nil
	default:
		return TierUnknown, fmt.Errorf("invalid power tier: %q", s)
	}
}

// Job is a time-windowed workload reservation. Jobs are collected for the
// operator's planning view only: they do not yet drive the engine, which
// stays steady-state. Feeding the schedule into a time series of engine
// runs is a future extension.
type Job struct {
	ID            int       `json:"id"`
	StartHour     int       `json:"start_hour"`
	StartMin      int       `json:"start_min"`
	DurationHours float64   `json:"duration_hours"`
	Tier          PowerTier `json:"-"`
	NumRacks      int       `json:"num_racks"`
}

// StartTime is the start expressed in fractional hours since midnight.
func (j Job) StartTime() float64 {
	return float64(j.StartHour) + float64(j.StartMin)/60.0
}

func (j Job) EndTime() float64 {
	return j.StartTime() + j.DurationHours
}

// TotalPowerKW is the job's aggregate draw across its racks.
func (j Job) TotalPowerKW() float64 {
	return j.Tier.KW() * float64(j.NumRacks)
}

func (j Job) validate(totalRacks int) error {
	if j.StartHour < 0 || j.StartHour > 23 || j.StartMin < 0 || j.StartMin > 59 {
		return ErrInvalidJobStart
	}
	if j.DurationHours < 0.5 || j.DurationHours > 24 {
		return ErrInvalidJobDuration
	}
	if !j.Tier.Valid() {
		return ErrInvalidPowerTier
	}
	if j.NumRacks < 1 || j.NumRacks > totalRacks {
		return ErrInvalidJobRacks
	}
	return nil
}
