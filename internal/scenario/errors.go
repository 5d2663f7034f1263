package scenario

import "errors"

var (
	ErrInvalidJobStart    = errors.New("job start time must fall within the day")
	ErrInvalidJobDuration = errors.New("job duration must be between 0.5 and 24 hours")
	ErrInvalidPowerTier   = errors.New("invalid power tier")
	ErrInvalidJobRacks    = errors.New("job rack count exceeds configured layout")
	ErrJobNotFound        = errors.New("job not found")
)
