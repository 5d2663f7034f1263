package thermal

import "errors"

var (
	ErrInvalidGeometry      = errors.New("room dimensions must be positive")
	ErrInvalidLayout        = errors.New("rack layout counts must be non-negative")
	ErrInvalidRackPower     = errors.New("rack power must be non-negative")
	ErrInvalidEffectiveness = errors.New("effectiveness must be in [0, 1)")
	ErrInvalidHXConfig      = errors.New("heat exchanger count and capacity must be non-negative")
	ErrInvalidAirflowConfig = errors.New("air handler count and airflow must be non-negative")
)
