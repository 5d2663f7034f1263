package scenario

import (
	"sort"
	"sync"

	"github.com/pacelab/roomtherm/internal/thermal"
)

// Snapshot is the scalar view of the current scenario: the configuration in
// force and the metric groups of the last engine run. The temperature grid
// is deliberately excluded; callers that need it use Result.
type Snapshot struct {
	Config       thermal.Config       `json:"config"`
	Balance      thermal.HeatBalance  `json:"balance"`
	Airflow      thermal.Airflow      `json:"airflow"`
	Temperatures thermal.Temperatures `json:"temperatures"`
	Efficiency   thermal.Efficiency   `json:"efficiency"`
	Stats        thermal.FieldStats   `json:"stats"`
}

// Scenario is the session object behind the dashboard: the current room
// configuration, the physical constants in use, the most recent engine
// result and the operator's job schedule. All mutation goes through setters
// that validate, commit and recompute; the engine itself stays a pure
// function.
type Scenario struct {
	mu     sync.RWMutex
	cfg    thermal.Config
	consts thermal.Constants
	res    thermal.Result

	jobs      []Job
	nextJobID int
}

func New(cfg thermal.Config, consts thermal.Constants) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scenario{cfg: cfg, consts: consts}
	s.res = thermal.Compute(cfg, consts)
	return s, nil
}

func (s *Scenario) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Config:       s.cfg,
		Balance:      s.res.Balance,
		Airflow:      s.res.Airflow,
		Temperatures: s.res.Temperatures,
		Efficiency:   s.res.Efficiency,
		Stats:        s.res.Stats,
	}
}

// Result returns the full engine output, including the temperature field
// and equipment layout.
func (s *Scenario) Result() thermal.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res
}

// apply mutates a copy of the configuration, validates it, and on success
// commits it and recomputes the result.
func (s *Scenario) apply(mutate func(*thermal.Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	mutate(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	s.cfg = next
	s.res = thermal.Compute(next, s.consts)
	return nil
}

func (s *Scenario) SetRoomHeight(m float64) error {
	return s.apply(func(c *thermal.Config) { c.RoomHeight = m })
}

func (s *Scenario) SetRackLayout(rows, racksPerRow int) error {
	return s.apply(func(c *thermal.Config) {
		c.NumRows = rows
		c.RacksPerRow = racksPerRow
	})
}

func (s *Scenario) SetRackPower(kw float64) error {
	return s.apply(func(c *thermal.Config) { c.RackPowerKW = kw })
}

func (s *Scenario) SetDCLCEffectiveness(f float64) error {
	return s.apply(func(c *thermal.Config) { c.DCLCEffectiveness = f })
}

func (s *Scenario) SetRDHXEffectiveness(f float64) error {
	return s.apply(func(c *thermal.Config) { c.RDHXEffectiveness = f })
}

func (s *Scenario) SetHeatExchangers(count int, capacityKW float64) error {
	return s.apply(func(c *thermal.Config) {
		c.NumHeatExchangers = count
		c.HXCapacityKW = capacityKW
	})
}

func (s *Scenario) SetAirHandlers(count int, cfmPerHandler float64) error {
	return s.apply(func(c *thermal.Config) {
		c.NumAirHandlers = count
		c.CFMPerHandler = cfmPerHandler
	})
}

func (s *Scenario) SetInletTemp(c float64) error {
	return s.apply(func(cfg *thermal.Config) { cfg.InletTempC = c })
}

func (s *Scenario) SetAlertThreshold(c float64) error {
	return s.apply(func(cfg *thermal.Config) { cfg.AlertThresholdC = c })
}

// ---- job schedule ----

// AddJob validates the job against the current layout, assigns it an ID and
// appends it to the schedule. The incoming ID field is ignored.
func (s *Scenario) AddJob(j Job) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := j.validate(s.cfg.TotalRacks()); err != nil {
		return Job{}, err
	}
	j.ID = s.nextJobID
	s.nextJobID++
	s.jobs = append(s.jobs, j)
	return j, nil
}

// Jobs returns a copy of the schedule ordered by start time.
func (s *Scenario) Jobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Job, len(s.jobs))
	copy(out, s.jobs)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].StartTime() < out[b].StartTime()
	})
	return out
}

func (s *Scenario) RemoveJob(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, j := range s.jobs {
		if j.ID == id {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			return nil
		}
	}
	return ErrJobNotFound
}

func (s *Scenario) ClearJobs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = nil
}
