package testutil

import (
	"github.com/pacelab/roomtherm/internal/scenario"
	"github.com/pacelab/roomtherm/internal/thermal"
)

// FakeScenarioService is a reusable fake implementing ports.ScenarioService.
// Put ONLY what multiple test packages need here.
type FakeScenarioService struct {
	Snap scenario.Snapshot
	Res  thermal.Result

	SetRoomHeightCalled bool
	SetRoomHeightArg    float64
	SetRoomHeightErr    error

	SetRackLayoutCalled bool
	SetRackLayoutRows   int
	SetRackLayoutPerRow int
	SetRackLayoutErr    error

	SetRackPowerCalled bool
	SetRackPowerArg    float64
	SetRackPowerErr    error

	SetDCLCCalled bool
	SetDCLCArg    float64
	SetDCLCErr    error

	SetRDHXCalled bool
	SetRDHXArg    float64
	SetRDHXErr    error

	SetHXCalled   bool
	SetHXCount    int
	SetHXCapacity float64
	SetHXErr      error

	SetAHUCalled bool
	SetAHUCount  int
	SetAHUCFM    float64
	SetAHUErr    error

	SetInletTempCalled bool
	SetInletTempArg    float64
	SetInletTempErr    error

	SetThresholdCalled bool
	SetThresholdArg    float64
	SetThresholdErr    error

	AddJobCalled bool
	AddJobArg    scenario.Job
	AddJobErr    error

	RemoveJobCalled bool
	RemoveJobArg    int
	RemoveJobErr    error

	ClearJobsCalled bool

	JobList   []scenario.Job
	nextJobID int
}

// NewFakeScenarioService seeds the fake with the baseline room so controller
// tests get plausible metrics without running the engine.
func NewFakeScenarioService() *FakeScenarioService {
	cfg := thermal.Config{
		RoomLength:        23.5712,
		RoomWidth:         27.1272,
		RoomHeight:        3.0,
		NumRows:           3,
		RacksPerRow:       20,
		RackPowerKW:       40,
		DCLCEffectiveness: 0.20,
		RDHXEffectiveness: 0.90,
		HXCapacityKW:      60,
		NumAirHandlers:    2,
		CFMPerHandler:     155000,
		InletTempC:        23.3,
		AlertThresholdC:   30,
	}
	return &FakeScenarioService{
		Snap: scenario.Snapshot{
			Config: cfg,
			Balance: thermal.HeatBalance{
				QTotalKW:         2400,
				QDCLCKW:          480,
				QAfterDCLCKW:     1920,
				QRDHXKW:          1728,
				QToAirBeforeHXKW: 192,
				QRemainingKW:     192,
				QLiquidCoolingKW: 2208,
			},
			Airflow: thermal.Airflow{
				TotalCFM:      310000,
				CFMPerHandler: 155000,
				ACH:           16.5,
			},
			Temperatures: thermal.Temperatures{
				Inlet:  23.3,
				Room:   24.4,
				DeltaT: 1.1,
			},
			Efficiency: thermal.Efficiency{
				PUE:                   1.27,
				LiquidCoolingFraction: 0.92,
			},
		},
	}
}

func (f *FakeScenarioService) Get() scenario.Snapshot { return f.Snap }

func (f *FakeScenarioService) Result() thermal.Result { return f.Res }

func (f *FakeScenarioService) SetRoomHeight(m float64) error {
	f.SetRoomHeightCalled = true
	f.SetRoomHeightArg = m
	if f.SetRoomHeightErr != nil {
		return f.SetRoomHeightErr
	}
	f.Snap.Config.RoomHeight = m
	return nil
}

func (f *FakeScenarioService) SetRackLayout(rows, racksPerRow int) error {
	f.SetRackLayoutCalled = true
	f.SetRackLayoutRows = rows
	f.SetRackLayoutPerRow = racksPerRow
	if f.SetRackLayoutErr != nil {
		return f.SetRackLayoutErr
	}
	f.Snap.Config.NumRows = rows
	f.Snap.Config.RacksPerRow = racksPerRow
	return nil
}

func (f *FakeScenarioService) SetRackPower(kw float64) error {
	f.SetRackPowerCalled = true
	f.SetRackPowerArg = kw
	if f.SetRackPowerErr != nil {
		return f.SetRackPowerErr
	}
	f.Snap.Config.RackPowerKW = kw
	return nil
}

func (f *FakeScenarioService) SetDCLCEffectiveness(v float64) error {
	f.SetDCLCCalled = true
	f.SetDCLCArg = v
	if f.SetDCLCErr != nil {
		return f.SetDCLCErr
	}
	f.Snap.Config.DCLCEffectiveness = v
	return nil
}

func (f *FakeScenarioService) SetRDHXEffectiveness(v float64) error {
	f.SetRDHXCalled = true
	f.SetRDHXArg = v
	if f.SetRDHXErr != nil {
		return f.SetRDHXErr
	}
	f.Snap.Config.RDHXEffectiveness = v
	return nil
}

func (f *FakeScenarioService) SetHeatExchangers(count int, capacityKW float64) error {
	f.SetHXCalled = true
	f.SetHXCount = count
	f.SetHXCapacity = capacityKW
	if f.SetHXErr != nil {
		return f.SetHXErr
	}
	f.Snap.Config.NumHeatExchangers = count
	f.Snap.Config.HXCapacityKW = capacityKW
	return nil
}

func (f *FakeScenarioService) SetAirHandlers(count int, cfm float64) error {
	f.SetAHUCalled = true
	f.SetAHUCount = count
	f.SetAHUCFM = cfm
	if f.SetAHUErr != nil {
		return f.SetAHUErr
	}
	f.Snap.Config.NumAirHandlers = count
	f.Snap.Config.CFMPerHandler = cfm
	return nil
}

func (f *FakeScenarioService) SetInletTemp(c float64) error {
	f.SetInletTempCalled = true
	f.SetInletTempArg = c
	if f.SetInletTempErr != nil {
		return f.SetInletTempErr
	}
	f.Snap.Config.InletTempC = c
	return nil
}

func (f *FakeScenarioService) SetAlertThreshold(c float64) error {
	f.SetThresholdCalled = true
	f.SetThresholdArg = c
	if f.SetThresholdErr != nil {
		return f.SetThresholdErr
	}
	f.Snap.Config.AlertThresholdC = c
	return nil
}

func (f *FakeScenarioService) AddJob(j scenario.Job) (scenario.Job, error) {
	f.AddJobCalled = true
	f.AddJobArg = j
	if f.AddJobErr != nil {
		return scenario.Job{}, f.AddJobErr
	}
	j.ID = f.nextJobID
	f.nextJobID++
	f.JobList = append(f.JobList, j)
	return j, nil
}

func (f *FakeScenarioService) Jobs() []scenario.Job {
	out := make([]scenario.Job, len(f.JobList))
	copy(out, f.JobList)
	return out
}

func (f *FakeScenarioService) RemoveJob(id int) error {
	f.RemoveJobCalled = true
	f.RemoveJobArg = id
	if f.RemoveJobErr != nil {
		return f.RemoveJobErr
	}
	for i, j := range f.JobList {
		if j.ID == id {
			f.JobList = append(f.JobList[:i], f.JobList[i+1:]...)
			return nil
		}
	}
	return scenario.ErrJobNotFound
}

func (f *FakeScenarioService) ClearJobs() {
	f.ClearJobsCalled = true
	f.JobList = nil
}
