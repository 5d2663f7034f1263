package ports

import (
	"github.com/pacelab/roomtherm/internal/scenario"
	"github.com/pacelab/roomtherm/internal/thermal"
)

// ScenarioService is the control-plane port used by controllers
// (HTTP/MQTT/Modbus/WebSocket).
type ScenarioService interface {
	Get() scenario.Snapshot
	Result() thermal.Result

	SetRoomHeight(float64) error
	SetRackLayout(rows, racksPerRow int) error
	SetRackPower(float64) error
	SetDCLCEffectiveness(float64) error
	SetRDHXEffectiveness(float64) error
	SetHeatExchangers(count int, capacityKW float64) error
	SetAirHandlers(count int, cfmPerHandler float64) error
	SetInletTemp(float64) error
	SetAlertThreshold(float64) error

	AddJob(scenario.Job) (scenario.Job, error)
	Jobs() []scenario.Job
	RemoveJob(id int) error
	ClearJobs()
}
