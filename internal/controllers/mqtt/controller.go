package mqttctrl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/pacelab/roomtherm/internal/ports"
	"github.com/pacelab/roomtherm/internal/scenario"
)

type Config struct {
	// Identity
	RoomID string

	// MQTT connection
	BrokerURL string
	ClientID  string

	// Topics
	BaseTopic string

	// Behavior
	QoS             byte
	RetainSnapshot  bool
	PublishInterval time.Duration

	Username string
	Password string
}

type Controller struct {
	svc ports.ScenarioService
	cfg Config

	client mqtt.Client
}

func New(svc ports.ScenarioService, cfg Config) (*Controller, error) {
	// ---- defaults ----

	if cfg.BrokerURL == "" {
		cfg.BrokerURL = "tcp://localhost:1883"
	}

	if cfg.RoomID == "" {
		return nil, errors.New("mqtt: RoomID is required")
	}
	if cfg.BaseTopic == "" {
		cfg.BaseTopic = "roomtherm/" + cfg.RoomID
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "roomtherm-" + cfg.RoomID
	}
	if cfg.PublishInterval <= 0 {
		cfg.PublishInterval = 1 * time.Second
	}
	if cfg.QoS > 1 {
		return nil, errors.New("mqtt: QoS must be 0 or 1")
	}
	return &Controller{
		svc: svc,
		cfg: cfg,
	}, nil
}

func (c *Controller) Run(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(c.cfg.BrokerURL).
		SetClientID(c.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}

	// Subscribe when connected/reconnected.
	opts.OnConnect = func(cl mqtt.Client) {
		// Subscribe to all set commands under BaseTopic.
		topic := c.topic("set/+")
		token := cl.Subscribe(topic, c.cfg.QoS, c.onMessage)
		token.Wait()
		// If subscribe fails, paho exposes token.Error().
	}

	c.client = mqtt.NewClient(opts)
	tok := c.client.Connect()
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}

	// Publish loop: publish snapshot on interval, and only when changed.
	ticker := time.NewTicker(c.cfg.PublishInterval)
	defer ticker.Stop()

	var last scenario.Snapshot
	first := true

	// publish immediately once
	c.publishSnapshot()

	for {
		select {
		case <-ctx.Done():
			c.client.Disconnect(250)
			return ctx.Err()

		case <-ticker.C:
			cur := c.svc.Get()
			if first || cur != last {
				c.publishSnapshot()
				last = cur
				first = false
			}
		}
	}
}

func (c *Controller) publishSnapshot() {
	s := c.svc.Get()
	dto := snapshotDTO{
		NumRows:           s.Config.NumRows,
		RacksPerRow:       s.Config.RacksPerRow,
		RackPowerKW:       s.Config.RackPowerKW,
		DCLCEffectiveness: s.Config.DCLCEffectiveness,
		RDHXEffectiveness: s.Config.RDHXEffectiveness,
		NumHeatExchangers: s.Config.NumHeatExchangers,
		HXCapacityKW:      s.Config.HXCapacityKW,
		NumAirHandlers:    s.Config.NumAirHandlers,
		CFMPerHandler:     s.Config.CFMPerHandler,
		InletTempC:        s.Config.InletTempC,
		QTotalKW:          s.Balance.QTotalKW,
		QRemainingKW:      s.Balance.QRemainingKW,
		RoomTempC:         s.Temperatures.Room,
		DeltaTC:           s.Temperatures.DeltaT,
		PUE:               s.Efficiency.PUE,
		TotalCFM:          s.Airflow.TotalCFM,
		ACH:               s.Airflow.ACH,
		HotSpotPercent:    s.Stats.HotSpotPercent,
	}
	b, _ := json.Marshal(dto)
	c.client.Publish(c.topic("snapshot"), c.cfg.QoS, c.cfg.RetainSnapshot, b)
}

type snapshotDTO struct {
	NumRows           int     `json:"num_rows"`
	RacksPerRow       int     `json:"racks_per_row"`
	RackPowerKW       float64 `json:"rack_power_kw"`
	DCLCEffectiveness float64 `json:"dclc_effectiveness"`
	RDHXEffectiveness float64 `json:"rdhx_effectiveness"`
	NumHeatExchangers int     `json:"num_heat_exchangers"`
	HXCapacityKW      float64 `json:"hx_capacity_kw"`
	NumAirHandlers    int     `json:"num_air_handlers"`
	CFMPerHandler     float64 `json:"cfm_per_handler"`
	InletTempC        float64 `json:"inlet_temp_c"`
	QTotalKW          float64 `json:"q_total_kw"`
	QRemainingKW      float64 `json:"q_remaining_kw"`
	RoomTempC         float64 `json:"room_temp_c"`
	DeltaTC           float64 `json:"delta_t_c"`
	PUE               float64 `json:"pue"`
	TotalCFM          float64 `json:"total_cfm"`
	ACH               float64 `json:"ach"`
	HotSpotPercent    float64 `json:"hot_spot_percent"`
}

// Command payload format: {"value": ...}
type valueReq[T any] struct {
	Value *T `json:"value"`
}

func (c *Controller) onMessage(_ mqtt.Client, msg mqtt.Message) {
	// topic format: <base>/set/<field>
	t := msg.Topic()
	prefix := c.cfg.BaseTopic + "/set/"
	if !strings.HasPrefix(t, prefix) {
		return
	}
	field := strings.TrimPrefix(t, prefix)

	payload := msg.Payload()

	// Dispatch by field
	switch field {
	case "room_height":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		_ = c.svc.SetRoomHeight(v)

	case "rack_power":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		_ = c.svc.SetRackPower(v)

	case "num_rows":
		v, err := decodeValueStrict[int](payload)
		if err != nil {
			return
		}
		cur := c.svc.Get()
		_ = c.svc.SetRackLayout(v, cur.Config.RacksPerRow)

	case "racks_per_row":
		v, err := decodeValueStrict[int](payload)
		if err != nil {
			return
		}
		cur := c.svc.Get()
		_ = c.svc.SetRackLayout(cur.Config.NumRows, v)

	case "dclc_effectiveness":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		_ = c.svc.SetDCLCEffectiveness(v)

	case "rdhx_effectiveness":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		_ = c.svc.SetRDHXEffectiveness(v)

	case "num_heat_exchangers":
		v, err := decodeValueStrict[int](payload)
		if err != nil {
			return
		}
		cur := c.svc.Get()
		_ = c.svc.SetHeatExchangers(v, cur.Config.HXCapacityKW)

	case "hx_capacity":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		cur := c.svc.Get()
		_ = c.svc.SetHeatExchangers(cur.Config.NumHeatExchangers, v)

	case "num_air_handlers":
		v, err := decodeValueStrict[int](payload)
		if err != nil {
			return
		}
		cur := c.svc.Get()
		_ = c.svc.SetAirHandlers(v, cur.Config.CFMPerHandler)

	case "cfm_per_handler":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		cur := c.svc.Get()
		_ = c.svc.SetAirHandlers(cur.Config.NumAirHandlers, v)

	case "inlet_temp":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		_ = c.svc.SetInletTemp(v)

	case "alert_threshold":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		_ = c.svc.SetAlertThreshold(v)
	}
}

func (c *Controller) topic(suffix string) string {
	return strings.TrimRight(c.cfg.BaseTopic, "/") + "/" + suffix
}

func decodeValueStrict[T any](b []byte) (T, error) {
	var zero T
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var req valueReq[T]
	if err := dec.Decode(&req); err != nil {
		return zero, err
	}
	if req.Value == nil {
		return zero, errors.New("missing field 'value'")
	}
	return *req.Value, nil
}
