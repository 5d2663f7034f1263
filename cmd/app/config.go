package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"

	"github.com/pacelab/roomtherm/internal/thermal"
)

const envPrefix = "ROOMTHERM_"

type Config struct {
	RoomID string `koanf:"room_id"`

	Controllers struct {
		HTTP   HTTPConfig   `koanf:"http"`
		MQTT   MQTTConfig   `koanf:"mqtt"`
		MODBUS ModbusConfig `koanf:"modbus"`
		WS     WSConfig     `koanf:"ws"`
	} `koanf:"controllers"`

	Room    RoomConfig    `koanf:"room"`
	Logging LoggingConfig `koanf:"logging"`
}

// RoomConfig carries the scenario parameters. Field names follow the
// engine config one to one.
type RoomConfig struct {
	LengthM float64 `koanf:"length_m"`
	WidthM  float64 `koanf:"width_m"`
	HeightM float64 `koanf:"height_m"`

	NumRows     int     `koanf:"num_rows"`
	RacksPerRow int     `koanf:"racks_per_row"`
	RackPowerKW float64 `koanf:"rack_power_kw"`

	DCLCEffectiveness float64 `koanf:"dclc_effectiveness"`
	RDHXEffectiveness float64 `koanf:"rdhx_effectiveness"`

	NumHeatExchangers int     `koanf:"num_heat_exchangers"`
	HXCapacityKW      float64 `koanf:"hx_capacity_kw"`

	NumAirHandlers int     `koanf:"num_air_handlers"`
	CFMPerHandler  float64 `koanf:"cfm_per_handler"`

	InletTempC      float64 `koanf:"inlet_temp_c"`
	AlertThresholdC float64 `koanf:"alert_threshold_c"`
}

type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

type MQTTConfig struct {
	Enabled         bool          `koanf:"enabled"`
	BrokerURL       string        `koanf:"broker_url"`
	ClientID        string        `koanf:"client_id"`
	BaseTopic       string        `koanf:"base_topic"`
	QoS             byte          `koanf:"qos"`
	RetainSnapshot  bool          `koanf:"retain_snapshot"`
	PublishInterval time.Duration `koanf:"publish_interval"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
}

type ModbusConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
	UnitID  byte   `koanf:"unit_id"`
}

type WSConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Addr         string        `koanf:"addr"`
	PushInterval time.Duration `koanf:"push_interval"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "text" | "json"
}

func defaults() Config {
	var cfg Config
	cfg.RoomID = "default"

	cfg.Controllers.HTTP.Addr = ":8080"
	cfg.Controllers.MQTT.PublishInterval = 1 * time.Second
	cfg.Controllers.MODBUS.Addr = "127.0.0.1:1502"
	cfg.Controllers.MODBUS.UnitID = 1
	cfg.Controllers.WS.Addr = ":8081"
	cfg.Controllers.WS.PushInterval = 1 * time.Second

	cfg.Room = RoomConfig{
		LengthM:           23.5712,
		WidthM:            27.1272,
		HeightM:           3.0,
		NumRows:           3,
		RacksPerRow:       20,
		RackPowerKW:       40,
		DCLCEffectiveness: 0.20,
		RDHXEffectiveness: 0.90,
		NumHeatExchangers: 0,
		HXCapacityKW:      60,
		NumAirHandlers:    2,
		CFMPerHandler:     155000,
		InletTempC:        23.3,
		AlertThresholdC:   30,
	}

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	return cfg
}

// LoadConfig layers defaults, an optional config file (.yaml/.yml/.json)
// and ROOMTHERM_-prefixed environment variables, in that order.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			parser, err := parserForExt(path)
			if err != nil {
				return Config{}, err
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("stat config: %w", err)
		}
		// Config file missing → defaults plus env.
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envKeyTransform(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	applyFallbacks(&cfg)
	return cfg, nil
}

func parserForExt(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

func applyFallbacks(cfg *Config) {
	if cfg.RoomID == "" {
		cfg.RoomID = "default"
	}
	// At least one read surface must be on.
	if !cfg.Controllers.HTTP.Enabled && !cfg.Controllers.MQTT.Enabled &&
		!cfg.Controllers.MODBUS.Enabled && !cfg.Controllers.WS.Enabled {
		cfg.Controllers.HTTP.Enabled = true
	}
}

// envKeyTransform maps an env var suffix to a koanf key path, e.g.
// CONTROLLERS_HTTP_ADDR -> controllers.http.addr and ROOM_RACK_POWER_KW ->
// room.rack_power_kw. Keys that do not carry enough parts for their section
// pass through lowercased.
func envKeyTransform(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	// room_id is a top-level key, not a key in the room section.
	if s == "room_id" {
		return s
	}
	parts := strings.Split(s, "_")

	switch parts[0] {
	case "controllers":
		// controllers.<ctrl>.<key...>
		if len(parts) >= 3 {
			return parts[0] + "." + parts[1] + "." + strings.Join(parts[2:], "_")
		}
	case "room", "logging":
		// <section>.<key...>
		if len(parts) >= 2 {
			return parts[0] + "." + strings.Join(parts[1:], "_")
		}
	}
	return s
}

// Thermal converts the room section to an engine config.
func (c Config) Thermal() thermal.Config {
	return thermal.Config{
		RoomLength:        c.Room.LengthM,
		RoomWidth:         c.Room.WidthM,
		RoomHeight:        c.Room.HeightM,
		NumRows:           c.Room.NumRows,
		RacksPerRow:       c.Room.RacksPerRow,
		RackPowerKW:       c.Room.RackPowerKW,
		DCLCEffectiveness: c.Room.DCLCEffectiveness,
		RDHXEffectiveness: c.Room.RDHXEffectiveness,
		NumHeatExchangers: c.Room.NumHeatExchangers,
		HXCapacityKW:      c.Room.HXCapacityKW,
		NumAirHandlers:    c.Room.NumAirHandlers,
		CFMPerHandler:     c.Room.CFMPerHandler,
		InletTempC:        c.Room.InletTempC,
		AlertThresholdC:   c.Room.AlertThresholdC,
	}
}

// NewLogger builds the process logger from the logging section. Unknown
// levels fall back to info rather than failing startup.
func (c Config) NewLogger() *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(c.Logging.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if c.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
