package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEnvKeyTransform_TopLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ROOM_ID", "room_id"},
		{"CONTROLLER", "controller"},
		{"ADDR", "addr"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		got := envKeyTransform(tt.in)
		if got != tt.want {
			t.Fatalf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnvKeyTransform_Controllers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CONTROLLERS_HTTP_ADDR", "controllers.http.addr"},
		{"CONTROLLERS_MQTT_PUBLISH_INTERVAL", "controllers.mqtt.publish_interval"},
		{"CONTROLLERS_MODBUS_UNIT_ID", "controllers.modbus.unit_id"},
		{"CONTROLLERS_WS_PUSH_INTERVAL", "controllers.ws.push_interval"},
		{"CONTROLLERS_HTTP", "controllers_http"},   // not enough parts -> fallback
		{"CONTROLLERS__ADDR", "controllers..addr"}, // edge case
		{"controllers_HTTP_addr", "controllers.http.addr"},
	}

	for _, tt := range tests {
		got := envKeyTransform(tt.in)
		if got != tt.want {
			t.Fatalf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnvKeyTransform_RoomAndLogging(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ROOM_RACK_POWER_KW", "room.rack_power_kw"},
		{"ROOM_RDHX_EFFECTIVENESS", "room.rdhx_effectiveness"},
		{"ROOM_NUM_AIR_HANDLERS", "room.num_air_handlers"},
		{"LOGGING_LEVEL", "logging.level"},
		{"LOGGING_FORMAT", "logging.format"},
		{"ROOM", "room"},       // not enough parts -> passthrough
		{"LOGGING", "logging"}, // not enough parts -> passthrough
	}

	for _, tt := range tests {
		got := envKeyTransform(tt.in)
		if got != tt.want {
			t.Fatalf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RoomID != "default" {
		t.Fatalf("expected default room id, got %q", cfg.RoomID)
	}
	if !cfg.Controllers.HTTP.Enabled {
		t.Fatal("expected HTTP controller enabled when none configured")
	}
	if cfg.Room.NumRows != 3 || cfg.Room.RacksPerRow != 20 {
		t.Fatalf("unexpected default layout: %d x %d", cfg.Room.NumRows, cfg.Room.RacksPerRow)
	}
	if cfg.Room.CFMPerHandler != 155000 {
		t.Fatalf("unexpected default cfm: %v", cfg.Room.CFMPerHandler)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Room.RackPowerKW != 40 {
		t.Fatalf("expected default rack power, got %v", cfg.Room.RackPowerKW)
	}
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data, err := yaml.Marshal(map[string]any{
		"room_id": "pace01",
		"controllers": map[string]any{
			"http": map[string]any{"enabled": true, "addr": ":9090"},
			"mqtt": map[string]any{"enabled": true, "publish_interval": "2s"},
		},
		"room": map[string]any{
			"rack_power_kw":      55,
			"rdhx_effectiveness": 0.5,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RoomID != "pace01" {
		t.Fatalf("expected room id pace01, got %q", cfg.RoomID)
	}
	if cfg.Controllers.HTTP.Addr != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.Controllers.HTTP.Addr)
	}
	if cfg.Controllers.MQTT.PublishInterval != 2*time.Second {
		t.Fatalf("expected 2s publish interval, got %v", cfg.Controllers.MQTT.PublishInterval)
	}
	if cfg.Room.RackPowerKW != 55 {
		t.Fatalf("expected rack power 55, got %v", cfg.Room.RackPowerKW)
	}
	// untouched keys keep defaults
	if cfg.Room.NumRows != 3 {
		t.Fatalf("expected default rows, got %d", cfg.Room.NumRows)
	}
}

func TestLoadConfig_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{"room_id":"pace02","room":{"num_rows":4}}`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RoomID != "pace02" || cfg.Room.NumRows != 4 {
		t.Fatalf("unexpected config: %q rows=%d", cfg.RoomID, cfg.Room.NumRows)
	}
}

func TestLoadConfig_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ROOMTHERM_ROOM_ID", "env-room")
	t.Setenv("ROOMTHERM_CONTROLLERS_HTTP_ADDR", ":7070")
	t.Setenv("ROOMTHERM_ROOM_RACK_POWER_KW", "20")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RoomID != "env-room" {
		t.Fatalf("expected env room id, got %q", cfg.RoomID)
	}
	if cfg.Controllers.HTTP.Addr != ":7070" {
		t.Fatalf("expected :7070, got %q", cfg.Controllers.HTTP.Addr)
	}
	if cfg.Room.RackPowerKW != 20 {
		t.Fatalf("expected rack power 20, got %v", cfg.Room.RackPowerKW)
	}
}

func TestConfigThermal(t *testing.T) {
	cfg := defaults()
	th := cfg.Thermal()
	if err := th.Validate(); err != nil {
		t.Fatalf("default thermal config must validate: %v", err)
	}
	if th.RoomLength != cfg.Room.LengthM || th.CFMPerHandler != cfg.Room.CFMPerHandler {
		t.Fatal("thermal conversion dropped fields")
	}
}

func TestNewLogger(t *testing.T) {
	cfg := defaults()
	cfg.Logging.Level = "debug"
	log := cfg.NewLogger()
	if log.GetLevel().String() != "debug" {
		t.Fatalf("expected debug level, got %v", log.GetLevel())
	}

	cfg.Logging.Level = "not-a-level"
	log = cfg.NewLogger()
	if log.GetLevel().String() != "info" {
		t.Fatalf("expected info fallback, got %v", log.GetLevel())
	}
}
