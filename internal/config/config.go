package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MotorConfig holds the H-bridge wiring for one wheel motor.
type MotorConfig struct {
	ForwardPin int `yaml:"forward_pin"` // H-bridge input A (BCM)
	ReversePin int `yaml:"reverse_pin"` // H-bridge input B (BCM)
	PWMPin     int `yaml:"pwm_pin"`     // H-bridge enable pin, hardware PWM capable
}

// SensorConfig describes how the ambient-light pair is read.
// Type selects a concrete implementation ("mock", "gpio", "serial").
type SensorConfig struct {
	Type            string `yaml:"type"`              // "mock", "gpio" or "serial"
	LeftPin         int    `yaml:"left_pin"`          // gpio: charge-timing pin, left sensor
	RightPin        int    `yaml:"right_pin"`         // gpio: charge-timing pin, right sensor
	ChargeTimeoutMs int    `yaml:"charge_timeout_ms"` // gpio: dark-reading timeout (ms)
	Port            string `yaml:"port"`              // serial: device path, e.g. /dev/ttyUSB0
	Baud            int    `yaml:"baud"`              // serial: baud rate
}

// PIDConfig tunes the light-following loop.
type PIDConfig struct {
	GainP           float64 `yaml:"gain_p"`
	GainI           float64 `yaml:"gain_i"`
	GainD           float64 `yaml:"gain_d"`
	TargetLight     float64 `yaml:"target_light"`      // follow target on the sensor scale
	FollowDurationS int     `yaml:"follow_duration_s"` // how long to follow the light (s)
	DecoupledDiff   bool    `yaml:"decoupled_diff"`    // fully independent differential terms
}

// MorseConfig tunes the acquisition and decode phase.
type MorseConfig struct {
	Readings       int     `yaml:"readings"`          // number of paced samples to take
	PreReadDelayMs int     `yaml:"pre_read_delay_ms"` // settle delay before each prompt (ms)
	BeepUnitMs     int     `yaml:"beep_unit_ms"`      // playback beep length per unit (ms)
	MaxRef         float64 `yaml:"max_ref"`           // pre-set lit reference; 0 = calibrate interactively
	MinRef         float64 `yaml:"min_ref"`           // pre-set dark reference; 0 = calibrate interactively
}

// PanelConfig holds the operator panel wiring.
type PanelConfig struct {
	BuzzerPin int `yaml:"buzzer_pin"`
	ButtonPin int `yaml:"button_pin"`
}

// TelemetryConfig enables the optional MQTT publisher.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`       // e.g. tcp://localhost:1883
	ClientID    string `yaml:"client_id"`
	TickTopic   string `yaml:"tick_topic"`   // drive commands; default lumego/drive
	ResultTopic string `yaml:"result_topic"` // decode results; default lumego/decode
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int  `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO   bool `yaml:"mock_gpio"`   // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// Config aggregates all application configuration.
type Config struct {
	LeftMotor  MotorConfig     `yaml:"left_motor"`
	RightMotor MotorConfig     `yaml:"right_motor"`
	Sensors    SensorConfig    `yaml:"sensors"`
	PID        PIDConfig       `yaml:"pid"`
	Morse      MorseConfig     `yaml:"morse"`
	Panel      PanelConfig     `yaml:"panel"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`
	Defaults   DefaultsConfig  `yaml:"defaults"`
}

// ValidateConfigPath checks that a config path is a .yaml file inside a
// configs/ directory, with no traversal tricks.
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("config path must not contain '..': %s", path)
	}
	if filepath.Ext(path) != ".yaml" {
		return fmt.Errorf("config file must have a .yaml extension: %s", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if filepath.Base(filepath.Dir(abs)) != "configs" {
		return fmt.Errorf("config file must live in a configs/ directory: %s", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// Basic validation
	switch cfg.Sensors.Type {
	case "mock", "gpio", "serial":
	case "":
		return nil, fmt.Errorf("sensors.type is required")
	default:
		return nil, fmt.Errorf("unsupported sensors.type: %s", cfg.Sensors.Type)
	}
	if cfg.Sensors.Type == "serial" && cfg.Sensors.Port == "" {
		return nil, fmt.Errorf("sensors.port is required for serial sensors")
	}
	if cfg.Defaults.DebugLevel < 0 || cfg.Defaults.DebugLevel > 4 {
		return nil, fmt.Errorf("debug_level must be between 0 and 4, got %d", cfg.Defaults.DebugLevel)
	}
	if cfg.Morse.Readings < 0 {
		return nil, fmt.Errorf("morse.readings must be >= 0, got %d", cfg.Morse.Readings)
	}
	if cfg.PID.FollowDurationS < 0 {
		return nil, fmt.Errorf("pid.follow_duration_s must be >= 0, got %d", cfg.PID.FollowDurationS)
	}
	if (cfg.Morse.MaxRef == 0) != (cfg.Morse.MinRef == 0) {
		return nil, fmt.Errorf("morse.max_ref and morse.min_ref must be set together")
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.Broker == "" {
		return nil, fmt.Errorf("telemetry.broker is required when telemetry is enabled")
	}

	// Default values
	if cfg.PID.GainP == 0 && cfg.PID.GainI == 0 && cfg.PID.GainD == 0 {
		cfg.PID.GainP = 0.3
		cfg.PID.GainI = 0.0001
		cfg.PID.GainD = 0.4
	}
	if cfg.PID.TargetLight == 0 {
		cfg.PID.TargetLight = 90
	}
	if cfg.PID.FollowDurationS == 0 {
		cfg.PID.FollowDurationS = 20
	}
	if cfg.Morse.Readings == 0 {
		cfg.Morse.Readings = 50
	}
	if cfg.Morse.PreReadDelayMs <= 0 {
		cfg.Morse.PreReadDelayMs = 200
	}
	if cfg.Morse.BeepUnitMs <= 0 {
		cfg.Morse.BeepUnitMs = 250
	}
	if cfg.Sensors.ChargeTimeoutMs <= 0 {
		cfg.Sensors.ChargeTimeoutMs = 300
	}
	if cfg.Sensors.Baud <= 0 {
		cfg.Sensors.Baud = 9600
	}
	if cfg.Telemetry.ClientID == "" {
		cfg.Telemetry.ClientID = "lumego"
	}

	return &cfg, nil
}

// FollowDuration returns how long the follow phase runs.
func (c *Config) FollowDuration() time.Duration {
	return time.Duration(c.PID.FollowDurationS) * time.Second
}

// PreReadDelay returns the settle delay before each Morse reading prompt.
func (c *Config) PreReadDelay() time.Duration {
	return time.Duration(c.Morse.PreReadDelayMs) * time.Millisecond
}

// BeepUnit returns the playback beep length per Morse unit.
func (c *Config) BeepUnit() time.Duration {
	return time.Duration(c.Morse.BeepUnitMs) * time.Millisecond
}

// ChargeTimeout returns the dark-reading timeout of the charge-timing sensors.
func (c *Config) ChargeTimeout() time.Duration {
	return time.Duration(c.Sensors.ChargeTimeoutMs) * time.Millisecond
}
