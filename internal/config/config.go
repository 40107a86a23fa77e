package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Log             LogConfig      `yaml:"log"`
	Loop            LoopConfig     `yaml:"loop"`
	Hardware        HardwareConfig `yaml:"hardware"`
	Audio           AudioConfig    `yaml:"audio"`
	Input           InputConfig    `yaml:"input"`
	Remote          RemoteConfig   `yaml:"remote"`
	Idle            IdleConfig     `yaml:"idle"`
	EventBus        EventBusConfig `yaml:"eventbus"`
	Script          string         `yaml:"script"`
	ShutdownTimeout Duration       `yaml:"shutdown_timeout"` // General shutdown timeout for graceful stops
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	UseJSON bool   `yaml:"json"`
	Colors  bool   `yaml:"colors"`
}

// LoopConfig contains control loop settings
type LoopConfig struct {
	Interval  Duration `yaml:"interval"`  // Tick period (default: 10ms)
	Heartbeat Duration `yaml:"heartbeat"` // Interval between heartbeat log lines (default: 10s)
}

// HardwareConfig maps animation channels onto driver pins
type HardwareConfig struct {
	Driver string                 `yaml:"driver"` // "sim" is the only built-in driver
	Servos map[string]ServoConfig `yaml:"servos"` // keyed by channel name
	Motors map[string]MotorConfig `yaml:"motors"`
	LEDs   map[string]LEDConfig   `yaml:"leds"`
}

// ServoConfig contains one servo line. An inverted mounting is expressed by
// min_pulse > max_pulse.
type ServoConfig struct {
	Pin      int `yaml:"pin"`
	MinPulse int `yaml:"min_pulse"`
	MaxPulse int `yaml:"max_pulse"`
}

// MotorConfig contains one dual-line motor driver.
type MotorConfig struct {
	ForwardPin int `yaml:"forward_pin"`
	ReversePin int `yaml:"reverse_pin"`
}

// LEDConfig contains one PWM LED line.
type LEDConfig struct {
	Pin int `yaml:"pin"`
}

// AudioConfig contains sound board settings
type AudioConfig struct {
	Backend      string   `yaml:"backend"`       // "log" or "beep" (default: log)
	Dir          string   `yaml:"dir"`           // Track directory for the beep backend
	Volume       int      `yaml:"volume"`        // 0..30 board scale (default: 20)
	StartupTrack int      `yaml:"startup_track"` // Played once at boot, negative disables (default: 2)
	Settle       Duration `yaml:"settle"`        // Pause after Begin before first playback (default: 1s)
}

// InputConfig contains push button settings. Key events from evdev are
// already debounced by the kernel; the polled-button debouncer keeps its
// own defaults.
type InputConfig struct {
	Device  string `yaml:"device"`   // evdev device path, empty disables the reader
	KeyCode uint16 `yaml:"key_code"` // Key to match, 0 accepts any key
}

// RemoteConfig contains IR remote settings
type RemoteConfig struct {
	Bindings map[string]string `yaml:"bindings"` // hex code -> action name, merged over the defaults
}

// ParsedBindings converts the hex-keyed binding table into remote codes.
func (c *RemoteConfig) ParsedBindings() (map[uint32]string, error) {
	if len(c.Bindings) == 0 {
		return nil, nil
	}
	parsed := make(map[uint32]string, len(c.Bindings))
	for key, action := range c.Bindings {
		code, err := strconv.ParseUint(strings.TrimSpace(key), 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid remote code %q: %w", key, err)
		}
		parsed[uint32(code)] = action
	}
	return parsed, nil
}

// IdleConfig contains idle detection and breathing settings
type IdleConfig struct {
	Threshold Duration `yaml:"threshold"` // Inactivity before breathing starts (default: 10s)
	Period    Duration `yaml:"period"`    // One full breath cycle (default: 3.6s)
}

// EventBusConfig contains event bus settings
type EventBusConfig struct {
	QueueSize int `yaml:"queue_size"` // Event queue size (default: 100)
}

// GetQueueSize returns queue size with default
func (c *EventBusConfig) GetQueueSize() int {
	if c.QueueSize <= 0 {
		return 100
	}
	return c.QueueSize
}

// Default servo pulse bounds in microseconds.
const (
	DefaultMinPulse = 600
	DefaultMaxPulse = 2400
)

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	// Loop defaults
	if cfg.Loop.Interval == 0 {
		cfg.Loop.Interval = Duration(10 * time.Millisecond)
	}
	if cfg.Loop.Heartbeat == 0 {
		cfg.Loop.Heartbeat = Duration(10 * time.Second)
	}

	// Hardware defaults: the sim driver with every channel mapped, so a bare
	// config file still brings up a fully wired robot.
	if cfg.Hardware.Driver == "" {
		cfg.Hardware.Driver = "sim"
	}
	if len(cfg.Hardware.Servos) == 0 && len(cfg.Hardware.Motors) == 0 && len(cfg.Hardware.LEDs) == 0 {
		cfg.Hardware.Servos = DefaultServos()
		cfg.Hardware.Motors = DefaultMotors()
		cfg.Hardware.LEDs = DefaultLEDs()
	}
	for name, servo := range cfg.Hardware.Servos {
		if servo.MinPulse == 0 && servo.MaxPulse == 0 {
			servo.MinPulse = DefaultMinPulse
			servo.MaxPulse = DefaultMaxPulse
			cfg.Hardware.Servos[name] = servo
		}
	}

	// Audio defaults
	if cfg.Audio.Backend == "" {
		cfg.Audio.Backend = "log"
	}
	if cfg.Audio.Volume == 0 {
		cfg.Audio.Volume = 20
	}
	if cfg.Audio.StartupTrack == 0 {
		cfg.Audio.StartupTrack = 2
	}
	if cfg.Audio.Settle == 0 {
		cfg.Audio.Settle = Duration(1 * time.Second)
	}

	// Idle defaults
	if cfg.Idle.Threshold == 0 {
		cfg.Idle.Threshold = Duration(10 * time.Second)
	}
	if cfg.Idle.Period == 0 {
		cfg.Idle.Period = Duration(3600 * time.Millisecond)
	}

	// General shutdown timeout
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}

	return &cfg, nil
}

// DefaultServos returns the stock servo pin mapping.
func DefaultServos() map[string]ServoConfig {
	return map[string]ServoConfig{
		"head_pan":  {Pin: 0, MinPulse: DefaultMinPulse, MaxPulse: DefaultMaxPulse},
		"eye_tilt":  {Pin: 1, MinPulse: DefaultMinPulse, MaxPulse: DefaultMaxPulse},
		"left_arm":  {Pin: 2, MinPulse: DefaultMinPulse, MaxPulse: DefaultMaxPulse},
		"right_arm": {Pin: 3, MinPulse: DefaultMinPulse, MaxPulse: DefaultMaxPulse},
	}
}

// DefaultMotors returns the stock tread pin mapping.
func DefaultMotors() map[string]MotorConfig {
	return map[string]MotorConfig{
		"left_tread":  {ForwardPin: 4, ReversePin: 5},
		"right_tread": {ForwardPin: 6, ReversePin: 7},
	}
}

// DefaultLEDs returns the stock eye pin mapping.
func DefaultLEDs() map[string]LEDConfig {
	return map[string]LEDConfig{
		"left_eye":  {Pin: 8},
		"right_eye": {Pin: 9},
	}
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}

// ExpandEnvString expands a single string with environment variables
func ExpandEnvString(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return expandEnvVars(s)
	}
	return s
}
