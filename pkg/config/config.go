package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	pcaio "github.com/Seann-Moser/pca9685/pkg/io"
	"github.com/Seann-Moser/pca9685/pkg/pca9685"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = ".pca9685.yaml"

const (
	TransportPeriph   = "periph"
	TransportGobot    = "gobot"
	TransportI2CTools = "i2ctools"
	TransportDevFS    = "devfs"
	TransportRemote   = "remote"
)

type Config struct {
	Transport    string             `yaml:"transport"`
	Bus          int                `yaml:"bus"`
	Address      uint8              `yaml:"address"`
	Frequency    float64            `yaml:"frequency"`
	LogLevel     string             `yaml:"log_level"`
	I2CTools     I2CToolsConfig     `yaml:"i2ctools"`
	Remote       RemoteConfig       `yaml:"remote"`
	Server       ServerConfig       `yaml:"server"`
	OutputEnable OutputEnableConfig `yaml:"output_enable"`
	Servo        ServoConfig        `yaml:"servo"`
}

type I2CToolsConfig struct {
	Set     string        `yaml:"set"`
	Get     string        `yaml:"get"`
	Timeout time.Duration `yaml:"timeout"`
}

type RemoteConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// OutputEnableConfig names the GPIO wired to the chip's OE pin. An empty Pin
// means OE is not driven.
type OutputEnableConfig struct {
	Chip string `yaml:"chip"`
	Pin  string `yaml:"pin"`
}

type ServoConfig struct {
	Channel  int           `yaml:"channel"`
	MinPulse time.Duration `yaml:"min_pulse"`
	MaxPulse time.Duration `yaml:"max_pulse"`
	MaxAngle float64       `yaml:"max_angle"`
}

// Default is the configuration used when no file is present. Load decodes
// over it, so keys absent from a file keep these values.
func Default() Config {
	return Config{
		Transport: TransportPeriph,
		Bus:       pca9685.DefaultBus,
		Address:   pca9685.DefaultAddress,
		Frequency: pca9685.DefaultFrequency,
		LogLevel:  "info",
		I2CTools: I2CToolsConfig{
			Set:     pcaio.DefaultI2CSet,
			Get:     pcaio.DefaultI2CGet,
			Timeout: 2 * time.Second,
		},
		Remote: RemoteConfig{Timeout: 2 * time.Second},
		Server: ServerConfig{Listen: "0.0.0.0:8080"},
		OutputEnable: OutputEnableConfig{
			Chip: "gpiochip0",
		},
		Servo: ServoConfig{
			MinPulse: pcaio.DefaultMinPulse,
			MaxPulse: pcaio.DefaultMaxPulse,
			MaxAngle: pcaio.DefaultMaxAngle,
		},
	}
}

// Load reads path. A missing file is not an error when allowMissing is set;
// defaults are returned instead.
func Load(path string, allowMissing bool) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Transport {
	case TransportPeriph, TransportGobot, TransportI2CTools, TransportDevFS:
	case TransportRemote:
		if c.Remote.URL == "" {
			return fmt.Errorf("remote.url is required when transport is remote")
		}
	default:
		return fmt.Errorf("transport %q must be one of periph, gobot, i2ctools, devfs, remote", c.Transport)
	}
	if c.Bus < 0 {
		return fmt.Errorf("bus must be >= 0")
	}
	if c.Address > 0x7F {
		return fmt.Errorf("address 0x%02X is not a 7-bit i2c address", c.Address)
	}
	if !(c.Frequency > 0) {
		return fmt.Errorf("frequency must be > 0")
	}
	if c.I2CTools.Timeout < 0 || c.Remote.Timeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Servo.Channel < 0 || c.Servo.Channel >= pca9685.Channels {
		return fmt.Errorf("servo.channel must be in [0,%d]", pca9685.Channels-1)
	}
	if c.Servo.MinPulse <= 0 || c.Servo.MaxPulse <= c.Servo.MinPulse {
		return fmt.Errorf("servo.max_pulse must be greater than servo.min_pulse")
	}
	if c.Servo.MaxAngle <= 0 {
		return fmt.Errorf("servo.max_angle must be > 0")
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
