package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/weft/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "weft.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultLiveEndpoint is the default WebSocket path for live sessions.
	DefaultLiveEndpoint = "/live"

	// DefaultIdleTimeout is how long the scheduler waits for an idle period
	// before running idle effects anyway.
	DefaultIdleTimeout = "50ms"

	// DefaultRegion is the default AWS region for export.
	DefaultRegion = "us-east-1"
)

// FileNames lists the configuration file names in lookup order.
var FileNames = []string{ConfigFileName, "weft.yaml", "weft.yml"}

// Config represents a weft project configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Scheduler configures the reactive loop.
	Scheduler SchedulerConfig `json:"scheduler,omitempty" yaml:"scheduler,omitempty"`

	// Server configures weft serve.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Export configures weft export.
	Export ExportConfig `json:"export,omitempty" yaml:"export,omitempty"`

	path string
}

// SchedulerConfig contains reactive loop settings.
type SchedulerConfig struct {
	// IdleTimeout bounds the wait for an idle period (e.g., "50ms").
	IdleTimeout string `json:"idleTimeout,omitempty" yaml:"idleTimeout,omitempty"`

	// Debug enables flush logging.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`

	// Live is the WebSocket endpoint for live sessions.
	Live string `json:"live,omitempty" yaml:"live,omitempty"`

	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Tracing records OpenTelemetry spans.
	Tracing bool `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// ExportConfig contains static export settings.
type ExportConfig struct {
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Prefix is prepended to every uploaded object key.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Pretty indents the exported HTML.
	Pretty bool `json:"pretty,omitempty" yaml:"pretty,omitempty"`
}

// New returns a configuration with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from dir. It tries each of FileNames in order.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E141").
		WithDetail("No weft.json, weft.yaml or weft.yml found in " + dir).
		WithSuggestion("Create weft.json in the project root")
}

// LoadFile reads configuration from path. The format is chosen by extension.
func LoadFile(path string) (*Config, error) {
	var unmarshal func([]byte, any) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		unmarshal = json.Unmarshal
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	default:
		return nil, errors.New("E121").WithDetail("Cannot load " + path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path))
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	if err := unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.path = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.path)
}

// SaveTo writes the configuration to path in the format its extension names.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		return errors.New("E121").WithDetail("Cannot save " + path)
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}
	c.path = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.path == "" {
		return ""
	}
	return filepath.Dir(c.path)
}

func (c *Config) applyDefaults() {
	if c.Scheduler.IdleTimeout == "" {
		c.Scheduler.IdleTimeout = DefaultIdleTimeout
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Live == "" {
		c.Server.Live = DefaultLiveEndpoint
	}
	if c.Export.Region == "" {
		c.Export.Region = DefaultRegion
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port " + strconv.Itoa(c.Server.Port) + " is not between 0 and 65535")
	}
	if _, err := time.ParseDuration(c.Scheduler.IdleTimeout); err != nil {
		return errors.New("E123").
			WithDetail("scheduler.idleTimeout: " + err.Error())
	}
	if !strings.HasPrefix(c.Server.Live, "/") {
		return errors.Newf(errors.CategoryConfig, "server.live must start with /, got %q", c.Server.Live)
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// IdleTimeout returns the parsed scheduler idle timeout.
func (c *Config) IdleTimeout() time.Duration {
	d, err := time.ParseDuration(c.Scheduler.IdleTimeout)
	if err != nil {
		return 0
	}
	return d
}

// Exists reports whether dir contains a configuration file.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// Find walks up from startDir and returns the first directory that
// contains a configuration file.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No weft configuration found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir finds and loads the configuration for the working
// directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := Find(wd)
	if err != nil {
		return nil, err
	}
	return Load(root)
}
