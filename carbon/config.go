package carbon

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/xiam/to"
	"gopkg.in/yaml.v2"
)

const hostnameTmpl = "{hostname}"

// Defaults applied by GetSettings when the corresponding field is empty.
const (
	DefaultInterval     = time.Minute
	DefaultDialTimeout  = 5 * time.Second
	DefaultWriteTimeout = 10 * time.Second
)

// Config is the carbon reporting config structure, read from a yaml section.
type Config struct {
	// If true, the reporter will be started.
	Enabled bool `yaml:"enabled"`
	// Carbon relay URI, format: ip:port
	URI string `yaml:"uri"`
	// Metrics prefix. Use 'prefix: {hostname}' to use hostname autoresolver.
	Prefix string `yaml:"prefix"`
	// How often snapshots are sent. Independent of the internal 5s meter tick. Default is 60s.
	Interval string `yaml:"interval"`
	// Dial connection timeout. Default is 5s.
	DialTimeout string `yaml:"dial_timeout"`
	// Write-operation timeout per batch. Default is 10s.
	WriteTimeout string `yaml:"write_timeout"`
}

// Settings is the resolved reporter configuration.
type Settings struct {
	Enabled      bool
	Address      string
	Prefix       string
	Interval     time.Duration
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// GetSettings resolves and validates the config values.
func (config *Config) GetSettings() (Settings, error) {
	if _, err := net.ResolveTCPAddr("tcp", config.URI); err != nil {
		return Settings{}, fmt.Errorf("can't resolve carbon URI %s: %w", config.URI, err)
	}
	prefix, err := initPrefix(config.Prefix)
	if err != nil {
		return Settings{}, fmt.Errorf("can't get OS hostname %s: %w", config.Prefix, err)
	}

	settings := Settings{
		Enabled:      config.Enabled,
		Address:      config.URI,
		Prefix:       prefix,
		Interval:     to.Duration(config.Interval),
		DialTimeout:  to.Duration(config.DialTimeout),
		WriteTimeout: to.Duration(config.WriteTimeout),
	}
	if settings.Interval <= 0 {
		settings.Interval = DefaultInterval
	}
	if settings.DialTimeout <= 0 {
		settings.DialTimeout = DefaultDialTimeout
	}
	if settings.WriteTimeout <= 0 {
		settings.WriteTimeout = DefaultWriteTimeout
	}
	return settings, nil
}

// ReadConfig reads the yaml config file into config.
func ReadConfig(configFileName string, config *Config) error {
	configYaml, err := os.ReadFile(configFileName)
	if err != nil {
		return fmt.Errorf("can't read file [%s] [%s]", configFileName, err.Error())
	}
	err = yaml.Unmarshal(configYaml, config)
	if err != nil {
		return fmt.Errorf("can't parse config file [%s] [%s]", configFileName, err.Error())
	}
	return nil
}

func initPrefix(prefix string) (string, error) {
	if !strings.Contains(prefix, hostnameTmpl) {
		return prefix, nil
	}
	hostname, err := os.Hostname()
	if err != nil {
		return prefix, err
	}
	short := strings.Split(hostname, ".")[0]
	return strings.ReplaceAll(prefix, hostnameTmpl, short), nil
}
