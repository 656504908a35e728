package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type LedgerConfig struct {
	Path  string `mapstructure:"path"`
	Sheet string `mapstructure:"sheet"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type WorkflowConfig struct {
	// ExternalTimeoutSeconds bounds every ledger append and notification
	// attempt. A timed-out call counts as a failure for reporting.
	ExternalTimeoutSeconds int `mapstructure:"external_timeout_seconds"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Approver is one entry of the static approver roster offered by the
// selection screen. Not a security boundary.
type Approver struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

type Config struct {
	Server    ServerConfig   `mapstructure:"server"`
	Database  DatabaseConfig `mapstructure:"database"`
	Ledger    LedgerConfig   `mapstructure:"ledger"`
	SMTP      SMTPConfig     `mapstructure:"smtp"`
	Workflow  WorkflowConfig `mapstructure:"workflow"`
	Log       LogConfig      `mapstructure:"log"`
	Approvers []Approver     `mapstructure:"approvers"`
}

// ExternalTimeout returns the side-effect deadline, defaulting to 10s.
func (c *Config) ExternalTimeout() time.Duration {
	if c.Workflow.ExternalTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Workflow.ExternalTimeoutSeconds) * time.Second
}

var (
	appConfig *Config
	loadErr   error
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working
// directory. A failed first Load stays failed: later calls return the
// same error rather than a nil config.
func Load(path string) (*Config, error) {
	once.Do(func() {
		var err error
		defer func() { loadErr = err }()
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. EXA_SERVER_PORT=9000
		v.SetEnvPrefix("EXA") // expense approval
		v.AutomaticEnv()

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if loadErr != nil {
		return nil, loadErr
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
