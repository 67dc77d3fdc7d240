package config

import (
	"encoding/json"
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	Workflow *workflowConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"ats"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address        string `envconfig:"ATS_ADDRESS" default:":3443"`
	BaseUrl        string `envconfig:"ATS_BASE_URL" default:"https://localhost:3443"`
	MetricsAddress string `envconfig:"ATS_METRICS_ADDRESS" default:":8080"`
	LogLevel       string `envconfig:"ATS_LOG_LEVEL" default:"info"`
}

type workflowConfig struct {
	// Reference cadence: the automation processor fires every 120s, the
	// mimic processor once 5s after startup and then every 180s.
	AutomationInterval time.Duration `envconfig:"ATS_AUTOMATION_INTERVAL" default:"120s"`
	MimicStartupDelay  time.Duration `envconfig:"ATS_MIMIC_STARTUP_DELAY" default:"5s"`
	MimicInterval      time.Duration `envconfig:"ATS_MIMIC_INTERVAL" default:"180s"`
	AutoStart          bool          `envconfig:"ATS_SCHEDULERS_AUTOSTART" default:"true"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a configuration suitable for dev and tests: an
// in-process shared-cache sqlite database and short scheduler cadence.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: "file::memory:?cache=shared",
		},
		Service: &svcConfig{
			Address:        ":3443",
			BaseUrl:        "https://localhost:3443",
			MetricsAddress: ":8080",
			LogLevel:       "info",
		},
		Workflow: &workflowConfig{
			AutomationInterval: 120 * time.Second,
			MimicStartupDelay:  5 * time.Second,
			MimicInterval:      180 * time.Second,
			AutoStart:          true,
		},
	}
}

func (c *Config) String() string {
	val, err := json.Marshal(c)
	if err != nil {
		return "unable to marshal config"
	}
	return string(val)
}
