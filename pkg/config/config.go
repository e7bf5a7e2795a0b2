package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/travigo/stopmonitor/pkg/util"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Caching CachingConfig `yaml:"caching"`
}

type AppConfig struct {
	Adapter AdapterConfig `yaml:"adapter"`

	CachingEnabled   bool   `yaml:"caching_enabled"`
	DatalogEnabled   bool   `yaml:"datalog_enabled"`
	DatalogDirectory string `yaml:"datalog_directory" validate:"required_if=DatalogEnabled true"`

	Timezone string `yaml:"timezone" validate:"required,timezone"`
}

type AdapterConfig struct {
	Type     string `yaml:"type" validate:"required,oneof=vdv431"`
	Endpoint string `yaml:"endpoint" validate:"required,url"`
	APIKey   string `yaml:"api_key" validate:"required"`

	UserAgent          string `yaml:"user_agent"`
	TimeWindow         string `yaml:"time_window"`
	SituationResultCap int    `yaml:"situation_result_cap" validate:"gte=1"`
	TimeoutSeconds     int    `yaml:"timeout_seconds" validate:"gte=1"`
}

type CachingConfig struct {
	Endpoint   string `yaml:"caching_server_endpoint"`
	TTLSeconds int    `yaml:"caching_server_ttl_seconds" validate:"gte=1"`
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Adapter: AdapterConfig{
				Type:               "vdv431",
				Endpoint:           "[YourRemoteServerEndpoint]",
				APIKey:             "[YourRemoteServerApiKey]",
				UserAgent:          "TripMonitorServer/1",
				SituationResultCap: 100,
				TimeoutSeconds:     30,
			},
			CachingEnabled:   false,
			DatalogEnabled:   false,
			DatalogDirectory: "./datalog",
			Timezone:         "Europe/Berlin",
		},
		Caching: CachingConfig{
			Endpoint:   "localhost:6379",
			TTLSeconds: 30,
		},
	}
}

// Load reads a YAML config file over the defaults, applies environment overrides and validates
// the result. An empty filename uses the defaults and environment only.
func Load(filename string) (*Config, error) {
	config := Default()

	if filename != "" {
		contents, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(contents, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
		}
	}

	config.applyEnvironment(util.GetEnvironmentVariables())

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyEnvironment(env map[string]string) {
	if value := env[util.EnvironmentPrefix+"ENDPOINT"]; value != "" {
		c.App.Adapter.Endpoint = value
	}
	if value := env[util.EnvironmentPrefix+"API_KEY"]; value != "" {
		c.App.Adapter.APIKey = value
	}
	if value := env[util.EnvironmentPrefix+"DATALOG_DIRECTORY"]; value != "" {
		c.App.DatalogDirectory = value
	}
	if value := env[util.EnvironmentPrefix+"TIMEZONE"]; value != "" {
		c.App.Timezone = value
	}
}

func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var problems []string
	for _, fieldError := range validationErrors {
		problems = append(problems, fmt.Sprintf("%s failed %s", fieldError.Namespace(), fieldError.Tag()))
	}

	return fmt.Errorf("invalid config: %s", strings.Join(problems, ", "))
}
