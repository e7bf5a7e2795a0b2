package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	filename := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(filename, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	return filename
}

func TestLoadMergesDefaults(t *testing.T) {
	filename := writeConfig(t, `
app:
  adapter:
    endpoint: https://trias.example.org/trias
    api_key: SECRET
  caching_enabled: true
caching:
  caching_server_ttl_seconds: 60
`)

	config, err := Load(filename)
	if err != nil {
		t.Fatal(err)
	}

	if config.App.Adapter.Type != "vdv431" {
		t.Errorf("Type = %s, expected default vdv431", config.App.Adapter.Type)
	}
	if config.App.Adapter.Endpoint != "https://trias.example.org/trias" || config.App.Adapter.APIKey != "SECRET" {
		t.Errorf("adapter settings not loaded: %+v", config.App.Adapter)
	}
	if config.App.Adapter.SituationResultCap != 100 {
		t.Errorf("SituationResultCap = %d, expected default 100", config.App.Adapter.SituationResultCap)
	}
	if !config.App.CachingEnabled || config.Caching.TTLSeconds != 60 {
		t.Errorf("caching settings not loaded: %v %+v", config.App.CachingEnabled, config.Caching)
	}
	if config.Caching.Endpoint != "localhost:6379" {
		t.Errorf("caching endpoint = %s, expected default", config.Caching.Endpoint)
	}
	if config.App.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %s", config.App.Timezone)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	filename := writeConfig(t, `
app:
  adapter:
    endpoint: https://trias.example.org/trias
    api_key: SECRET
`)

	t.Setenv("STOPMONITOR_API_KEY", "FROM-ENV")
	t.Setenv("STOPMONITOR_TIMEZONE", "Europe/Vienna")

	config, err := Load(filename)
	if err != nil {
		t.Fatal(err)
	}

	if config.App.Adapter.APIKey != "FROM-ENV" {
		t.Errorf("APIKey = %s, expected environment override", config.App.Adapter.APIKey)
	}
	if config.App.Timezone != "Europe/Vienna" {
		t.Errorf("Timezone = %s, expected environment override", config.App.Timezone)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := map[string]struct {
		contents string
		field    string
	}{
		"unknown adapter": {`
app:
  adapter:
    type: efa
    endpoint: https://trias.example.org/trias
`, "Type"},
		"placeholder endpoint": {`
app:
  adapter:
    api_key: SECRET
`, "Endpoint"},
		"bad timezone": {`
app:
  adapter:
    endpoint: https://trias.example.org/trias
  timezone: Mars/Olympus
`, "Timezone"},
		"datalog without directory": {`
app:
  adapter:
    endpoint: https://trias.example.org/trias
  datalog_enabled: true
  datalog_directory: ""
`, "DatalogDirectory"},
		"zero ttl": {`
app:
  adapter:
    endpoint: https://trias.example.org/trias
caching:
  caching_server_ttl_seconds: 0
`, "TTLSeconds"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.contents))
			if err == nil {
				t.Fatal("expected a validation error")
			}

			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q does not name %s", err, tc.field)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "app: [")); err == nil {
		t.Error("expected an error for invalid YAML")
	}
}
