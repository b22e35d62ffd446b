package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	Port    string        `split_words:"true" default:"8000"`
	Timeout time.Duration `split_words:"true" default:"5s"`
	Name    string        `split_words:"true"`
}

func (c sampleConfig) Validate() error {
	if c.Name == "invalid" {
		return errors.New("name is invalid")
	}
	return nil
}

func TestFromEnvAppliesDefaultsAndOverrides(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "scheduler")
	t.Setenv("SAMPLE_TIMEOUT", "2s")

	conf, err := FromEnv[sampleConfig]("SAMPLE")
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if conf.Port != "8000" {
		t.Fatalf("Port = %q, want 8000", conf.Port)
	}
	if conf.Timeout != 2*time.Second {
		t.Fatalf("Timeout = %v, want 2s", conf.Timeout)
	}
	if conf.Name != "scheduler" {
		t.Fatalf("Name = %q, want scheduler", conf.Name)
	}
}

func TestFromEnvRunsValidator(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "invalid")

	_, err := FromEnv[sampleConfig]("SAMPLE")
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestExportEnvironmentKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "CONFIG_TEST_KEEP=file\nCONFIG_TEST_NEW=file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("CONFIG_TEST_KEEP", "process")
	t.Setenv("CONFIG_TEST_NEW", "")
	os.Unsetenv("CONFIG_TEST_NEW")

	if err := exportEnvironment(path); err != nil {
		t.Fatalf("exportEnvironment() error = %v", err)
	}
	if got := os.Getenv("CONFIG_TEST_KEEP"); got != "process" {
		t.Fatalf("CONFIG_TEST_KEEP = %q, want process", got)
	}
	if got := os.Getenv("CONFIG_TEST_NEW"); got != "file" {
		t.Fatalf("CONFIG_TEST_NEW = %q, want file", got)
	}
}

func TestExportEnvironmentIfExistsMissingFile(t *testing.T) {
	if err := exportEnvironmentIfExists(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("exportEnvironmentIfExists() error = %v", err)
	}
}
