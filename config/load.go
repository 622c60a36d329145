package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of the environment variables that override a
// scenario.
const EnvPrefix = "HYPERRAM_"

// Load reads a scenario file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes a scenario on top of the defaults. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from .env files into the environment. Missing
// files are skipped and variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		err := godotenv.Load(p)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}

	return nil
}

// ApplyEnv overrides fields from HYPERRAM_* variables:
//
//	HYPERRAM_LOG_LEVEL          log.level
//	HYPERRAM_LOG_DEVELOPMENT    log.development
//	HYPERRAM_RECORD             recording.enabled
//	HYPERRAM_RECORD_PATH        recording.path (and enables recording)
//	HYPERRAM_RECORD_WAVEFORM    recording.waveform
//	HYPERRAM_RECORD_UNIQUE_IDS  recording.unique_ids
//	HYPERRAM_MONITOR            monitoring.enabled
//	HYPERRAM_MONITOR_PORT       monitoring.port (and enables monitoring)
//
// A nil lookup reads the process environment.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	env := envReader{lookup: lookup}

	env.str("LOG_LEVEL", &cfg.Log.Level)
	env.boolean("LOG_DEVELOPMENT", &cfg.Log.Development)
	env.boolean("RECORD", &cfg.Recording.Enabled)
	env.boolean("RECORD_WAVEFORM", &cfg.Recording.Waveform)
	env.boolean("RECORD_UNIQUE_IDS", &cfg.Recording.UniqueIDs)
	env.boolean("MONITOR", &cfg.Monitoring.Enabled)

	if env.str("RECORD_PATH", &cfg.Recording.Path) {
		cfg.Recording.Enabled = true
	}

	if env.integer("MONITOR_PORT", &cfg.Monitoring.Port) {
		cfg.Monitoring.Enabled = true
	}

	return env.err
}

type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *envReader) get(name string) (string, bool) {
	v, ok := r.lookup(EnvPrefix + name)
	if !ok {
		return "", false
	}

	return strings.TrimSpace(v), true
}

func (r *envReader) str(name string, dst *string) bool {
	v, ok := r.get(name)
	if !ok {
		return false
	}

	*dst = v

	return true
}

func (r *envReader) boolean(name string, dst *bool) bool {
	v, ok := r.get(name)
	if !ok {
		return false
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		r.err = errors.Join(r.err, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
		return false
	}

	*dst = b

	return true
}

func (r *envReader) integer(name string, dst *int) bool {
	v, ok := r.get(name)
	if !ok {
		return false
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		r.err = errors.Join(r.err, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
		return false
	}

	*dst = n

	return true
}
