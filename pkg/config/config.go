// Package config provides configuration file support for the linklock CLI.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/linklock-project/linklock/pkg/errclass"
	"github.com/linklock-project/linklock/pkg/fsutil"
	"github.com/linklock-project/linklock/pkg/model"
)

// Config mirrors the lock options as CLI defaults. Duration fields use Go
// duration syntax ("2s", "80ms"). nil fields fall back to DefaultOptions.
type Config struct {
	Retries      *int    `yaml:"retries"`
	MinSleep     *string `yaml:"min_sleep"`
	MaxSleep     *string `yaml:"max_sleep"`
	SleepInc     *string `yaml:"sleep_inc"`
	MaxAge       *string `yaml:"max_age"`
	Suspend      *string `yaml:"suspend"`
	Refresh      *string `yaml:"refresh"`
	Timeout      *string `yaml:"timeout"`
	PollRetries  *int    `yaml:"poll_retries"`
	PollMaxSleep *string `yaml:"poll_max_sleep"`
	DontClean    *bool   `yaml:"dont_clean"`
	DontSweep    *bool   `yaml:"dont_sweep"`
	Debug        *bool   `yaml:"debug"`
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "linklock", "config.yaml")
	}
	return ""
}

// Load reads a config file. A missing file yields an empty Config. Unknown
// keys are rejected; silently ignoring a misspelled option has bitten
// lockfile users before.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, errclass.ErrConfigInvalid.WithMessagef("parse %s: %v", path, err)
	}
	return cfg, nil
}

// Save writes the config file, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return fsutil.AtomicWrite(path, data, 0644)
}

// Apply overlays the config file values onto opts.
func (c *Config) Apply(opts *model.Options) error {
	if c.Retries != nil {
		v := *c.Retries
		opts.Retries = &v
	}
	durs := []struct {
		src *string
		dst *time.Duration
		key string
	}{
		{c.MinSleep, &opts.MinSleep, "min_sleep"},
		{c.MaxSleep, &opts.MaxSleep, "max_sleep"},
		{c.SleepInc, &opts.SleepInc, "sleep_inc"},
		{c.MaxAge, &opts.MaxAge, "max_age"},
		{c.Suspend, &opts.Suspend, "suspend"},
		{c.Refresh, &opts.Refresh, "refresh"},
		{c.PollMaxSleep, &opts.PollMaxSleep, "poll_max_sleep"},
	}
	for _, d := range durs {
		if d.src == nil {
			continue
		}
		v, err := time.ParseDuration(*d.src)
		if err != nil {
			return errclass.ErrConfigInvalid.WithMessagef("%s: %v", d.key, err)
		}
		*d.dst = v
	}
	if c.Timeout != nil {
		v, err := time.ParseDuration(*c.Timeout)
		if err != nil {
			return errclass.ErrConfigInvalid.WithMessagef("timeout: %v", err)
		}
		opts.Timeout = &v
	}
	if c.PollRetries != nil {
		opts.PollRetries = *c.PollRetries
	}
	if c.DontClean != nil {
		opts.DontClean = *c.DontClean
	}
	if c.DontSweep != nil {
		opts.DontSweep = *c.DontSweep
	}
	if c.Debug != nil {
		opts.Debug = *c.Debug
	}
	return nil
}
