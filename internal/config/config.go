// Package config loads the dashboards configuration file (YAML).
//
// Every field has a default, so an absent file or an empty one is valid.
// Command-line flags override whatever the file sets.
package config

import (
	"bytes"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/dashboards/datasource"
	"github.com/spektr-org/dashboards/grades"
	"github.com/spektr-org/dashboards/internal/logger"
	"github.com/spektr-org/dashboards/sales"
)

// OutputFormats lists the accepted values of Output.Format.
var OutputFormats = []string{"json", "pretty", "text", "csv"}

// Config is the whole file.
type Config struct {
	Log    Log           `yaml:"log"`
	Output Output        `yaml:"output"`
	Grades grades.Params `yaml:"grades"`
	Sales  Sales         `yaml:"sales"`
}

// Log configures internal/logger.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, human
}

// Output configures how dashboards are printed.
type Output struct {
	Format string `yaml:"format"` // json, pretty, text, csv
	Color  bool   `yaml:"color"`  // color text output
}

// Sales is the sales section: the generator seed plus dashboard parameters.
type Sales struct {
	Seed         uint64 `yaml:"seed"`
	sales.Params `yaml:",inline"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:    Log{Level: "info", Format: "json"},
		Output: Output{Format: "pretty", Color: true},
		Grades: grades.DefaultParams(),
		Sales:  Sales{Seed: datasource.DefaultSeed, Params: sales.DefaultParams()},
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	expanded, err := expandUser(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error resolving config path %q", path)
	}
	content, err := os.ReadFile(expanded)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading config")
	}
	if err := Parse(content, cfg); err != nil {
		return nil, errors.Wrapf(err, "error parsing config %s", expanded)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", expanded)
	}
	return cfg, nil
}

// Parse decodes YAML content onto cfg. Unknown keys are rejected.
func Parse(content []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	if _, err := logger.ParseFormat(c.Log.Format); err != nil {
		return errors.Wrap(err, "log.format")
	}
	if !validOutput(c.Output.Format) {
		return errors.Errorf("output.format: unknown format %q (want %s)",
			c.Output.Format, strings.Join(OutputFormats, ", "))
	}
	if err := c.Grades.Validate(); err != nil {
		return errors.Wrap(err, "grades")
	}
	if err := c.Sales.Params.Validate(); err != nil {
		return errors.Wrap(err, "sales")
	}
	return nil
}

func validOutput(format string) bool {
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}

// expandUser expands a leading ~/ to the current user's home directory.
func expandUser(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			return "", err
		}
		return filepath.Join(usr.HomeDir, path[2:]), nil
	}
	return path, nil
}
