// Package nfcaconfig loads a YAML document describing one or more named
// nfca.Decoder instances, mirroring the root Config/LoadConfig style of
// the teacher application (os.ReadFile + yaml.Unmarshal into a struct
// tagged with yaml:"...").
package nfcaconfig

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/cwsl/nfca-decoder/nfca"
)

// ReaderConfig describes one decoder instance.
type ReaderConfig struct {
	Name         string       `yaml:"name"`
	SampleRateHz float64      `yaml:"sample_rate_hz"`
	Variant      nfca.Variant `yaml:"variant"`
	Debug        bool         `yaml:"debug,omitempty"`
	Metrics      bool         `yaml:"metrics,omitempty"`
}

// Config is the top-level document: a list of reader stanzas.
type Config struct {
	Readers []ReaderConfig `yaml:"readers"`
}

// Load reads and parses a YAML config file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("nfcaconfig: failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("nfcaconfig: failed to parse config file: %w", err)
	}

	for i, r := range cfg.Readers {
		if r.Name == "" {
			return nil, fmt.Errorf("nfcaconfig: readers[%d] is missing a name", i)
		}
	}

	return &cfg, nil
}

// BuildDecoders constructs one nfca.Decoder per reader stanza, in
// declaration order. If reg is non-nil, readers with Metrics enabled
// register their Metrics on it.
func (c *Config) BuildDecoders(reg prometheus.Registerer) ([]*nfca.Decoder, error) {
	decoders := make([]*nfca.Decoder, 0, len(c.Readers))
	for _, r := range c.Readers {
		var opts []nfca.Option
		if r.Debug {
			opts = append(opts, nfca.WithDebug(true))
		}
		if r.Metrics && reg != nil {
			opts = append(opts, nfca.WithMetrics(reg, r.Name))
		}

		d, err := nfca.New(r.SampleRateHz, r.Variant, opts...)
		if err != nil {
			return nil, fmt.Errorf("nfcaconfig: reader %q: %w", r.Name, err)
		}
		decoders = append(decoders, d)
	}
	return decoders, nil
}
