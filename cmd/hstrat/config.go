package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/hstrat/codec"
	"github.com/hupe1980/hstrat/policy"
	"github.com/hupe1980/hstrat/records"
)

// simConfig describes a batch of population simulations.
type simConfig struct {
	Policy              string `yaml:"policy" validate:"required"`
	DifferentiaBitWidth int    `yaml:"differentia_bit_width" validate:"min=1,max=1024"`
	Population          int    `yaml:"population" validate:"min=1,max=100000"`
	Generations         int    `yaml:"generations" validate:"min=0"`
	Replicates          int    `yaml:"replicates" validate:"min=1"`
	Seed                uint64 `yaml:"seed"`
	Concurrency         int    `yaml:"concurrency" validate:"min=0"`
	Codec               string `yaml:"codec" validate:"oneof=json go-json"`
	Compression         string `yaml:"compression" validate:"oneof=none lz4 zstd"`
}

var configValidate = validator.New()

func defaultSimConfig() simConfig {
	return simConfig{
		Policy:              "depth_proportional_resolution:8",
		DifferentiaBitWidth: 64,
		Population:          16,
		Generations:         100,
		Replicates:          1,
		Codec:               codec.Default.Name(),
		Compression:         "none",
	}
}

func loadSimConfig(path string) (simConfig, error) {
	cfg := defaultSimConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.validate()
}

func (c simConfig) validate() error {
	if err := configValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config: %s failed %q", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("config: %w", err)
	}

	if _, err := c.policy(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}

func (c simConfig) policy() (policy.Policy, error) {
	spec, err := policy.ParseSpec(c.Policy)
	if err != nil {
		return nil, err
	}
	return policy.New(spec)
}

func (c simConfig) recordsOptions() []records.Option {
	cd, _ := codec.ByName(c.Codec)
	opts := []records.Option{records.WithCodec(cd)}

	switch c.Compression {
	case "lz4":
		opts = append(opts, records.WithCompression(records.CompressionLZ4))
	case "zstd":
		opts = append(opts, records.WithCompression(records.CompressionZSTD))
	}

	return opts
}
