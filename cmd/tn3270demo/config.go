// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// config is the optional YAML file loaded with --config. Every field has a
// usable zero value, so leaving --config unset (or a key out of the file)
// just means "use the flag/default values instead." A --config path that
// can't be read is an error.
type config struct {
	Listen                string        `yaml:"listen"`
	Codepage              string        `yaml:"codepage"`
	NegotiationTimeoutRaw string        `yaml:"negotiation_timeout"`
	NegotiationTimeout    time.Duration `yaml:"-"`
	Geometry              struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"geometry"`
}

func loadConfig(path string) (config, error) {
	var c config
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, err
	}

	if c.NegotiationTimeoutRaw != "" {
		d, err := time.ParseDuration(c.NegotiationTimeoutRaw)
		if err != nil {
			return c, fmt.Errorf("negotiation_timeout: %w", err)
		}
		c.NegotiationTimeout = d
	}

	return c, nil
}
