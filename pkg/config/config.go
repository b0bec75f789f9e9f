// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"io/ioutil"

	"github.com/naoina/toml"

	"github.com/lassandro/gosynacor/pkg/encoding"
	"github.com/lassandro/gosynacor/pkg/input"
	"github.com/lassandro/gosynacor/pkg/machine"
)

type Config struct {
	Program  string   `toml:"program"`
	Save     string   `toml:"save"`
	Record   string   `toml:"record"`
	Trace    string   `toml:"trace"`
	Sentinel string   `toml:"sentinel"`
	Break    []string `toml:"break"`
	Color    string   `toml:"color"`
}

const (
	COLOR_AUTO   = "auto"
	COLOR_ALWAYS = "always"
	COLOR_NEVER  = "never"
)

func Default() Config {
	return Config{Sentinel: input.DEFAULT_SENTINEL, Color: COLOR_AUTO}
}

// Parse decodes a TOML document over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if _, err := cfg.Breakpoints(); err != nil {
		return cfg, err
	}

	switch cfg.Color {
	case COLOR_AUTO, COLOR_ALWAYS, COLOR_NEVER:
	default:
		return cfg, fmt.Errorf("color %q: want auto, always or never", cfg.Color)
	}

	return cfg, nil
}

func Load(path string) (Config, error) {
	data, err := ioutil.ReadFile(path)

	if err != nil {
		return Default(), err
	}

	cfg, err := Parse(data)

	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Breakpoints decodes the configured breakpoint addresses, which may be
// written in decimal or hex.
func (cfg *Config) Breakpoints() ([]uint16, error) {
	result := make([]uint16, 0, len(cfg.Break))

	for _, s := range cfg.Break {
		addr, err := encoding.DecodeWord(s)

		if err != nil {
			return nil, fmt.Errorf("break %q: %w", s, err)
		}

		if addr > machine.WORD_MAX {
			return nil, fmt.Errorf("break %q: address out of range", s)
		}

		result = append(result, addr)
	}

	return result, nil
}
