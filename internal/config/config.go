// Package config reads the optional .programindexer.yaml project file.
// It never changes core pipeline semantics: everything here only
// affects how cmd/index groups output for a multi-file run, the way a
// translation unit is processed is unaffected by it.
package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// ProjectGroup names a set of files that should be reported together
// under one heading, for runs that mix files from unrelated parts of a
// project.
type ProjectGroup struct {
	Name  string   `yaml:"name"`
	Files []string `yaml:"files"`
}

// Config is the shape of .programindexer.yaml.
type Config struct {
	Groups      []ProjectGroup `yaml:"groups,omitempty"`
	NameWidth   int            `yaml:"nameWidth,omitempty"`
	SourceWidth int            `yaml:"sourceWidth,omitempty"`
}

// Default returns a Config with NameWidth 20 and SourceWidth 14, the
// values Load also fills in when a file leaves them unset. The report
// does not read NameWidth or SourceWidth: its column widths are fixed
// in record.FunctionRecord.String.
func Default() Config {
	return Config{NameWidth: 20, SourceWidth: 14}
}

// Load reads path if it exists, filling in defaults for anything left
// unset. A missing file is not an error; it just means Default().
func Load(path string) (Config, error) {
	cfg := Default()

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.NameWidth == 0 {
		cfg.NameWidth = 20
	}
	if cfg.SourceWidth == 0 {
		cfg.SourceWidth = 14
	}
	return cfg, nil
}

// GroupFor returns the name of the group fileName belongs to per the
// config, or "" if it matches none.
func (c Config) GroupFor(fileName string) string {
	for _, g := range c.Groups {
		for _, f := range g.Files {
			if f == fileName {
				return g.Name
			}
		}
	}
	return ""
}
