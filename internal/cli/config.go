package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/jacentio/aristotle/store"
)

// fileConfig is the YAML form of the connection settings, e.g.
//
//	region: eu-west-1
//	table: characters
//	key_attribute: character_id
//	scan_segments: 4
type fileConfig struct {
	Region       string `yaml:"region"`
	Table        string `yaml:"table"`
	KeyAttribute string `yaml:"key_attribute"`
	Endpoint     string `yaml:"endpoint"`
	Profile      string `yaml:"profile"`
	ScanSegments int    `yaml:"scan_segments"`
	PageSize     int32  `yaml:"page_size"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// apply copies the file settings into cfg. Flags set on the command line win.
func (fc *fileConfig) apply(flags *pflag.FlagSet, cfg *store.Config) {
	set := func(flag string, apply func()) {
		if !flags.Changed(flag) {
			apply()
		}
	}
	if fc.Region != "" {
		set("region", func() { cfg.Region = fc.Region })
	}
	if fc.Table != "" {
		set("table", func() { cfg.TableName = fc.Table })
	}
	if fc.KeyAttribute != "" {
		set("key", func() { cfg.KeyAttribute = fc.KeyAttribute })
	}
	if fc.Endpoint != "" {
		set("endpoint", func() { cfg.Endpoint = fc.Endpoint })
	}
	if fc.Profile != "" {
		set("profile", func() { cfg.Profile = fc.Profile })
	}
	if fc.ScanSegments != 0 {
		set("segments", func() { cfg.ScanSegments = fc.ScanSegments })
	}
	if fc.PageSize != 0 {
		set("page-size", func() { cfg.PageSize = fc.PageSize })
	}
}
