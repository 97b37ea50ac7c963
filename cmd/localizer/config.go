package main

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	I18n   I18nConfig   `koanf:"i18n"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type I18nConfig struct {
	Catalog string `koanf:"catalog"`
	Default string `koanf:"default"`
	Charset string `koanf:"charset"`
}

// loadConfig reads an optional YAML file, then lets LOCALIZER_* environment
// variables override it (LOCALIZER_SERVER__ADDR maps to server.addr).
func loadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	if err := k.Load(env.Provider("LOCALIZER_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "LOCALIZER_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	if !k.Exists("server.addr") {
		k.Set("server.addr", ":8080")
	}
	if !k.Exists("i18n.catalog") {
		k.Set("i18n.catalog", "messages.yaml")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
