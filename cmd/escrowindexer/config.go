package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

type config struct {
	Node   string
	Listen string
	// Postgres is a DSN. An empty value keeps the index in memory.
	Postgres string
}

type fileConfig struct {
	Node     string `toml:"node"`
	Listen   string `toml:"listen"`
	Postgres string `toml:"postgres"`
}

func defaultConfig() config {
	return config{
		Node:   "http://localhost:26657",
		Listen: "localhost:8080",
	}
}

// loadConfig reads the file at path, if given, and applies the environment
// overrides.
func loadConfig(path string) (config, error) {
	c := defaultConfig()

	if path != "" {
		var raw fileConfig
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return c, fmt.Errorf("load config %q: %s", path, err)
		}
		if meta.IsDefined("node") {
			c.Node = strings.TrimSpace(raw.Node)
		}
		if meta.IsDefined("listen") {
			c.Listen = strings.TrimSpace(raw.Listen)
		}
		if meta.IsDefined("postgres") {
			c.Postgres = strings.TrimSpace(raw.Postgres)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return c, fmt.Errorf("config %q: unknown key %q", path, undecoded[0].String())
		}
	}

	c.Node = env("ESCROWINDEXER_NODE", c.Node)
	c.Listen = env("ESCROWINDEXER_LISTEN", c.Listen)
	c.Postgres = env("ESCROWINDEXER_POSTGRES", c.Postgres)
	return c, nil
}

func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}
