package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/ledger/coin"
)

// config holds the defaults of all commands. Values are read from the TOML
// file first and then from the environment. Command line flags take
// precedence over both.
type config struct {
	Node string
	Key  string
	Unit coin.Unit
}

// conf is loaded once by main before a command runs.
var conf = defaultConfig()

type fileConfig struct {
	Node string `toml:"node"`
	Key  string `toml:"key"`
	Unit string `toml:"unit"`
}

func defaultConfig() config {
	return config{
		Node: "http://localhost:26657",
		Key:  filepath.Join(os.Getenv("HOME"), ".escrowcli.priv.key"),
		Unit: coin.Ether,
	}
}

func configPath() string {
	return env("ESCROWCLI_CONFIG", filepath.Join(os.Getenv("HOME"), ".escrowcli.toml"))
}

// loadConfig reads the configuration file at path, if it exists, and
// applies the environment overrides.
func loadConfig(path string) (config, error) {
	c := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return c, fmt.Errorf("load config %q: %s", path, err)
	default:
		if meta.IsDefined("node") {
			c.Node = strings.TrimSpace(raw.Node)
		}
		if meta.IsDefined("key") {
			c.Key = strings.TrimSpace(raw.Key)
		}
		if meta.IsDefined("unit") {
			u, err := coin.ParseUnit(raw.Unit)
			if err != nil {
				return c, fmt.Errorf("config %q: %s", path, err)
			}
			c.Unit = u
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return c, fmt.Errorf("config %q: unknown key %q", path, undecoded[0].String())
		}
	}

	c.Node = env("ESCROWCLI_NODE", c.Node)
	c.Key = env("ESCROWCLI_KEY", c.Key)
	if v, ok := os.LookupEnv("ESCROWCLI_UNIT"); ok {
		u, err := coin.ParseUnit(v)
		if err != nil {
			return c, fmt.Errorf("ESCROWCLI_UNIT: %s", err)
		}
		c.Unit = u
	}
	return c, nil
}

// env returns the value of an environment variable if provided (even if
// empty) or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}
