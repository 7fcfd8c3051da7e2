package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// defaultAddr is the API server listen address when neither flag nor config
// sets one.
const defaultAddr = "127.0.0.1:8080"

// Config is the optional linegraph.toml file. Every field is optional;
// explicit flags take precedence.
//
//	[weld]
//	tolerance = 0.001
//
//	[analysis]
//	weighted = true
//	analyses = ["mst", "betweenness"]
//
//	[render]
//	formats = ["svg"]
//	highlight = "mst"
//
//	[cache]
//	dir = "/var/cache/linegraph"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Weld     WeldConfig     `toml:"weld"`
	Analysis AnalysisConfig `toml:"analysis"`
	Render   RenderConfig   `toml:"render"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

type WeldConfig struct {
	Tolerance float64 `toml:"tolerance"`
}

type AnalysisConfig struct {
	Weighted bool     `toml:"weighted"`
	Analyses []string `toml:"analyses"`
}

type RenderConfig struct {
	Formats   []string `toml:"formats"`
	Highlight string   `toml:"highlight"`
}

type CacheConfig struct {
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// loadConfig reads the config file. An explicit path must exist; otherwise
// ./linegraph.toml and $XDG_CONFIG_HOME/linegraph/config.toml are tried and a
// missing file yields the zero Config. The path actually read is returned.
func loadConfig(explicit string) (Config, string, error) {
	var cfg Config

	paths := []string{explicit}
	if explicit == "" {
		paths = configPaths()
	}

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if os.IsNotExist(err) {
			if explicit != "" {
				return cfg, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", p)
			}
			continue
		}
		if err != nil {
			return cfg, "", fmt.Errorf("read config %s: %w", p, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s: %v", p, err)
		}
		return cfg, p, cfg.validate()
	}
	return cfg, "", nil
}

// configPaths lists the implicit config locations in lookup order.
func configPaths() []string {
	paths := []string{configFile}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		paths = append(paths, filepath.Join(dir, appName, "config.toml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}
	return paths
}

func (c Config) validate() error {
	if c.Weld.Tolerance != 0 {
		if err := errors.ValidateTolerance(c.Weld.Tolerance); err != nil {
			return err
		}
	}
	if err := pipeline.ValidateAnalyses(c.Analysis.Analyses); err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	return pipeline.ValidateHighlight(c.Render.Highlight)
}

// addr returns the server address from flag, config, or default.
func (c Config) addr(flag string) string {
	switch {
	case flag != "":
		return flag
	case c.Server.Addr != "":
		return c.Server.Addr
	default:
		return defaultAddr
	}
}
