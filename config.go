package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SIEGE"

// Config is the resolved process configuration
type Config struct {
	Addr      string
	LogLevel  string
	LogPretty bool
	FPS       int
	Seed      int64
	ShipsFile string
	DBPath    string
	TUI       bool
	Match     MatchConfig
	Pairing   PairingConfig
}

// PairingConfig holds the pilot token settings
type PairingConfig struct {
	Secret    string
	PublicURL string
}

// setDefaults registers a default for every key
func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("logLevel", "info")
	v.SetDefault("logPretty", false)
	v.SetDefault("fps", 20)
	v.SetDefault("shipsFile", "")
	v.SetDefault("tui", false)

	v.SetDefault("match.ships", DefaultShips)
	v.SetDefault("match.planets", DefaultPlanets)
	v.SetDefault("match.stars", DefaultStars)
	v.SetDefault("match.levelWidth", DefaultLevelWidth)
	v.SetDefault("match.levelHeight", DefaultLevelHeight)
	v.SetDefault("match.playerKind", LightA.String())
	v.SetDefault("match.autopilot", false)
	v.SetDefault("match.seed", 0)

	v.SetDefault("db.path", "siege.db")

	v.SetDefault("pairing.secret", "")
	v.SetDefault("pairing.publicURL", "")
}

// NewFlagSet declares the command-line flags. Each flag is bound to the config
// key of the same name.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "config file (yaml, json or toml)")
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("logLevel", "info", "log level: trace, debug, info, warn, error")
	fs.Bool("logPretty", false, "human-readable console logs")
	fs.Int("fps", 20, "simulation frames per second")
	fs.String("shipsFile", "", "ship/planet table overriding the built-in one")
	fs.Bool("tui", false, "fly the local ship from this terminal")
	fs.Int("match.ships", DefaultShips, "ships in the roster")
	fs.Int("match.planets", DefaultPlanets, "planets in the level")
	fs.String("match.playerKind", LightA.String(), "local ship kind, e.g. light-a or heavy-b")
	fs.Bool("match.autopilot", false, "let the AI fly the local ship")
	fs.Int64("match.seed", 0, "random seed (0 = time based)")
	fs.String("db.path", "siege.db", "sqlite database path (empty disables persistence)")
	return fs
}

// LoadConfig resolves configuration from defaults, an optional config file,
// SIEGE_* environment variables and flags, in increasing precedence.
func LoadConfig(args []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	fs := NewFlagSet("siege")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	kind, err := ParseShipKind(v.GetString("match.playerKind"))
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Addr:      v.GetString("addr"),
		LogLevel:  v.GetString("logLevel"),
		LogPretty: v.GetBool("logPretty"),
		FPS:       v.GetInt("fps"),
		Seed:      v.GetInt64("match.seed"),
		ShipsFile: v.GetString("shipsFile"),
		DBPath:    v.GetString("db.path"),
		TUI:       v.GetBool("tui"),
		Match: MatchConfig{
			Ships:       v.GetInt("match.ships"),
			Planets:     v.GetInt("match.planets"),
			Stars:       v.GetInt("match.stars"),
			LevelWidth:  v.GetInt("match.levelWidth"),
			LevelHeight: v.GetInt("match.levelHeight"),
			PlayerKind:  kind,
			Autopilot:   v.GetBool("match.autopilot"),
		},
		Pairing: PairingConfig{
			Secret:    v.GetString("pairing.secret"),
			PublicURL: v.GetString("pairing.publicURL"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	if c.FPS <= 0 || c.FPS > 240 {
		return fmt.Errorf("fps must be in 1..240, got %d", c.FPS)
	}
	if c.Addr == "" && !c.TUI {
		return errors.New("nothing to run: set addr or enable tui")
	}
	if err := c.Match.Validate(); err != nil {
		return fmt.Errorf("match: %w", err)
	}
	return nil
}
