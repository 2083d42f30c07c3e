package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// ServerConfig :
// Describes the properties used to configure a running instance of the
// galaxy simulation server. Some information is generated at runtime
// (the instance id) while the rest is read from a configuration file and
// can be overridden by environment variables, following the same
// pattern used for the logger's own configuration.
//
// Most of these properties are used to identify the current instance in
// logs and to size the resources it exposes to the outside world (the
// listening address, the tick cadence, where content and saves live on
// disk).
//
// The `InstanceID` describes an identifier of the current instance of
// the server. Generated at runtime, unique per run.
// The default value is automatically generated.
//
// The `Environment` is a string describing the configuration used to
// start this application (`development`, `production`, ...).
// The default value is "development".
//
// The `ListenAddress` is the TCP address the session layer binds to.
// The default value is "0.0.0.0".
//
// The `ListenPort` is the TCP port the session layer binds to.
// The default value is 9090.
//
// The `ContentDir` is the directory containing the registry's JSON
// catalog files (buildings, ships, resources, ...).
// The default value is "data/content".
//
// The `SaveDir` is the directory containing per-player galaxy save
// files.
// The default value is "data/saves".
//
// The `PlayersFile` is the name of the file (inside `SaveDir`) holding
// player account metadata.
// The default value is "players.json".
//
// The `BuildInterval` is the cadence of the build tick.
// The default value is 1 second.
//
// The `ProductionInterval` is the cadence of the production tick.
// The default value is 60 seconds.
//
// The `PersistenceInterval` is the cadence of the persistence tick.
// The default value is 60 seconds.
//
// The `FrameMaxBytes` is the maximum accepted size for a single framed
// message, guarding the session layer against a client declaring an
// unreasonable payload length.
// The default value is 1 << 20 (1 MiB).
type ServerConfig struct {
	InstanceID  string
	Environment string

	ListenAddress string
	ListenPort    int

	ContentDir  string
	SaveDir     string
	PlayersFile string

	BuildInterval       time.Duration
	ProductionInterval  time.Duration
	PersistenceInterval time.Duration

	FrameMaxBytes int
}

// Parse :
// Parses the server configuration from a named configuration file plus
// environment variable overrides (`ENV_`-prefixed, with `.` replaced by
// `_`, mirroring the logger's own configuration loading), falling back
// to sane defaults for anything left unset.
//
// The `configFile` is the name of the configuration file (without
// extension) to look up in the working directory or in `data/config`.
// An empty value skips file loading entirely and returns the defaults.
//
// Returns the parsed configuration, or an error if a named config file
// could not be read.
func Parse(configFile string) (ServerConfig, error) {
	viper.SetEnvPrefix("ENV")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	cfg := ServerConfig{
		InstanceID:  uuid.New().String(),
		Environment: "development",

		ListenAddress: "0.0.0.0",
		ListenPort:    9090,

		ContentDir:  "data/content",
		SaveDir:     "data/saves",
		PlayersFile: "players.json",

		BuildInterval:       1 * time.Second,
		ProductionInterval:  60 * time.Second,
		PersistenceInterval: 60 * time.Second,

		FrameMaxBytes: 1 << 20,
	}

	if len(configFile) == 0 {
		return cfg, nil
	}

	viper.SetConfigName(configFile)
	viper.AddConfigPath(".")
	viper.AddConfigPath("data/config")

	if err := viper.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("could not parse input configuration %q (err: %v)", configFile, err)
	}

	if viper.IsSet("Server.Environment") {
		cfg.Environment = viper.GetString("Server.Environment")
	}
	if viper.IsSet("Listen.Address") {
		cfg.ListenAddress = viper.GetString("Listen.Address")
	}
	if viper.IsSet("Listen.Port") {
		cfg.ListenPort = viper.GetInt("Listen.Port")
	}
	if viper.IsSet("Content.Dir") {
		cfg.ContentDir = viper.GetString("Content.Dir")
	}
	if viper.IsSet("Save.Dir") {
		cfg.SaveDir = viper.GetString("Save.Dir")
	}
	if viper.IsSet("Save.PlayersFile") {
		cfg.PlayersFile = viper.GetString("Save.PlayersFile")
	}
	if viper.IsSet("Tick.BuildInterval") {
		cfg.BuildInterval = viper.GetDuration("Tick.BuildInterval")
	}
	if viper.IsSet("Tick.ProductionInterval") {
		cfg.ProductionInterval = viper.GetDuration("Tick.ProductionInterval")
	}
	if viper.IsSet("Tick.PersistenceInterval") {
		cfg.PersistenceInterval = viper.GetDuration("Tick.PersistenceInterval")
	}
	if viper.IsSet("Frame.MaxBytes") {
		cfg.FrameMaxBytes = viper.GetInt("Frame.MaxBytes")
	}

	return cfg, nil
}
