package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"runtime/debug"

	"github.com/ironreach/starforge/internal/player"
	"github.com/ironreach/starforge/internal/registry"
	"github.com/ironreach/starforge/internal/scheduler"
	"github.com/ironreach/starforge/internal/session"
	"github.com/ironreach/starforge/pkg/config"
	"github.com/ironreach/starforge/pkg/logger"
)

// usage :
// Displays the usage of the server. Typically requires a configuration
// file to be able to fetch the configuration variables to use during
// the execution of the server.
func usage() {
	fmt.Println("Usage:")
	fmt.Println("./galaxy_server -config=[file] for configuration file to use (development/production)")
}

// main :
// Start the server and perform the hex-grid simulation.
func main() {
	help := flag.Bool("h", false, "Print usage")
	conf := flag.String("config", "", "Configuration file to customize app behavior (development/production)")

	flag.Parse()

	if *help {
		usage()
	}

	trueConf := ""
	if conf != nil {
		trueConf = *conf
	}

	cfg, err := config.Parse(trueConf)
	if err != nil {
		panic(fmt.Errorf("cannot start server: %v", err))
	}

	log := logger.NewStdLogger(cfg.InstanceID)

	defer func() {
		if err := recover(); err != nil {
			stack := string(debug.Stack())
			log.Trace(logger.Fatal, "main", fmt.Sprintf("app crashed after error: %v (stack: %s)", err, stack))
		}

		log.Release()
	}()

	reg := registry.New(log)
	if err := reg.Load(cfg.ContentDir); err != nil {
		panic(fmt.Errorf("cannot load content catalog from %q: %v", cfg.ContentDir, err))
	}

	players := player.NewManager(log, reg, filepath.Join(cfg.SaveDir, cfg.PlayersFile), filepath.Join(cfg.SaveDir, "galaxies"))
	if err := players.Load(); err != nil {
		panic(fmt.Errorf("cannot load player data: %v", err))
	}

	processes := scheduler.New(cfg, reg, players, log)

	server := session.NewServer(cfg, reg, players, log, processes)

	if err := server.Serve(); err != nil {
		panic(fmt.Errorf("unexpected error while serving on %s:%d (err: %v)", cfg.ListenAddress, cfg.ListenPort, err))
	}
}
