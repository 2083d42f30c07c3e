package scheduler

import (
	"fmt"
	"time"

	"github.com/ironreach/starforge/internal/planet"
	"github.com/ironreach/starforge/internal/player"
	"github.com/ironreach/starforge/internal/registry"
	"github.com/ironreach/starforge/pkg/background"
	"github.com/ironreach/starforge/pkg/config"
	"github.com/ironreach/starforge/pkg/logger"
)

// New :
// Builds the three periodic tick processes the simulation runs on:
// build-queue progression, resource production, and player/galaxy
// persistence. Mirrors `update_builds`, `update_production` and
// `periodic_save` in
// `original_source/server/server_main.py`, but driven by
// `background.Process` instead of `asyncio` tasks so ticks advance by
// wall-clock elapsed time rather than a fixed `sleep` argument.
func New(cfg config.ServerConfig, reg *registry.Registry, players *player.Manager, log logger.Logger) []*background.Process {
	build := background.NewProcess(cfg.BuildInterval, log).
		WithModule("build").
		WithRetry().
		WithOperation(buildTick(reg, players, log))

	production := background.NewProcess(cfg.ProductionInterval, log).
		WithModule("production").
		WithRetry().
		WithOperation(productionTick(reg, players, log))

	persistence := background.NewProcess(cfg.PersistenceInterval, log).
		WithModule("persistence").
		WithRetry().
		WithOperation(persistenceTick(players, log))

	return []*background.Process{build, production, persistence}
}

// forEachColonizedPlanet :
// Visits every colonized planet across every player's galaxy, holding
// that player's lock for the duration of its own planets so a
// concurrent `planet_action` from the session layer can't observe a
// half-ticked planet.
func forEachColonizedPlanet(players *player.Manager, fn func(target *planet.Planet)) {
	for _, pl := range players.All() {
		if pl.Galaxy == nil {
			continue
		}

		l := players.LockPlayer(pl.ID)
		for _, h := range pl.Galaxy.Grid {
			if !h.HasStarSystem() {
				continue
			}
			for _, target := range h.Contents.Planets {
				if !target.IsColonized {
					continue
				}
				fn(target)
			}
		}
		players.UnlockPlayer(l)
	}
}

func buildTick(reg *registry.Registry, players *player.Manager, log logger.Logger) background.OperationFunc {
	return func(elapsed time.Duration) error {
		seconds := elapsed.Seconds()
		forEachColonizedPlanet(players, func(target *planet.Planet) {
			target.AdvanceBuildQueue(reg, seconds)
		})
		return nil
	}
}

func productionTick(reg *registry.Registry, players *player.Manager, log logger.Logger) background.OperationFunc {
	return func(elapsed time.Duration) error {
		forEachColonizedPlanet(players, func(target *planet.Planet) {
			target.RunProduction(reg, false, nil)
		})
		return nil
	}
}

func persistenceTick(players *player.Manager, log logger.Logger) background.OperationFunc {
	return func(elapsed time.Duration) error {
		if err := players.SaveAll(); err != nil {
			return fmt.Errorf("periodic save failed: %v", err)
		}
		log.Trace(logger.Debug, "persistence", "periodic save of all players and galaxies completed")
		return nil
	}
}
