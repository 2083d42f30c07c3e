package player

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ironreach/starforge/internal/galaxy"
	"github.com/ironreach/starforge/internal/registry"
	"github.com/ironreach/starforge/pkg/locker"
	"github.com/ironreach/starforge/pkg/logger"
)

const defaultGalaxyWidth = 20
const defaultGalaxyHeight = 20
const defaultStarDensity = 50
const defaultNebulaDensity = 20

// Manager :
// Owns every registered player and their persisted galaxies. A
// player's metadata lives in one shared file; each player's galaxy is
// persisted to its own file to keep the metadata file small, per
// `PlayerManager.save_players` in `original_source/server/player_manager.py`.
type Manager struct {
	mu sync.RWMutex

	players  map[string]*Player
	savePath string
	saveDir  string
	reg      *registry.Registry
	log      logger.Logger

	locks *locker.ConcurrentLocker
}

// NewManager :
// Creates a manager that persists player metadata to `savePath` and
// per-player galaxy files under `saveDir`. Also creates the pool of
// per-player locks handed out by `LockPlayer`, so the tick scheduler
// and the session layer never race on the same player's galaxy.
func NewManager(log logger.Logger, reg *registry.Registry, savePath string, saveDir string) *Manager {
	return &Manager{
		players:  make(map[string]*Player),
		savePath: savePath,
		saveDir:  saveDir,
		reg:      reg,
		log:      log,
		locks:    locker.NewConcurrentLocker(log),
	}
}

// LockPlayer :
// Acquires the pooled lock serializing access to `playerID`'s galaxy
// between the command dispatcher and the tick scheduler. Must be paired
// with a call to `UnlockPlayer` using the returned lock.
func (m *Manager) LockPlayer(playerID string) *locker.Lock {
	l := m.locks.Acquire(playerID)
	l.Lock()
	return l
}

// UnlockPlayer :
// Releases a lock acquired through `LockPlayer`.
func (m *Manager) UnlockPlayer(l *locker.Lock) {
	if l == nil {
		return
	}
	if err := l.Release(); err != nil {
		m.log.Trace(logger.Error, "player", err.Error())
		return
	}
	m.locks.Release(l)
}

type persistedPlayer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Token        string `json:"token"`
	HomeSystemID string `json:"home_system_id"`
	LastSeen     int64  `json:"last_seen"`
	GalaxyPath   string `json:"galaxy_path"`
}

// Load :
// Reads the player metadata file, if present, then loads (or
// generates) each player's galaxy. Missing files are not an error: a
// fresh server starts with no players.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := os.ReadFile(m.savePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.log.Trace(logger.Info, "player", "no player data found, starting fresh")
			return nil
		}
		return err
	}

	var data map[string]persistedPlayer
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse player data: %v", err)
	}

	for id, pdata := range data {
		p := &Player{
			ID:           id,
			Name:         pdata.Name,
			Token:        pdata.Token,
			HomeSystemID: pdata.HomeSystemID,
			LastSeen:     pdata.LastSeen,
			GalaxyPath:   pdata.GalaxyPath,
		}
		m.players[id] = p

		if g, err := loadGalaxyFile(p.GalaxyPath); err == nil {
			p.Galaxy = g
		} else {
			m.log.Trace(logger.Warning, "player", fmt.Sprintf("no galaxy found for %s, generating new one", p.Name))
			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			p.Galaxy = galaxy.GenerateForPlayer(m.reg, p.ID, defaultGalaxyWidth, defaultGalaxyHeight, defaultStarDensity, defaultNebulaDensity, rng)
			p.GalaxyPath = m.galaxyPath(p.ID)
			if err := saveGalaxyFile(p.GalaxyPath, p.Galaxy); err != nil {
				m.log.Trace(logger.Error, "player", fmt.Sprintf("failed to save galaxy for %s: %v", p.Name, err))
			}
		}
	}

	m.log.Trace(logger.Info, "player", fmt.Sprintf("loaded %d players from disk", len(m.players)))
	return nil
}

// SaveAll :
// Persists player metadata and every player's galaxy to disk.
func (m *Manager) SaveAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data := make(map[string]persistedPlayer, len(m.players))
	for id, p := range m.players {
		if p.GalaxyPath == "" {
			p.GalaxyPath = m.galaxyPath(id)
		}
		if p.Galaxy != nil {
			if err := saveGalaxyFile(p.GalaxyPath, p.Galaxy); err != nil {
				m.log.Trace(logger.Error, "player", fmt.Sprintf("failed to save galaxy for %s: %v", p.Name, err))
			}
		}
		data[id] = persistedPlayer{
			ID:           p.ID,
			Name:         p.Name,
			Token:        p.Token,
			HomeSystemID: p.HomeSystemID,
			LastSeen:     p.LastSeen,
			GalaxyPath:   p.GalaxyPath,
		}
	}

	if dir := filepath.Dir(m.savePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.savePath, out, 0o644)
}

func (m *Manager) galaxyPath(playerID string) string {
	return filepath.Join(m.saveDir, playerID+".json")
}

func loadGalaxyFile(path string) (*galaxy.Map, error) {
	if path == "" {
		return nil, os.ErrNotExist
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var g galaxy.Map
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func saveGalaxyFile(path string, g *galaxy.Map) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// Resolve :
// Reconnects an existing player by `token` if one matches, otherwise
// creates a new player named `name` (or an auto-generated name) with a
// freshly generated galaxy. Every resolution, new or returning, stamps
// `LastSeen`.
func (m *Manager) Resolve(token string, name string) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token != "" {
		for _, p := range m.players {
			if p.Token == token {
				p.Touch()
				return p
			}
		}
	}

	if name == "" {
		name = fmt.Sprintf("Player_%d", len(m.players)+1)
	}

	p := New(name)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	p.Galaxy = galaxy.GenerateForPlayer(m.reg, p.ID, defaultGalaxyWidth, defaultGalaxyHeight, defaultStarDensity, defaultNebulaDensity, rng)
	p.GalaxyPath = m.galaxyPath(p.ID)
	if p.Galaxy.StartingHex != nil {
		p.HomeSystemID = fmt.Sprintf("%d,%d", p.Galaxy.StartingHex.Q, p.Galaxy.StartingHex.R)
	}

	m.players[p.ID] = p
	return p
}

// ByID :
// Looks up a player by id.
//
// Returns the player and true if found.
func (m *Manager) ByID(id string) (*Player, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[id]
	return p, ok
}

// All :
// Returns every registered player.
func (m *Manager) All() []*Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, p)
	}
	return out
}
