package player

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironreach/starforge/internal/planet"
	"github.com/ironreach/starforge/internal/registry"
	"github.com/ironreach/starforge/pkg/logger"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	reg := registry.New(logger.NewStdLogger("test"))
	require.NoError(t, reg.Load(t.TempDir()))

	savePath := filepath.Join(dir, "players.json")
	saveDir := filepath.Join(dir, "galaxies")
	return NewManager(logger.NewStdLogger("test"), reg, savePath, saveDir), dir
}

func TestResolve_CreatesNewPlayerWithGalaxy(t *testing.T) {
	m, _ := newTestManager(t)

	p := m.Resolve("", "captain")
	require.NotNil(t, p)
	assert.Equal(t, "captain", p.Name)
	require.NotNil(t, p.Galaxy)
	require.NotNil(t, p.Galaxy.StartingHex)
	assert.NotEmpty(t, p.HomeSystemID)

	stored, ok := m.ByID(p.ID)
	require.True(t, ok)
	assert.Same(t, p, stored)
}

func TestResolve_ReconnectsByToken(t *testing.T) {
	m, _ := newTestManager(t)

	first := m.Resolve("", "captain")
	again := m.Resolve(first.Token, "")

	assert.Same(t, first, again)
}

func TestResolve_UnknownTokenCreatesNewPlayer(t *testing.T) {
	m, _ := newTestManager(t)

	first := m.Resolve("", "captain")
	second := m.Resolve("not-a-real-token", "navigator")

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, m.All(), 2)
}

func TestResolve_EmptyNameGetsAutoGenerated(t *testing.T) {
	m, _ := newTestManager(t)
	p := m.Resolve("", "")
	assert.NotEmpty(t, p.Name)
}

func TestSaveAll_Load_RoundTrip(t *testing.T) {
	m, dir := newTestManager(t)
	p := m.Resolve("", "captain")

	require.NoError(t, m.SaveAll())

	savePath := filepath.Join(dir, "players.json")
	raw, err := os.ReadFile(savePath)
	require.NoError(t, err)

	var data map[string]persistedPlayer
	require.NoError(t, json.Unmarshal(raw, &data))
	stored, ok := data[p.ID]
	require.True(t, ok)
	assert.Equal(t, p.Token, stored.Token)

	reg := registry.New(logger.NewStdLogger("test"))
	require.NoError(t, reg.Load(t.TempDir()))
	reloaded := NewManager(logger.NewStdLogger("test"), reg, savePath, filepath.Join(dir, "galaxies"))
	require.NoError(t, reloaded.Load())

	got, ok := reloaded.ByID(p.ID)
	require.True(t, ok)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Token, got.Token)
	require.NotNil(t, got.Galaxy)
}

func TestSaveAll_Load_RoundTrip_PreservesDefenseUnits(t *testing.T) {
	m, dir := newTestManager(t)
	p := m.Resolve("", "captain")

	var target *planet.Planet
	for _, hex := range p.Galaxy.Grid {
		if hex.HasStarSystem() {
			target = hex.Contents.Planets[0]
			break
		}
	}
	require.NotNil(t, target, "generated galaxy should contain at least one planet")

	target.Defense.AddUnit(planet.Orbital, "orbital_platform")
	target.Defense.AddUnit(planet.Ground, "bunker")
	target.DefenseBonus = 12.5

	require.NoError(t, m.SaveAll())

	savePath := filepath.Join(dir, "players.json")
	reg := registry.New(logger.NewStdLogger("test"))
	require.NoError(t, reg.Load(t.TempDir()))
	reloaded := NewManager(logger.NewStdLogger("test"), reg, savePath, filepath.Join(dir, "galaxies"))
	require.NoError(t, reloaded.Load())

	got, ok := reloaded.ByID(p.ID)
	require.True(t, ok)
	require.NotNil(t, got.Galaxy)

	var reloadedTarget *planet.Planet
	for _, hex := range got.Galaxy.Grid {
		if hex.HasStarSystem() {
			reloadedTarget = hex.Contents.Planets[0]
			break
		}
	}
	require.NotNil(t, reloadedTarget)

	assert.Equal(t, target.GlobalID, reloadedTarget.GlobalID)
	assert.Equal(t, 12.5, reloadedTarget.DefenseBonus)
	require.NotNil(t, reloadedTarget.Defense)
	assert.ElementsMatch(t, target.Defense.Units(planet.Orbital), reloadedTarget.Defense.Units(planet.Orbital))
	assert.ElementsMatch(t, target.Defense.Units(planet.Ground), reloadedTarget.Defense.Units(planet.Ground))
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	m, _ := newTestManager(t)
	assert.NoError(t, m.Load())
	assert.Empty(t, m.All())
}

func TestLockPlayer_SameIDReusesLockAndSerializes(t *testing.T) {
	m, _ := newTestManager(t)
	p := m.Resolve("", "captain")

	l1 := m.LockPlayer(p.ID)

	unlocked := make(chan struct{})
	go func() {
		l2 := m.LockPlayer(p.ID)
		close(unlocked)
		m.UnlockPlayer(l2)
	}()

	select {
	case <-unlocked:
		t.Fatal("second LockPlayer call should have blocked until the first was released")
	case <-time.After(50 * time.Millisecond):
	}

	m.UnlockPlayer(l1)
	<-unlocked
}
