package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ironreach/starforge/pkg/logger"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_PopulatesCategoriesAndAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "resources.json", `[{"id":"ore","name":"Ore","yield":1.0}]`)
	writeFile(t, dir, "buildings.json", `[{"id":"mine","name":"Mine","slot_type":"mine"}]`)

	r := New(logger.NewStdLogger("test"))
	require.NoError(t, r.Load(dir))

	entry, ok := r.Get("ore")
	require.True(t, ok)
	assert.Equal(t, "Ore", entry.Name)

	entry, ok = r.Category(Buildings, "mine")
	require.True(t, ok)
	assert.Equal(t, "mine", entry.SlotType)

	assert.Len(t, r.All(Resources), 1)
	assert.Len(t, r.All(Buildings), 1)
}

func TestLoad_MissingFileIsSkippedNotFailed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "resources.json", `[{"id":"ore","name":"Ore"}]`)

	r := New(logger.NewStdLogger("test"))
	require.NoError(t, r.Load(dir))

	assert.Len(t, r.All(Buildings), 0)
}

func TestLoad_NonListFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "resources.json", `{"id":"ore"}`)

	r := New(logger.NewStdLogger("test"))
	err := r.Load(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAList)
}

func TestLoad_MissingIDFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "resources.json", `[{"name":"Ore"}]`)

	r := New(logger.NewStdLogger("test"))
	err := r.Load(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestEntry_ExtraRoundTrips(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "resources.json", `[{"id":"ore","name":"Ore","icon":"ore.png","description":"raw ore"}]`)

	r := New(logger.NewStdLogger("test"))
	require.NoError(t, r.Load(dir))

	entry, ok := r.Get("ore")
	require.True(t, ok)
	assert.Equal(t, "ore.png", entry.Extra["icon"])
	assert.Equal(t, "raw ore", entry.Extra["description"])
}

func TestEntry_ExtraRoundTrips_OverMsgpackWirePush(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "resources.json", `[{"id":"ore","name":"Ore","icon":"ore.png","description":"raw ore"}]`)

	r := New(logger.NewStdLogger("test"))
	require.NoError(t, r.Load(dir))

	encoded, err := msgpack.Marshal(r.ToWire())
	require.NoError(t, err)

	var decoded map[string]map[string]Entry
	require.NoError(t, msgpack.Unmarshal(encoded, &decoded))

	entry, ok := decoded[string(Resources)]["ore"]
	require.True(t, ok)
	assert.Equal(t, "Ore", entry.Name)
	assert.Equal(t, "ore.png", entry.Extra["icon"])
	assert.Equal(t, "raw ore", entry.Extra["description"])
}

func TestToWire_ExcludesAllAggregate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "resources.json", `[{"id":"ore","name":"Ore"}]`)

	r := New(logger.NewStdLogger("test"))
	require.NoError(t, r.Load(dir))

	wire := r.ToWire()
	_, hasAll := wire[string(All)]
	assert.False(t, hasAll)
	assert.Contains(t, wire, string(Resources))
}

func TestFromWire_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "resources.json", `[{"id":"ore","name":"Ore"}]`)

	r := New(logger.NewStdLogger("test"))
	require.NoError(t, r.Load(dir))

	rebuilt := FromWire(logger.NewStdLogger("test"), r.ToWire())
	entry, ok := rebuilt.Get("ore")
	require.True(t, ok)
	assert.Equal(t, "Ore", entry.Name)
}

func TestIsRefinable(t *testing.T) {
	raw := Entry{ID: "ore", Name: "Ore"}
	assert.False(t, raw.IsRefinable())

	refined := Entry{ID: "bar", Name: "Bar", Inputs: map[string]float64{"ore": 2.0}}
	assert.True(t, refined.IsRefinable())
}
