package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironreach/starforge/pkg/logger"
)

// Category :
// One of the fixed content categories a registry loads, each backed by
// its own file under the content directory.
type Category string

// The fixed set of categories. `All` is not a file-backed category: it
// is a derived aggregate rebuilt from the other seven on every load.
const (
	Planets        Category = "planets"
	Buildings      Category = "buildings"
	DefenseUnits   Category = "defense_units"
	PlanetFeatures Category = "planet_features"
	Resources      Category = "resources"
	OffenseUnits   Category = "offense_units"
	Ships          Category = "ships"
	All            Category = "all"
)

// categoryFiles maps the fixed filename a category is loaded from. The
// mapping itself is immutable and never configurable, matching §4.1.
var categoryFiles = map[string]Category{
	"buildings.json":       Buildings,
	"defense_units.json":   DefenseUnits,
	"planet_types.json":    Planets,
	"planet_features.json": PlanetFeatures,
	"resources.json":       Resources,
	"offense_units.json":   OffenseUnits,
	"ships.json":           Ships,
}

// ErrMissingID :
// Indicates a catalog entry without an `id` field, which the registry
// refuses to load: every other category and the `all` aggregate are
// keyed by it.
var ErrMissingID = fmt.Errorf("registry entry missing id")

// ErrNotAList :
// Indicates a catalog file whose top-level JSON value isn't an array of
// entries.
var ErrNotAList = fmt.Errorf("registry file must contain a list of entries")

// Registry :
// Immutable-after-load in-memory catalog of every category of content
// the simulation references: planet types, resources, buildings,
// defense units, ships, offense units and planet features. Loaded once
// at startup from a directory of JSON documents; every simulation
// function that needs catalog data takes a `*Registry` explicitly
// rather than reaching for a package-level global, per the injected
// read-only context redesign.
//
// The `categories` holds one id→entry map per file-backed category.
//
// The `all` is the cross-category id→entry aggregate, rebuilt on every
// load/merge.
//
// The `log` notifies load warnings (duplicate ids, missing names) to
// the operator; nothing about a loaded registry is ever mutated after
// `Load` returns, so no further logging happens past that point.
type Registry struct {
	categories map[Category]map[string]Entry
	all        map[string]Entry
	log        logger.Logger
}

// New :
// Creates an empty registry ready to be populated by `Load`.
//
// The `log` is used to report load-time warnings.
//
// Returns the created registry.
func New(log logger.Logger) *Registry {
	r := &Registry{
		categories: make(map[Category]map[string]Entry),
		all:        make(map[string]Entry),
		log:        log,
	}
	for _, cat := range []Category{Planets, Buildings, DefenseUnits, PlanetFeatures, Resources, OffenseUnits, Ships} {
		r.categories[cat] = make(map[string]Entry)
	}
	return r
}

// Load :
// Loads every category file found under `dir`. A missing file is
// skipped with a warning rather than failing the whole load, since a
// minimal deployment may not need every category (for instance a
// content pack with no offense units yet). A malformed file — not a
// JSON array, or an entry without an `id` — fails loudly, since it
// almost certainly indicates a broken content pipeline rather than an
// intentionally sparse catalog.
//
// The `dir` is the content directory to load from.
//
// Returns an error if any present file is malformed.
func (r *Registry) Load(dir string) error {
	for filename, cat := range categoryFiles {
		path := filepath.Join(dir, filename)

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				r.log.Trace(logger.Warning, "registry", fmt.Sprintf("missing content file %q", filename))
				continue
			}
			return err
		}

		var entries []Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("%w: %s (%v)", ErrNotAList, filename, err)
		}

		for _, entry := range entries {
			if entry.ID == "" {
				return fmt.Errorf("%w: in %s: %+v", ErrMissingID, filename, entry)
			}

			r.categories[cat][entry.ID] = entry
			r.all[entry.ID] = entry

			r.log.Trace(logger.Verbose, "registry", fmt.Sprintf("loaded %s -> %s", entry.ID, cat))
		}
	}

	r.validate()

	r.log.Trace(logger.Info, "registry", fmt.Sprintf("loaded registry with %d total entries", len(r.all)))

	return nil
}

// validate :
// Warns (without failing) on a duplicate id across categories and on an
// entry missing a `name`, matching §4.1's "warn" (not "fail") severity
// for these two conditions.
func (r *Registry) validate() {
	seen := make(map[string]bool)

	for _, cat := range []Category{Planets, Buildings, DefenseUnits, PlanetFeatures, Resources, OffenseUnits, Ships} {
		for id, entry := range r.categories[cat] {
			if seen[id] {
				r.log.Trace(logger.Warning, "registry", fmt.Sprintf("duplicate id %q across categories", id))
			}
			seen[id] = true

			if entry.Name == "" {
				r.log.Trace(logger.Warning, "registry", fmt.Sprintf("%s:%s missing name field", cat, id))
			}
		}
	}
}

// Get :
// Looks up an entry by id across every category.
//
// The `id` identifies the entry.
//
// Returns the entry and true if found, or the zero value and false
// otherwise.
func (r *Registry) Get(id string) (Entry, bool) {
	entry, ok := r.all[id]
	return entry, ok
}

// Category :
// Looks up an entry within a specific category only.
//
// The `cat` restricts the lookup.
//
// The `id` identifies the entry.
//
// Returns the entry and true if found within that category.
func (r *Registry) Category(cat Category, id string) (Entry, bool) {
	table, ok := r.categories[cat]
	if !ok {
		return Entry{}, false
	}
	entry, ok := table[id]
	return entry, ok
}

// All :
// Returns a snapshot of every loaded entry in a given category, keyed
// by id. The returned map is a copy; mutating it has no effect on the
// registry.
func (r *Registry) All(cat Category) map[string]Entry {
	out := make(map[string]Entry, len(r.categories[cat]))
	for id, entry := range r.categories[cat] {
		out[id] = entry
	}
	return out
}

// ToWire :
// Produces the `category -> (id -> entry)` mapping sent as the
// `registry_sync` message, explicitly excluding the `all` aggregate
// (the client reconstructs it), per §4.1.
func (r *Registry) ToWire() map[string]map[string]Entry {
	out := make(map[string]map[string]Entry, len(r.categories))
	for cat, table := range r.categories {
		copyTable := make(map[string]Entry, len(table))
		for id, entry := range table {
			copyTable[id] = entry
		}
		out[string(cat)] = copyTable
	}
	return out
}

// FromWire :
// Rebuilds a registry from the `category -> (id -> entry)` mapping
// produced by `ToWire`, reconstructing the `all` aggregate. Used by
// tests exercising wire round-trips; the running server always loads
// from disk through `Load` instead.
func FromWire(log logger.Logger, wire map[string]map[string]Entry) *Registry {
	r := New(log)
	for cat, table := range wire {
		r.categories[Category(cat)] = make(map[string]Entry, len(table))
		for id, entry := range table {
			r.categories[Category(cat)][id] = entry
			r.all[id] = entry
		}
	}
	return r
}
