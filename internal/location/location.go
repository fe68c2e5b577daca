// Package location maintains the named screen coordinates a recording
// targets: nearest-neighbor matching of clicks to saved locations,
// automatic naming of new ones, and JSON persistence.
package location

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/dshills/replaykit/internal/input/mouse"
)

// DefaultThreshold is the matching radius in pixels: clicks within this
// distance of a saved location reuse its name.
const DefaultThreshold = 20.0

// Table is the in-memory location table. It is a single-owner mutable
// structure: the recorder and the persistence step receive the same
// instance by reference, never a global.
type Table struct {
	locations map[string]mouse.Point
	threshold float64
	counter   int
	dirty     bool
}

// NewTable creates an empty table with the default matching threshold.
func NewTable() *Table {
	return &Table{
		locations: make(map[string]mouse.Point),
		threshold: DefaultThreshold,
		counter:   1,
	}
}

// SetThreshold overrides the matching radius. Values <= 0 keep the default.
func (t *Table) SetThreshold(px float64) {
	if px > 0 {
		t.threshold = px
	}
}

// Len returns the number of saved locations.
func (t *Table) Len() int {
	return len(t.locations)
}

// Get returns the coordinates of a named location.
func (t *Table) Get(name string) (mouse.Point, bool) {
	p, ok := t.locations[name]
	return p, ok
}

// Set stores or overwrites a named location and marks the table dirty.
func (t *Table) Set(name string, p mouse.Point) {
	t.locations[name] = p
	t.dirty = true
}

// Names returns all location names in lexical order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.locations))
	for name := range t.locations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindNearest returns the closest saved location within the matching
// threshold of (x, y). The strictly closest location wins; equidistant
// candidates resolve to the lexically smallest name so matching is
// deterministic.
func (t *Table) FindNearest(x, y int) (string, bool) {
	p := mouse.Point{X: x, Y: y}
	var bestName string
	bestDist := math.Inf(1)

	for name, loc := range t.locations {
		d := p.Distance(loc)
		if d >= t.threshold {
			continue
		}
		if d < bestDist || (d == bestDist && name < bestName) {
			bestDist = d
			bestName = name
		}
	}
	if bestName == "" {
		return "", false
	}
	return bestName, true
}

// RegisterNew saves (x, y) under a fresh auto-generated name of the form
// click_<n>. The counter increases monotonically and skips names already
// present, so generated names stay unique even against pre-existing
// entries.
func (t *Table) RegisterNew(x, y int) string {
	var name string
	for {
		name = fmt.Sprintf("click_%d", t.counter)
		if _, exists := t.locations[name]; !exists {
			break
		}
		t.counter++
	}
	t.locations[name] = mouse.Point{X: x, Y: y}
	t.counter++
	t.dirty = true
	return name
}

// ResolveOrRegister matches (x, y) to an existing location or registers a
// new one, returning the name either way and whether it is new.
func (t *Table) ResolveOrRegister(x, y int) (string, bool) {
	if name, ok := t.FindNearest(x, y); ok {
		return name, false
	}
	return t.RegisterNew(x, y), true
}

// Dirty reports whether the table changed since it was loaded or saved.
func (t *Table) Dirty() bool {
	return t.dirty
}

// Load reads a location file into a fresh table. A missing file yields an
// empty table, not an error; anything else (unreadable, malformed) fails.
func Load(path string) (*Table, error) {
	t := NewTable()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("read locations: %w", err)
	}
	if err := json.Unmarshal(data, &t.locations); err != nil {
		return nil, fmt.Errorf("parse locations %s: %w", path, err)
	}
	return t, nil
}

// Save writes the table to path as a JSON object of name -> {x, y} and
// clears the dirty flag. The file is written atomically.
func (t *Table) Save(path string) error {
	data, err := json.MarshalIndent(t.locations, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal locations: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create locations dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write locations: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename locations: %w", err)
	}
	t.dirty = false
	return nil
}

// SaveIfDirty writes the table only when it changed and a destination is
// known.
func (t *Table) SaveIfDirty(path string) error {
	if !t.dirty || path == "" {
		return nil
	}
	return t.Save(path)
}
