// Package store manages recording artifacts on disk. Each recording owns
// one folder under the recordings root holding its script, its location
// table, and an info.json metadata summary.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/replaykit/internal/command"
	"github.com/dshills/replaykit/internal/location"
	"github.com/dshills/replaykit/internal/script"
)

const (
	scriptFile    = "script.txt"
	locationsFile = "locations.json"
	infoFile      = "info.json"

	idPrefix = "rec"
)

// ErrNotFound indicates the recording id or script path does not exist.
var ErrNotFound = errors.New("recording not found")

// Info is the metadata summary persisted as info.json.
type Info struct {
	ID          string    `json:"id"`
	Created     time.Time `json:"created"`
	Duration    float64   `json:"duration"`
	Commands    int       `json:"commands"`
	Locations   int       `json:"locations"`
	Description string    `json:"description"`
}

// Recording is a fully loaded recording: parsed script, location table,
// and metadata.
type Recording struct {
	Info      Info
	Script    command.Script
	Locations *location.Table

	// Problems holds parser diagnostics from loading the script.
	Problems []script.Problem
}

// Store provides access to the recordings root directory.
type Store struct {
	root string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the recordings root directory.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the folder of a recording id.
func (s *Store) Dir(id string) string {
	return filepath.Join(s.root, id)
}

// ScriptPath returns the script file of a recording id.
func (s *Store) ScriptPath(id string) string {
	return filepath.Join(s.root, id, scriptFile)
}

// LocationsPath returns the location file of a recording id.
func (s *Store) LocationsPath(id string) string {
	return filepath.Join(s.root, id, locationsFile)
}

// NextID allocates the next recording id (rec1, rec2, ...) by scanning
// existing folders and taking max+1.
func (s *Store) NextID() (string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return idPrefix + "1", nil
		}
		return "", fmt.Errorf("scan recordings: %w", err)
	}

	max := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), idPrefix) {
			continue
		}
		n, err := strconv.Atoi(entry.Name()[len(idPrefix):])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return idPrefix + strconv.Itoa(max+1), nil
}

// Exists reports whether a recording folder with a script is present.
func (s *Store) Exists(id string) bool {
	_, err := os.Stat(s.ScriptPath(id))
	return err == nil
}

// Save writes a recording's script, location table, and info.json into its
// folder, creating it if needed.
func (s *Store) Save(rec *Recording) error {
	dir := s.Dir(rec.Info.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create recording dir: %w", err)
	}

	header := &script.Header{
		ID:           rec.Info.ID,
		Recorded:     rec.Info.Created,
		Duration:     time.Duration(rec.Info.Duration * float64(time.Second)),
		NewLocations: rec.Info.Locations,
	}
	text := script.Render(rec.Script, header)
	if err := writeFileAtomic(filepath.Join(dir, scriptFile), []byte(text)); err != nil {
		return fmt.Errorf("write script: %w", err)
	}

	if rec.Locations != nil {
		if err := rec.Locations.Save(filepath.Join(dir, locationsFile)); err != nil {
			return err
		}
	}

	return s.writeInfo(dir, rec.Info)
}

// Load reads a recording by id.
func (s *Store) Load(id string) (*Recording, error) {
	dir := s.Dir(id)
	text, err := os.ReadFile(filepath.Join(dir, scriptFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read script: %w", err)
	}

	cmds, problems := script.Parse(string(text))

	locs, err := location.Load(filepath.Join(dir, locationsFile))
	if err != nil {
		return nil, err
	}

	rec := &Recording{
		Script:    cmds,
		Locations: locs,
		Problems:  problems,
	}
	rec.Info, _ = s.ReadInfo(id) // info.json is optional
	if rec.Info.ID == "" {
		rec.Info.ID = id
	}
	return rec, nil
}

// ReadInfo reads a recording's metadata summary.
func (s *Store) ReadInfo(id string) (Info, error) {
	var info Info
	data, err := os.ReadFile(filepath.Join(s.Dir(id), infoFile))
	if err != nil {
		return info, err
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("parse info for %s: %w", id, err)
	}
	return info, nil
}

// List returns metadata for every recording, newest first. Folders without
// an info.json still appear with only the id set.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan recordings: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), idPrefix) {
			continue
		}
		info, err := s.ReadInfo(entry.Name())
		if err != nil {
			info = Info{ID: entry.Name()}
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].Created.Equal(infos[j].Created) {
			return infos[i].Created.After(infos[j].Created)
		}
		return infos[i].ID > infos[j].ID
	})
	return infos, nil
}

// CopyScript copies one recording's script and metadata into another
// recording's folder, rewriting only the id in the metadata. Used by
// remapping, which replaces locations but leaves the command sequence
// untouched.
func (s *Store) CopyScript(fromID, toID string) error {
	text, err := os.ReadFile(s.ScriptPath(fromID))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, fromID)
		}
		return fmt.Errorf("read script: %w", err)
	}

	dir := s.Dir(toID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create recording dir: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, scriptFile), text); err != nil {
		return fmt.Errorf("write script: %w", err)
	}

	if info, err := s.ReadInfo(fromID); err == nil {
		info.ID = toID
		if err := s.writeInfo(dir, info); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeInfo(dir string, info Info) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal info: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, infoFile), data); err != nil {
		return fmt.Errorf("write info: %w", err)
	}
	return nil
}

// writeFileAtomic writes through a temp file and renames it into place, so
// a crash mid-save cannot leave a truncated artifact in the folder.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
