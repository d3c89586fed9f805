package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Payload format changes.
const snapshotSchemaVersion uint16 = 1

// ErrSchemaMismatch is returned when a snapshot was written by an
// incompatible version; callers treat it as a cache miss.
var ErrSchemaMismatch = errors.New("cache: snapshot schema mismatch")

// Payload is the serializable slice of the cache: name counters and
// registry identities. Type handles are not persisted; they only have
// meaning within one process.
type Payload struct {
	Schema    uint16
	Counts    map[string]uint32
	TempCount uint32
	Modules   []Module
	Classes   []ClassRecord
	Globals   []string
}

// ClassRecord is the persisted identity of a class.
type ClassRecord struct {
	Name    string
	Module  string
	Fields  []string
	Deduced []string
}

// Snapshot captures the persistable cache state.
func (c *Cache) Snapshot() Payload {
	p := Payload{
		Schema:    snapshotSchemaVersion,
		Counts:    make(map[string]uint32, len(c.counts)),
		TempCount: c.tempCount,
	}
	for k, v := range c.counts {
		p.Counts[k] = v
	}
	for _, name := range sortedKeys(c.Modules) {
		p.Modules = append(p.Modules, c.Modules[name])
	}
	for _, name := range sortedKeys(c.Classes) {
		cls := c.Classes[name]
		rec := ClassRecord{Name: cls.Name, Module: cls.Module}
		for _, f := range cls.Fields {
			rec.Fields = append(rec.Fields, f.Name)
		}
		if cls.Deduced != nil {
			rec.Deduced = append(rec.Deduced, *cls.Deduced...)
		}
		p.Classes = append(p.Classes, rec)
	}
	p.Globals = sortedKeys(c.Globals)
	return p
}

// Restore merges a snapshot back into the cache. Counters take the maximum
// of both sides so restored state never re-mints a canonical name.
func (c *Cache) Restore(p Payload) error {
	if p.Schema != snapshotSchemaVersion {
		return ErrSchemaMismatch
	}
	for k, v := range p.Counts {
		if v > c.counts[k] {
			c.counts[k] = v
		}
	}
	if p.TempCount > c.tempCount {
		c.tempCount = p.TempCount
	}
	for _, m := range p.Modules {
		c.AddModule(m.Name, m.Path)
	}
	for _, rec := range p.Classes {
		cls := c.AddClass(rec.Name, rec.Module)
		if len(cls.Fields) == 0 {
			for _, f := range rec.Fields {
				cls.Fields = append(cls.Fields, Field{Name: f})
			}
		}
		if len(rec.Deduced) > 0 && cls.Deduced == nil {
			deduced := append([]string(nil), rec.Deduced...)
			cls.Deduced = &deduced
		}
	}
	for _, g := range p.Globals {
		c.AddGlobal(g)
	}
	return nil
}

// SaveTo writes a snapshot atomically (tmp file + rename).
func (c *Cache) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	enc := msgpack.NewEncoder(tmp)
	if err := enc.Encode(c.Snapshot()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadFrom restores a snapshot from disk. A missing file is not an error;
// it reports ok=false.
func (c *Cache) LoadFrom(path string) (bool, error) {
	f, err := os.Open(path) // #nosec G304 -- path is derived from DefaultDir
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	var p Payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return false, err
	}
	if err := c.Restore(p); err != nil {
		if errors.Is(err, ErrSchemaMismatch) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DefaultDir returns the per-user snapshot directory for app.
func DefaultDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
