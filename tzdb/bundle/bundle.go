// Package bundle holds a named collection of TZif files, such as a
// compiled zoneinfo tree.
//
// A Registry is immutable after construction and safe for concurrent use.
package bundle

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/ngrash/go-tzif/tz"
	"github.com/ngrash/go-tzif/tzif"
)

// ErrUnknownZone is returned for names that are not in the registry.
var ErrUnknownZone = errors.New("unknown zone name")

const (
	// posixRulesName is a legacy file used by tzset, not a zone.
	posixRulesName = "posixrules"
	dirtySuffix    = "-dirty"
)

// versionFiles are looked up at the root, in order.
var versionFiles = []string{"version", "+VERSION"}

// Entry is a named TZif file.
type Entry struct {
	Name string
	Data []byte
}

// Registry maps zone names to TZif files.
type Registry struct {
	version string
	names   []string
	zones   map[string][]byte
	digests map[string][32]byte
}

// New returns a registry holding a copy of zones. Entries that do not
// start with the TZif magic are ignored.
func New(version string, zones map[string][]byte) *Registry {
	r := &Registry{
		version: cleanVersion(version),
		zones:   make(map[string][]byte, len(zones)),
		digests: make(map[string][32]byte, len(zones)),
	}
	for name, data := range zones {
		r.add(name, bytes.Clone(data))
	}
	sort.Strings(r.names)
	return r
}

func (r *Registry) add(name string, data []byte) {
	if !isTZif(data) || path.Base(name) == posixRulesName {
		return
	}
	if _, ok := r.zones[name]; !ok {
		r.names = append(r.names, name)
	}
	r.zones[name] = data
	r.digests[name] = blake3.Sum256(data)
}

func isTZif(data []byte) bool {
	return bytes.HasPrefix(data, tzif.Magic[:])
}

func cleanVersion(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimSuffix(v, dirtySuffix)
}

// FromFS reads every TZif file below root. The database version is read
// from a "version" or "+VERSION" file at root if one exists.
func FromFS(fsys fs.FS, root string) (*Registry, error) {
	version, err := readVersion(fsys, root)
	if err != nil {
		return nil, err
	}
	zones := make(map[string][]byte)
	err = fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !(d.Type().IsRegular() || d.Type()&fs.ModeSymlink != 0) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			if d.Type()&fs.ModeSymlink != 0 {
				return nil // Dangling or pointing at a directory.
			}
			return fmt.Errorf("read %q: %w", p, err)
		}
		name := strings.TrimPrefix(p, root+"/")
		if root == "." {
			name = p
		}
		zones[name] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", root, err)
	}
	return New(version, zones), nil
}

func readVersion(fsys fs.FS, root string) (string, error) {
	for _, name := range versionFiles {
		data, err := fs.ReadFile(fsys, path.Join(root, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("read version file: %w", err)
		}
		v := cleanVersion(string(data))
		if v == "" {
			return "", fmt.Errorf("empty version file %q", name)
		}
		return v, nil
	}
	return "", nil
}

// Open reads a registry from a zoneinfo directory or a tar archive.
func Open(name string) (*Registry, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return FromFS(os.DirFS(name), ".")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := ReadArchive(f)
	if err != nil {
		return nil, fmt.Errorf("read archive %q: %w", name, err)
	}
	return r, nil
}

// Version returns the database version, or "" if it is unknown.
func (r *Registry) Version() string { return r.version }

// Len returns the number of zones.
func (r *Registry) Len() int { return len(r.names) }

// Names returns the sorted zone names.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// All returns every entry sorted by name.
func (r *Registry) All() []Entry {
	entries := make([]Entry, len(r.names))
	for i, name := range r.names {
		entries[i] = Entry{Name: name, Data: bytes.Clone(r.zones[name])}
	}
	return entries
}

// Bytes returns a copy of the TZif file of the named zone.
func (r *Registry) Bytes(name string) ([]byte, bool) {
	data, ok := r.zones[name]
	if !ok {
		return nil, false
	}
	return bytes.Clone(data), true
}

// Parse parses the named zone.
func (r *Registry) Parse(name string) (*tz.Zone, error) {
	return r.ParseWithOptions(name, tz.Options{})
}

// ParseWithOptions is like Parse with explicit zone options.
func (r *Registry) ParseWithOptions(name string, opts tz.Options) (*tz.Zone, error) {
	data, ok := r.zones[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}
	return tz.ParseWithOptions(name, data, opts)
}

// Digest returns the hex BLAKE3 digest of the named zone's file.
func (r *Registry) Digest(name string) (string, bool) {
	d, ok := r.digests[name]
	if !ok {
		return "", false
	}
	return hex.EncodeToString(d[:]), true
}

// Aliases returns the other names whose files are identical to the named
// zone's, sorted.
func (r *Registry) Aliases(name string) []string {
	d, ok := r.digests[name]
	if !ok {
		return nil
	}
	var aliases []string
	for _, other := range r.names {
		if other != name && r.digests[other] == d {
			aliases = append(aliases, other)
		}
	}
	return aliases
}
