package bundle

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/ngrash/go-tzif/tzif"
)

// maxEntrySize bounds the size of a single archive entry that is read
// into memory. Real TZif files are well below 1 MiB.
const maxEntrySize = 16 << 20

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// ReadArchive reads a registry from a tar archive of compiled zoneinfo
// files. The archive may be uncompressed, gzip-compressed or
// xz-compressed. If all entries share a single top level directory, as
// in an archive of a zoneinfo directory, zone names are relative to it.
// Hard and symbolic links to zone files are kept as separate names.
func ReadArchive(r io.Reader) (*Registry, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(len(xzMagic))

	var src io.Reader = br
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gunzip, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("read gzip: %w", err)
		}
		defer gunzip.Close()
		src = gunzip
	case bytes.HasPrefix(magic, xzMagic):
		unxz, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("read xz: %w", err)
		}
		src = unxz
	}
	tr := tar.NewReader(src)

	var (
		versions = make(map[string]string)
		zones    = make(map[string][]byte)
		links    = make(map[string]string)
		entries  []string
		magicBuf = make([]byte, len(tzif.Magic))
	)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		name := cleanName(header.Name)
		if header.Typeflag != tar.TypeDir {
			entries = append(entries, name)
		}

		switch header.Typeflag {
		case tar.TypeLink:
			links[name] = cleanName(header.Linkname)
			continue
		case tar.TypeSymlink:
			if path.IsAbs(header.Linkname) {
				links[name] = path.Clean(header.Linkname)
			} else {
				links[name] = path.Join(path.Dir(name), header.Linkname)
			}
			continue
		case tar.TypeReg:
		default:
			continue
		}

		if isVersionFile(name) {
			b, err := io.ReadAll(io.LimitReader(tr, maxEntrySize))
			if err != nil {
				return nil, fmt.Errorf("read version file: %w", err)
			}
			versions[name] = string(b)
			continue
		}

		if header.Size < int64(len(tzif.Magic)) || header.Size > maxEntrySize {
			continue
		}

		// Read only the magic string to check if it's a TZif file.
		if _, err := io.ReadFull(tr, magicBuf); err != nil {
			return nil, fmt.Errorf("read magic string %q: %w", name, err)
		}
		if !isTZif(magicBuf) {
			continue
		}

		data := make([]byte, header.Size)
		copy(data, magicBuf)
		if _, err := io.ReadFull(tr, data[len(magicBuf):]); err != nil {
			return nil, fmt.Errorf("read rest of file %q: %w", name, err)
		}
		zones[name] = data
	}

	// Archives of a zoneinfo directory usually carry it as the single top
	// level entry. Zone names are relative to it.
	prefix := commonDir(entries)
	zones = trimKeys(zones, prefix)
	links = trimKeys(links, prefix)
	for name, target := range links {
		if !path.IsAbs(target) {
			links[name] = strings.TrimPrefix(target, prefix)
		}
	}

	var version string
	for _, vf := range versionFiles {
		if raw, ok := versions[prefix+vf]; ok {
			if version = cleanVersion(raw); version == "" {
				return nil, fmt.Errorf("empty version file %q", prefix+vf)
			}
			break
		}
	}

	for name, target := range links {
		if data, ok := resolveLink(zones, links, target); ok {
			zones[name] = data
		}
	}

	if len(zones) == 0 {
		return nil, fmt.Errorf("no TZif files found")
	}
	return New(version, zones), nil
}

// commonDir returns "dir/" if every entry lies below the same top level
// directory dir, and "" otherwise.
func commonDir(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	dir, _, ok := strings.Cut(entries[0], "/")
	if !ok {
		return ""
	}
	prefix := dir + "/"
	for _, name := range entries {
		if !strings.HasPrefix(name, prefix) {
			return ""
		}
	}
	return prefix
}

func trimKeys[V any](m map[string]V, prefix string) map[string]V {
	if prefix == "" {
		return m
	}
	out := make(map[string]V, len(m))
	for name, v := range m {
		out[strings.TrimPrefix(name, prefix)] = v
	}
	return out
}

// resolveLink follows chains of links up to a fixed depth. Absolute
// targets point outside the archive; they resolve to the longest trailing
// part of the path that names an entry, so /usr/share/zoneinfo/Etc/UTC
// finds Etc/UTC.
func resolveLink(zones map[string][]byte, links map[string]string, target string) ([]byte, bool) {
	for i := 0; i < 8; i++ {
		if path.IsAbs(target) {
			var ok bool
			if target, ok = archiveName(zones, links, target); !ok {
				return nil, false
			}
		}
		if data, ok := zones[target]; ok {
			return data, true
		}
		next, ok := links[target]
		if !ok {
			return nil, false
		}
		target = next
	}
	return nil, false
}

func archiveName(zones map[string][]byte, links map[string]string, abs string) (string, bool) {
	rest := strings.TrimPrefix(abs, "/")
	for rest != "" {
		if _, ok := zones[rest]; ok {
			return rest, true
		}
		if _, ok := links[rest]; ok {
			return rest, true
		}
		_, after, ok := strings.Cut(rest, "/")
		if !ok {
			break
		}
		rest = after
	}
	return "", false
}

func cleanName(name string) string {
	return strings.TrimPrefix(path.Clean(name), "./")
}

func isVersionFile(name string) bool {
	base := path.Base(name)
	for _, v := range versionFiles {
		if base == v {
			return true
		}
	}
	return false
}
