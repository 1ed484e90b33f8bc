package checksum

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/anchore/notus-db/internal/log"
)

// Listing is a checksum cache read from a sha256sum-style listing file ("<digest>  <path>" per line).
// Relative paths are resolved against the directory holding the listing.
type Listing struct {
	location string
	digests  map[string]string
}

var _ Cache = (*Listing)(nil)

func ReadListing(fs afero.Fs, location string) (*Listing, error) {
	f, err := fs.Open(location)
	if err != nil {
		return nil, fmt.Errorf("unable to open listing file %q: %w", location, err)
	}
	defer f.Close()

	root, err := filepath.Abs(filepath.Dir(location))
	if err != nil {
		return nil, fmt.Errorf("unable to resolve listing directory for %q: %w", location, err)
	}

	l := &Listing{
		location: location,
		digests:  make(map[string]string),
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// "  " is text mode, " *" is binary mode; both carry the same digest
		index := strings.Index(line, "  ")
		if index == -1 {
			index = strings.Index(line, " *")
		}
		if index == -1 {
			log.WithFields("listing", location, "line", line).Debug("ignoring malformed listing entry")
			continue
		}

		digest := line[:index]
		path := line[index+2:]
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		l.digests[filepath.Clean(path)] = digest
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read listing file %q: %w", location, err)
	}

	log.WithFields("listing", location, "entries", len(l.digests)).Trace("loaded checksum listing")

	return l, nil
}

func (l *Listing) GetFileChecksum(path string) (string, error) {
	return l.digests[filepath.Clean(path)], nil
}

// Entries returns a copy of the path to digest mapping.
func (l *Listing) Entries() map[string]string {
	out := make(map[string]string, len(l.digests))
	for k, v := range l.digests {
		out[k] = v
	}
	return out
}
