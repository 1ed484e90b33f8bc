package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/anchore/notus-db/internal/log"
)

const (
	// DirectoryName is the subdirectory of the plugins folder holding vendor advisory files.
	DirectoryName = "notus_metadata"

	fileExtension = ".csv"
)

// metadataPathFor appends the metadata directory and a trailing separator to the plugins folder.
func metadataPathFor(pluginsFolder string) (string, error) {
	folder, err := homedir.Expand(strings.TrimSpace(pluginsFolder))
	if err != nil {
		return "", fmt.Errorf("%w: unable to expand plugins folder %q: %w", ErrConfiguration, pluginsFolder, err)
	}
	if folder == "" {
		return "", fmt.Errorf("%w: plugins folder is not set", ErrConfiguration)
	}

	folder = strings.TrimRight(folder, "/"+string(filepath.Separator))
	return folder + "/" + DirectoryName + "/", nil
}

// ListCandidateFiles returns the absolute, symlink-resolved paths of the metadata files directly under
// dir, sorted lexicographically. Subdirectories and files with other extensions are ignored.
func ListCandidateFiles(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, dir)
		}
		return nil, fmt.Errorf("unable to list metadata directory %q: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != fileExtension {
			continue
		}

		candidate := filepath.Join(dir, entry.Name())

		// stat (not lstat) so that links to metadata files are followed
		info, err := fs.Stat(candidate)
		if err != nil {
			log.WithFields("path", candidate, "error", err).Debug("skipping unreadable metadata entry")
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		resolved, err := resolvePath(fs, candidate)
		if err != nil {
			return nil, err
		}
		paths = append(paths, resolved)
	}

	sort.Strings(paths)

	log.WithFields("dir", dir, "files", len(paths)).Debug("found metadata files")

	return paths, nil
}

func resolvePath(fs afero.Fs, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("unable to resolve absolute path for %q: %w", path, err)
	}

	if _, ok := fs.(*afero.OsFs); !ok {
		return abs, nil
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("unable to resolve links for %q: %w", path, err)
	}
	return resolved, nil
}
