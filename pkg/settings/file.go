package settings

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/anchore/notus-db/internal/log"
)

// File reads settings from an openvas-style configuration file made of "key = value" lines.
// Blank lines and lines starting with '#' or ';' are ignored. The file is read on every snapshot.
type File struct {
	fs   afero.Fs
	path string
}

func NewFile(fs afero.Fs, path string) *File {
	return &File{
		fs:   fs,
		path: path,
	}
}

func (f *File) Settings() (map[string]string, error) {
	fh, err := f.fs.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("unable to open settings file %q: %w", f.path, err)
	}
	defer fh.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(fh)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		index := strings.Index(line, "=")
		if index == -1 {
			log.WithFields("path", f.path, "line", lineNo).Debug("ignoring settings line without '='")
			continue
		}

		key := strings.TrimSpace(line[:index])
		if key == "" {
			continue
		}
		values[key] = strings.TrimSpace(line[index+1:])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read settings file %q: %w", f.path, err)
	}

	log.WithFields("path", f.path, "entries", len(values)).Trace("read scanner settings")

	return values, nil
}
