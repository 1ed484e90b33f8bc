package checksum

import "path/filepath"

// Cache is a read-only source of trusted file digests keyed by absolute file path. An unknown path
// yields an empty digest and no error; errors are reserved for a cache that cannot be consulted.
type Cache interface {
	GetFileChecksum(path string) (string, error)
}

// Static is a fixed path to digest mapping.
type Static map[string]string

func (s Static) GetFileChecksum(path string) (string, error) {
	if digest, ok := s[path]; ok {
		return digest, nil
	}
	return s[filepath.Clean(path)], nil
}
