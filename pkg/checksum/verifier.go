package checksum

import (
	"crypto/sha256"
	"fmt"

	"github.com/spf13/afero"

	"github.com/anchore/notus-db/internal/file"
	"github.com/anchore/notus-db/internal/log"
)

// Verifier compares the SHA-256 digest of a file against the digest a trusted cache holds for it.
type Verifier struct {
	fs    afero.Fs
	cache Cache
	// bypass trusts every file unconditionally. This disables the integrity gate for the whole deployment.
	bypass bool
}

func NewVerifier(fs afero.Fs, cache Cache, bypass bool) *Verifier {
	return &Verifier{
		fs:     fs,
		cache:  cache,
		bypass: bypass,
	}
}

// Digest returns the lowercase hex SHA-256 of the file at path.
func (v *Verifier) Digest(path string) (string, error) {
	return file.HashFile(v.fs, path, sha256.New())
}

// IsChecksumCorrect reports whether the file digest equals the cached reference digest, compared
// case-sensitively. A cache miss compares as an empty digest and is never an error. When the bypass is
// set the answer is always true and neither the file nor the cache is read.
func (v *Verifier) IsChecksumCorrect(path string) (bool, error) {
	if v.bypass {
		log.WithFields("file", path).Trace("signature check disabled, trusting metadata file")
		return true, nil
	}

	actual, err := v.Digest(path)
	if err != nil {
		return false, err
	}

	var expected string
	if v.cache != nil {
		expected, err = v.cache.GetFileChecksum(path)
		if err != nil {
			return false, fmt.Errorf("unable to read reference checksum for %q: %w", path, err)
		}
	}

	if actual != expected {
		log.WithFields("file", path, "expected", expected, "actual", actual).Debug("checksum mismatch")
		return false, nil
	}
	return true, nil
}
