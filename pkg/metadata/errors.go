package metadata

import "errors"

var (
	// ErrConfiguration is fatal: the scanner settings cannot tell where metadata lives.
	ErrConfiguration = errors.New("invalid advisory metadata configuration")
	// ErrPathNotFound is fatal for the load: the metadata directory does not exist.
	ErrPathNotFound = errors.New("metadata directory not found")

	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrUnreadable       = errors.New("unable to read metadata file")
	ErrMalformedRow     = errors.New("malformed CSV row")
)
