package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/anchore/notus-db/internal/log"
	"github.com/anchore/notus-db/pkg/advisory"
	"github.com/anchore/notus-db/pkg/checksum"
	"github.com/anchore/notus-db/pkg/settings"
)

// Handler loads vendor advisory metadata files, admitting only files whose checksum matches the trusted
// cache and only rows that carry a complete advisory.
//
// Scanner settings are read once, on first use, and the metadata path is derived once from them; both
// stay fixed for the lifetime of the handler.
type Handler struct {
	fs       afero.Fs
	settings settings.Settings
	cache    checksum.Cache
	onReject func(Rejection)

	lock             sync.Mutex
	advisorySettings memo[settings.AdvisorySettings]
	metadataPath     memo[string]
}

type Option func(*Handler)

func WithFs(fs afero.Fs) Option {
	return func(h *Handler) {
		h.fs = fs
	}
}

// WithMetadataPath uses dir as the metadata directory instead of deriving it from the plugins folder.
func WithMetadataPath(dir string) Option {
	return func(h *Handler) {
		h.metadataPath.store(dir)
	}
}

// WithRejectionHandler is called inline for every rejected file or row, as it happens.
func WithRejectionHandler(fn func(Rejection)) Option {
	return func(h *Handler) {
		h.onReject = fn
	}
}

func NewHandler(s settings.Settings, cache checksum.Cache, opts ...Option) *Handler {
	h := &Handler{
		fs:       afero.NewOsFs(),
		settings: s,
		cache:    cache,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Settings returns the advisory settings, reading the provider on first call only.
func (h *Handler) Settings() (settings.AdvisorySettings, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.loadSettings()
}

func (h *Handler) loadSettings() (settings.AdvisorySettings, error) {
	if s, ok := h.advisorySettings.get(); ok {
		return s, nil
	}
	if h.settings == nil {
		return settings.AdvisorySettings{}, fmt.Errorf("%w: no settings provider", ErrConfiguration)
	}

	s, err := settings.Read(h.settings)
	if err != nil {
		return settings.AdvisorySettings{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return h.advisorySettings.store(s), nil
}

// MetadataPath returns "<plugins folder>/notus_metadata/", computed on first call only.
func (h *Handler) MetadataPath() (string, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if p, ok := h.metadataPath.get(); ok {
		return p, nil
	}

	s, err := h.loadSettings()
	if err != nil {
		return "", err
	}

	p, err := metadataPathFor(s.PluginsFolder)
	if err != nil {
		return "", err
	}
	return h.metadataPath.store(p), nil
}

// CandidateFiles lists the metadata files found in the metadata directory.
func (h *Handler) CandidateFiles() ([]string, error) {
	dir, err := h.MetadataPath()
	if err != nil {
		return nil, err
	}
	return ListCandidateFiles(h.fs, dir)
}

// IsChecksumCorrect reports whether the file may be trusted: either the signature check is disabled or
// its digest equals the one held by the checksum cache.
func (h *Handler) IsChecksumCorrect(path string) (bool, error) {
	v, err := h.verifier()
	if err != nil {
		return false, err
	}
	return v.IsChecksumCorrect(path)
}

func (h *Handler) verifier() (*checksum.Verifier, error) {
	s, err := h.Settings()
	if err != nil {
		return nil, err
	}
	return checksum.NewVerifier(h.fs, h.cache, s.SignatureCheckDisabled), nil
}

// Walk streams every accepted advisory to fn, in file order then row order. Rejected files and rows are
// recorded in the report (and passed to the rejection handler) without stopping the walk. Configuration
// problems, a missing metadata directory, or an error returned by fn end the walk with that error.
func (h *Handler) Walk(fn func(Advisory) error) (*Report, error) {
	s, err := h.Settings()
	if err != nil {
		return nil, err
	}

	files, err := h.CandidateFiles()
	if err != nil {
		return nil, err
	}

	if s.SignatureCheckDisabled {
		log.Warn("signature check is disabled, metadata files are not verified against the checksum cache")
	}

	v := checksum.NewVerifier(h.fs, h.cache, s.SignatureCheckDisabled)
	report := &Report{}

	for _, path := range files {
		report.Files++
		if err := h.processFile(v, path, report, fn); err != nil {
			return report, err
		}
	}

	log.WithFields(
		"files", report.Files,
		"accepted", report.Accepted,
		"rejected-files", report.RejectedFiles(),
		"rejected-rows", report.RejectedRows(),
	).Info("loaded advisory metadata")

	return report, nil
}

// Advisories collects every accepted advisory.
func (h *Handler) Advisories() ([]Advisory, *Report, error) {
	var advisories []Advisory
	report, err := h.Walk(func(a Advisory) error {
		advisories = append(advisories, a)
		return nil
	})
	return advisories, report, err
}

// processFile only returns errors from the consumer; everything else is a rejection.
func (h *Handler) processFile(v *checksum.Verifier, path string, report *Report, fn func(Advisory) error) error {
	ok, err := v.IsChecksumCorrect(path)
	if err != nil {
		h.fail(report, path, err)
		return nil
	}
	if !ok {
		h.reject(report, Rejection{File: path, Reason: ErrChecksumMismatch})
		return nil
	}

	f, err := h.fs.Open(path)
	if err != nil {
		h.fail(report, path, err)
		return nil
	}
	defer f.Close()

	// vendor files carry bare quotes inside unquoted fields (e.g. `The "remote" host`), accept them verbatim
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	switch {
	case errors.Is(err, io.EOF):
		header = nil
	case err != nil:
		h.fail(report, path, err)
		return nil
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	if err := advisory.DescribeFieldNames(header); err != nil {
		h.reject(report, Rejection{File: path, Reason: err})
		return nil
	}

	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			h.reject(report, Rejection{File: path, Row: row, Reason: fmt.Errorf("%w: %w", ErrMalformedRow, err)})
			continue
		}
		if err != nil {
			h.fail(report, path, err)
			return nil
		}

		a, err := promote(path, row, advisory.NewRecordFromRow(header, fields))
		if err != nil {
			h.reject(report, Rejection{File: path, Row: row, Reason: err})
			continue
		}

		if err := fn(a); err != nil {
			return err
		}
		report.Accepted++
	}
}

func promote(path string, row int, r *advisory.Record) (Advisory, error) {
	if err := advisory.ValidateRecord(r); err != nil {
		return Advisory{}, err
	}

	pkgs, err := advisory.SourcePackages(r)
	if err != nil {
		return Advisory{}, err
	}

	xrefs, err := advisory.SecondaryReferences(r)
	if err != nil {
		return Advisory{}, err
	}

	return Advisory{
		File:           path,
		Row:            row,
		Record:         r,
		SourcePackages: pkgs,
		Xrefs:          xrefs,
		References:     advisory.FormatReferences(r.Value(advisory.AdvisoryXrefField), xrefs),
	}, nil
}

func (h *Handler) reject(report *Report, rej Rejection) {
	fields := []interface{}{"file", rej.File, "reason", rej.Reason}
	if rej.Row > 0 {
		fields = append(fields, "row", rej.Row)
	}
	log.WithFields(fields...).Warn("rejected advisory metadata")

	report.reject(rej)
	if h.onReject != nil {
		h.onReject(rej)
	}
}

func (h *Handler) fail(report *Report, path string, err error) {
	rej := Rejection{File: path, Reason: fmt.Errorf("%w: %w", ErrUnreadable, err)}

	log.WithFields("file", path, "error", err).Error("unable to read advisory metadata file")

	report.fail(rej)
	if h.onReject != nil {
		h.onReject(rej)
	}
}
