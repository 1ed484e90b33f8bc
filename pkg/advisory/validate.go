package advisory

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/scylladb/go-set/strset"
)

var (
	ErrUnexpectedFieldNames = errors.New("unexpected field names")
	ErrMissingField         = errors.New("missing required field")
	ErrMalformedPackages    = errors.New("malformed source package list")
	ErrNoPackages           = errors.New("advisory names no source packages")
)

// CheckFieldNames reports whether names is exactly the expected header, in order.
func CheckFieldNames(names []string) bool {
	return slices.Equal(names, ExpectedFieldNames())
}

// DescribeFieldNames explains why a header is not the expected one. It returns nil for a valid header.
func DescribeFieldNames(names []string) error {
	if CheckFieldNames(names) {
		return nil
	}

	expected := strset.New(ExpectedFieldNames()...)
	actual := strset.New(names...)

	missing := strset.Difference(expected, actual).List()
	extra := strset.Difference(actual, expected).List()
	slices.Sort(missing)
	slices.Sort(extra)

	switch {
	case len(missing) > 0 && len(extra) > 0:
		return fmt.Errorf("%w: missing [%s], unknown [%s]", ErrUnexpectedFieldNames, strings.Join(missing, ", "), strings.Join(extra, ", "))
	case len(missing) > 0:
		return fmt.Errorf("%w: missing [%s]", ErrUnexpectedFieldNames, strings.Join(missing, ", "))
	case len(extra) > 0:
		return fmt.Errorf("%w: unknown [%s]", ErrUnexpectedFieldNames, strings.Join(extra, ", "))
	}
	return fmt.Errorf("%w: fields are out of order", ErrUnexpectedFieldNames)
}

// CheckRecord reports whether the record carries every required field and names at least one source package.
func CheckRecord(r *Record) bool {
	return ValidateRecord(r) == nil
}

// ValidateRecord is CheckRecord with the reason for rejection. It stops at the first problem found.
func ValidateRecord(r *Record) error {
	if r == nil {
		return fmt.Errorf("%w: empty record", ErrMissingField)
	}

	for _, name := range ExpectedFieldNames() {
		value, ok := r.Get(name)
		if !ok || value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}

	pkgs, err := SourcePackages(r)
	if err != nil {
		return err
	}
	if len(pkgs) == 0 {
		return ErrNoPackages
	}

	return nil
}

// SourcePackages parses the SOURCE_PKGS field of the record.
func SourcePackages(r *Record) ([]string, error) {
	pkgs, err := ParseList(r.Value(SourcePackagesField))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPackages, err)
	}
	return pkgs, nil
}
