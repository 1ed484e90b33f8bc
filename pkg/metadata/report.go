package metadata

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/anchore/notus-db/pkg/advisory"
)

// Advisory is a metadata row that passed both the checksum and the schema gate.
type Advisory struct {
	File           string
	Row            int
	Record         *advisory.Record
	SourcePackages []string
	Xrefs          []string
	// References is the synthesized "URL:..." string built from ADVISORY_XREF and XREFS.
	References string
}

func (a Advisory) OID() string {
	if a.Record == nil {
		return ""
	}
	return a.Record.Value(advisory.OIDField)
}

// Rejection records why a file (Row == 0) or a single row was not accepted.
type Rejection struct {
	File   string
	Row    int
	Reason error
}

func (r Rejection) Error() string {
	if r.Row == 0 {
		return fmt.Sprintf("%s: %v", r.File, r.Reason)
	}
	return fmt.Sprintf("%s (row %d): %v", r.File, r.Row, r.Reason)
}

func (r Rejection) Unwrap() error {
	return r.Reason
}

// Report summarizes a walk over the metadata directory.
type Report struct {
	Files      int
	Accepted   int
	Rejections []Rejection
	failures   *multierror.Error
}

// Err returns the per-file I/O failures of the walk, or nil when every file could be read.
func (r *Report) Err() error {
	return r.failures.ErrorOrNil()
}

// RejectedFiles counts the files rejected as a whole.
func (r *Report) RejectedFiles() int {
	var count int
	for _, rej := range r.Rejections {
		if rej.Row == 0 {
			count++
		}
	}
	return count
}

// RejectedRows counts the individual rows rejected from otherwise accepted files.
func (r *Report) RejectedRows() int {
	return len(r.Rejections) - r.RejectedFiles()
}

func (r *Report) reject(rej Rejection) {
	r.Rejections = append(r.Rejections, rej)
}

func (r *Report) fail(rej Rejection) {
	r.Rejections = append(r.Rejections, rej)
	r.failures = multierror.Append(r.failures, rej)
}
