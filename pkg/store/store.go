package store

import (
	"io"
	"time"

	"github.com/araddon/dateparse"

	"github.com/anchore/notus-db/internal/log"
	"github.com/anchore/notus-db/pkg/advisory"
	"github.com/anchore/notus-db/pkg/metadata"
)

const DefaultFileName = "notus.db"

// Advisory is the knowledge base form of an accepted advisory.
type Advisory struct {
	OID                       string
	Title                     string
	AdvisoryID                string
	CreationDate              string
	LastModification          string
	Created                   time.Time
	Modified                  time.Time
	SourcePackages            []string
	CVSSBaseVector            string
	CVSSBase                  string
	Description               string
	Insight                   string
	Affected                  string
	CVEList                   string
	BinaryPackagesForReleases string
	References                string
	File                      string
}

func NewAdvisory(a metadata.Advisory) Advisory {
	r := a.Record
	creation := r.Value(advisory.CreationDateField)
	modification := r.Value(advisory.LastModificationField)
	return Advisory{
		OID:                       r.Value(advisory.OIDField),
		Title:                     r.Value(advisory.TitleField),
		AdvisoryID:                r.Value(advisory.AdvisoryIDField),
		CreationDate:              creation,
		LastModification:          modification,
		Created:                   parseTimestamp(a.OID(), advisory.CreationDateField, creation),
		Modified:                  parseTimestamp(a.OID(), advisory.LastModificationField, modification),
		SourcePackages:            a.SourcePackages,
		CVSSBaseVector:            r.Value(advisory.CVSSBaseVectorField),
		CVSSBase:                  r.Value(advisory.CVSSBaseField),
		Description:               r.Value(advisory.DescriptionField),
		Insight:                   r.Value(advisory.InsightField),
		Affected:                  r.Value(advisory.AffectedField),
		CVEList:                   r.Value(advisory.CVEListField),
		BinaryPackagesForReleases: r.Value(advisory.BinaryPackagesForReleasesField),
		References:                a.References,
		File:                      a.File,
	}
}

// parseTimestamp reads vendor dates (typically unix seconds). Unparsable values are kept only in
// their raw form and yield the zero time.
func parseTimestamp(oid, field, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		log.WithFields("oid", oid, "field", field, "value", value).Trace("unable to parse advisory date")
		return time.Time{}
	}
	return t.UTC()
}

// Run summarizes one load of the metadata directory into the knowledge base.
type Run struct {
	ID            string
	Started       time.Time
	Finished      time.Time
	Files         int
	Accepted      int
	RejectedFiles int
	RejectedRows  int
}

func NewRun(id string, started, finished time.Time, report *metadata.Report) Run {
	run := Run{
		ID:       id,
		Started:  started.UTC(),
		Finished: finished.UTC(),
	}
	if report != nil {
		run.Files = report.Files
		run.Accepted = report.Accepted
		run.RejectedFiles = report.RejectedFiles()
		run.RejectedRows = report.RejectedRows()
	}
	return run
}

type Writer interface {
	// AddAdvisory inserts the advisories, replacing any stored advisory with the same OID
	AddAdvisory(advisories ...Advisory) error
	io.Closer
}

type Reader interface {
	GetAdvisory(oid string) (*Advisory, error)
	// GetAdvisoriesByPackage returns the advisories naming the given source package, ordered by OID
	GetAdvisoriesByPackage(name string) ([]Advisory, error)
}
