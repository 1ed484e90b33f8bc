package sqlite

import (
	"encoding/json"
	"time"

	"github.com/anchore/notus-db/internal/log"
	"github.com/anchore/notus-db/pkg/store"
)

// SchemaVersion identifies the table layout below. Bump it when a model changes shape.
const SchemaVersion = 1

type advisoryModel struct {
	OID                       string    `gorm:"column:oid;primaryKey"`
	Title                     string    `gorm:"column:title"`
	AdvisoryID                string    `gorm:"column:advisory_id;index"`
	CreationDate              string    `gorm:"column:creation_date"`
	LastModification          string    `gorm:"column:last_modification"`
	Created                   time.Time `gorm:"column:created"`
	Modified                  time.Time `gorm:"column:modified;index"`
	SourcePackages            string    `gorm:"column:source_packages"`
	CVSSBaseVector            string    `gorm:"column:cvss_base_vector"`
	CVSSBase                  string    `gorm:"column:cvss_base"`
	Description               string    `gorm:"column:description"`
	Insight                   string    `gorm:"column:insight"`
	Affected                  string    `gorm:"column:affected"`
	CVEList                   string    `gorm:"column:cve_list"`
	BinaryPackagesForReleases string    `gorm:"column:binary_packages_for_releases"`
	References                string    `gorm:"column:refs"`
	File                      string    `gorm:"column:file"`
}

func (advisoryModel) TableName() string {
	return "advisories"
}

func newAdvisoryModel(a store.Advisory) (advisoryModel, error) {
	pkgs, err := json.Marshal(a.SourcePackages)
	if err != nil {
		return advisoryModel{}, err
	}

	return advisoryModel{
		OID:                       a.OID,
		Title:                     a.Title,
		AdvisoryID:                a.AdvisoryID,
		CreationDate:              a.CreationDate,
		LastModification:          a.LastModification,
		Created:                   a.Created,
		Modified:                  a.Modified,
		SourcePackages:            string(pkgs),
		CVSSBaseVector:            a.CVSSBaseVector,
		CVSSBase:                  a.CVSSBase,
		Description:               a.Description,
		Insight:                   a.Insight,
		Affected:                  a.Affected,
		CVEList:                   a.CVEList,
		BinaryPackagesForReleases: a.BinaryPackagesForReleases,
		References:                a.References,
		File:                      a.File,
	}, nil
}

func (m advisoryModel) Inflate() store.Advisory {
	var pkgs []string
	if err := json.Unmarshal([]byte(m.SourcePackages), &pkgs); err != nil {
		log.WithFields("oid", m.OID, "error", err).Warn("unable to decode stored source packages")
	}

	return store.Advisory{
		OID:                       m.OID,
		Title:                     m.Title,
		AdvisoryID:                m.AdvisoryID,
		CreationDate:              m.CreationDate,
		LastModification:          m.LastModification,
		Created:                   m.Created.UTC(),
		Modified:                  m.Modified.UTC(),
		SourcePackages:            pkgs,
		CVSSBaseVector:            m.CVSSBaseVector,
		CVSSBase:                  m.CVSSBase,
		Description:               m.Description,
		Insight:                   m.Insight,
		Affected:                  m.Affected,
		CVEList:                   m.CVEList,
		BinaryPackagesForReleases: m.BinaryPackagesForReleases,
		References:                m.References,
		File:                      m.File,
	}
}

type packageModel struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement"`
	OID  string `gorm:"column:oid;index"`
	Name string `gorm:"column:name;index"`
}

func (packageModel) TableName() string {
	return "advisory_packages"
}

type fileChecksumModel struct {
	Path   string `gorm:"column:path;primaryKey"`
	Digest string `gorm:"column:digest"`
}

func (fileChecksumModel) TableName() string {
	return "file_checksums"
}

type runModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Started       time.Time `gorm:"column:started;index"`
	Finished      time.Time `gorm:"column:finished"`
	Files         int       `gorm:"column:files"`
	Accepted      int       `gorm:"column:accepted"`
	RejectedFiles int       `gorm:"column:rejected_files"`
	RejectedRows  int       `gorm:"column:rejected_rows"`
}

func (runModel) TableName() string {
	return "load_runs"
}

func newRunModel(r store.Run) runModel {
	return runModel{
		ID:            r.ID,
		Started:       r.Started,
		Finished:      r.Finished,
		Files:         r.Files,
		Accepted:      r.Accepted,
		RejectedFiles: r.RejectedFiles,
		RejectedRows:  r.RejectedRows,
	}
}

func (m runModel) Inflate() store.Run {
	return store.Run{
		ID:            m.ID,
		Started:       m.Started.UTC(),
		Finished:      m.Finished.UTC(),
		Files:         m.Files,
		Accepted:      m.Accepted,
		RejectedFiles: m.RejectedFiles,
		RejectedRows:  m.RejectedRows,
	}
}
