package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/anchore/notus-db/internal/log"
	"github.com/anchore/notus-db/pkg/checksum"
	"github.com/anchore/notus-db/pkg/store"
)

// integrity check
var (
	_ store.Writer   = (*Store)(nil)
	_ store.Reader   = (*Store)(nil)
	_ checksum.Cache = (*Store)(nil)
)

// Store is the sqlite knowledge base. Besides accepted advisories it holds the trusted digests of
// metadata files, so it can serve as the checksum cache for the next load.
type Store struct {
	db *gorm.DB
}

// New opens (creating when needed) the database at path. With overwrite set the stored advisories are
// discarded; the trusted checksums and the load history are kept so the next load can still be verified.
func New(path string, overwrite bool) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create database directory %q: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open database %q: %w", path, err)
	}

	if overwrite {
		if err := db.Migrator().DropTable(&packageModel{}, &advisoryModel{}); err != nil {
			return nil, fmt.Errorf("unable to clear advisories from database %q: %w", path, err)
		}
		log.WithFields("path", path).Debug("cleared stored advisories")
	}

	if err := db.AutoMigrate(&advisoryModel{}, &packageModel{}, &fileChecksumModel{}, &runModel{}); err != nil {
		return nil, fmt.Errorf("unable to migrate database %q: %w", path, err)
	}

	log.WithFields("path", path).Debug("opened knowledge base")

	return &Store{db: db}, nil
}

func (s *Store) AddAdvisory(advisories ...store.Advisory) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, a := range advisories {
			model, err := newAdvisoryModel(a)
			if err != nil {
				return fmt.Errorf("unable to encode advisory %q: %w", a.OID, err)
			}

			result := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model)
			if result.Error != nil {
				return fmt.Errorf("unable to add advisory %q: %w", a.OID, result.Error)
			}

			if err := tx.Where("oid = ?", a.OID).Delete(&packageModel{}).Error; err != nil {
				return fmt.Errorf("unable to replace packages of advisory %q: %w", a.OID, err)
			}

			for _, name := range a.SourcePackages {
				pkg := packageModel{OID: a.OID, Name: name}
				if err := tx.Create(&pkg).Error; err != nil {
					return fmt.Errorf("unable to add package %q of advisory %q: %w", name, a.OID, err)
				}
			}
		}
		return nil
	})
}

func (s *Store) GetAdvisory(oid string) (*store.Advisory, error) {
	var models []advisoryModel
	if err := s.db.Where("oid = ?", oid).Limit(1).Find(&models).Error; err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}

	a := models[0].Inflate()
	return &a, nil
}

func (s *Store) GetAdvisoriesByPackage(name string) ([]store.Advisory, error) {
	var models []advisoryModel
	result := s.db.
		Where("oid IN (?)", s.db.Model(&packageModel{}).Select("oid").Where("name = ?", name)).
		Order("oid").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	advisories := make([]store.Advisory, len(models))
	for idx, m := range models {
		advisories[idx] = m.Inflate()
	}
	return advisories, nil
}

func (s *Store) CountAdvisories() (int64, error) {
	var count int64
	err := s.db.Model(&advisoryModel{}).Count(&count).Error
	return count, err
}

// GetFileChecksum returns the trusted digest recorded for path, or an empty string when there is none.
func (s *Store) GetFileChecksum(path string) (string, error) {
	var models []fileChecksumModel
	if err := s.db.Where("path = ?", filepath.Clean(path)).Limit(1).Find(&models).Error; err != nil {
		return "", err
	}
	if len(models) == 0 {
		return "", nil
	}
	return models[0].Digest, nil
}

// SetFileChecksum records (or replaces) the trusted digest for path.
func (s *Store) SetFileChecksum(path, digest string) error {
	model := fileChecksumModel{
		Path:   filepath.Clean(path),
		Digest: digest,
	}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model).Error
}

// AddRun records the summary of a load.
func (s *Store) AddRun(run store.Run) error {
	model := newRunModel(run)
	if err := s.db.Create(&model).Error; err != nil {
		return fmt.Errorf("unable to record load run %q: %w", run.ID, err)
	}
	return nil
}

// GetRuns returns every recorded load, oldest first.
func (s *Store) GetRuns() ([]store.Run, error) {
	var models []runModel
	if err := s.db.Order("started").Find(&models).Error; err != nil {
		return nil, err
	}

	runs := make([]store.Run, len(models))
	for idx, m := range models {
		runs[idx] = m.Inflate()
	}
	return runs, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
