// Package store is the persistence gateway. One transaction per insert
// call; either the whole measurement hierarchy commits or none of it.
package store

import (
	"context"
	"fmt"

	"wim-pipeline/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// PersistenceError wraps any database fault raised during an insert
// transaction; the transaction has been rolled back by the time it is
// returned.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("persistence failure: %v", e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// Open connects to PostgreSQL and verifies the connection.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// Migrate creates the three tables if they do not exist.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(
		&models.Measurement{},
		&models.ReadingGroup{},
		&models.ComponentReading{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	s.log.Info("database schema ready")
	return nil
}

// Insert persists one flattened snapshot. The measurement row goes in
// first, then each reading group is flushed to obtain its generated key
// before the component readings belonging to that group (matched by
// GroupIndex) are inserted under it. Any fault rolls the whole
// transaction back and surfaces as a *PersistenceError.
func (s *Store) Insert(ctx context.Context, m *models.Measurement, groups []models.ReadingGroup, comps []models.ComponentReading) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("insert measurement %d: %w", m.PK, err)
		}

		inserted := 0
		for gi := range groups {
			group := &groups[gi]
			group.MeasurementID = m.PK
			if err := tx.Create(group).Error; err != nil {
				return fmt.Errorf("insert reading group %q for measurement %d: %w",
					group.Source, m.PK, err)
			}

			for ci := range comps {
				if comps[ci].GroupIndex != gi {
					continue
				}
				comps[ci].ReadingGroupID = group.ID
				if err := tx.Create(&comps[ci]).Error; err != nil {
					return fmt.Errorf("insert component reading %d for group %d: %w",
						comps[ci].AxleID, group.ID, err)
				}
				inserted++
			}
		}

		// A component whose GroupIndex matched no group would silently
		// vanish; treat it as an integrity fault instead.
		if inserted != len(comps) {
			return fmt.Errorf("%d of %d component readings reference no reading group",
				len(comps)-inserted, len(comps))
		}
		return nil
	})
	if err != nil {
		return &PersistenceError{Err: err}
	}

	s.log.Debug("snapshot persisted",
		zap.Int64("measurement", m.PK),
		zap.Int("reading_groups", len(groups)),
		zap.Int("component_readings", len(comps)))
	return nil
}
