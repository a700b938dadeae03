package catalog

import (
	"context"
	"time"

	"mdcodec/internal/source"
	"mdcodec/pkg/exception"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SourceRecord is one persisted builtin source.
type SourceRecord struct {
	ID           int32  `gorm:"primaryKey;autoIncrement:false"`
	Name         string `gorm:"size:16;not null;uniqueIndex"`
	PublishFlags uint8  `gorm:"not null"`
	UpdatedAt    time.Time
}

func (SourceRecord) TableName() string {
	return "order_sources"
}

func recordOf(src *source.Source) SourceRecord {
	return SourceRecord{
		ID:           src.ID(),
		Name:         src.Name(),
		PublishFlags: uint8(src.PublishFlags()),
	}
}

// LoadResult counts what LoadBuiltins did with the persisted rows.
type LoadResult struct {
	Registered int
	Skipped    int
}

// Store reads and writes the builtin source table.
type Store struct {
	db *gorm.DB
}

// NewStore migrates the source table on db.
func NewStore(ctx context.Context, db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, exception.ErrNilDatabase
	}
	if err := db.WithContext(ctx).AutoMigrate(&SourceRecord{}); err != nil {
		return nil, errors.Wrap(err, "migrate source table")
	}
	return &Store{db: db}, nil
}

// List returns every persisted source ordered by id.
func (s *Store) List(ctx context.Context) ([]SourceRecord, error) {
	var records []SourceRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "list sources")
	}
	return records, nil
}

// SaveBuiltins upserts every builtin source of reg and returns how many rows
// were written.
func (s *Store) SaveBuiltins(ctx context.Context, reg *source.Registry) (int, error) {
	if reg == nil {
		return 0, errors.Wrap(exception.ErrNilInstance, "source registry")
	}

	builtins := reg.Builtins()
	if len(builtins) == 0 {
		return 0, nil
	}

	records := make([]SourceRecord, 0, len(builtins))
	for _, src := range builtins {
		records = append(records, recordOf(src))
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "publish_flags", "updated_at"}),
		}).
		Create(&records).Error
	if err != nil {
		return 0, errors.Wrap(err, "save builtin sources")
	}

	logs.Infof("catalog: saved %d builtin sources", len(records))
	return len(records), nil
}

// LoadBuiltins registers the persisted sources reg does not know yet. Rows
// identical to a registered builtin are skipped; rows that clash with one
// by id or by name fail with ErrCatalogConflict.
func (s *Store) LoadBuiltins(ctx context.Context, reg *source.Registry) (LoadResult, error) {
	var result LoadResult
	if reg == nil {
		return result, errors.Wrap(exception.ErrNilInstance, "source registry")
	}

	records, err := s.List(ctx)
	if err != nil {
		return result, err
	}

	byID := make(map[int32]*source.Source)
	byName := make(map[string]*source.Source)
	for _, src := range reg.Builtins() {
		byID[src.ID()] = src
		byName[src.Name()] = src
	}

	for _, rec := range records {
		flags := source.PublishFlags(rec.PublishFlags)
		if existing, ok := byID[rec.ID]; ok {
			if existing.Name() == rec.Name && existing.PublishFlags() == flags {
				result.Skipped++
				continue
			}
			return result, errors.Wrapf(exception.ErrCatalogConflict, "id %d: stored %q %s, registered %s", rec.ID, rec.Name, flags, existing)
		}
		if existing, ok := byName[rec.Name]; ok {
			return result, errors.Wrapf(exception.ErrCatalogConflict, "name %q: stored id %d, registered %s", rec.Name, rec.ID, existing)
		}

		src, err := reg.RegisterBuiltin(rec.ID, rec.Name, flags)
		if err != nil {
			return result, errors.Wrapf(err, "register stored source %q", rec.Name)
		}
		byID[src.ID()] = src
		byName[src.Name()] = src
		result.Registered++
	}

	logs.Infof("catalog: loaded %d builtin sources, %d already registered", result.Registered, result.Skipped)
	return result, nil
}
