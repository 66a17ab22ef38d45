package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type documentRow struct {
	Collection string         `gorm:"primaryKey;size:128"`
	ID         string         `gorm:"primaryKey;size:128"`
	Data       datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (documentRow) TableName() string { return "documents" }

type SQLConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string
	// DSN is the postgres connection string or the sqlite file path.
	DSN string
}

// SQLStore keeps every collection in one JSON-document table.
type SQLStore struct {
	db *gorm.DB
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(cfg SQLConfig) (*SQLStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("%w: %s connection string is required", ErrNotConfigured, cfg.Driver)
	}
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: unsupported sql driver %q", ErrNotConfigured, cfg.Driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	return NewSQLStoreFromDB(db)
}

// NewSQLStoreFromDB migrates the documents table on an existing handle.
func NewSQLStoreFromDB(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("migrate documents: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(ctx context.Context, collection, id string) (Document, error) {
	name, err := Resolve(collection)
	if err != nil {
		return Document{}, err
	}
	var row documentRow
	err = s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", name, id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Document{}, fmt.Errorf("%s/%s: %w", name, id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("sql get %s/%s: %w", name, id, err)
	}
	return row.document()
}

func (s *SQLStore) Create(ctx context.Context, collection string, data map[string]any) (Document, error) {
	name, err := Resolve(collection)
	if err != nil {
		return Document{}, err
	}
	id := uuid.NewString()
	record := mergeInto(nil, data)
	record["id"] = id
	raw, err := json.Marshal(record)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	row := documentRow{Collection: name, ID: id, Data: datatypes.JSON(raw)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Document{}, fmt.Errorf("sql create %s: %w", name, err)
	}
	return row.document()
}

func (s *SQLStore) Set(ctx context.Context, collection, id string, data map[string]any, opts SetOptions) error {
	name, err := Resolve(collection)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDocument)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next := mergeInto(nil, data)
		if opts.Merge {
			var existing documentRow
			err := tx.Where("collection = ? AND id = ?", name, id).Take(&existing).Error
			switch {
			case err == nil:
				current := map[string]any{}
				if err := json.Unmarshal(existing.Data, &current); err != nil {
					return fmt.Errorf("decode %s/%s: %w", name, id, err)
				}
				next = mergeInto(current, data)
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return fmt.Errorf("sql read %s/%s: %w", name, id, err)
			}
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		row := documentRow{Collection: name, ID: id, Data: datatypes.JSON(raw)}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("sql set %s/%s: %w", name, id, err)
		}
		return nil
	})
}

func (s *SQLStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	name, err := Resolve(collection)
	if err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Where("collection = ?", name)
	for _, f := range filters {
		q = q.Where(datatypes.JSONQuery("data").Equals(f.Value, f.Field))
	}
	var rows []documentRow
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sql query %s: %w", name, err)
	}
	out := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.document()
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r documentRow) document() (Document, error) {
	data := map[string]any{}
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &data); err != nil {
			return Document{}, fmt.Errorf("decode %s/%s: %w", r.Collection, r.ID, err)
		}
	}
	return Document{ID: r.ID, Data: data}, nil
}
