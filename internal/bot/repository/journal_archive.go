package repository

import (
	"context"

	"forex-signal-relay/internal/entity"

	"gorm.io/gorm"
)

// JournalArchiveRepository mirrors journal records into PostgreSQL.
type JournalArchiveRepository interface {
	Create(ctx context.Context, record *entity.JournalArchiveRecord) error
	FindByDate(ctx context.Context, date string) ([]entity.JournalArchiveRecord, error)
}

type journalArchiveRepository struct {
	db *gorm.DB
}

// NewJournalArchiveRepository creates a gorm-backed archive repository.
func NewJournalArchiveRepository(db *gorm.DB) JournalArchiveRepository {
	return &journalArchiveRepository{db: db}
}

func (r *journalArchiveRepository) Create(ctx context.Context, record *entity.JournalArchiveRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *journalArchiveRepository) FindByDate(ctx context.Context, date string) ([]entity.JournalArchiveRecord, error) {
	var records []entity.JournalArchiveRecord
	if err := r.db.WithContext(ctx).Where("trade_date = ?", date).Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
