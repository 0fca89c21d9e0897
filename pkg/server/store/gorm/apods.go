package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/store"
)

// Ensure ApodStore implements store.ApodStore
var _ store.ApodStore = (*ApodStore)(nil)

// ApodStore implements store.ApodStore using GORM
type ApodStore struct {
	db *gorm.DB
}

// NewApodStore creates a new ApodStore
func NewApodStore(db *gorm.DB) *ApodStore {
	return &ApodStore{db: db}
}

func (s *ApodStore) FindAll(ctx context.Context) ([]model.Apod, error) {
	apods := []model.Apod{}
	if err := s.db.WithContext(ctx).Order("id").Find(&apods).Error; err != nil {
		return nil, err
	}
	return apods, nil
}

func (s *ApodStore) FindByID(ctx context.Context, id int64) (*model.Apod, error) {
	var apod model.Apod
	tx := s.db.WithContext(ctx).First(&apod, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrApodNotFound
		}
		return nil, tx.Error
	}
	return &apod, nil
}

func (s *ApodStore) FindByDate(ctx context.Context, date string) ([]model.Apod, error) {
	return s.findWhere(ctx, "date = ?", date)
}

func (s *ApodStore) FindByCopyright(ctx context.Context, copyright string) ([]model.Apod, error) {
	return s.findWhere(ctx, "copyright = ?", copyright)
}

func (s *ApodStore) findWhere(ctx context.Context, query string, args ...interface{}) ([]model.Apod, error) {
	apods := []model.Apod{}
	if err := s.db.WithContext(ctx).Where(query, args...).Order("id").Find(&apods).Error; err != nil {
		return nil, err
	}
	return apods, nil
}

// Save inserts or updates apod. GORM picks the statement from the primary
// key and writes the generated id back on insert.
func (s *ApodStore) Save(ctx context.Context, apod *model.Apod) error {
	if apod.ID == 0 {
		return s.db.WithContext(ctx).Create(apod).Error
	}
	return s.db.WithContext(ctx).Save(apod).Error
}

func (s *ApodStore) DeleteByID(ctx context.Context, id int64) error {
	tx := s.db.WithContext(ctx).Delete(&model.Apod{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrApodNotFound
	}
	return nil
}

func (s *ApodStore) DeleteAll(ctx context.Context) (int64, error) {
	tx := s.db.WithContext(ctx).Where("1 = 1").Delete(&model.Apod{})
	return tx.RowsAffected, tx.Error
}
