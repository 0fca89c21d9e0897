package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
)

// ErrApodNotFound is returned when no stored Apod has the requested id
var ErrApodNotFound = errors.New("apod not found")

// ApodStore abstracts storage of Astronomy Pictures of the Day
type ApodStore interface {
	// FindAll returns every stored Apod ordered by id. An empty store
	// yields an empty slice, not an error.
	FindAll(ctx context.Context) ([]model.Apod, error)

	// FindByID returns ErrApodNotFound if id is not stored.
	FindByID(ctx context.Context, id int64) (*model.Apod, error)

	// FindByDate returns the Apods stored for a calendar date.
	FindByDate(ctx context.Context, date string) ([]model.Apod, error)

	// FindByCopyright returns the Apods credited to a copyright holder.
	FindByCopyright(ctx context.Context, copyright string) ([]model.Apod, error)

	// Save inserts apod when its ID is zero and updates it otherwise. On
	// insert the assigned id is written back to apod.ID.
	Save(ctx context.Context, apod *model.Apod) error

	// DeleteByID returns ErrApodNotFound if nothing was deleted.
	DeleteByID(ctx context.Context, id int64) error

	// DeleteAll removes every stored Apod and returns how many there were.
	DeleteAll(ctx context.Context) (int64, error)
}
