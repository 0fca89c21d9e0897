package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/nasa"
)

// MockUpstream implements Upstream for testing using testify/mock
type MockUpstream struct {
	mock.Mock
}

func (m *MockUpstream) Apod(ctx context.Context) (*model.Apod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Apod), args.Error(1)
}

func (m *MockUpstream) RoverPhotos(ctx context.Context, query nasa.RoverQuery) ([]model.RoverPhoto, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RoverPhoto), args.Error(1)
}

// MockApodStore implements store.ApodStore for testing using testify/mock
type MockApodStore struct {
	mock.Mock
}

func (m *MockApodStore) FindAll(ctx context.Context) ([]model.Apod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Apod), args.Error(1)
}

func (m *MockApodStore) FindByID(ctx context.Context, id int64) (*model.Apod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Apod), args.Error(1)
}

func (m *MockApodStore) FindByDate(ctx context.Context, date string) ([]model.Apod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Apod), args.Error(1)
}

func (m *MockApodStore) FindByCopyright(ctx context.Context, copyright string) ([]model.Apod, error) {
	args := m.Called(ctx, copyright)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Apod), args.Error(1)
}

func (m *MockApodStore) Save(ctx context.Context, apod *model.Apod) error {
	return m.Called(ctx, apod).Error(0)
}

func (m *MockApodStore) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockApodStore) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
