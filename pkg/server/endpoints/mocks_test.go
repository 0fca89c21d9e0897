package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/nasa"
)

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

// MockMemberStore implements store.MemberStore for testing using testify/mock
type MockMemberStore struct {
	mock.Mock
}

func (m *MockMemberStore) FindMember(ctx context.Context, userID string) (*model.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *MockMemberStore) CreateMember(ctx context.Context, member *model.Member) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockMemberStore) SetRoles(ctx context.Context, userID string, roles []string) error {
	return m.Called(ctx, userID, roles).Error(0)
}

func (m *MockMemberStore) SetActive(ctx context.Context, userID string, active bool) error {
	return m.Called(ctx, userID, active).Error(0)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockUpstream implements service.Upstream for testing using testify/mock
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
