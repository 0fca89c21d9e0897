package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/logging"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/nasa"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/apierror"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/store"
)

// Upstream is the part of the NASA client the service uses
type Upstream interface {
	Apod(ctx context.Context) (*model.Apod, error)
	RoverPhotos(ctx context.Context, query nasa.RoverQuery) ([]model.RoverPhoto, error)
}

// Nasa combines the upstream client and the Apod store into the
// operations exposed over HTTP
type Nasa struct {
	upstream Upstream
	apods    store.ApodStore
	logger   logrus.FieldLogger
}

// New creates the NASA service
func New(upstream Upstream, apods store.ApodStore, logger logrus.FieldLogger) *Nasa {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Nasa{
		upstream: upstream,
		apods:    apods,
		logger:   logger.WithField("component", "nasa-service"),
	}
}

// CurrentApod fetches today's picture from NASA without storing it
func (s *Nasa) CurrentApod(ctx context.Context) (*model.Apod, error) {
	return s.upstream.Apod(ctx)
}

// ListApods returns every stored Apod, or NotFound when there are none
func (s *Nasa) ListApods(ctx context.Context) ([]model.Apod, error) {
	apods, err := s.apods.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(apods) == 0 {
		return nil, apierror.NotFound("No Apods Found. Try Adding Apod To The Database")
	}
	return apods, nil
}

// ListApodsLenient returns every stored Apod. An empty store is an empty
// list.
func (s *Nasa) ListApodsLenient(ctx context.Context) ([]model.Apod, error) {
	apods, err := s.apods.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if apods == nil {
		apods = []model.Apod{}
	}
	return apods, nil
}

// SaveCurrentApod fetches today's picture and stores it
func (s *Nasa) SaveCurrentApod(ctx context.Context) (*model.Apod, error) {
	apod, err := s.upstream.Apod(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.apods.Save(ctx, apod); err != nil {
		return nil, fmt.Errorf("save apod: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"id": apod.ID, "date": apod.Date}).Info("saved apod")
	return apod, nil
}

// ApodByID returns a stored Apod or NotFound
func (s *Nasa) ApodByID(ctx context.Context, id int64) (*model.Apod, error) {
	apod, err := s.apods.FindByID(ctx, id)
	if errors.Is(err, store.ErrApodNotFound) {
		return nil, apodNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return apod, nil
}

// DeleteApod removes a stored Apod after checking it exists
func (s *Nasa) DeleteApod(ctx context.Context, id int64) error {
	if _, err := s.ApodByID(ctx, id); err != nil {
		return err
	}
	// A concurrent delete between the lookup and here is reported the
	// same way as a missing id.
	if err := s.apods.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrApodNotFound) {
			return apodNotFound(id)
		}
		return err
	}
	s.logger.WithField("id", id).Info("deleted apod")
	return nil
}

// UpdateApod copies the title and explanation of edit onto the stored Apod
func (s *Nasa) UpdateApod(ctx context.Context, id int64, edit model.Apod) (*model.Apod, error) {
	apod, err := s.ApodByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apod.ApplyEdit(edit)
	if err := s.apods.Save(ctx, apod); err != nil {
		return nil, fmt.Errorf("update apod %d: %w", id, err)
	}
	s.logger.WithField("id", id).Info("updated apod")
	return apod, nil
}

// ApodsByDate returns the Apods stored for date, or NotFound
func (s *Nasa) ApodsByDate(ctx context.Context, date string) ([]model.Apod, error) {
	apods, err := s.apods.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(apods) == 0 {
		return nil, apierror.NotFound("No Apods Found With Date: %s", date)
	}
	return apods, nil
}

// ApodsByCopyright returns the Apods credited to copyright, or NotFound
func (s *Nasa) ApodsByCopyright(ctx context.Context, copyright string) ([]model.Apod, error) {
	apods, err := s.apods.FindByCopyright(ctx, copyright)
	if err != nil {
		return nil, err
	}
	if len(apods) == 0 {
		return nil, apierror.NotFound("No Apods Found With Copyright: %s", copyright)
	}
	return apods, nil
}

// DeleteAllApods empties the store and reports how many Apods it held
func (s *Nasa) DeleteAllApods(ctx context.Context) (int64, error) {
	n, err := s.apods.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.WithField("count", n).Info("deleted all apods")
	return n, nil
}

// RoverPhotos validates every camera and then queries NASA. The first
// unknown camera fails the call before any upstream request.
func (s *Nasa) RoverPhotos(ctx context.Context, rover, earthDate string, cameras ...string) ([]model.RoverPhoto, error) {
	codes := make([]string, 0, len(cameras))
	for _, camera := range cameras {
		if !nasa.ValidCamera(camera) {
			return nil, apierror.NotFound("%s Camera Does Not Exist", camera)
		}
		codes = append(codes, strings.ToLower(camera))
	}
	return s.upstream.RoverPhotos(ctx, nasa.RoverQuery{
		Rover:     rover,
		EarthDate: earthDate,
		Cameras:   codes,
	})
}

func apodNotFound(id int64) error {
	return apierror.NotFound("No Apod Found With Id: %d", id)
}
