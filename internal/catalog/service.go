// Package catalog implements CRUD and filtered, paginated listing over
// the motor store.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/electrodrive/catalog-api/internal/models"
	"github.com/electrodrive/catalog-api/internal/store"
	apperrors "github.com/electrodrive/catalog-api/pkg/errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Service owns catalog entry lifecycle and listing. Stateless; all
// consistency is delegated to the backing store.
type Service struct {
	motors store.Motors
	logger *logrus.Logger
}

func NewService(motors store.Motors, logger *logrus.Logger) *Service {
	return &Service{motors: motors, logger: logger}
}

// List returns the page window of entries satisfying every active
// filter. A page beyond the last returns an empty list with the total
// unchanged.
func (s *Service) List(ctx context.Context, filter *models.MotorFilter, page, limit int) (*models.ListResult, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	matched, err := s.motors.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total := len(matched)
	pages := (total + limit - 1) / limit

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &models.ListResult{
		Motors: matched[start:end],
		Total:  total,
		Pagination: models.Pagination{
			Pages: pages,
			Page:  page,
			Limit: limit,
		},
	}, nil
}

// Get fetches a single entry by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Motor, error) {
	return s.motors.Get(ctx, id)
}

// Create validates the input and stores a new entry.
func (s *Service) Create(ctx context.Context, input *models.MotorInput) (*models.Motor, error) {
	if err := input.ValidateCreate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	motor := &models.Motor{
		ID:        uuid.New().String(),
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.Apply(motor)

	if err := s.motors.Create(ctx, motor); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"motor_id": motor.ID,
		"name":     motor.Name,
	}).Info("Motor created")

	return motor, nil
}

// Update merges the provided fields into an existing entry and
// refreshes its update timestamp.
func (s *Service) Update(ctx context.Context, id string, input *models.MotorInput) (*models.Motor, error) {
	motor, err := s.motors.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	input.Apply(motor)
	motor.UpdatedAt = time.Now().UTC()

	if err := s.motors.Update(ctx, motor); err != nil {
		return nil, err
	}

	s.logger.WithField("motor_id", motor.ID).Info("Motor updated")

	return motor, nil
}

// Delete removes an entry by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.motors.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("motor_id", id).Info("Motor deleted")

	return nil
}

// Search finds entries whose name, model or description contains the keyword.
func (s *Service) Search(ctx context.Context, keyword string) ([]models.Motor, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "please provide a search keyword")
	}
	return s.motors.Search(ctx, keyword)
}
