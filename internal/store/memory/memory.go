// Package memory implements the store contracts in process. It backs
// tests and local development without a DynamoDB endpoint.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/electrodrive/catalog-api/internal/models"
	apperrors "github.com/electrodrive/catalog-api/pkg/errors"
)

// UserStore is a mutex-guarded in-memory credential store.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User // keyed by id
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return apperrors.New(apperrors.CodeConflict, "a user with this email already exists")
		}
	}

	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
}

func (s *UserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
	}
	user := u
	return &user, nil
}

// Delete removes a user. Not part of the store contract; it exists so
// tests can exercise token verification against a removed account.
func (s *UserStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *UserStore) Ping(context.Context) error { return nil }

// MotorStore is a mutex-guarded in-memory catalog store.
type MotorStore struct {
	mu     sync.RWMutex
	motors map[string]models.Motor
}

func NewMotorStore() *MotorStore {
	return &MotorStore{motors: make(map[string]models.Motor)}
}

func (s *MotorStore) collect(keep func(*models.Motor) bool) []models.Motor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var motors []models.Motor
	for _, m := range s.motors {
		motor := m
		if keep(&motor) {
			motors = append(motors, motor)
		}
	}

	sort.SliceStable(motors, func(i, j int) bool {
		if motors[i].CreatedAt.Equal(motors[j].CreatedAt) {
			return motors[i].ID < motors[j].ID
		}
		return motors[i].CreatedAt.Before(motors[j].CreatedAt)
	})

	return motors
}

func (s *MotorStore) List(_ context.Context, filter *models.MotorFilter) ([]models.Motor, error) {
	return s.collect(filter.Matches), nil
}

func (s *MotorStore) Search(_ context.Context, keyword string) ([]models.Motor, error) {
	return s.collect(func(m *models.Motor) bool {
		return m.MatchesKeyword(keyword)
	}), nil
}

func (s *MotorStore) Get(_ context.Context, id string) (*models.Motor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.motors[id]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "motor not found")
	}
	motor := m
	return &motor, nil
}

func (s *MotorStore) Create(_ context.Context, motor *models.Motor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.motors[motor.ID] = *motor
	return nil
}

func (s *MotorStore) Update(_ context.Context, motor *models.Motor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.motors[motor.ID]; !ok {
		return apperrors.New(apperrors.CodeNotFound, "motor not found")
	}
	s.motors[motor.ID] = *motor
	return nil
}

func (s *MotorStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.motors[id]; !ok {
		return apperrors.New(apperrors.CodeNotFound, "motor not found")
	}
	delete(s.motors, id)
	return nil
}

func (s *MotorStore) Ping(context.Context) error { return nil }
