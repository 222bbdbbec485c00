package seed

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/electrodrive/catalog-api/internal/auth"
	"github.com/electrodrive/catalog-api/internal/catalog"
	"github.com/electrodrive/catalog-api/internal/models"
	"github.com/electrodrive/catalog-api/internal/store"
	apperrors "github.com/electrodrive/catalog-api/pkg/errors"
)

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string { return &s }
func strsPtr(s ...string) *[]string { return &s }

// sampleMotors returns the demo catalog loaded by `catalogctl seed -import`.
func sampleMotors() []models.MotorInput {
	return []models.MotorInput{
		{
			Name:        strPtr("Asynchronous induction motor"),
			Model:       strPtr("AIR100S4"),
			Description: strPtr("Energy-efficient induction motor for industrial use. Suited for constant loads and continuous operation."),
			Power:       floatPtr(3.0),
			Voltage:     floatPtr(380),
			Current:     floatPtr(6.5),
			Speed:       floatPtr(1500),
			Weight:      floatPtr(28),
			Dimensions:  &models.Dimensions{Length: 340, Width: 226, Height: 235},
			Images:      strsPtr("https://example.com/motors/air100s4.jpg"),
			Features:    strsPtr("High efficiency", "Low noise", "IP55 protection"),
			Applications: strsPtr("Pumps", "Fans", "Conveyors"),
			Price:       floatPtr(12500),
		},
		{
			Name:        strPtr("DC motor"),
			Model:       strPtr("DPT-125"),
			Description: strPtr("Powerful DC motor with high torque for systems that need smooth speed regulation."),
			Power:       floatPtr(5.5),
			Voltage:     floatPtr(220),
			Current:     floatPtr(28),
			Speed:       floatPtr(3000),
			Weight:      floatPtr(45),
			Dimensions:  &models.Dimensions{Length: 420, Width: 280, Height: 310},
			Images:      strsPtr("https://example.com/motors/dpt125.jpg"),
			Features:    strsPtr("High starting torque", "Wide regulation range", "Compact"),
			Applications: strsPtr("Machine tools", "Hoists", "Transport systems"),
			Price:       floatPtr(24800),
		},
		{
			Name:        strPtr("Stepper motor"),
			Model:       strPtr("NEMA 23"),
			Description: strPtr("Precision stepper motor for automation and CNC systems with accurate positioning."),
			Power:       floatPtr(0.5),
			Voltage:     floatPtr(48),
			Current:     floatPtr(2.8),
			Speed:       floatPtr(600),
			Weight:      floatPtr(0.7),
			Dimensions:  &models.Dimensions{Length: 56, Width: 56, Height: 78},
			Images:      strsPtr("https://example.com/motors/nema23.jpg"),
			Features:    strsPtr("High accuracy", "1.8 degree step angle", "Low power draw"),
			Applications: strsPtr("3D printers", "CNC machines", "Robotics"),
			Price:       floatPtr(3800),
		},
		{
			Name:        strPtr("Servo drive"),
			Model:       strPtr("SERVO-180"),
			Description: strPtr("High-precision servo drive with feedback for factory automation and robotics."),
			Power:       floatPtr(2.2),
			Voltage:     floatPtr(220),
			Current:     floatPtr(10),
			Speed:       floatPtr(4500),
			Weight:      floatPtr(12),
			Dimensions:  &models.Dimensions{Length: 240, Width: 150, Height: 180},
			Images:      strsPtr("https://example.com/motors/servo180.jpg"),
			Features:    strsPtr("Closed-loop feedback", "High dynamics", "Precise positioning"),
			Applications: strsPtr("Industrial robots", "Packaging equipment", "Precision mechanics"),
			Price:       floatPtr(32500),
		},
		{
			Name:        strPtr("Brushless motor"),
			Model:       strPtr("BLDC-2000"),
			Description: strPtr("Modern brushless motor with electronic commutation for high-load applications."),
			Power:       floatPtr(1.5),
			Voltage:     floatPtr(48),
			Current:     floatPtr(35),
			Speed:       floatPtr(2000),
			Weight:      floatPtr(8.5),
			Dimensions:  &models.Dimensions{Length: 180, Width: 120, Height: 120},
			Images:      strsPtr("https://example.com/motors/bldc2000.jpg"),
			Features:    strsPtr("High efficiency", "Long service life", "Compact"),
			Applications: strsPtr("Electric vehicles", "Drones", "Industrial automation"),
			Price:       floatPtr(18900),
		},
	}
}

type seedUser struct {
	username string
	email    string
	password string
	admin    bool
}

func sampleUsers() []seedUser {
	return []seedUser{
		{username: "admin", email: "admin@example.com", password: "admin123", admin: true},
		{username: "user", email: "user@example.com", password: "user123"},
	}
}

// Seeder populates and clears the catalog and user tables.
type Seeder struct {
	authService    *auth.Service
	catalogService *catalog.Service
	motors         store.Motors
	logger         *logrus.Logger
}

func NewSeeder(authService *auth.Service, catalogService *catalog.Service, motors store.Motors, logger *logrus.Logger) *Seeder {
	return &Seeder{
		authService:    authService,
		catalogService: catalogService,
		motors:         motors,
		logger:         logger,
	}
}

// Import clears the motors table and loads the sample catalog and
// users. Seed users that already exist are left untouched.
func (s *Seeder) Import(ctx context.Context) error {
	if err := s.deleteMotors(ctx); err != nil {
		return err
	}

	for i := range sampleMotors() {
		input := sampleMotors()[i]
		motor, err := s.catalogService.Create(ctx, &input)
		if err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"motor_id": motor.ID,
			"model":    motor.Model,
		}).Info("Seeded motor")
	}

	for _, su := range sampleUsers() {
		var err error
		if su.admin {
			_, err = s.authService.CreateAdmin(ctx, su.username, su.email, su.password)
		} else {
			_, _, err = s.authService.Register(ctx, su.username, su.email, su.password)
		}
		if err != nil {
			if apperrors.IsConflict(err) {
				s.logger.WithField("email", su.email).Info("Seed user already exists, skipping")
				continue
			}
			return err
		}
		s.logger.WithField("email", su.email).Info("Seeded user")
	}

	return nil
}

// Destroy removes every motor from the catalog. Users are kept.
func (s *Seeder) Destroy(ctx context.Context) error {
	return s.deleteMotors(ctx)
}

func (s *Seeder) deleteMotors(ctx context.Context) error {
	motors, err := s.motors.List(ctx, &models.MotorFilter{})
	if err != nil {
		return err
	}
	for i := range motors {
		if err := s.motors.Delete(ctx, motors[i].ID); err != nil && !apperrors.IsNotFound(err) {
			return err
		}
	}
	s.logger.WithField("count", len(motors)).Info("Cleared motors table")
	return nil
}
