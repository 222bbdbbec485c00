// Package store defines the persistence contracts for the credential
// and catalog stores. Implementations live in the dynamo and memory
// subpackages.
package store

import (
	"context"

	"github.com/electrodrive/catalog-api/internal/models"
)

// Users is the credential store contract. Secrets are stored hashed;
// uniqueness of email is enforced at creation time with a Conflict kind.
type Users interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Motors is the resource store contract. List and Search return every
// matching entry; pagination windows are applied by the catalog service.
type Motors interface {
	List(ctx context.Context, filter *models.MotorFilter) ([]models.Motor, error)
	Search(ctx context.Context, keyword string) ([]models.Motor, error)
	Get(ctx context.Context, id string) (*models.Motor, error)
	Create(ctx context.Context, motor *models.Motor) error
	Update(ctx context.Context, motor *models.Motor) error
	Delete(ctx context.Context, id string) error
}

// Pinger is implemented by stores that can report backing-store health.
type Pinger interface {
	Ping(ctx context.Context) error
}
