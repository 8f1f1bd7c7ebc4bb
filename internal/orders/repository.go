package orders

import (
	"context"
	"errors"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrDuplicateGatewayRef = errors.New("order for this gateway reference already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderRepository is the sole writer of order status transitions.
// UpdateStatus is a compare-and-set keyed on the current status: it
// reports false when the row was not in `from`, so concurrent writers
// cannot blindly overwrite each other.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	SetGatewayRef(ctx context.Context, id uuid.UUID, gatewayRef string) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrderByGatewayRef(ctx context.Context, gatewayRef string) (*domain.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus, payment domain.PaymentStatus, paymentRef *string) (bool, error)
	RunMigrations(*Credentials) error
	Close() error
}
