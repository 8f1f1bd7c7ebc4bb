package orders

import (
	"context"
	"sync"
	"time"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
	"github.com/google/uuid"
)

// MemoryRepository implements OrderRepository with in-memory storage.
// Used by tests and local development without a database.
type MemoryRepository struct {
	mu       sync.RWMutex
	orders   map[uuid.UUID]*domain.Order
	byGwyRef map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders:   make(map[uuid.UUID]*domain.Order),
		byGwyRef: make(map[string]uuid.UUID),
	}
}

func (m *MemoryRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if order.GatewayOrderRef != "" {
		if _, exists := m.byGwyRef[order.GatewayOrderRef]; exists {
			return ErrDuplicateGatewayRef
		}
	}

	now := time.Now()
	stored := *order
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.orders[order.ID] = &stored
	if order.GatewayOrderRef != "" {
		m.byGwyRef[order.GatewayOrderRef] = order.ID
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	return nil
}

func (m *MemoryRepository) DeleteOrder(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	delete(m.byGwyRef, order.GatewayOrderRef)
	delete(m.orders, id)
	return nil
}

func (m *MemoryRepository) SetGatewayRef(_ context.Context, id uuid.UUID, gatewayRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if existing, taken := m.byGwyRef[gatewayRef]; taken && existing != id {
		return ErrDuplicateGatewayRef
	}
	delete(m.byGwyRef, order.GatewayOrderRef)
	order.GatewayOrderRef = gatewayRef
	order.UpdatedAt = time.Now()
	m.byGwyRef[gatewayRef] = id
	return nil
}

func (m *MemoryRepository) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *MemoryRepository) GetOrderByGatewayRef(_ context.Context, gatewayRef string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byGwyRef[gatewayRef]
	if !ok {
		return nil, ErrOrderNotFound
	}
	copied := *m.orders[id]
	return &copied, nil
}

func (m *MemoryRepository) ListOrdersByCustomer(_ context.Context, customerID string) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var orders []*domain.Order
	for _, order := range m.orders {
		if order.CustomerID == customerID {
			copied := *order
			orders = append(orders, &copied)
		}
	}
	return orders, nil
}

func (m *MemoryRepository) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.OrderStatus, payment domain.PaymentStatus, paymentRef *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return false, ErrOrderNotFound
	}
	if order.Status != from {
		return false, nil
	}
	order.Status = to
	order.PaymentStatus = payment
	if paymentRef != nil {
		ref := *paymentRef
		order.PaymentRef = &ref
	}
	order.UpdatedAt = time.Now()
	return true, nil
}

func (m *MemoryRepository) RunMigrations(*Credentials) error {
	return nil
}

func (m *MemoryRepository) Close() error {
	return nil
}
