package orders

import (
	"context"
	"sync"

	"github.com/dinehall/ordering/pkg/models"
)

// Store is the persistence seam for order aggregates. The in-memory
// implementation below is the reference backend; a durable store can
// replace it without touching the state-machine logic.
type Store interface {
	Put(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, orderID string) (*models.Order, error)
	List(ctx context.Context, filter models.ListOrdersFilter) ([]*models.Order, error)
}

// MemoryStore keeps orders in a process-local map. Orders are deep-copied on
// both reads and writes so no caller ever observes an in-flight mutation.
type MemoryStore struct {
	mutex  sync.RWMutex
	orders map[string]*models.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*models.Order)}
}

func (s *MemoryStore) Put(ctx context.Context, order *models.Order) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.orders[order.OrderID] = order.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, orderID string) (*models.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context, filter models.ListOrdersFilter) ([]*models.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]*models.Order, 0)
	for _, o := range s.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.RestaurantID != "" && o.RestaurantID != filter.RestaurantID {
			continue
		}
		if filter.TableID != "" && o.TableID != filter.TableID {
			continue
		}
		result = append(result, o.Clone())
	}
	return result, nil
}
