package orders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dinehall/ordering/internal/events"
	"github.com/dinehall/ordering/pkg/models"
)

// QuoteComputer is the pricing engine surface the lifecycle service needs.
type QuoteComputer interface {
	ComputeQuote(ctx context.Context, req models.QuoteRequest) *models.Quote
}

// Service owns the order state machine. Only draft orders accept content
// edits; every mutation that touches a price-affecting field recomputes the
// quote before the order is persisted, so a stored order's pricing is never
// stale relative to its items, tip and coupon.
type Service struct {
	store     Store
	pricing   QuoteComputer
	publisher events.Publisher
	logger    *logrus.Logger
	draftTTL  time.Duration

	// Per-order mutexes make update -> recompute -> persist atomic with
	// respect to other operations on the same order id. Distinct orders
	// proceed in parallel.
	locks sync.Map
}

func NewService(store Store, pricing QuoteComputer, publisher events.Publisher, logger *logrus.Logger, draftTTL time.Duration) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if draftTTL <= 0 {
		draftTTL = 30 * time.Minute
	}
	return &Service{
		store:     store,
		pricing:   pricing,
		publisher: publisher,
		logger:    logger,
		draftTTL:  draftTTL,
	}
}

func (s *Service) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrItemsRequired
	}

	now := time.Now().UTC()
	order := &models.Order{
		OrderID:      generateOrderID(),
		Status:       models.StatusDraft,
		RestaurantID: req.RestaurantID,
		Channel:      req.Channel,
		TableID:      req.TableID,
		Customer:     req.Customer,
		Items:        req.Items,
		Tip:          req.Tip,
		CouponCode:   req.CouponCode,
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(s.draftTTL),
		History:      []models.HistoryEntry{{Status: models.StatusDraft, At: now}},
	}
	s.reprice(ctx, order)

	if err := s.store.Put(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":      order.OrderID,
		"restaurant_id": order.RestaurantID,
		"channel":       order.Channel,
		"items_count":   len(order.Items),
	}).Info("Order created")
	s.publish(events.OrderCreatedTopic, order)

	return &models.CreateOrderResponse{
		OrderID:   order.OrderID,
		Status:    order.Status,
		Pricing:   order.Pricing,
		ExpiresAt: order.ExpiresAt,
	}, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.store.Get(ctx, orderID)
}

func (s *Service) UpdateOrder(ctx context.Context, orderID string, patch models.OrderPatch) (*models.Order, error) {
	return s.mutateDraft(ctx, orderID, "updated", func(o *models.Order) error {
		if patch.Items != nil {
			o.Items = patch.Items
		}
		if patch.Tip != nil {
			o.Tip = *patch.Tip
		}
		if patch.CouponCode != nil {
			o.CouponCode = *patch.CouponCode
		}
		if patch.Customer != nil {
			o.Customer = patch.Customer
		}
		return nil
	})
}

func (s *Service) ApplyCoupon(ctx context.Context, orderID, couponCode string) (*models.Order, error) {
	return s.mutateDraft(ctx, orderID, "coupon_applied", func(o *models.Order) error {
		o.CouponCode = couponCode
		return nil
	})
}

func (s *Service) UpdateTip(ctx context.Context, orderID string, tip float64) (*models.Order, error) {
	return s.mutateDraft(ctx, orderID, "tip_updated", func(o *models.Order) error {
		o.Tip = tip
		return nil
	})
}

// SubmitOrder moves a draft to submitted. A second submit fails rather than
// no-ops; repeated submits are a caller bug the API surfaces.
func (s *Service) SubmitOrder(ctx context.Context, orderID string) (*models.StatusResponse, error) {
	unlock := s.lock(orderID)
	defer unlock()

	order, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusDraft {
		return nil, ErrOnlyDraftCanSubmit
	}

	now := time.Now().UTC()
	order.Status = models.StatusSubmitted
	order.SubmittedAt = &now
	order.UpdatedAt = now
	order.History = append(order.History, models.HistoryEntry{Status: models.StatusSubmitted, At: now})

	if err := s.store.Put(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	s.logger.WithField("order_id", order.OrderID).Info("Order submitted")
	s.publish(events.OrderSubmittedTopic, order)

	return &models.StatusResponse{OrderID: order.OrderID, Status: order.Status}, nil
}

// CancelOrder is allowed from any status except canceled and served.
func (s *Service) CancelOrder(ctx context.Context, orderID string) (*models.StatusResponse, error) {
	unlock := s.lock(orderID)
	defer unlock()

	order, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.StatusCanceled || order.Status == models.StatusServed {
		return nil, ErrCannotCancel
	}

	now := time.Now().UTC()
	order.Status = models.StatusCanceled
	order.CanceledAt = &now
	order.UpdatedAt = now
	order.History = append(order.History, models.HistoryEntry{Status: models.StatusCanceled, At: now})

	if err := s.store.Put(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	s.logger.WithField("order_id", order.OrderID).Info("Order canceled")
	s.publish(events.OrderCanceledTopic, order)

	return &models.StatusResponse{OrderID: order.OrderID, Status: order.Status}, nil
}

func (s *Service) ListOrders(ctx context.Context, filter models.ListOrdersFilter) ([]*models.Order, error) {
	return s.store.List(ctx, filter)
}

// mutateDraft is the single edit path for draft orders: guard, apply,
// reprice, persist, append exactly one history entry.
func (s *Service) mutateDraft(ctx context.Context, orderID, note string, apply func(*models.Order) error) (*models.Order, error) {
	unlock := s.lock(orderID)
	defer unlock()

	order, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusDraft {
		return nil, ErrOnlyDraftEditable
	}

	if err := apply(order); err != nil {
		return nil, err
	}

	s.reprice(ctx, order)
	now := time.Now().UTC()
	order.UpdatedAt = now
	order.History = append(order.History, models.HistoryEntry{Status: models.StatusDraft, At: now, Note: note})

	if err := s.store.Put(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": order.OrderID,
		"note":     note,
	}).Info("Order updated")

	return order, nil
}

// reprice replaces the order's quote wholesale from the current menu
// snapshot. Any mutation touching items, tip or coupon must pass through
// here before the order is persisted.
func (s *Service) reprice(ctx context.Context, o *models.Order) {
	items := make([]models.QuoteItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, models.QuoteItem{
			ItemID:    it.ItemID,
			VariantID: it.VariantID,
			Modifiers: it.Modifiers,
			Quantity:  it.Quantity,
		})
	}
	o.Pricing = s.pricing.ComputeQuote(ctx, models.QuoteRequest{
		RestaurantID: o.RestaurantID,
		Items:        items,
		Tip:          o.Tip,
		CouponCode:   o.CouponCode,
	})
}

func (s *Service) publish(topic string, order *models.Order) {
	var total float64
	if order.Pricing != nil {
		total = order.Pricing.Total
	}
	event := events.OrderEvent{
		EventID:      uuid.NewString(),
		OrderID:      order.OrderID,
		RestaurantID: order.RestaurantID,
		Status:       string(order.Status),
		Channel:      string(order.Channel),
		Total:        total,
		OccurredAt:   order.UpdatedAt,
	}
	if err := s.publisher.PublishOrderEvent(topic, event); err != nil {
		// Best effort: downstream consumers catch up later, the order
		// operation itself already succeeded.
		s.logger.WithError(err).WithFields(logrus.Fields{
			"order_id": order.OrderID,
			"topic":    topic,
		}).Error("Failed to publish lifecycle event")
	}
}

func (s *Service) lock(orderID string) func() {
	v, _ := s.locks.LoadOrStore(orderID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func generateOrderID() string {
	return "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
