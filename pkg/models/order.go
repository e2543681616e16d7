package models

import (
	"time"
)

type OrderStatus string

const (
	StatusDraft     OrderStatus = "draft"
	StatusSubmitted OrderStatus = "submitted"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusServed    OrderStatus = "served"
	StatusCanceled  OrderStatus = "canceled"
)

type Channel string

const (
	ChannelDineIn   Channel = "dine-in"
	ChannelTakeaway Channel = "takeaway"
	ChannelDelivery Channel = "delivery"
)

type Customer struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type OrderItem struct {
	ItemID    string   `json:"item_id"`
	VariantID string   `json:"variant_id,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
	Quantity  int      `json:"quantity"`
	Note      string   `json:"note,omitempty"`
}

// HistoryEntry is one element of an order's append-only audit trail.
// Every mutation appends exactly one entry.
type HistoryEntry struct {
	Status OrderStatus `json:"status"`
	At     time.Time   `json:"at"`
	Note   string      `json:"note,omitempty"`
}

type Order struct {
	OrderID      string         `json:"order_id"`
	Status       OrderStatus    `json:"status"`
	RestaurantID string         `json:"restaurant_id"`
	Channel      Channel        `json:"channel"`
	TableID      string         `json:"table_id,omitempty"`
	Customer     *Customer      `json:"customer,omitempty"`
	Items        []OrderItem    `json:"items"`
	Tip          float64        `json:"tip,omitempty"`
	CouponCode   string         `json:"coupon_code,omitempty"`
	Pricing      *Quote         `json:"pricing"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	SubmittedAt  *time.Time     `json:"submitted_at,omitempty"`
	CanceledAt   *time.Time     `json:"canceled_at,omitempty"`
	ExpiresAt    time.Time      `json:"expires_at"`
	History      []HistoryEntry `json:"history"`
}

// Clone returns a deep copy so callers can hand orders across goroutine
// boundaries without sharing mutable state.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.Customer != nil {
		cust := *o.Customer
		c.Customer = &cust
	}
	if o.SubmittedAt != nil {
		t := *o.SubmittedAt
		c.SubmittedAt = &t
	}
	if o.CanceledAt != nil {
		t := *o.CanceledAt
		c.CanceledAt = &t
	}
	c.Items = make([]OrderItem, len(o.Items))
	copy(c.Items, o.Items)
	for i := range c.Items {
		if o.Items[i].Modifiers != nil {
			c.Items[i].Modifiers = append([]string(nil), o.Items[i].Modifiers...)
		}
	}
	c.History = append([]HistoryEntry(nil), o.History...)
	c.Pricing = o.Pricing.Clone()
	return &c
}

type CreateOrderRequest struct {
	RestaurantID string      `json:"restaurant_id"`
	Channel      Channel     `json:"channel"`
	TableID      string      `json:"table_id,omitempty"`
	Customer     *Customer   `json:"customer,omitempty"`
	Items        []OrderItem `json:"items"`
	Tip          float64     `json:"tip,omitempty"`
	CouponCode   string      `json:"coupon_code,omitempty"`
}

// OrderPatch carries a partial update for a draft order. Nil fields are left
// untouched; a non-nil Items slice replaces the whole item list.
type OrderPatch struct {
	Items      []OrderItem `json:"items,omitempty"`
	Tip        *float64    `json:"tip,omitempty"`
	CouponCode *string     `json:"coupon_code,omitempty"`
	Customer   *Customer   `json:"customer,omitempty"`
}

type CreateOrderResponse struct {
	OrderID   string      `json:"order_id"`
	Status    OrderStatus `json:"status"`
	Pricing   *Quote      `json:"pricing"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type StatusResponse struct {
	OrderID string      `json:"order_id"`
	Status  OrderStatus `json:"status"`
}

type ListOrdersFilter struct {
	Status       OrderStatus
	RestaurantID string
	TableID      string
}
