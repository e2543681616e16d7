package models

// Quote error codes for soft pricing failures. They travel in the quote
// body instead of an error return so that estimate composition stays
// exception-free for routine "not yet published" states.
const (
	QuoteErrRestaurantNotFound = "restaurant_not_found"
	QuoteErrMenuNotFound       = "menu_not_found"
)

type SectionRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QuoteLine is one resolved requested item. Variant and modifier ids are
// recorded for display only; they never adjust the unit price.
type QuoteLine struct {
	ItemID      string     `json:"item_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Section     SectionRef `json:"section"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
	Modifiers   []string   `json:"modifiers"`
	VariantID   string     `json:"variant_id,omitempty"`
	LineTotal   float64    `json:"line_total"`
}

type Discount struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

type TaxLine struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Quote is the full priced breakdown for a set of requested items. It has no
// identity of its own: it is recomputed from scratch on every relevant order
// mutation and replaces the previous value wholesale.
//
// ServiceCharge and Tip are omitted when zero; callers must treat absence as
// zero. Error is set only on soft failures, in which case all monetary
// fields are zero.
type Quote struct {
	Error         string      `json:"error,omitempty"`
	Lines         []QuoteLine `json:"lines"`
	Warnings      []string    `json:"warnings"`
	Subtotal      float64     `json:"subtotal"`
	Discounts     []Discount  `json:"discounts,omitempty"`
	Taxes         []TaxLine   `json:"taxes"`
	ServiceCharge float64     `json:"service_charge,omitempty"`
	Tip           float64     `json:"tip,omitempty"`
	Total         float64     `json:"total"`
}

func (q *Quote) Clone() *Quote {
	if q == nil {
		return nil
	}
	c := *q
	c.Lines = make([]QuoteLine, len(q.Lines))
	copy(c.Lines, q.Lines)
	for i := range c.Lines {
		if q.Lines[i].Modifiers != nil {
			c.Lines[i].Modifiers = append([]string(nil), q.Lines[i].Modifiers...)
		}
	}
	if q.Warnings != nil {
		c.Warnings = append([]string(nil), q.Warnings...)
	}
	if q.Discounts != nil {
		c.Discounts = append([]Discount(nil), q.Discounts...)
	}
	if q.Taxes != nil {
		c.Taxes = append([]TaxLine(nil), q.Taxes...)
	}
	return &c
}

type QuoteItem struct {
	ItemID    string   `json:"item_id"`
	VariantID string   `json:"variant_id,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
	Quantity  int      `json:"quantity"`
}

type QuoteRequest struct {
	RestaurantID string      `json:"restaurant_id"`
	Items        []QuoteItem `json:"items"`
	Tip          float64     `json:"tip,omitempty"`
	CouponCode   string      `json:"coupon_code,omitempty"`
}
