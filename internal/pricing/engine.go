package pricing

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/dinehall/ordering/internal/menu"
	"github.com/dinehall/ordering/pkg/models"
)

const (
	couponCode      = "DISCOUNT10"
	couponRate      = 0.10
	vatRate         = 0.10
	serviceChgRate  = 0.05
	vatTaxName      = "VAT"
	defaultQuantity = 1
)

// Engine turns a requested item list into a fully priced quote against a
// live menu snapshot. It performs no writes; identical inputs against an
// identical snapshot produce identical output.
type Engine struct {
	menus  menu.Provider
	logger *logrus.Logger
}

func NewEngine(menus menu.Provider, logger *logrus.Logger) *Engine {
	return &Engine{menus: menus, logger: logger}
}

// ComputeQuote prices the request. Unknown restaurants and unpublished menus
// are soft failures carried in Quote.Error, never a Go error, so callers
// composing estimates need no exception handling for routine misses.
func (e *Engine) ComputeQuote(ctx context.Context, req models.QuoteRequest) *models.Quote {
	rest, ok := e.resolveRestaurant(ctx, req.RestaurantID)
	if !ok {
		return &models.Quote{Error: models.QuoteErrRestaurantNotFound}
	}

	m, err := e.menus.GetMenu(ctx, rest.Slug, menu.ExpandAll())
	if err != nil || m == nil {
		if err != nil {
			e.logger.WithError(err).WithField("restaurant_slug", rest.Slug).Warn("Menu snapshot unavailable")
		}
		return &models.Quote{Error: models.QuoteErrMenuNotFound}
	}

	quote := &models.Quote{
		Lines:    []models.QuoteLine{},
		Warnings: []string{},
	}

	var subtotal float64
	for _, reqItem := range req.Items {
		item, section, found := findItem(m, reqItem.ItemID)
		if !found {
			quote.Warnings = append(quote.Warnings, "item_not_found:"+reqItem.ItemID)
			continue
		}

		quantity := reqItem.Quantity
		if quantity < defaultQuantity {
			quantity = defaultQuantity
		}

		// Variant and modifier deltas are display-only; the unit price is
		// always the item's base price.
		lineTotal := round2(item.Price * float64(quantity))

		// The running subtotal is re-rounded after every addition. This is
		// observable in multi-line quotes with fractional cents and must not
		// be collapsed into a single final rounding.
		subtotal = round2(subtotal + lineTotal)

		modifiers := reqItem.Modifiers
		if modifiers == nil {
			modifiers = []string{}
		}

		quote.Lines = append(quote.Lines, models.QuoteLine{
			ItemID:      item.ID,
			Name:        item.Name,
			Description: item.Description,
			Section:     models.SectionRef{ID: section.ID, Name: section.Name},
			Quantity:    quantity,
			UnitPrice:   item.Price,
			Modifiers:   modifiers,
			VariantID:   reqItem.VariantID,
			LineTotal:   lineTotal,
		})
	}
	quote.Subtotal = subtotal

	var discount float64
	if req.CouponCode == couponCode {
		discount = round2(subtotal * couponRate)
		if discount > 0 {
			quote.Discounts = []models.Discount{{Code: req.CouponCode, Amount: discount}}
		}
	}

	taxable := math.Max(0, subtotal-discount)
	taxAmount := round2(taxable * vatRate)
	quote.Taxes = []models.TaxLine{{Name: vatTaxName, Amount: taxAmount}}

	serviceCharge := round2(subtotal * serviceChgRate)
	quote.ServiceCharge = serviceCharge

	tip := round2(req.Tip)
	quote.Tip = tip

	quote.Total = round2(taxable + taxAmount + serviceCharge + tip)

	return quote
}

func (e *Engine) resolveRestaurant(ctx context.Context, id string) (models.Restaurant, bool) {
	restaurants, err := e.menus.ListRestaurants(ctx)
	if err != nil {
		e.logger.WithError(err).Warn("Restaurant directory unavailable")
		return models.Restaurant{}, false
	}
	for _, r := range restaurants {
		if r.ID == id {
			return r, true
		}
	}
	return models.Restaurant{}, false
}

// findItem scans all sections for the first item with a matching id. Item
// ids are globally unique within a restaurant's menu, so first match wins.
func findItem(m *models.Menu, itemID string) (models.MenuItem, models.MenuSection, bool) {
	for _, sec := range m.Sections {
		for _, it := range sec.Items {
			if it.ID == itemID {
				return it, sec, true
			}
		}
	}
	return models.MenuItem{}, models.MenuSection{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
