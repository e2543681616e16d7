package pricing

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dinehall/ordering/internal/menu"
	"github.com/dinehall/ordering/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests
	return logger
}

func testProvider() *menu.StaticProvider {
	restaurants := []models.Restaurant{
		{ID: "r1", Slug: "test-bistro", Name: "Test Bistro"},
		{ID: "r2", Slug: "no-menu-yet", Name: "Unpublished"},
	}
	menus := map[string]models.Menu{
		"test-bistro": {
			ID:          "menu_1",
			PublishedAt: time.Now(),
			Sections: []models.MenuSection{
				{
					ID:   "sec_starters",
					Name: "Starters",
					Items: []models.MenuItem{
						{ID: "i1", Name: "Garden salad", Description: "Lettuce, tomato", Price: 6.50},
						{ID: "i2", Name: "Olives", Price: 0.10},
					},
				},
				{
					ID:   "sec_mains",
					Name: "Mains",
					Items: []models.MenuItem{
						{ID: "i3", Name: "Bread", Price: 0.20},
					},
				},
			},
		},
	}
	return menu.NewStaticProvider(restaurants, menus)
}

func newTestEngine() *Engine {
	return NewEngine(testProvider(), testLogger())
}

func TestComputeQuoteBasicTotals(t *testing.T) {
	engine := newTestEngine()

	quote := engine.ComputeQuote(context.Background(), models.QuoteRequest{
		RestaurantID: "r1",
		Items:        []models.QuoteItem{{ItemID: "i1", Quantity: 2}},
	})

	if quote.Error != "" {
		t.Fatalf("unexpected quote error: %s", quote.Error)
	}
	if len(quote.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(quote.Lines))
	}
	line := quote.Lines[0]
	if line.UnitPrice != 6.50 || line.Quantity != 2 || line.LineTotal != 13.00 {
		t.Errorf("unexpected line: %+v", line)
	}
	if line.Section.ID != "sec_starters" || line.Section.Name != "Starters" {
		t.Errorf("unexpected section ref: %+v", line.Section)
	}
	if quote.Subtotal != 13.00 {
		t.Errorf("expected subtotal 13.00, got %v", quote.Subtotal)
	}
	if quote.ServiceCharge != 0.65 {
		t.Errorf("expected service charge 0.65, got %v", quote.ServiceCharge)
	}
	if len(quote.Taxes) != 1 || quote.Taxes[0].Name != "VAT" || quote.Taxes[0].Amount != 1.30 {
		t.Errorf("unexpected taxes: %+v", quote.Taxes)
	}
	if quote.Total != 14.95 {
		t.Errorf("expected total 14.95, got %v", quote.Total)
	}
	if quote.Discounts != nil {
		t.Errorf("expected no discounts, got %+v", quote.Discounts)
	}
	if quote.Tip != 0 {
		t.Errorf("expected zero tip, got %v", quote.Tip)
	}
}

func TestComputeQuoteCouponDiscount(t *testing.T) {
	engine := newTestEngine()

	quote := engine.ComputeQuote(context.Background(), models.QuoteRequest{
		RestaurantID: "r1",
		Items:        []models.QuoteItem{{ItemID: "i1", Quantity: 2}},
		CouponCode:   "DISCOUNT10",
	})

	if len(quote.Discounts) != 1 {
		t.Fatalf("expected 1 discount, got %+v", quote.Discounts)
	}
	if quote.Discounts[0].Code != "DISCOUNT10" || quote.Discounts[0].Amount != 1.30 {
		t.Errorf("unexpected discount: %+v", quote.Discounts[0])
	}
	if quote.Taxes[0].Amount != 1.17 {
		t.Errorf("expected VAT 1.17 on discounted subtotal, got %v", quote.Taxes[0].Amount)
	}
	// 11.70 taxable + 1.17 VAT + 0.65 service charge
	if quote.Total != 13.52 {
		t.Errorf("expected total 13.52, got %v", quote.Total)
	}
}

func TestComputeQuoteUnknownCouponIgnored(t *testing.T) {
	engine := newTestEngine()

	quote := engine.ComputeQuote(context.Background(), models.QuoteRequest{
		RestaurantID: "r1",
		Items:        []models.QuoteItem{{ItemID: "i1", Quantity: 1}},
		CouponCode:   "NOSUCHCODE",
	})

	if quote.Error != "" {
		t.Fatalf("unknown coupon must not produce an error, got %s", quote.Error)
	}
	if quote.Discounts != nil {
		t.Errorf("unknown coupon must not discount, got %+v", quote.Discounts)
	}
}

func TestComputeQuoteTipEchoedRounded(t *testing.T) {
	engine := newTestEngine()

	quote := engine.ComputeQuote(context.Background(), models.QuoteRequest{
		RestaurantID: "r1",
		Items:        []models.QuoteItem{{ItemID: "i1", Quantity: 1}},
		Tip:          1.005,
	})

	if quote.Tip != 1.0 && quote.Tip != 1.01 {
		t.Errorf("tip not rounded to 2 decimals: %v", quote.Tip)
	}
	expected := quote.Subtotal + quote.Taxes[0].Amount + quote.ServiceCharge + quote.Tip
	if diff := quote.Total - expected; diff > 0.005 || diff < -0.005 {
		t.Errorf("total %v inconsistent with components %v", quote.Total, expected)
	}
}

func TestComputeQuoteUnresolvedItemsBecomeWarnings(t *testing.T) {
	engine := newTestEngine()

	quote := engine.ComputeQuote(context.Background(), models.QuoteRequest{
		RestaurantID: "r1",
		Items: []models.QuoteItem{
			{ItemID: "i1", Quantity: 1},
			{ItemID: "ghost", Quantity: 3},
		},
	})

	if len(quote.Lines) != 1 {
		t.Errorf("expected 1 resolved line, got %d", len(quote.Lines))
	}
	if len(quote.Warnings) != 1 || quote.Warnings[0] != "item_not_found:ghost" {
		t.Errorf("unexpected warnings: %+v", quote.Warnings)
	}
	if quote.Subtotal != 6.50 {
		t.Errorf("subtotal must only cover resolved lines, got %v", quote.Subtotal)
	}
}

func TestComputeQuoteAllItemsUnresolved(t *testing.T) {
	engine := newTestEngine()

	quote := engine.ComputeQuote(context.Background(), models.QuoteRequest{
		RestaurantID: "r1",
		Items:        []models.QuoteItem{{ItemID: "nope", Quantity: 1}},
	})

	if len(quote.Lines) != 0 {
		t.Errorf("expected no lines, got %d", len(quote.Lines))
	}
	if len(quote.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %+v", quote.Warnings)
	}
	if quote.Subtotal != 0 || quote.Total != 0 {
		t.Errorf("expected zero subtotal and total, got %v / %v", quote.Subtotal, quote.Total)
	}
	if quote.ServiceCharge != 0 {
		t.Errorf("expected zero service charge, got %v", quote.ServiceCharge)
	}
}

func TestComputeQuoteEmptyItems(t *testing.T) {
	engine := newTestEngine()

	quote := engine.ComputeQuote(context.Background(), models.QuoteRequest{
		RestaurantID: "r1",
		CouponCode:   "DISCOUNT10",
	})

	if len(quote.Lines) != 0 || len(quote.Warnings) != 0 {
		t.Errorf("expected empty lines and warnings, got %+v / %+v", quote.Lines, quote.Warnings)
	}
	if quote.Subtotal != 0 || quote.Total != 0 {
		t.Errorf("expected zero totals, got %v / %v", quote.Subtotal, quote.Total)
	}
	if quote.Discounts != nil {
		t.Errorf("coupon on zero subtotal must not discount, got %+v", quote.Discounts)
	}
}

func TestComputeQuoteQuantityDefaultsToOne(t *testing.T) {
	engine := newTestEngine()

	quote := engine.ComputeQuote(context.Background(), models.QuoteRequest{
		RestaurantID: "r1",
		Items:        []models.QuoteItem{{ItemID: "i1"}},
	})

	if len(quote.Lines) != 1 || quote.Lines[0].Quantity != 1 {
		t.Fatalf("expected quantity to default to 1, got %+v", quote.Lines)
	}
	if quote.Subtotal != 6.50 {
		t.Errorf("expected subtotal 6.50, got %v", quote.Subtotal)
	}
}

func TestComputeQuoteSubtotalRoundedPerStep(t *testing.T) {
	engine := newTestEngine()

	// 0.10 + 0.20 accumulates binary float error unless the running
	// subtotal is re-rounded after each addition.
	quote := engine.ComputeQuote(context.Background(), models.QuoteRequest{
		RestaurantID: "r1",
		Items: []models.QuoteItem{
			{ItemID: "i2", Quantity: 1},
			{ItemID: "i3", Quantity: 1},
		},
	})

	if quote.Subtotal != 0.30 {
		t.Errorf("expected subtotal exactly 0.30, got %v", quote.Subtotal)
	}
}

func TestComputeQuoteRestaurantNotFound(t *testing.T) {
	engine := newTestEngine()

	quote := engine.ComputeQuote(context.Background(), models.QuoteRequest{
		RestaurantID: "unknown",
		Items:        []models.QuoteItem{{ItemID: "i1", Quantity: 1}},
	})

	if quote.Error != "restaurant_not_found" {
		t.Errorf("expected restaurant_not_found, got %q", quote.Error)
	}
}

func TestComputeQuoteMenuNotFound(t *testing.T) {
	engine := newTestEngine()

	quote := engine.ComputeQuote(context.Background(), models.QuoteRequest{
		RestaurantID: "r2",
		Items:        []models.QuoteItem{{ItemID: "i1", Quantity: 1}},
	})

	if quote.Error != "menu_not_found" {
		t.Errorf("expected menu_not_found, got %q", quote.Error)
	}
}

func TestComputeQuoteDeterministic(t *testing.T) {
	engine := newTestEngine()

	req := models.QuoteRequest{
		RestaurantID: "r1",
		Items: []models.QuoteItem{
			{ItemID: "i1", Quantity: 2, Modifiers: []string{"extra"}},
			{ItemID: "i2", Quantity: 1},
		},
		Tip:        2.50,
		CouponCode: "DISCOUNT10",
	}

	first := engine.ComputeQuote(context.Background(), req)
	second := engine.ComputeQuote(context.Background(), req)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different quotes:\n%+v\n%+v", first, second)
	}
}
