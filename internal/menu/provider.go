package menu

import (
	"context"
	"errors"
	"strings"

	"github.com/dinehall/ordering/pkg/models"
)

var ErrMenuNotFound = errors.New("menu not found")

// Provider serves read-only menu snapshots. Implementations must not cache
// prices across calls: a snapshot is the authoritative price source at the
// moment it is fetched.
type Provider interface {
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
	GetMenu(ctx context.Context, slug string, expand Expand) (*models.Menu, error)
}

// Expand selects which parts of a menu snapshot to resolve, mirroring the
// comma-separated expand query parameter of the public menu API.
type Expand map[string]bool

// ExpandAll resolves everything the snapshot can carry.
func ExpandAll() Expand {
	return Expand{"sections": true, "items": true, "variants": true, "tags": true, "allergens": true}
}

func ParseExpand(s string) Expand {
	if strings.TrimSpace(s) == "" {
		return ExpandAll()
	}
	e := Expand{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			e[part] = true
		}
	}
	return e
}

func (e Expand) Has(part string) bool {
	return e[part] || e["all"]
}

func (e Expand) String() string {
	if e["all"] {
		return "all"
	}
	parts := make([]string, 0, len(e))
	for _, p := range []string{"sections", "items", "variants", "tags", "allergens"} {
		if e[p] {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ",")
}
