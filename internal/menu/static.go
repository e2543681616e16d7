package menu

import (
	"context"
	"time"

	"github.com/dinehall/ordering/pkg/models"
)

// StaticProvider serves restaurants and menus from memory. It backs
// standalone deployments and tests; a remote menu service replaces it in
// production via Client.
type StaticProvider struct {
	restaurants []models.Restaurant
	menus       map[string]models.Menu
}

func NewStaticProvider(restaurants []models.Restaurant, menus map[string]models.Menu) *StaticProvider {
	return &StaticProvider{restaurants: restaurants, menus: menus}
}

func (p *StaticProvider) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	out := make([]models.Restaurant, len(p.restaurants))
	copy(out, p.restaurants)
	return out, nil
}

func (p *StaticProvider) GetMenu(ctx context.Context, slug string, expand Expand) (*models.Menu, error) {
	m, ok := p.menus[slug]
	if !ok {
		return nil, ErrMenuNotFound
	}

	out := models.Menu{ID: m.ID, PublishedAt: m.PublishedAt}
	if !expand.Has("sections") {
		return &out, nil
	}
	out.Sections = make([]models.MenuSection, 0, len(m.Sections))
	for _, sec := range m.Sections {
		secCopy := models.MenuSection{ID: sec.ID, Name: sec.Name}
		if expand.Has("items") {
			secCopy.Items = make([]models.MenuItem, 0, len(sec.Items))
			for _, it := range sec.Items {
				itCopy := models.MenuItem{
					ID:          it.ID,
					Name:        it.Name,
					Description: it.Description,
					Price:       it.Price,
				}
				if expand.Has("tags") {
					itCopy.Tags = append([]string(nil), it.Tags...)
				}
				if expand.Has("allergens") {
					itCopy.Allergens = append([]string(nil), it.Allergens...)
				}
				if expand.Has("variants") {
					itCopy.Variants = append([]models.ItemVariant(nil), it.Variants...)
				}
				secCopy.Items = append(secCopy.Items, itCopy)
			}
		}
		out.Sections = append(out.Sections, secCopy)
	}
	return &out, nil
}

// DefaultSeed returns the demo restaurant directory and menus used when no
// remote menu service is configured.
func DefaultSeed() ([]models.Restaurant, map[string]models.Menu) {
	published := time.Now().UTC()

	restaurants := []models.Restaurant{
		{ID: "rest_harbor", Slug: "harbor-kitchen", Name: "Harbor Kitchen", City: "Lisbon"},
		{ID: "rest_verde", Slug: "casa-verde", Name: "Casa Verde", City: "Porto"},
	}

	menus := map[string]models.Menu{
		"harbor-kitchen": {
			ID:          "menu_harbor_1",
			PublishedAt: published,
			Sections: []models.MenuSection{
				{
					ID:   "sec_starters",
					Name: "Starters",
					Items: []models.MenuItem{
						{
							ID:          "item_salad",
							Name:        "Garden salad",
							Description: "Lettuce, tomato, house vinaigrette",
							Price:       6.50,
							Tags:        []string{"healthy"},
							Allergens:   []string{"DAIRY"},
						},
						{
							ID:          "item_soup",
							Name:        "Fish soup",
							Description: "Catch of the day, saffron broth",
							Price:       7.80,
							Allergens:   []string{"FISH"},
						},
					},
				},
				{
					ID:   "sec_mains",
					Name: "Mains",
					Items: []models.MenuItem{
						{
							ID:          "item_ribeye",
							Name:        "Ribeye steak",
							Description: "300g, grilled vegetables",
							Price:       21.90,
							Tags:        []string{"signature"},
							Variants: []models.ItemVariant{
								{ID: "var_rare", Name: "Rare"},
								{ID: "var_medium", Name: "Medium"},
							},
						},
					},
				},
			},
		},
		"casa-verde": {
			ID:          "menu_verde_1",
			PublishedAt: published,
			Sections: []models.MenuSection{
				{
					ID:   "sec_wraps",
					Name: "Wraps",
					Items: []models.MenuItem{
						{
							ID:          "item_wrap",
							Name:        "Hummus wrap",
							Description: "Hummus, roasted vegetables",
							Price:       7.00,
							Tags:        []string{"vegan"},
						},
					},
				},
			},
		},
	}

	return restaurants, menus
}
