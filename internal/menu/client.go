package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dinehall/ordering/internal/circuitbreaker"
	"github.com/dinehall/ordering/pkg/models"
)

// Client fetches menu snapshots from a remote menu service. Calls go through
// a circuit breaker so a flapping menu backend degrades quotes instead of
// piling up blocked requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *logrus.Logger
}

func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: circuitbreaker.New(circuitbreaker.Config{
			Name:        "menu-service",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
			MaxRequests: 1,
		}, logger),
		logger: logger,
	}
}

func (c *Client) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := c.breaker.Execute(func() error {
		return c.getJSON(ctx, c.baseURL+"/restaurants", &restaurants)
	})
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

func (c *Client) GetMenu(ctx context.Context, slug string, expand Expand) (*models.Menu, error) {
	endpoint := fmt.Sprintf("%s/restaurants/%s/menu?expand=%s",
		c.baseURL, url.PathEscape(slug), url.QueryEscape(expand.String()))

	var menu models.Menu
	var notFound bool
	err := c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to reach menu service: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			notFound = true
			return nil
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("menu service returned status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&menu)
	})
	if err != nil {
		return nil, fmt.Errorf("get menu %q: %w", slug, err)
	}
	if notFound {
		return nil, ErrMenuNotFound
	}

	c.logger.WithFields(logrus.Fields{
		"restaurant_slug": slug,
		"menu_id":         menu.ID,
		"sections":        len(menu.Sections),
	}).Debug("Fetched menu snapshot")

	return &menu, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach menu service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("menu service returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
