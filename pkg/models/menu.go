package models

import "time"

// Menu snapshot types. The pricing engine treats these as the authoritative
// price source at quote time and never caches them across calls.

type Restaurant struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

type ItemVariant struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta,omitempty"`
}

type MenuItem struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Price       float64       `json:"price"`
	Tags        []string      `json:"tags,omitempty"`
	Allergens   []string      `json:"allergens,omitempty"`
	Variants    []ItemVariant `json:"variants,omitempty"`
}

type MenuSection struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

type Menu struct {
	ID          string        `json:"id"`
	PublishedAt time.Time     `json:"published_at"`
	Sections    []MenuSection `json:"sections"`
}
