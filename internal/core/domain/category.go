package domain

import "time"

// Category is a named grouping of services. Names are unique.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Service is a marketplace offering published by a provider under exactly
// one category. Entities hold foreign-key ids only; resolving the provider
// and category documents is the service layer's job.
type Service struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	ProviderID  string    `json:"provider_id"`
	CategoryID  string    `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
}
