package models

// Restaurant is a restaurant used by the synthetic order-history generator.
type Restaurant struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Area      string     `json:"area"`
	City      string     `json:"city"`
	Cuisines  []string   `json:"cuisines"`
	MenuItems []MenuItem `json:"menu_items"`
	// PriceLevel scales menu prices, 1 is cheapest.
	PriceLevel int `json:"price_level"`
}
