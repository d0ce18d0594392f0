package domain

import "time"

// CartItem is one line of a cart. Name and UnitPrice are snapshotted from the
// product at add-time and deliberately never refreshed: the price the buyer
// saw is the price the line keeps, even if the catalog changes afterwards.
type CartItem struct {
	ProductID string  `json:"producto"`
	Name      string  `json:"nombre"`
	UnitPrice float64 `json:"precio"`
	Quantity  int     `json:"cantidad"`
}

// Cart holds the single cart of a user. Total is derived storage-side as
// Σ(precio×cantidad) over Items on every mutation.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"usuario"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FindItem returns the line for productID, or nil when the cart has none.
func (c *Cart) FindItem(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
