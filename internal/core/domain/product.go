package domain

import "time"

// Product is a catalog entry. Deletion is logical: the primary delete path
// flips Active to false and the document stays in the collection.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	Price       float64   `json:"precio"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"activo"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Available reports whether the product can be added to a cart at all.
func (p *Product) Available() bool {
	return p.Active && p.Stock > 0
}
