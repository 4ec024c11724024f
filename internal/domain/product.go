package domain

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

// Product is a menu item offered by a restaurant. Availability is live state
// owned by the restaurant registry; carts reference products by identity and
// see availability changes through the shared pointer, while prices are
// snapshotted into cart lines at add time. The flag is atomic because the
// registry flips it while carts and queues read it concurrently.
type Product struct {
	ID           int       `json:"id"`
	RestaurantID int       `json:"restaurant_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`

	available atomic.Bool
}

func NewProduct(id, restaurantID int, name string, price float64, category string, available bool) *Product {
	p := &Product{
		ID:           id,
		RestaurantID: restaurantID,
		Name:         name,
		Price:        price,
		Category:     category,
		CreatedAt:    time.Now(),
	}
	p.available.Store(available)
	return p
}

func (p *Product) Available() bool {
	return p.available.Load()
}

func (p *Product) SetAvailable(v bool) {
	p.available.Store(v)
}

func (p *Product) MarshalJSON() ([]byte, error) {
	type view struct {
		ID           int       `json:"id"`
		RestaurantID int       `json:"restaurant_id"`
		Name         string    `json:"name"`
		Description  string    `json:"description"`
		Price        float64   `json:"price"`
		Category     string    `json:"category"`
		Available    bool      `json:"available"`
		CreatedAt    time.Time `json:"created_at"`
	}
	return json.Marshal(view{p.ID, p.RestaurantID, p.Name, p.Description, p.Price, p.Category, p.Available(), p.CreatedAt})
}

// Restaurant holds the identity and open/closed gate for one restaurant. The
// gate is atomic for the same reason as product availability.
type Restaurant struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`

	open atomic.Bool
}

func NewRestaurant(id int, name, address string, open bool) *Restaurant {
	r := &Restaurant{ID: id, Name: name, Address: address, CreatedAt: time.Now()}
	r.open.Store(open)
	return r
}

func (r *Restaurant) Open() bool {
	return r.open.Load()
}

func (r *Restaurant) SetOpen(v bool) {
	r.open.Store(v)
}

func (r *Restaurant) MarshalJSON() ([]byte, error) {
	type view struct {
		ID        int       `json:"id"`
		Name      string    `json:"name"`
		Address   string    `json:"address"`
		Open      bool      `json:"open"`
		CreatedAt time.Time `json:"created_at"`
	}
	return json.Marshal(view{r.ID, r.Name, r.Address, r.Open(), r.CreatedAt})
}

// Customer is a read-only association carried by carts and orders.
// Authentication and session handling live outside this module.
type Customer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
