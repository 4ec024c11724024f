package service

import (
	"sync"

	"tableside/internal/domain"
)

// CartManager hands out the single cart owned by each customer. Carts live
// in memory for the duration of the session; the order pipeline clears them
// once checkout commits.
type CartManager struct {
	mu    sync.Mutex
	carts map[int]*domain.Cart
}

func NewCartManager() *CartManager {
	return &CartManager{carts: make(map[int]*domain.Cart)}
}

// CartFor returns the customer's cart, creating it on first use.
func (m *CartManager) CartFor(customerID int) *domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[customerID]
	if !ok {
		cart = domain.NewCart(customerID)
		m.carts[customerID] = cart
	}
	return cart
}
