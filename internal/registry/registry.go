package registry

import (
	"errors"
	"sync"

	"tableside/internal/domain"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrProductNotFound    = errors.New("product not found")
)

// Registry is the in-process restaurant catalog: restaurants with their
// open/closed gates, their products with live availability, and one order
// queue per restaurant. It is shared by every UI entry point, so all access
// goes through its lock.
type Registry struct {
	mu          sync.RWMutex
	restaurants map[int]*domain.Restaurant
	products    map[int]*domain.Product
	queues      map[int]*domain.RestaurantQueue
}

func New() *Registry {
	return &Registry{
		restaurants: make(map[int]*domain.Restaurant),
		products:    make(map[int]*domain.Product),
		queues:      make(map[int]*domain.RestaurantQueue),
	}
}

// AddRestaurant registers a restaurant and creates its queue.
func (r *Registry) AddRestaurant(rest *domain.Restaurant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restaurants[rest.ID] = rest
	r.queues[rest.ID] = domain.NewRestaurantQueue(rest)
}

// AddProduct registers a product under its restaurant.
func (r *Registry) AddProduct(p *domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

func (r *Registry) Restaurant(id int) (*domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rest, ok := r.restaurants[id]
	if !ok {
		return nil, ErrRestaurantNotFound
	}
	return rest, nil
}

func (r *Registry) Restaurants() []*domain.Restaurant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Restaurant, 0, len(r.restaurants))
	for _, rest := range r.restaurants {
		out = append(out, rest)
	}
	return out
}

func (r *Registry) Product(id int) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// Products lists a restaurant's menu.
func (r *Registry) Products(restaurantID int) []*domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Product
	for _, p := range r.products {
		if p.RestaurantID == restaurantID {
			out = append(out, p)
		}
	}
	return out
}

// Queue returns the restaurant's order queue.
func (r *Registry) Queue(restaurantID int) (*domain.RestaurantQueue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.queues[restaurantID]
	if !ok {
		return nil, ErrRestaurantNotFound
	}
	return q, nil
}

// SetOpen flips a restaurant's open/closed gate.
func (r *Registry) SetOpen(restaurantID int, open bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rest, ok := r.restaurants[restaurantID]
	if !ok {
		return ErrRestaurantNotFound
	}
	rest.SetOpen(open)
	return nil
}

// SetProductAvailability toggles a product's availability. Carts holding the
// product observe the change at checkout time through the shared pointer.
func (r *Registry) SetProductAvailability(productID int, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	p.SetAvailable(available)
	return nil
}
