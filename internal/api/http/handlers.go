package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tableside/internal/domain"
	"tableside/internal/registry"
	"tableside/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Carts    *service.CartManager
	Orders   service.OrderServiceInterface
	Reviews  service.ReviewServiceInterface
	Registry *registry.Registry
	Coupons  service.CouponStore
}

func NewHandler(carts *service.CartManager, orders service.OrderServiceInterface, reviews service.ReviewServiceInterface, reg *registry.Registry, coupons service.CouponStore) *Handler {
	return &Handler{
		Carts:    carts,
		Orders:   orders,
		Reviews:  reviews,
		Registry: reg,
		Coupons:  coupons,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/products", h.getRestaurantProducts).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/queue", h.getRestaurantQueue).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/open", h.setRestaurantOpen).Methods("PUT")

	r.HandleFunc("/api/carts/{customerId}", h.getCart).Methods("GET")
	r.HandleFunc("/api/carts/{customerId}/restaurant", h.selectRestaurant).Methods("POST")
	r.HandleFunc("/api/carts/{customerId}/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/carts/{customerId}/items/{productId}", h.removeCartItem).Methods("DELETE")
	r.HandleFunc("/api/carts/{customerId}/coupon", h.applyCoupon).Methods("POST")
	r.HandleFunc("/api/carts/{customerId}/coupon", h.removeCoupon).Methods("DELETE")
	r.HandleFunc("/api/carts/{customerId}/checkout", h.checkout).Methods("POST")

	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQR).Methods("GET")
	r.HandleFunc("/api/orders/{id}/status", h.updateOrderStatus).Methods("POST")
	r.HandleFunc("/api/orders/{id}/refuse", h.refuseOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}/reviews", h.createReview).Methods("POST")
	r.HandleFunc("/api/orders/{id}/reviews", h.getOrderReviews).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":    "healthy",
		"service":   "tableside",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Registry.Restaurants())
}

func (h *Handler) getRestaurantProducts(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if _, err := h.Registry.Restaurant(id); err != nil {
		http.Error(w, "Restaurant not found", http.StatusNotFound)
		return
	}
	writeJSON(w, h.Registry.Products(id))
}

func (h *Handler) getRestaurantQueue(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	queue, err := h.Registry.Queue(id)
	if err != nil {
		http.Error(w, "Restaurant not found", http.StatusNotFound)
		return
	}
	writeJSON(w, viewOrders(queue.Pending()))
}

func (h *Handler) setRestaurantOpen(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var payload struct {
		Open bool `json:"open"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Registry.SetOpen(id, payload.Open); err != nil {
		http.Error(w, "Restaurant not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// cartView is the JSON shape of a cart.
type cartView struct {
	CustomerID int                `json:"customer_id"`
	Restaurant *domain.Restaurant `json:"restaurant,omitempty"`
	Lines      []domain.CartLine  `json:"lines"`
	Coupon     *domain.Coupon     `json:"coupon,omitempty"`
	Subtotal   float64            `json:"subtotal"`
	Total      float64            `json:"total"`
}

func viewCart(cart *domain.Cart) cartView {
	return cartView{
		CustomerID: cart.CustomerID(),
		Restaurant: cart.Restaurant(),
		Lines:      cart.Lines(),
		Coupon:     cart.Coupon(),
		Subtotal:   cart.Subtotal(),
		Total:      cart.TotalWithDiscount(),
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	customerID, _ := strconv.Atoi(mux.Vars(r)["customerId"])
	writeJSON(w, viewCart(h.Carts.CartFor(customerID)))
}

func (h *Handler) selectRestaurant(w http.ResponseWriter, r *http.Request) {
	customerID, _ := strconv.Atoi(mux.Vars(r)["customerId"])
	var payload struct {
		RestaurantID int `json:"restaurant_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	restaurant, err := h.Registry.Restaurant(payload.RestaurantID)
	if err != nil {
		http.Error(w, "Restaurant not found", http.StatusNotFound)
		return
	}
	cart := h.Carts.CartFor(customerID)
	cart.SelectRestaurant(restaurant)
	writeJSON(w, viewCart(cart))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	customerID, _ := strconv.Atoi(mux.Vars(r)["customerId"])
	var payload struct {
		ProductID int    `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Notes     string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	product, err := h.Registry.Product(payload.ProductID)
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	cart := h.Carts.CartFor(customerID)
	if err := cart.AddItem(product, payload.Quantity, payload.Notes); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, viewCart(cart))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID, _ := strconv.Atoi(vars["customerId"])
	productID, _ := strconv.Atoi(vars["productId"])
	cart := h.Carts.CartFor(customerID)
	cart.RemoveProduct(productID)
	writeJSON(w, viewCart(cart))
}

func (h *Handler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	customerID, _ := strconv.Atoi(mux.Vars(r)["customerId"])
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	coupon := h.Coupons.Lookup(payload.Code)
	if coupon == nil {
		http.Error(w, "Coupon not found", http.StatusNotFound)
		return
	}
	cart := h.Carts.CartFor(customerID)
	if err := cart.ApplyCoupon(*coupon); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, viewCart(cart))
}

func (h *Handler) removeCoupon(w http.ResponseWriter, r *http.Request) {
	customerID, _ := strconv.Atoi(mux.Vars(r)["customerId"])
	cart := h.Carts.CartFor(customerID)
	cart.RemoveCoupon()
	writeJSON(w, viewCart(cart))
}

// paymentRequest carries the variant selection for checkout.
type paymentRequest struct {
	Type     string  `json:"type"`
	Tendered float64 `json:"tendered,omitempty"`
	Number   string  `json:"number,omitempty"`
	Holder   string  `json:"holder,omitempty"`
	CVV      string  `json:"cvv,omitempty"`
	Expiry   string  `json:"expiry,omitempty"`
	Key      string  `json:"key,omitempty"`
}

func buildPayment(req paymentRequest) (domain.PaymentMethod, error) {
	switch domain.PaymentKind(req.Type) {
	case domain.PaymentCash:
		return domain.NewCashPayment(req.Tendered), nil
	case domain.PaymentCard:
		return domain.NewCardPayment(req.Number, req.Holder, req.CVV, req.Expiry), nil
	case domain.PaymentInstantTransfer:
		return domain.NewInstantTransferPayment(req.Key), nil
	default:
		return nil, domain.ErrNoPaymentMethod
	}
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	customerID, _ := strconv.Atoi(mux.Vars(r)["customerId"])
	var payload struct {
		CouponCode string         `json:"coupon_code,omitempty"`
		Payment    paymentRequest `json:"payment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payment, err := buildPayment(payload.Payment)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	cart := h.Carts.CartFor(customerID)
	order, err := h.Orders.PlaceOrder(r.Context(), cart, payload.CouponCode, payment)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, order.Snapshot())
}

// viewOrders snapshots each order so encoding never races with status
// changes happening under the orders' locks.
func viewOrders(orders []*domain.Order) []domain.OrderView {
	out := make([]domain.OrderView, 0, len(orders))
	for _, order := range orders {
		out = append(out, order.Snapshot())
	}
	return out
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, viewOrders(h.Orders.Orders()))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	order, err := h.Orders.Order(id)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, order.Snapshot())
}

func (h *Handler) getOrderQR(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	qr, err := h.Orders.OrderQR(r.Context(), id)
	if err != nil {
		http.Error(w, "QR code not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(qr)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	order, err := h.Orders.UpdateStatus(r.Context(), id, domain.OrderStatus(payload.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, order.Snapshot())
}

func (h *Handler) refuseOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	order, err := h.Orders.RefuseOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, order.Snapshot())
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var payload struct {
		CustomerID int    `json:"customer_id"`
		Rating     int    `json:"rating"`
		Comment    string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	review, err := h.Reviews.AttachReview(r.Context(), id, payload.CustomerID, payload.Rating, payload.Comment)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, review)
}

func (h *Handler) getOrderReviews(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	reviews, err := h.Reviews.OrderReviews(id)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, reviews)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeDomainError maps expected domain conditions onto HTTP statuses, with
// the sentinel message passed through verbatim.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrDuplicateSubmission),
		errors.Is(err, service.ErrDuplicateReview),
		errors.Is(err, domain.ErrDuplicateItem):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrNoRestaurantSelected),
		errors.Is(err, domain.ErrRestaurantClosed),
		errors.Is(err, domain.ErrBelowMinimumOrder),
		errors.Is(err, domain.ErrProductUnavailable),
		errors.Is(err, domain.ErrNoPaymentMethod),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrCouponInvalid),
		errors.Is(err, domain.ErrOrderNotDelivered),
		errors.Is(err, domain.ErrUnknownStatus),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNotInQueue):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrPaymentRejected),
		errors.Is(err, domain.ErrAlreadySettled):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
