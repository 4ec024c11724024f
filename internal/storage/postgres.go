package storage

import (
	"context"
	"database/sql"
	"fmt"

	"tableside/internal/domain"
)

// PostgresRepository persists orders, order lines, coupons and reviews.
type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// EnsureSchema creates the tables this repository needs.
func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT PRIMARY KEY,
			customer_id INT NOT NULL,
			restaurant_id INT NOT NULL,
			status TEXT NOT NULL,
			subtotal NUMERIC(10,2) NOT NULL,
			discount NUMERIC(10,2) NOT NULL,
			total NUMERIC(10,2) NOT NULL,
			coupon_code TEXT,
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS order_lines (
			order_id BIGINT NOT NULL REFERENCES orders(id),
			product_id INT NOT NULL,
			product_name TEXT NOT NULL,
			quantity INT NOT NULL,
			notes TEXT,
			unit_price NUMERIC(10,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS coupons (
			code TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			value NUMERIC(10,2) NOT NULL,
			expires_at TIMESTAMPTZ,
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id SERIAL PRIMARY KEY,
			order_id BIGINT NOT NULL REFERENCES orders(id),
			rating INT NOT NULL,
			comment TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SaveOrder upserts the order row and rewrites its lines in one transaction.
// It works from a snapshot so a status change mid-write cannot tear the row.
func (r *PostgresRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	snap := order.Snapshot()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var couponCode *string
	if snap.Coupon != nil {
		couponCode = &snap.Coupon.Code
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, restaurant_id, status, subtotal, discount, total, coupon_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    subtotal = EXCLUDED.subtotal,
		    discount = EXCLUDED.discount,
		    total = EXCLUDED.total
	`, snap.ID, snap.CustomerID, snap.RestaurantID, string(snap.Status),
		snap.Subtotal, snap.Discount, snap.Total, couponCode, snap.CreatedAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_lines WHERE order_id = $1", snap.ID); err != nil {
		return err
	}
	for _, line := range snap.Lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, product_id, product_name, quantity, notes, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, snap.ID, line.ProductID, line.ProductName, line.Quantity, line.Notes, line.UnitPrice); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadAllOrders rebuilds every persisted order with its lines and reviews.
func (r *PostgresRepository) LoadAllOrders(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, customer_id, restaurant_id, status, subtotal, discount, total, COALESCE(coupon_code, ''), created_at
		FROM orders
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	byID := make(map[int64]*domain.Order)
	for rows.Next() {
		var (
			order      domain.Order
			status     string
			couponCode string
		)
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.RestaurantID, &status,
			&order.Subtotal, &order.Discount, &order.Total, &couponCode, &order.CreatedAt); err != nil {
			return nil, err
		}
		order.Status = domain.OrderStatus(status)
		if couponCode != "" {
			coupon, err := r.loadCoupon(ctx, couponCode)
			if err == nil {
				order.Coupon = coupon
			}
		}
		o := &order
		orders = append(orders, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.loadReviews(ctx, byID); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) loadLines(ctx context.Context, byID map[int64]*domain.Order) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT order_id, product_id, product_name, quantity, COALESCE(notes, ''), unit_price
		FROM order_lines
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int64
			line    domain.OrderLine
		)
		if err := rows.Scan(&orderID, &line.ProductID, &line.ProductName, &line.Quantity, &line.Notes, &line.UnitPrice); err != nil {
			return err
		}
		if order, ok := byID[orderID]; ok {
			order.Lines = append(order.Lines, line)
		}
	}
	return rows.Err()
}

func (r *PostgresRepository) loadReviews(ctx context.Context, byID map[int64]*domain.Order) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT order_id, rating, COALESCE(comment, ''), created_at
		FROM reviews
		ORDER BY created_at
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int64
			review  domain.Review
		)
		if err := rows.Scan(&orderID, &review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return err
		}
		if order, ok := byID[orderID]; ok {
			order.Reviews = append(order.Reviews, review)
		}
	}
	return rows.Err()
}

func (r *PostgresRepository) loadCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	var (
		coupon    domain.Coupon
		kind      string
		expiresAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT code, kind, value, expires_at, active FROM coupons WHERE code = $1
	`, code).Scan(&coupon.Code, &kind, &coupon.Value, &expiresAt, &coupon.Active)
	if err != nil {
		return nil, err
	}
	coupon.Kind = domain.CouponKind(kind)
	if expiresAt.Valid {
		t := expiresAt.Time
		coupon.ExpiresAt = &t
	}
	return &coupon, nil
}

// LoadMaxOrderID returns the highest persisted order id, or zero when the
// table is empty.
func (r *PostgresRepository) LoadMaxOrderID(ctx context.Context) (int64, error) {
	var maxID int64
	err := r.DB.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM orders").Scan(&maxID)
	return maxID, err
}

// LoadAllCoupons returns the full coupon catalog.
func (r *PostgresRepository) LoadAllCoupons(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT code, kind, value, expires_at, active FROM coupons")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		var (
			coupon    domain.Coupon
			kind      string
			expiresAt sql.NullTime
		)
		if err := rows.Scan(&coupon.Code, &kind, &coupon.Value, &expiresAt, &coupon.Active); err != nil {
			return nil, err
		}
		coupon.Kind = domain.CouponKind(kind)
		if expiresAt.Valid {
			t := expiresAt.Time
			coupon.ExpiresAt = &t
		}
		coupons = append(coupons, coupon)
	}
	return coupons, rows.Err()
}

// SaveReview appends one review row for an order.
func (r *PostgresRepository) SaveReview(ctx context.Context, orderID int64, review domain.Review) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO reviews (order_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4)
	`, orderID, review.Rating, review.Comment, review.CreatedAt)
	return err
}

// SaveOrderQR stores the rendered pickup code.
func (r *PostgresRepository) SaveOrderQR(ctx context.Context, orderID int64, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE orders SET qr_code = $1 WHERE id = $2", qr, orderID)
	return err
}

// GetOrderQR fetches the stored pickup code, which may be empty.
func (r *PostgresRepository) GetOrderQR(ctx context.Context, orderID int64) ([]byte, error) {
	var qr []byte
	if err := r.DB.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qr); err != nil {
		return nil, err
	}
	return qr, nil
}
