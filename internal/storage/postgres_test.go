package storage

import (
	"context"
	"testing"
	"time"

	"tableside/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresRepository_LoadMaxOrderID(t *testing.T) {
	repo, mock := setupTestDB(t)

	rows := sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(41))
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(id\\), 0\\) FROM orders").WillReturnRows(rows)

	maxID, err := repo.LoadMaxOrderID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(41), maxID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SaveOrder(t *testing.T) {
	repo, mock := setupTestDB(t)

	order := &domain.Order{
		ID:           1,
		Status:       domain.StatusConfirmed,
		CustomerID:   7,
		RestaurantID: 1,
		Subtotal:     90,
		Discount:     9,
		Total:        81,
		CreatedAt:    time.Now(),
		Lines: []domain.OrderLine{
			{ProductID: 1, ProductName: "Lasagna", Quantity: 2, UnitPrice: 45},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM order_lines").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO order_lines").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveOrder(context.Background(), order))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_LoadAllCoupons(t *testing.T) {
	repo, mock := setupTestDB(t)

	expiry := time.Now().Add(time.Hour)
	rows := sqlmock.NewRows([]string{"code", "kind", "value", "expires_at", "active"}).
		AddRow("TEN", "percentage", 10.0, expiry, true).
		AddRow("FIVE", "fixed", 5.0, nil, true)
	mock.ExpectQuery("SELECT code, kind, value, expires_at, active FROM coupons").WillReturnRows(rows)

	coupons, err := repo.LoadAllCoupons(context.Background())
	require.NoError(t, err)
	require.Len(t, coupons, 2)
	assert.Equal(t, domain.CouponPercentage, coupons[0].Kind)
	require.NotNil(t, coupons[0].ExpiresAt)
	assert.Nil(t, coupons[1].ExpiresAt)
}

func TestPostgresRepository_SaveReview(t *testing.T) {
	repo, mock := setupTestDB(t)

	review, _ := domain.NewReview(4, "good")
	mock.ExpectExec("INSERT INTO reviews").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.SaveReview(context.Background(), 3, review))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickupQRGenerator(t *testing.T) {
	qr := PickupQRGenerator{BaseURL: "http://localhost:8080"}
	png, err := qr.Generate(42)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}
