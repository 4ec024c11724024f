package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	httpapi "tableside/internal/api/http"
	"tableside/internal/config"
	"tableside/internal/coupon"
	"tableside/internal/domain"
	"tableside/internal/logger"
	"tableside/internal/registry"
	"tableside/internal/service"
	"tableside/internal/storage"
)

func main() {
	logger.Init("tableside")
	cfg := config.Load()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	kafkaWriter := config.NewKafkaWriter(cfg.KafkaTopic)
	defer kafkaWriter.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	reg := registry.New()
	seedCatalog(reg)

	coupons := coupon.NewStore()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := coupons.Load(ctx, repo); err != nil {
		slog.Warn("coupon catalog unavailable", "error", err)
	}

	cache := storage.NewRedisMarkerCache(rdb, cfg.MarkerTTL)
	publisher := storage.NewKafkaPublisher(kafkaWriter)
	qr := storage.PickupQRGenerator{BaseURL: cfg.QRBaseURL}

	orders := service.NewOrderService(reg, repo, coupons, cache, publisher, qr)
	if err := orders.Restore(ctx); err != nil {
		log.Fatal("Failed to restore orders:", err)
	}
	reviews := service.NewReviewService(orders, repo, cache, publisher)
	carts := service.NewCartManager()

	handler := httpapi.NewHandler(carts, orders, reviews, reg, coupons)
	httpapi.StartServer(cfg.HTTPAddr, httpapi.NewRouter(handler))
}

// seedCatalog registers a small demo catalog. A production deployment would
// load restaurants and menus from the catalog service instead.
func seedCatalog(reg *registry.Registry) {
	reg.AddRestaurant(domain.NewRestaurant(1, "Trattoria Roma", "12 Via Nova", true))
	reg.AddRestaurant(domain.NewRestaurant(2, "Sakura Sushi", "3 Cherry Lane", true))

	reg.AddProduct(domain.NewProduct(1, 1, "Margherita", 32.50, "pizza", true))
	reg.AddProduct(domain.NewProduct(2, 1, "Lasagna", 45.00, "pasta", true))
	reg.AddProduct(domain.NewProduct(3, 1, "Tiramisu", 18.00, "dessert", true))
	reg.AddProduct(domain.NewProduct(4, 2, "Salmon Nigiri", 24.00, "sushi", true))
	reg.AddProduct(domain.NewProduct(5, 2, "Dragon Roll", 38.00, "sushi", true))
}
