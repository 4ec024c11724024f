package coupon

import (
	"context"
	"fmt"
	"sync"

	"tableside/internal/domain"

	"github.com/bits-and-blooms/bloom/v3"
)

// Repository loads the coupon catalog from durable storage.
type Repository interface {
	LoadAllCoupons(ctx context.Context) ([]domain.Coupon, error)
}

const bloomFalsePositiveRate = 0.01

// Store answers coupon code lookups. Codes are case-normalized and checked
// against a bloom filter first so the common miss (typo, made-up code) never
// touches the full map. Validity (expiry, active flag) is the caller's
// concern at application time; Lookup only answers existence.
type Store struct {
	mu      sync.RWMutex
	coupons map[string]domain.Coupon
	filter  *bloom.BloomFilter
}

func NewStore() *Store {
	return &Store{
		coupons: make(map[string]domain.Coupon),
		filter:  bloom.NewWithEstimates(1000, bloomFalsePositiveRate),
	}
}

// Load replaces the store contents from the repository.
func (s *Store) Load(ctx context.Context, repo Repository) error {
	coupons, err := repo.LoadAllCoupons(ctx)
	if err != nil {
		return fmt.Errorf("load coupons: %w", err)
	}

	byCode := make(map[string]domain.Coupon, len(coupons))
	n := uint(len(coupons))
	if n < 1000 {
		n = 1000
	}
	filter := bloom.NewWithEstimates(n, bloomFalsePositiveRate)
	for _, c := range coupons {
		code := domain.NormalizeCouponCode(c.Code)
		c.Code = code
		byCode[code] = c
		filter.Add([]byte(code))
	}

	s.mu.Lock()
	s.coupons = byCode
	s.filter = filter
	s.mu.Unlock()
	return nil
}

// Add registers a single coupon, e.g. from an admin action or a seed.
func (s *Store) Add(c domain.Coupon) {
	code := domain.NormalizeCouponCode(c.Code)
	c.Code = code
	s.mu.Lock()
	s.coupons[code] = c
	s.filter.Add([]byte(code))
	s.mu.Unlock()
}

// Lookup resolves a code to its coupon, or nil when unknown.
func (s *Store) Lookup(code string) *domain.Coupon {
	normalized := domain.NormalizeCouponCode(code)
	if normalized == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.filter.Test([]byte(normalized)) {
		return nil
	}
	c, ok := s.coupons[normalized]
	if !ok {
		return nil
	}
	return &c
}
