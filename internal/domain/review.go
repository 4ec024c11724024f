package domain

import "time"

const (
	minRating     = 1
	maxRating     = 5
	defaultRating = 3
)

// Review is immutable once created. Out-of-range ratings are coerced to the
// default rather than rejected; callers should warn when Clamped is set.
type Review struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReview builds a review, clamping the rating into [1, 5]. The second
// return value reports whether the input was coerced.
func NewReview(rating int, comment string) (Review, bool) {
	clamped := false
	if rating < minRating || rating > maxRating {
		rating = defaultRating
		clamped = true
	}
	return Review{
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}, clamped
}
