package review

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestAverageRating(t *testing.T) {
	cases := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{name: "empty", ratings: nil, want: 0},
		{name: "two", ratings: []int{5, 3}, want: 4.0},
		{name: "rounds", ratings: []int{5, 4, 4}, want: 4.3},
		{name: "rounds half up", ratings: []int{1, 2, 2, 2}, want: 1.8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rs := make([]Review, 0, len(tc.ratings))
			for _, v := range tc.ratings {
				rs = append(rs, Review{Rating: v})
			}
			if got := AverageRating(rs); got != tc.want {
				t.Fatalf("AverageRating = %v want %v", got, tc.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	if err := (Review{JobSeekerID: a, ReviewerID: b, Rating: 5}).Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := (Review{JobSeekerID: a, ReviewerID: b, Rating: 0}).Validate(); !errors.Is(err, ErrRatingOutOfRange) {
		t.Fatalf("expected ErrRatingOutOfRange, got %v", err)
	}
	if err := (Review{JobSeekerID: a, ReviewerID: a, Rating: 3}).Validate(); !errors.Is(err, ErrSelfReview) {
		t.Fatalf("expected ErrSelfReview, got %v", err)
	}
}
