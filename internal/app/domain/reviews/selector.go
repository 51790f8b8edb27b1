// Package reviews picks the "compelling" reviews shown for a place.
//
// Selection follows the rating-priority rule: all 5-star reviews
// first, then 4-star, then the first review in original order as a
// last resort. Original order is preserved inside a tier, so the
// choice is deterministic for a given review list.
package reviews

import (
	"github.com/FACorreiaa/go-placefinder/internal/app/models"
)

// BestReview returns the single most compelling review, or false when
// the list is empty.
func BestReview(revs []models.Review) (models.Review, bool) {
	if len(revs) == 0 {
		return models.Review{}, false
	}
	for _, rating := range []int{5, 4} {
		for _, r := range revs {
			if r.Rating == rating {
				return r, true
			}
		}
	}
	return revs[0], true
}

// TopReviews returns up to n reviews by the same tier rule: the 5-star
// tier in original order, then the 4-star tier, then the rest in
// original order.
func TopReviews(revs []models.Review, n int) []models.Review {
	if n <= 0 || len(revs) == 0 {
		return nil
	}

	out := make([]models.Review, 0, n)
	for _, rating := range []int{5, 4} {
		for _, r := range revs {
			if len(out) == n {
				return out
			}
			if r.Rating == rating {
				out = append(out, r)
			}
		}
	}
	for _, r := range revs {
		if len(out) == n {
			return out
		}
		if r.Rating != 5 && r.Rating != 4 {
			out = append(out, r)
		}
	}
	return out
}

// Texts extracts the review bodies, used by the classifier's review
// scan and the recommender summaries.
func Texts(revs []models.Review) []string {
	if len(revs) == 0 {
		return nil
	}
	texts := make([]string, 0, len(revs))
	for _, r := range revs {
		if r.Text != "" {
			texts = append(texts, r.Text)
		}
	}
	return texts
}
