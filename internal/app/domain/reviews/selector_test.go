package reviews

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-placefinder/internal/app/models"
)

func rev(author string, rating int) models.Review {
	return models.Review{AuthorName: author, Rating: rating, Text: "text by " + author}
}

func TestBestReview(t *testing.T) {
	tests := []struct {
		name     string
		reviews  []models.Review
		expected string
		found    bool
	}{
		{
			name:     "five star wins over later four star",
			reviews:  []models.Review{rev("a", 3), rev("b", 5), rev("c", 4)},
			expected: "b",
			found:    true,
		},
		{
			name:     "four star tier when no five star",
			reviews:  []models.Review{rev("a", 3), rev("b", 4), rev("c", 4)},
			expected: "b",
			found:    true,
		},
		{
			name:     "fallback to first in original order",
			reviews:  []models.Review{rev("a", 3), rev("b", 2)},
			expected: "a",
			found:    true,
		},
		{
			name:    "empty list is absent",
			reviews: nil,
			found:   false,
		},
		{
			name:     "first five star among several",
			reviews:  []models.Review{rev("a", 5), rev("b", 5)},
			expected: "a",
			found:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BestReview(tt.reviews)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, got.AuthorName)
			}
		})
	}
}

func TestTopReviews(t *testing.T) {
	revs := []models.Review{rev("a", 3), rev("b", 5), rev("c", 4), rev("d", 5), rev("e", 1)}

	top := TopReviews(revs, 3)

	assert.Len(t, top, 3)
	assert.Equal(t, "b", top[0].AuthorName)
	assert.Equal(t, "d", top[1].AuthorName)
	assert.Equal(t, "c", top[2].AuthorName)
}

func TestTopReviewsFillsFromRemainder(t *testing.T) {
	revs := []models.Review{rev("a", 3), rev("b", 5)}

	top := TopReviews(revs, 3)

	assert.Len(t, top, 2)
	assert.Equal(t, "b", top[0].AuthorName)
	assert.Equal(t, "a", top[1].AuthorName)
}

func TestTopReviewsEmpty(t *testing.T) {
	assert.Nil(t, TopReviews(nil, 3))
	assert.Nil(t, TopReviews([]models.Review{rev("a", 5)}, 0))
}

func TestTexts(t *testing.T) {
	revs := []models.Review{
		{AuthorName: "a", Rating: 5, Text: "great"},
		{AuthorName: "b", Rating: 4, Text: ""},
		{AuthorName: "c", Rating: 3, Text: "fine"},
	}

	assert.Equal(t, []string{"great", "fine"}, Texts(revs))
	assert.Nil(t, Texts(nil))
}
