package models

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion is one autocomplete prediction for a location query.
type Suggestion struct {
	Description   string `json:"description"`
	PlaceID       string `json:"place_id"`
	MainText      string `json:"main_text,omitempty"`
	SecondaryText string `json:"secondary_text,omitempty"`
}

// Location is a resolved geographic origin for a wizard session.
// Immutable once resolved.
type Location struct {
	Query            string  `json:"query"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
}

// PriceMatchMode selects how a price-level filter is compared.
type PriceMatchMode string

const (
	PriceMatchExact PriceMatchMode = "exact"
	PriceMatchRange PriceMatchMode = "range"
)

// PriceFilter narrows results by upstream price level (0-4).
// Level is used in exact mode, Min/Max in range mode.
type PriceFilter struct {
	Level *int `json:"level,omitempty"`
	Min   *int `json:"min,omitempty"`
	Max   *int `json:"max,omitempty"`
}

// SearchRequest describes one paginated nearby fetch. Constructed by
// the wizard, consumed once by the fetcher.
type SearchRequest struct {
	Origin       Location     `json:"origin"`
	RadiusMeters int          `json:"radius_meters"`
	Category     string       `json:"category"`
	MaxResults   int          `json:"max_results"`
	OpenNow      bool         `json:"open_now"`
	Price        *PriceFilter `json:"price,omitempty"`
	Keyword      string       `json:"keyword,omitempty"`
}

const (
	// MaxRadiusMeters is the upstream limit for nearby searches.
	MaxRadiusMeters = 50000
	// DefaultMaxResults caps PlaceDetail records per fetch.
	DefaultMaxResults = 20
)

// PlaceSummary is one result row from a single nearby-search page.
type PlaceSummary struct {
	PlaceID   string   `json:"place_id"`
	Name      string   `json:"name"`
	Types     []string `json:"types"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
}

// Review is a single place review, carried verbatim from upstream.
type Review struct {
	AuthorName  string `json:"author_name"`
	Rating      int    `json:"rating"`
	Text        string `json:"text"`
	RelativeAge string `json:"relative_time_description"`
}

// PlaceDetail is the lazily fetched record for one place. Optional
// upstream fields stay pointers so "absent" survives the decode.
type PlaceDetail struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating,omitempty"`
	RatingCount      int      `json:"user_ratings_total"`
	PriceLevel       *int     `json:"price_level,omitempty"`
	Types            []string `json:"types"`
	PhotoReferences  []string `json:"photo_references,omitempty"`
	Reviews          []Review `json:"reviews,omitempty"`
	Website          string   `json:"website,omitempty"`
	MapsURL          string   `json:"url,omitempty"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
}

// NearbyPage is one page of nearby-search results plus the optional
// continuation token for the next page.
type NearbyPage struct {
	Results       []PlaceSummary `json:"results"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

// Question is one multiple-choice preference question.
type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

// Answer records the choice made for one question.
type Answer struct {
	Question string `json:"question"`
	Choice   string `json:"choice"`
}

// RecommendationReasoning explains why a place was selected.
type RecommendationReasoning struct {
	MainReason     string   `json:"main_reason"`
	ReviewEvidence string   `json:"review_evidence,omitempty"`
	StrengthPoints []string `json:"strength_points,omitempty"`
	Considerations []string `json:"consideration_points,omitempty"`
}

// Recommendation is the final pick among the fetched places.
type Recommendation struct {
	SelectedIndex int                     `json:"selected_index"`
	Reasoning     RecommendationReasoning `json:"reasoning"`
}

// WizardStep is the ordinal position in the wizard flow.
type WizardStep int

const (
	StepLocationInput WizardStep = iota + 1
	StepDistanceSelect
	StepCategorySelect
	StepPreferenceQuestions
	StepRecommendation
)

func (s WizardStep) String() string {
	switch s {
	case StepLocationInput:
		return "location_input"
	case StepDistanceSelect:
		return "distance_select"
	case StepCategorySelect:
		return "category_select"
	case StepPreferenceQuestions:
		return "preference_questions"
	case StepRecommendation:
		return "recommendation"
	default:
		return "unknown"
	}
}

// WizardSession is the only mutable, long-lived entity: it accumulates
// the user's choices and the fetched data across steps and is owned by
// its caller, never stored in ambient globals.
type WizardSession struct {
	ID              uuid.UUID     `json:"id"`
	Step            WizardStep    `json:"step"`
	Location        *Location     `json:"location,omitempty"`
	RadiusMeters    int           `json:"radius_meters,omitempty"`
	Category        string        `json:"category,omitempty"`
	OpenNow         bool          `json:"open_now,omitempty"`
	Price           *PriceFilter  `json:"price,omitempty"`
	Places          []PlaceDetail `json:"places,omitempty"`
	Questions       []Question    `json:"questions,omitempty"`
	CurrentQuestion int           `json:"current_question"`
	Answers         []Answer      `json:"answers,omitempty"`
	Recommendation  *Recommendation `json:"recommendation,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// PlaceCategories is the fixed list of establishment types the wizard
// offers at the category step.
var PlaceCategories = []string{
	"restaurant",
	"cafe",
	"bar",
	"pub",
	"bakery",
	"meal_takeaway",
	"food",
	"lodging",
	"park",
}

// IsKnownCategory reports whether the wizard offers the given type.
func IsKnownCategory(category string) bool {
	for _, c := range PlaceCategories {
		if c == category {
			return true
		}
	}
	return false
}
