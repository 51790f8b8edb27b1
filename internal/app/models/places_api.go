package models

// Wire schema for the upstream places HTTP API. Decoded exactly once
// at the gateway boundary; optional fields are pointers so absent and
// zero stay distinguishable.

// UpstreamStatus values the gateway interprets. Anything else is an
// upstream_status error carrying the raw string.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

type AutocompleteResponse struct {
	Status      string       `json:"status"`
	Predictions []Prediction `json:"predictions"`
}

type Prediction struct {
	Description          string                `json:"description"`
	PlaceID              string                `json:"place_id"`
	StructuredFormatting *StructuredFormatting `json:"structured_formatting,omitempty"`
}

type StructuredFormatting struct {
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

type GeocodeResponse struct {
	Status  string          `json:"status"`
	Results []GeocodeResult `json:"results"`
}

type GeocodeResult struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         Geometry `json:"geometry"`
}

type Geometry struct {
	Location LatLng `json:"location"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type NearbySearchResponse struct {
	Status        string              `json:"status"`
	Results       []NearbyPlaceResult `json:"results"`
	NextPageToken string              `json:"next_page_token"`
}

type NearbyPlaceResult struct {
	PlaceID  string   `json:"place_id"`
	Name     string   `json:"name"`
	Types    []string `json:"types"`
	Geometry Geometry `json:"geometry"`
}

type PlaceDetailsResponse struct {
	Status string             `json:"status"`
	Result *PlaceDetailResult `json:"result"`
}

type PlaceDetailResult struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	FormattedAddress string        `json:"formatted_address"`
	Rating           *float64      `json:"rating,omitempty"`
	UserRatingsTotal int           `json:"user_ratings_total"`
	PriceLevel       *int          `json:"price_level,omitempty"`
	Types            []string      `json:"types"`
	Photos           []PhotoResult `json:"photos,omitempty"`
	Reviews          []ReviewResult `json:"reviews,omitempty"`
	Website          string        `json:"website,omitempty"`
	URL              string        `json:"url,omitempty"`
	Geometry         *Geometry     `json:"geometry,omitempty"`
}

type PhotoResult struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

type ReviewResult struct {
	AuthorName              string `json:"author_name"`
	Rating                  int    `json:"rating"`
	Text                    string `json:"text"`
	RelativeTimeDescription string `json:"relative_time_description"`
}

// ToPlaceDetail maps the wire record into the domain record.
func (r *PlaceDetailResult) ToPlaceDetail(placeID string) *PlaceDetail {
	if r == nil {
		return nil
	}
	id := r.PlaceID
	if id == "" {
		id = placeID
	}
	detail := &PlaceDetail{
		PlaceID:          id,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Rating:           r.Rating,
		RatingCount:      r.UserRatingsTotal,
		PriceLevel:       r.PriceLevel,
		Types:            r.Types,
		Website:          r.Website,
		MapsURL:          r.URL,
	}
	if r.Geometry != nil {
		detail.Latitude = r.Geometry.Location.Lat
		detail.Longitude = r.Geometry.Location.Lng
	}
	for _, p := range r.Photos {
		if p.PhotoReference != "" {
			detail.PhotoReferences = append(detail.PhotoReferences, p.PhotoReference)
		}
	}
	for _, rev := range r.Reviews {
		detail.Reviews = append(detail.Reviews, Review{
			AuthorName:  rev.AuthorName,
			Rating:      rev.Rating,
			Text:        rev.Text,
			RelativeAge: rev.RelativeTimeDescription,
		})
	}
	return detail
}
