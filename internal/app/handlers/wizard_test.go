package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-placefinder/internal/app/domain/places"
	"github.com/FACorreiaa/go-placefinder/internal/app/domain/taxonomy"
	"github.com/FACorreiaa/go-placefinder/internal/app/domain/wizard"
	"github.com/FACorreiaa/go-placefinder/internal/app/models"
	"github.com/FACorreiaa/go-placefinder/internal/pkg/config"
)

type stubGeocoder struct {
	fn func(ctx context.Context, address string) (*models.Location, error)
}

func (s *stubGeocoder) Geocode(ctx context.Context, address string) (*models.Location, error) {
	return s.fn(ctx, address)
}

type stubFetcher struct {
	fn func(ctx context.Context, req models.SearchRequest) ([]models.PlaceDetail, error)
}

func (s *stubFetcher) FetchUpTo(ctx context.Context, req models.SearchRequest) ([]models.PlaceDetail, error) {
	return s.fn(ctx, req)
}

type stubRecommender struct {
	questions func(ctx context.Context, details []models.PlaceDetail, count int) ([]models.Question, error)
	recommend func(ctx context.Context, details []models.PlaceDetail, answers []models.Answer) (*models.Recommendation, error)
}

func (s *stubRecommender) GenerateQuestions(ctx context.Context, details []models.PlaceDetail, count int) ([]models.Question, error) {
	return s.questions(ctx, details, count)
}

func (s *stubRecommender) Recommend(ctx context.Context, details []models.PlaceDetail, answers []models.Answer) (*models.Recommendation, error) {
	return s.recommend(ctx, details, answers)
}

func apiPlaces() []models.PlaceDetail {
	rating := 4.7
	return []models.PlaceDetail{{
		PlaceID:         "p0",
		Name:            "Trattoria Roma",
		Types:           []string{"restaurant", "food"},
		Rating:          &rating,
		RatingCount:     120,
		PhotoReferences: []string{"photo-ref-1"},
		Reviews: []models.Review{
			{AuthorName: "Ana", Rating: 4, Text: "Solid pasta"},
			{AuthorName: "Bruno", Rating: 5, Text: "Best pizza in town"},
		},
	}}
}

type apiFixture struct {
	router *gin.Engine
	geo    *stubGeocoder
	fetch  *stubFetcher
	rec    *stubRecommender
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	geo := &stubGeocoder{fn: func(ctx context.Context, address string) (*models.Location, error) {
		return &models.Location{Query: address, Latitude: 38.72, Longitude: -9.14, FormattedAddress: "Lisbon, Portugal"}, nil
	}}
	fetch := &stubFetcher{fn: func(ctx context.Context, req models.SearchRequest) ([]models.PlaceDetail, error) {
		return apiPlaces(), nil
	}}
	rec := &stubRecommender{
		questions: func(ctx context.Context, details []models.PlaceDetail, count int) ([]models.Question, error) {
			return []models.Question{
				{Text: "Cuisine?", Options: []string{"Italian", "Japanese"}},
				{Text: "Budget?", Options: []string{"Cheap", "Fancy"}},
			}, nil
		},
		recommend: func(ctx context.Context, details []models.PlaceDetail, answers []models.Answer) (*models.Recommendation, error) {
			return &models.Recommendation{SelectedIndex: 0, Reasoning: models.RecommendationReasoning{MainReason: "matches your answers"}}, nil
		},
	}

	store := wizard.NewSessionStore(time.Minute, zap.NewNop())
	svc := wizard.NewService(geo, fetch, rec, store, config.WizardConfig{
		QuestionCount:     2,
		DefaultMaxResults: 20,
		PriceMatchMode:    models.PriceMatchExact,
	}, zap.NewNop())

	gateway := places.NewGateway(config.PlacesConfig{
		APIKey:  "test-key",
		BaseURL: "https://maps.example.com/api",
	}, nil, zap.NewNop())
	h := NewWizardHandler(svc, gateway, taxonomy.NewClassifier(taxonomy.CuisineTaxonomy), zap.NewNop())

	r := gin.New()
	r.POST("/api/v1/wizard/sessions", h.CreateSession)
	r.GET("/api/v1/wizard/sessions/:id", h.GetSession)
	r.POST("/api/v1/wizard/sessions/:id/advance", h.Advance)
	r.POST("/api/v1/wizard/sessions/:id/restart", h.Restart)

	return &apiFixture{router: r, geo: geo, fetch: fetch, rec: rec}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	decoded := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestWizardSessionFlow(t *testing.T) {
	f := newAPIFixture(t)

	w, created := f.do(t, http.MethodPost, "/api/v1/wizard/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id, ok := created["id"].(string)
	require.True(t, ok)
	base := "/api/v1/wizard/sessions/" + id

	w, _ = f.do(t, http.MethodPost, base+"/advance", gin.H{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, body := f.do(t, http.MethodPost, base+"/advance", gin.H{"location_query": "Lisbon"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, models.StepDistanceSelect, body["step"])

	w, body = f.do(t, http.MethodPost, base+"/advance", gin.H{"radius_meters": 5000})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, models.StepCategorySelect, body["step"])

	w, body = f.do(t, http.MethodPost, base+"/advance", gin.H{"category": "restaurant"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, models.StepPreferenceQuestions, body["step"])

	placesList, ok := body["places"].([]any)
	require.True(t, ok)
	require.Len(t, placesList, 1)
	place := placesList[0].(map[string]any)
	assert.Equal(t, "Italian", place["cuisine"])
	best := place["best_review"].(map[string]any)
	assert.Equal(t, "Bruno", best["author_name"])
	photos := place["photo_urls"].([]any)
	require.Len(t, photos, 1)
	assert.Contains(t, photos[0].(string), "photoreference=photo-ref-1")

	w, _ = f.do(t, http.MethodPost, base+"/advance", gin.H{"answer": "Italian"})
	require.Equal(t, http.StatusOK, w.Code)
	w, body = f.do(t, http.MethodPost, base+"/advance", gin.H{"answer": "Cheap"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, models.StepRecommendation, body["step"])
	rec := body["recommendation"].(map[string]any)
	assert.EqualValues(t, 0, rec["selected_index"])

	w, _ = f.do(t, http.MethodPost, base+"/advance", gin.H{"answer": "Italian"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, body = f.do(t, http.MethodPost, base+"/restart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, models.StepLocationInput, body["step"])
	assert.NotContains(t, body, "places")

	w, _ = f.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWizardSessionErrors(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("unknown session id", func(t *testing.T) {
		w, _ := f.do(t, http.MethodGet, "/api/v1/wizard/sessions/3e95f1d0-0000-0000-0000-000000000000", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, created := f.do(t, http.MethodPost, "/api/v1/wizard/sessions", nil)
		id := created["id"].(string)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/wizard/sessions/"+id+"/advance", bytes.NewBufferString("{nope"))
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("gateway failure maps to bad gateway", func(t *testing.T) {
		_, created := f.do(t, http.MethodPost, "/api/v1/wizard/sessions", nil)
		id := created["id"].(string)

		f.geo.fn = func(ctx context.Context, address string) (*models.Location, error) {
			return nil, models.NewGatewayError(models.GatewayErrNetwork, "geocode", "", assert.AnError)
		}
		w, _ := f.do(t, http.MethodPost, "/api/v1/wizard/sessions/"+id+"/advance", gin.H{"location_query": "Lisbon"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
