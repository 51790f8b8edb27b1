// Package places talks to the upstream places HTTP API: location
// autocomplete, geocoding, paginated nearby search, place details and
// photo URLs. Responses are decoded once here into typed records;
// every failure is a models.GatewayError so callers decide whether to
// abort or degrade.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-placefinder/internal/app/models"
	"github.com/FACorreiaa/go-placefinder/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-placefinder/internal/pkg/cache"
	"github.com/FACorreiaa/go-placefinder/internal/pkg/config"
)

const tracerName = "PlacesGateway"

// NearbyQuery carries one nearby-search page request.
type NearbyQuery struct {
	Latitude  float64
	Longitude float64
	Radius    int
	Category  string
	Keyword   string
	OpenNow   bool
	PageToken string
}

// Gateway is the typed client over the five upstream operations. It
// holds no retry logic; it maps requests to responses and statuses to
// errors.
type Gateway struct {
	cfg        config.PlacesConfig
	httpClient *http.Client
	caches     *cache.Manager
	logger     *zap.Logger
}

// NewGateway creates a gateway with the house HTTP client timeout and
// the per-operation result caches.
func NewGateway(cfg config.PlacesConfig, caches *cache.Manager, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if caches == nil {
		caches = cache.NewManager(logger)
	}
	return &Gateway{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		caches: caches,
		logger: logger,
	}
}

// Suggest returns autocomplete predictions for free-text location
// input. A non-OK upstream status soft-fails: the slice is empty and
// the status travels back inside the error.
func (g *Gateway) Suggest(ctx context.Context, input string) ([]models.Suggestion, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Suggest")
	defer span.End()

	key := cache.NewKeyBuilder("autocomplete").AddQuery(input).Build()
	if cached, found := g.caches.Suggestions.Get(key); found {
		return cached, nil
	}

	params := url.Values{}
	params.Set("input", input)
	params.Set("types", "geocode")
	params.Set("key", g.cfg.APIKey)

	var resp models.AutocompleteResponse
	if err := g.getJSON(ctx, "autocomplete", "/place/autocomplete/json", params, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "autocomplete request failed")
		return nil, err
	}

	if resp.Status != models.StatusOK {
		if resp.Status == models.StatusZeroResults {
			return []models.Suggestion{}, nil
		}
		return []models.Suggestion{}, models.NewGatewayError(models.GatewayErrUpstreamStatus, "autocomplete", resp.Status, nil)
	}

	suggestions := make([]models.Suggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		s := models.Suggestion{
			Description: p.Description,
			PlaceID:     p.PlaceID,
		}
		if p.StructuredFormatting != nil {
			s.MainText = p.StructuredFormatting.MainText
			s.SecondaryText = p.StructuredFormatting.SecondaryText
		}
		suggestions = append(suggestions, s)
	}

	g.caches.Suggestions.Set(key, suggestions)
	span.SetAttributes(attribute.Int("suggestions.count", len(suggestions)))
	return suggestions, nil
}

// Geocode resolves free-text into coordinates plus a formatted
// address, taking the first result when the upstream returns several.
// Returns nil without error when nothing resolves.
func (g *Gateway) Geocode(ctx context.Context, address string) (*models.Location, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Geocode")
	defer span.End()

	key := cache.NewKeyBuilder("geocode").AddQuery(address).Build()
	if cached, found := g.caches.Geocodes.Get(key); found {
		loc := cached
		return &loc, nil
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.cfg.APIKey)

	var resp models.GeocodeResponse
	if err := g.getJSON(ctx, "geocode", "/geocode/json", params, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocode request failed")
		return nil, err
	}

	if resp.Status != models.StatusOK {
		if resp.Status == models.StatusZeroResults {
			return nil, nil
		}
		return nil, models.NewGatewayError(models.GatewayErrUpstreamStatus, "geocode", resp.Status, nil)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	first := resp.Results[0]
	loc := models.Location{
		Query:            address,
		Latitude:         first.Geometry.Location.Lat,
		Longitude:        first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}

	g.caches.Geocodes.Set(key, loc)
	return &loc, nil
}

// NearbySearch fetches one page of results around the given origin.
// ZERO_RESULTS is an empty success; the continuation token, when
// present, is only valid after the upstream's propagation delay.
func (g *Gateway) NearbySearch(ctx context.Context, q NearbyQuery) (*models.NearbyPage, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "NearbySearch")
	defer span.End()

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", q.Latitude, q.Longitude))
	params.Set("radius", strconv.Itoa(q.Radius))
	params.Set("key", g.cfg.APIKey)
	if q.Category != "" {
		params.Set("type", q.Category)
	}
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}
	if q.OpenNow {
		params.Set("opennow", "true")
	}
	if q.PageToken != "" {
		params.Set("pagetoken", q.PageToken)
	}

	var resp models.NearbySearchResponse
	if err := g.getJSON(ctx, "nearby_search", "/place/nearbysearch/json", params, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "nearby search request failed")
		return nil, err
	}

	if resp.Status != models.StatusOK && resp.Status != models.StatusZeroResults {
		return nil, models.NewGatewayError(models.GatewayErrUpstreamStatus, "nearby_search", resp.Status, nil)
	}

	page := &models.NearbyPage{
		Results:       make([]models.PlaceSummary, 0, len(resp.Results)),
		NextPageToken: resp.NextPageToken,
	}
	for _, r := range resp.Results {
		page.Results = append(page.Results, models.PlaceSummary{
			PlaceID:   r.PlaceID,
			Name:      r.Name,
			Types:     r.Types,
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
		})
	}

	span.SetAttributes(
		attribute.Int("results.count", len(page.Results)),
		attribute.Bool("page.has_next", page.NextPageToken != ""),
	)
	return page, nil
}

// PlaceDetails fetches the detailed record for one place. fields is
// an explicit allow-list forwarded verbatim; repeated fetches for the
// same place_id are served from the details cache.
func (g *Gateway) PlaceDetails(ctx context.Context, placeID string, fields []string) (*models.PlaceDetail, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "PlaceDetails")
	defer span.End()
	span.SetAttributes(attribute.String("place.id", placeID))

	key := cache.NewKeyBuilder("place_details").AddPlaceID(placeID).AddFields(fields).Build()
	if cached, found := g.caches.Details.Get(key); found {
		detail := cached
		return &detail, nil
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", strings.Join(fields, ","))
	params.Set("reviews_sort", "most_relevant")
	params.Set("key", g.cfg.APIKey)

	var resp models.PlaceDetailsResponse
	if err := g.getJSON(ctx, "place_details", "/place/details/json", params, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "details request failed")
		return nil, err
	}

	if resp.Status != models.StatusOK {
		if resp.Status == models.StatusZeroResults {
			return nil, nil
		}
		return nil, models.NewGatewayError(models.GatewayErrUpstreamStatus, "place_details", resp.Status, nil)
	}

	detail := resp.Result.ToPlaceDetail(placeID)
	if detail == nil {
		// Missing result block counts as an empty success, not a crash.
		return nil, nil
	}

	g.caches.Details.Set(key, *detail)
	return detail, nil
}

// PhotoURL builds the photo endpoint URL for a reference. Pure string
// construction, no network call; empty reference yields "".
func (g *Gateway) PhotoURL(photoReference string, maxWidth int) string {
	if photoReference == "" {
		return ""
	}
	if maxWidth <= 0 {
		maxWidth = 400
	}
	params := url.Values{}
	params.Set("maxwidth", strconv.Itoa(maxWidth))
	params.Set("photoreference", photoReference)
	params.Set("key", g.cfg.APIKey)
	return g.cfg.BaseURL + "/place/photo?" + params.Encode()
}

// getJSON performs one upstream GET and decodes the body into out.
// Transport failures map to network errors, decode failures to
// malformed_response; statuses stay for the caller to interpret.
func (g *Gateway) getJSON(ctx context.Context, op, path string, params url.Values, out interface{}) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return models.NewGatewayError(models.GatewayErrNetwork, op, "", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		metrics.Get().RecordGatewayRequest(ctx, op, "network_error", time.Since(start))
		g.logger.Warn("Places request failed",
			zap.String("operation", op),
			zap.Error(err))
		return models.NewGatewayError(models.GatewayErrNetwork, op, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.Get().RecordGatewayRequest(ctx, op, fmt.Sprintf("http_%d", resp.StatusCode), time.Since(start))
		return models.NewGatewayError(models.GatewayErrNetwork, op, "",
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.Get().RecordGatewayRequest(ctx, op, "malformed", time.Since(start))
		g.logger.Warn("Places response could not be decoded",
			zap.String("operation", op),
			zap.Error(err))
		return models.NewGatewayError(models.GatewayErrMalformedResponse, op, "", err)
	}

	metrics.Get().RecordGatewayRequest(ctx, op, "ok", time.Since(start))
	return nil
}
