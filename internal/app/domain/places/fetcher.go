package places

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-placefinder/internal/app/models"
	"github.com/FACorreiaa/go-placefinder/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-placefinder/internal/pkg/config"
)

// searchClient is the slice of the gateway the fetcher needs.
type searchClient interface {
	NearbySearch(ctx context.Context, q NearbyQuery) (*models.NearbyPage, error)
	PlaceDetails(ctx context.Context, placeID string, fields []string) (*models.PlaceDetail, error)
}

// Fetcher drives the paginated nearby search and hydrates each result
// into a full detail record, honoring the caller's result cap and the
// upstream's page-token propagation delay.
type Fetcher struct {
	client searchClient
	cfg    config.PlacesConfig
	logger *zap.Logger

	// sleep is swapped out in tests so pagination runs instantly.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFetcher wires a fetcher over the given gateway.
func NewFetcher(client searchClient, cfg config.PlacesConfig, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client: client,
		cfg:    cfg,
		logger: logger,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FetchUpTo walks nearby-search pages until maxResults details are
// collected or the token chain ends. The cap is checked per result,
// so a page is abandoned mid-way once enough places are hydrated and
// no further page request or token delay happens. Already collected
// details always come back, with the error that cut the walk short
// when there was one.
func (f *Fetcher) FetchUpTo(ctx context.Context, req models.SearchRequest) ([]models.PlaceDetail, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "FetchUpTo")
	defer span.End()

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = models.DefaultMaxResults
	}

	query := NearbyQuery{
		Latitude:  req.Origin.Latitude,
		Longitude: req.Origin.Longitude,
		Radius:    req.RadiusMeters,
		Category:  req.Category,
		Keyword:   req.Keyword,
		OpenNow:   req.OpenNow,
	}

	details := make([]models.PlaceDetail, 0, maxResults)
	pages := 0

	for {
		page, err := f.client.NearbySearch(ctx, query)
		if err != nil {
			span.RecordError(err)
			if gerr, ok := models.AsGatewayError(err); ok && gerr.Kind != models.GatewayErrNetwork {
				// A rejected page request ends the walk with whatever
				// has been collected, not with a hard failure.
				f.logger.Warn("Page request refused, returning partial results",
					zap.String("kind", string(gerr.Kind)),
					zap.Int("collected", len(details)),
					zap.Error(err))
				return details, nil
			}
			return details, err
		}
		pages++
		metrics.Get().PagesFetchedTotal.Add(ctx, 1)

		hydrated, err := f.hydrate(ctx, page.Results, maxResults-len(details))
		details = append(details, hydrated...)
		if err != nil {
			span.RecordError(err)
			return details, err
		}

		if len(details) >= maxResults || page.NextPageToken == "" {
			break
		}

		// Continuation tokens only become valid after a short
		// upstream propagation window.
		if err := f.sleep(ctx, f.cfg.PageTokenDelay); err != nil {
			return details, err
		}
		query.PageToken = page.NextPageToken
	}

	span.SetAttributes(
		attribute.Int("pages.fetched", pages),
		attribute.Int("results.count", len(details)),
	)
	f.logger.Debug("Nearby fetch finished",
		zap.Int("pages", pages),
		zap.Int("results", len(details)))
	return details, nil
}

// hydrate fetches details for at most remaining summaries. A detail
// that fails with an upstream status or a malformed body is skipped;
// a network failure stops the walk and surfaces to the caller.
func (f *Fetcher) hydrate(ctx context.Context, summaries []models.PlaceSummary, remaining int) ([]models.PlaceDetail, error) {
	if remaining <= 0 || len(summaries) == 0 {
		return nil, nil
	}
	if len(summaries) > remaining {
		summaries = summaries[:remaining]
	}
	if f.cfg.ParallelDetails {
		return f.hydrateParallel(ctx, summaries)
	}

	details := make([]models.PlaceDetail, 0, len(summaries))
	for _, s := range summaries {
		detail, err := f.fetchDetail(ctx, s)
		if err != nil {
			return details, err
		}
		if detail != nil {
			details = append(details, *detail)
		}
	}
	return details, nil
}

// hydrateParallel fetches a page's details concurrently, preserving
// the upstream relevance order in the output.
func (f *Fetcher) hydrateParallel(ctx context.Context, summaries []models.PlaceSummary) ([]models.PlaceDetail, error) {
	workers := f.cfg.DetailWorkers
	if workers <= 0 {
		workers = 4
	}
	slots := make([]*models.PlaceDetail, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, s := range summaries {
		g.Go(func() error {
			detail, err := f.fetchDetail(gctx, s)
			if err != nil {
				return err
			}
			slots[i] = detail
			return nil
		})
	}
	err := g.Wait()

	details := make([]models.PlaceDetail, 0, len(summaries))
	for _, d := range slots {
		if d != nil {
			details = append(details, *d)
		}
	}
	return details, err
}

func (f *Fetcher) fetchDetail(ctx context.Context, s models.PlaceSummary) (*models.PlaceDetail, error) {
	detail, err := f.client.PlaceDetails(ctx, s.PlaceID, f.cfg.DetailFields)
	if err != nil {
		if gerr, ok := models.AsGatewayError(err); ok && gerr.Kind != models.GatewayErrNetwork {
			// One bad detail record does not sink the search.
			f.logger.Warn("Skipping place with unusable details",
				zap.String("place_id", s.PlaceID),
				zap.String("kind", string(gerr.Kind)),
				zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	if detail == nil {
		return nil, nil
	}
	if detail.Name == "" {
		detail.Name = s.Name
	}
	if len(detail.Types) == 0 {
		detail.Types = s.Types
	}
	return detail, nil
}

// FilterByPrice keeps places whose price level satisfies the filter.
// Exact mode requires the level to match; range mode accepts any
// level inside [Min, Max]. Places without a reported price level are
// kept only when the filter is nil.
func FilterByPrice(details []models.PlaceDetail, filter *models.PriceFilter, mode models.PriceMatchMode) []models.PlaceDetail {
	if filter == nil {
		return details
	}
	out := make([]models.PlaceDetail, 0, len(details))
	for _, d := range details {
		if d.PriceLevel == nil {
			continue
		}
		level := *d.PriceLevel
		switch mode {
		case models.PriceMatchRange:
			lo, hi := level, level
			if filter.Min != nil {
				lo = *filter.Min
			}
			if filter.Max != nil {
				hi = *filter.Max
			}
			if level >= lo && level <= hi {
				out = append(out, d)
			}
		default:
			if filter.Level != nil && level == *filter.Level {
				out = append(out, d)
			}
		}
	}
	return out
}
