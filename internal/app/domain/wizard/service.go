// Package wizard is the linear step machine that walks a user from a
// free-text location to a single recommended place. Steps only move
// forward; invalid input rejects the transition and leaves the
// session untouched; an explicit restart discards everything.
package wizard

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-placefinder/internal/app/domain/places"
	"github.com/FACorreiaa/go-placefinder/internal/app/models"
	"github.com/FACorreiaa/go-placefinder/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-placefinder/internal/pkg/config"
)

// Collaborator surfaces, kept narrow so tests can mock them.
type geocoder interface {
	Geocode(ctx context.Context, address string) (*models.Location, error)
}

type placeFetcher interface {
	FetchUpTo(ctx context.Context, req models.SearchRequest) ([]models.PlaceDetail, error)
}

type recommender interface {
	GenerateQuestions(ctx context.Context, places []models.PlaceDetail, count int) ([]models.Question, error)
	Recommend(ctx context.Context, places []models.PlaceDetail, answers []models.Answer) (*models.Recommendation, error)
}

// Input carries the current step's required payload on an advance
// action. Only the field for the session's step is consulted.
type Input struct {
	LocationQuery string              `json:"location_query,omitempty"`
	RadiusMeters  int                 `json:"radius_meters,omitempty"`
	Category      string              `json:"category,omitempty"`
	OpenNow       bool                `json:"open_now,omitempty"`
	Price         *models.PriceFilter `json:"price,omitempty"`
	Answer        string              `json:"answer,omitempty"`
}

// Service drives wizard sessions across their five steps.
type Service struct {
	geo    geocoder
	fetch  placeFetcher
	rec    recommender
	store  *SessionStore
	cfg    config.WizardConfig
	logger *zap.Logger
}

// NewService wires the wizard over its collaborators.
func NewService(geo geocoder, fetch placeFetcher, rec recommender, store *SessionStore, cfg config.WizardConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		geo:    geo,
		fetch:  fetch,
		rec:    rec,
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Start creates a new session at the location step.
func (s *Service) Start(ctx context.Context) *models.WizardSession {
	sess := s.store.Create()
	metrics.Get().ActiveSessionsGauge.Record(ctx, int64(s.store.Count()))
	return sess
}

// Session fetches a live session by id.
func (s *Service) Session(id string) (*models.WizardSession, error) {
	uid, err := parseSessionID(id)
	if err != nil {
		return nil, err
	}
	return s.store.Get(uid)
}

// Advance applies one step transition. On a validation error the
// session is left exactly as it was; on success the mutated session
// is saved and returned.
func (s *Service) Advance(ctx context.Context, id string, in Input) (*models.WizardSession, error) {
	ctx, span := otel.Tracer("Wizard").Start(ctx, "Advance")
	defer span.End()

	uid, err := parseSessionID(id)
	if err != nil {
		return nil, err
	}
	unlock := s.store.Lock(uid)
	defer unlock()

	sess, err := s.store.Get(uid)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("session.id", sess.ID.String()),
		attribute.String("session.step", sess.Step.String()),
	)

	switch sess.Step {
	case models.StepLocationInput:
		err = s.advanceLocation(ctx, sess, in)
	case models.StepDistanceSelect:
		err = s.advanceDistance(sess, in)
	case models.StepCategorySelect:
		err = s.advanceCategory(ctx, sess, in)
	case models.StepPreferenceQuestions:
		err = s.advanceQuestion(ctx, sess, in)
	default:
		err = models.ErrSessionComplete
	}

	metrics.Get().RecordWizardTransition(ctx, sess.Step.String(), err == nil)
	if err != nil {
		span.RecordError(err)
		return sess, err
	}
	s.store.Save(sess)
	return sess, nil
}

// Restart throws away all accumulated state and puts the session back
// at the location step. The session keeps its id.
func (s *Service) Restart(ctx context.Context, id string) (*models.WizardSession, error) {
	uid, err := parseSessionID(id)
	if err != nil {
		return nil, err
	}
	unlock := s.store.Lock(uid)
	defer unlock()

	sess, err := s.store.Get(uid)
	if err != nil {
		return nil, err
	}
	*sess = models.WizardSession{
		ID:        sess.ID,
		Step:      models.StepLocationInput,
		CreatedAt: sess.CreatedAt,
	}
	s.store.Save(sess)
	s.logger.Info("Wizard session restarted", zap.String("session_id", sess.ID.String()))
	return sess, nil
}

func (s *Service) advanceLocation(ctx context.Context, sess *models.WizardSession, in Input) error {
	if in.LocationQuery == "" {
		return models.ErrLocationRequired
	}
	loc, err := s.geo.Geocode(ctx, in.LocationQuery)
	if err != nil {
		return err
	}
	if loc == nil {
		return models.ErrLocationNotResolved
	}
	sess.Location = loc
	sess.Step = models.StepDistanceSelect
	return nil
}

func (s *Service) advanceDistance(sess *models.WizardSession, in Input) error {
	if in.RadiusMeters <= 0 || in.RadiusMeters > models.MaxRadiusMeters {
		return models.ErrRadiusOutOfRange
	}
	sess.RadiusMeters = in.RadiusMeters
	sess.Step = models.StepCategorySelect
	return nil
}

// advanceCategory is the expensive transition: it runs the paginated
// fetch, applies the price filter and asks for preference questions.
// Partial fetch results still move the wizard forward.
func (s *Service) advanceCategory(ctx context.Context, sess *models.WizardSession, in Input) error {
	if in.Category == "" {
		return models.ErrCategoryRequired
	}
	if !models.IsKnownCategory(in.Category) {
		return models.ErrCategoryUnknown
	}

	req := models.SearchRequest{
		Origin:       *sess.Location,
		RadiusMeters: sess.RadiusMeters,
		Category:     in.Category,
		MaxResults:   s.cfg.DefaultMaxResults,
		OpenNow:      in.OpenNow,
		Price:        in.Price,
	}
	fetched, err := s.fetch.FetchUpTo(ctx, req)
	if err != nil && len(fetched) == 0 {
		return err
	}
	if err != nil {
		s.logger.Warn("Continuing with partial results",
			zap.String("session_id", sess.ID.String()),
			zap.Int("results", len(fetched)),
			zap.Error(err))
	}

	fetched = places.FilterByPrice(fetched, in.Price, s.cfg.PriceMatchMode)
	if len(fetched) == 0 {
		return models.ErrNoPlacesFound
	}

	questions, err := s.rec.GenerateQuestions(ctx, fetched, s.cfg.QuestionCount)
	if err != nil {
		return err
	}

	sess.Category = in.Category
	sess.OpenNow = in.OpenNow
	sess.Price = in.Price
	sess.Places = fetched
	sess.Questions = questions
	sess.CurrentQuestion = 0
	sess.Answers = nil
	sess.Step = models.StepPreferenceQuestions
	return nil
}

// advanceQuestion records one answer; the last answer triggers the
// recommendation and moves the session to its terminal step.
func (s *Service) advanceQuestion(ctx context.Context, sess *models.WizardSession, in Input) error {
	if in.Answer == "" {
		return models.ErrAnswerRequired
	}
	question := sess.Questions[sess.CurrentQuestion]
	if !isOption(question, in.Answer) {
		return models.ErrAnswerNotAnOption
	}

	answers := append(sess.Answers, models.Answer{Question: question.Text, Choice: in.Answer})
	if len(answers) < len(sess.Questions) {
		sess.Answers = answers
		sess.CurrentQuestion++
		return nil
	}

	rec, err := s.rec.Recommend(ctx, sess.Places, answers)
	if err != nil {
		return err
	}
	sess.Answers = answers
	sess.CurrentQuestion = len(sess.Questions)
	sess.Recommendation = rec
	sess.Step = models.StepRecommendation
	return nil
}

func isOption(q models.Question, answer string) bool {
	for _, opt := range q.Options {
		if opt == answer {
			return true
		}
	}
	return false
}
