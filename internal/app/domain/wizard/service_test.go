package wizard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-placefinder/internal/app/models"
	"github.com/FACorreiaa/go-placefinder/internal/pkg/config"
)

type mockGeocoder struct{ mock.Mock }

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (*models.Location, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) FetchUpTo(ctx context.Context, req models.SearchRequest) ([]models.PlaceDetail, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlaceDetail), args.Error(1)
}

type mockRecommender struct{ mock.Mock }

func (m *mockRecommender) GenerateQuestions(ctx context.Context, places []models.PlaceDetail, count int) ([]models.Question, error) {
	args := m.Called(ctx, places, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *mockRecommender) Recommend(ctx context.Context, places []models.PlaceDetail, answers []models.Answer) (*models.Recommendation, error) {
	args := m.Called(ctx, places, answers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recommendation), args.Error(1)
}

type wizardFixture struct {
	svc *Service
	geo *mockGeocoder
	fet *mockFetcher
	rec *mockRecommender
}

func newFixture(t *testing.T) *wizardFixture {
	t.Helper()
	geo := new(mockGeocoder)
	fet := new(mockFetcher)
	rec := new(mockRecommender)
	store := NewSessionStore(time.Minute, zap.NewNop())
	svc := NewService(geo, fet, rec, store, config.WizardConfig{
		QuestionCount:     2,
		DefaultMaxResults: 20,
		PriceMatchMode:    models.PriceMatchExact,
	}, zap.NewNop())
	return &wizardFixture{svc: svc, geo: geo, fet: fet, rec: rec}
}

var (
	testLocation = models.Location{Query: "Springfield", Latitude: 39.78, Longitude: -89.65, FormattedAddress: "Springfield, USA"}
	testQuestion = models.Question{Text: "Cuisine?", Options: []string{"Italian", "Japanese"}}
	testQ2       = models.Question{Text: "Budget?", Options: []string{"Cheap", "Fancy"}}
)

func testDetails() []models.PlaceDetail {
	r := 4.5
	return []models.PlaceDetail{{PlaceID: "p0", Name: "Mario's", Rating: &r}}
}

// advanceToStep walks a fresh session forward to the wanted step.
func (f *wizardFixture) advanceToStep(t *testing.T, step models.WizardStep) *models.WizardSession {
	t.Helper()
	ctx := context.Background()
	sess := f.svc.Start(ctx)
	if step == models.StepLocationInput {
		return sess
	}

	f.geo.On("Geocode", mock.Anything, "Springfield").Return(&testLocation, nil)
	sess, err := f.svc.Advance(ctx, sess.ID.String(), Input{LocationQuery: "Springfield"})
	require.NoError(t, err)
	if step == models.StepDistanceSelect {
		return sess
	}

	sess, err = f.svc.Advance(ctx, sess.ID.String(), Input{RadiusMeters: 5000})
	require.NoError(t, err)
	if step == models.StepCategorySelect {
		return sess
	}

	f.fet.On("FetchUpTo", mock.Anything, mock.Anything).Return(testDetails(), nil)
	f.rec.On("GenerateQuestions", mock.Anything, mock.Anything, 2).
		Return([]models.Question{testQuestion, testQ2}, nil)
	sess, err = f.svc.Advance(ctx, sess.ID.String(), Input{Category: "restaurant"})
	require.NoError(t, err)
	if step == models.StepPreferenceQuestions {
		return sess
	}

	f.rec.On("Recommend", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.Recommendation{SelectedIndex: 0}, nil)
	sess, err = f.svc.Advance(ctx, sess.ID.String(), Input{Answer: "Italian"})
	require.NoError(t, err)
	sess, err = f.svc.Advance(ctx, sess.ID.String(), Input{Answer: "Cheap"})
	require.NoError(t, err)
	return sess
}

func TestAdvanceLocation(t *testing.T) {
	t.Run("resolves and moves to distance", func(t *testing.T) {
		f := newFixture(t)
		sess := f.advanceToStep(t, models.StepDistanceSelect)
		assert.Equal(t, models.StepDistanceSelect, sess.Step)
		require.NotNil(t, sess.Location)
		assert.Equal(t, "Springfield, USA", sess.Location.FormattedAddress)
	})

	t.Run("empty query is rejected, state unchanged", func(t *testing.T) {
		f := newFixture(t)
		sess := f.svc.Start(context.Background())

		got, err := f.svc.Advance(context.Background(), sess.ID.String(), Input{})
		assert.ErrorIs(t, err, models.ErrLocationRequired)
		assert.Equal(t, models.StepLocationInput, got.Step)
		f.geo.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})

	t.Run("unresolvable location is rejected", func(t *testing.T) {
		f := newFixture(t)
		sess := f.svc.Start(context.Background())
		f.geo.On("Geocode", mock.Anything, "nowhere").Return(nil, nil)

		got, err := f.svc.Advance(context.Background(), sess.ID.String(), Input{LocationQuery: "nowhere"})
		assert.ErrorIs(t, err, models.ErrLocationNotResolved)
		assert.Equal(t, models.StepLocationInput, got.Step)
	})
}

func TestAdvanceDistance(t *testing.T) {
	t.Run("accepts a radius in range", func(t *testing.T) {
		f := newFixture(t)
		sess := f.advanceToStep(t, models.StepCategorySelect)
		assert.Equal(t, 5000, sess.RadiusMeters)
	})

	t.Run("rejects missing or out-of-range radius", func(t *testing.T) {
		f := newFixture(t)
		sess := f.advanceToStep(t, models.StepDistanceSelect)

		for _, radius := range []int{0, -5, models.MaxRadiusMeters + 1} {
			got, err := f.svc.Advance(context.Background(), sess.ID.String(), Input{RadiusMeters: radius})
			assert.ErrorIs(t, err, models.ErrRadiusOutOfRange)
			assert.Equal(t, models.StepDistanceSelect, got.Step)
		}
	})
}

func TestAdvanceCategory(t *testing.T) {
	t.Run("fetches places and questions", func(t *testing.T) {
		f := newFixture(t)
		sess := f.advanceToStep(t, models.StepPreferenceQuestions)
		assert.Len(t, sess.Places, 1)
		assert.Len(t, sess.Questions, 2)
		assert.Equal(t, 0, sess.CurrentQuestion)
	})

	t.Run("unknown category is rejected without a fetch", func(t *testing.T) {
		f := newFixture(t)
		sess := f.advanceToStep(t, models.StepCategorySelect)

		_, err := f.svc.Advance(context.Background(), sess.ID.String(), Input{Category: "spaceport"})
		assert.ErrorIs(t, err, models.ErrCategoryUnknown)
		f.fet.AssertNotCalled(t, "FetchUpTo", mock.Anything, mock.Anything)
	})

	t.Run("empty fetch surfaces no places found", func(t *testing.T) {
		f := newFixture(t)
		sess := f.advanceToStep(t, models.StepCategorySelect)
		f.fet.On("FetchUpTo", mock.Anything, mock.Anything).Return([]models.PlaceDetail{}, nil)

		got, err := f.svc.Advance(context.Background(), sess.ID.String(), Input{Category: "restaurant"})
		assert.ErrorIs(t, err, models.ErrNoPlacesFound)
		assert.Equal(t, models.StepCategorySelect, got.Step)
	})

	t.Run("partial results still advance", func(t *testing.T) {
		f := newFixture(t)
		sess := f.advanceToStep(t, models.StepCategorySelect)
		gerr := models.NewGatewayError(models.GatewayErrUpstreamStatus, "nearby_search", "OVER_QUERY_LIMIT", nil)
		f.fet.On("FetchUpTo", mock.Anything, mock.Anything).Return(testDetails(), gerr)
		f.rec.On("GenerateQuestions", mock.Anything, mock.Anything, 2).
			Return([]models.Question{testQuestion, testQ2}, nil)

		got, err := f.svc.Advance(context.Background(), sess.ID.String(), Input{Category: "restaurant"})
		require.NoError(t, err)
		assert.Equal(t, models.StepPreferenceQuestions, got.Step)
	})
}

func TestAdvanceQuestions(t *testing.T) {
	t.Run("records answers one at a time", func(t *testing.T) {
		f := newFixture(t)
		sess := f.advanceToStep(t, models.StepPreferenceQuestions)

		got, err := f.svc.Advance(context.Background(), sess.ID.String(), Input{Answer: "Italian"})
		require.NoError(t, err)
		assert.Equal(t, models.StepPreferenceQuestions, got.Step)
		assert.Equal(t, 1, got.CurrentQuestion)
		require.Len(t, got.Answers, 1)
		assert.Equal(t, "Cuisine?", got.Answers[0].Question)
	})

	t.Run("rejects an answer outside the options", func(t *testing.T) {
		f := newFixture(t)
		sess := f.advanceToStep(t, models.StepPreferenceQuestions)

		got, err := f.svc.Advance(context.Background(), sess.ID.String(), Input{Answer: "Klingon"})
		assert.ErrorIs(t, err, models.ErrAnswerNotAnOption)
		assert.Equal(t, 0, got.CurrentQuestion)
		assert.Empty(t, got.Answers)
	})

	t.Run("last answer produces the recommendation", func(t *testing.T) {
		f := newFixture(t)
		sess := f.advanceToStep(t, models.StepRecommendation)
		assert.Equal(t, models.StepRecommendation, sess.Step)
		require.NotNil(t, sess.Recommendation)
		assert.Equal(t, 0, sess.Recommendation.SelectedIndex)
		assert.Len(t, sess.Answers, 2)
	})

	t.Run("advancing a finished session is rejected", func(t *testing.T) {
		f := newFixture(t)
		sess := f.advanceToStep(t, models.StepRecommendation)

		_, err := f.svc.Advance(context.Background(), sess.ID.String(), Input{Answer: "Italian"})
		assert.ErrorIs(t, err, models.ErrSessionComplete)
	})
}

func TestAdvanceConcurrent(t *testing.T) {
	f := newFixture(t)
	sess := f.advanceToStep(t, models.StepPreferenceQuestions)

	// "Italian" only answers the first question, so however the racing
	// advances interleave, exactly one of them can be accepted.
	var accepted int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Advance(context.Background(), sess.ID.String(), Input{Answer: "Italian"}); err == nil {
				atomic.AddInt32(&accepted, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, accepted)

	got, err := f.svc.Session(sess.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentQuestion)
	assert.Len(t, got.Answers, 1)
}

func TestRestart(t *testing.T) {
	f := newFixture(t)
	sess := f.advanceToStep(t, models.StepRecommendation)

	got, err := f.svc.Restart(context.Background(), sess.ID.String())
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, models.StepLocationInput, got.Step)
	assert.Nil(t, got.Location)
	assert.Empty(t, got.Places)
	assert.Empty(t, got.Questions)
	assert.Empty(t, got.Answers)
	assert.Nil(t, got.Recommendation)
}

func TestSessionLookup(t *testing.T) {
	f := newFixture(t)

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.svc.Session("0e7b9a9e-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, models.ErrSessionNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := f.svc.Session("not-a-uuid")
		assert.ErrorIs(t, err, models.ErrSessionNotFound)
	})

	t.Run("live session round-trips", func(t *testing.T) {
		sess := f.svc.Start(context.Background())
		got, err := f.svc.Session(sess.ID.String())
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
	})
}
