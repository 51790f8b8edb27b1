// Package recommend turns a candidate place list into preference
// questions and, once answered, a single reasoned pick. A generative
// model does the heavy lifting when an API key is configured; a
// deterministic fallback keeps the wizard usable without one.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	generativeAI "github.com/FACorreiaa/go-genai-sdk/lib"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-placefinder/internal/app/domain/reviews"
	"github.com/FACorreiaa/go-placefinder/internal/app/domain/taxonomy"
	"github.com/FACorreiaa/go-placefinder/internal/app/models"
	"github.com/FACorreiaa/go-placefinder/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-placefinder/internal/pkg/config"
)

// textGenerator is the model surface the recommender needs, satisfied
// by generativeAI.LLMChatClient.
type textGenerator interface {
	GenerateResponse(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Recommender builds preference questions from a candidate list and
// picks one place from the answers.
type Recommender struct {
	client     textGenerator
	classifier *taxonomy.Classifier
	cfg        config.GeminiConfig
	logger     *zap.Logger
}

// NewRecommender wires the generative client when an API key is
// present. Without one the recommender falls back to canned questions
// and a rating-based pick.
func NewRecommender(ctx context.Context, cfg config.GeminiConfig, classifier *taxonomy.Classifier, logger *zap.Logger) (*Recommender, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recommender{
		classifier: classifier,
		cfg:        cfg,
		logger:     logger,
	}
	if cfg.APIKey == "" {
		logger.Warn("No generative API key configured, using fallback recommendations")
		return r, nil
	}

	client, err := generativeAI.NewLLMChatClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, errors.Wrap(err, "initializing generative client")
	}
	r.client = client
	return r, nil
}

// candidateSummary is the per-place digest fed to the model.
type candidateSummary struct {
	Index      int      `json:"index"`
	Name       string   `json:"name"`
	Cuisine    string   `json:"cuisine"`
	Rating     *float64 `json:"rating,omitempty"`
	Reviews    int      `json:"review_count"`
	PriceLevel *int     `json:"price_level,omitempty"`
	Address    string   `json:"address"`
	TopReviews []string `json:"top_reviews,omitempty"`
}

func (r *Recommender) summarize(places []models.PlaceDetail) []candidateSummary {
	out := make([]candidateSummary, 0, len(places))
	for i, p := range places {
		cuisine := taxonomy.UnknownLabel
		if r.classifier != nil {
			cuisine = r.classifier.Classify(p.Types, reviews.Texts(p.Reviews))
		}
		top := reviews.TopReviews(p.Reviews, 2)
		texts := make([]string, 0, len(top))
		for _, rev := range top {
			texts = append(texts, fmt.Sprintf("%d/5: %s", rev.Rating, truncate(rev.Text, 300)))
		}
		out = append(out, candidateSummary{
			Index:      i,
			Name:       p.Name,
			Cuisine:    cuisine,
			Rating:     p.Rating,
			Reviews:    p.RatingCount,
			PriceLevel: p.PriceLevel,
			Address:    p.FormattedAddress,
			TopReviews: texts,
		})
	}
	return out
}

// GenerateQuestions asks the model for count multiple-choice
// questions tailored to the candidate list. Too few parsed questions
// triggers the fallback set so the wizard never stalls here.
func (r *Recommender) GenerateQuestions(ctx context.Context, places []models.PlaceDetail, count int) ([]models.Question, error) {
	ctx, span := otel.Tracer("Recommender").Start(ctx, "GenerateQuestions")
	defer span.End()
	span.SetAttributes(
		attribute.Int("places.count", len(places)),
		attribute.Int("questions.requested", count),
	)

	if r.client == nil {
		return fallbackQuestions(count), nil
	}

	payload, err := json.Marshal(r.summarize(places))
	if err != nil {
		return nil, errors.Wrap(err, "encoding candidate summaries")
	}

	prompt := fmt.Sprintf(`You are helping someone choose a restaurant. Here are the candidates as JSON:

%s

Write exactly %d multiple-choice questions that uncover the person's preferences
(cuisine, atmosphere, price, occasion). Format each as:

Question N: <text>
A) <option>
B) <option>
C) <option>
D) <option>

Return only the questions, no introduction.`, payload, count)

	resp, err := r.client.GenerateResponse(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	})
	metrics.Get().RecommenderRequestsTotal.Add(ctx, 1)
	if err != nil {
		span.RecordError(err)
		r.logger.Warn("Question generation failed, using fallback set", zap.Error(err))
		return fallbackQuestions(count), nil
	}

	questions := ParseQuestions(responseText(resp))
	if len(questions) < count {
		r.logger.Warn("Model returned too few usable questions",
			zap.Int("parsed", len(questions)),
			zap.Int("requested", count))
		return fallbackQuestions(count), nil
	}
	return questions[:count], nil
}

// Recommend picks one candidate from the answered questions. The
// model's index is bounds-checked; any failure degrades to the
// deterministic rating-based pick instead of erroring the session.
func (r *Recommender) Recommend(ctx context.Context, places []models.PlaceDetail, answers []models.Answer) (*models.Recommendation, error) {
	ctx, span := otel.Tracer("Recommender").Start(ctx, "Recommend")
	defer span.End()
	span.SetAttributes(attribute.Int("places.count", len(places)))

	if len(places) == 0 {
		return nil, models.ErrNoPlacesFound
	}
	if r.client == nil {
		return fallbackPick(places), nil
	}

	candidates, err := json.Marshal(r.summarize(places))
	if err != nil {
		return nil, errors.Wrap(err, "encoding candidate summaries")
	}
	answered, err := json.Marshal(answers)
	if err != nil {
		return nil, errors.Wrap(err, "encoding answers")
	}

	prompt := fmt.Sprintf(`You are helping someone choose a restaurant. Candidates as JSON:

%s

Their answers to preference questions:

%s

Pick the single best candidate. Respond with ONLY this JSON object, no other text:
{
  "selected_index": <index from the candidate list>,
  "main_reason": "<one sentence>",
  "review_evidence": "<a quote or paraphrase from the reviews>",
  "strength_points": ["<point>", "<point>"],
  "considerations": ["<caveat>"]
}`, candidates, answered)

	resp, err := r.client.GenerateResponse(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.3),
	})
	metrics.Get().RecommenderRequestsTotal.Add(ctx, 1)
	if err != nil {
		span.RecordError(err)
		r.logger.Warn("Recommendation call failed, using rating fallback", zap.Error(err))
		return fallbackPick(places), nil
	}

	rec, err := ParseRecommendation(responseText(resp), len(places))
	if err != nil {
		span.RecordError(err)
		r.logger.Warn("Recommendation payload unusable, using rating fallback", zap.Error(err))
		return fallbackPick(places), nil
	}
	return rec, nil
}

// responseText flattens the first candidate's text parts.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// truncate caps s at n bytes without splitting a multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// fallbackQuestions covers the wizard when no model is reachable.
func fallbackQuestions(count int) []models.Question {
	base := []models.Question{
		{Text: "What kind of food are you in the mood for?", Options: []string{"Something familiar and comforting", "Something new or adventurous", "Light and healthy", "Rich and indulgent"}},
		{Text: "What atmosphere do you prefer tonight?", Options: []string{"Quiet and intimate", "Lively and social", "Casual and relaxed", "Upscale and refined"}},
		{Text: "How much do you want to spend per person?", Options: []string{"As little as possible", "A moderate amount", "Happy to pay for quality", "Price is no concern"}},
		{Text: "Who are you eating with?", Options: []string{"Just myself", "A date or partner", "Friends", "Family with kids"}},
		{Text: "How important are ratings and reviews to you?", Options: []string{"Only the best rated", "Good ratings matter", "A hidden gem is fine", "I don't mind either way"}},
		{Text: "How hungry are you right now?", Options: []string{"Starving, big portions please", "Normal appetite", "Just a light bite", "Mostly here for drinks"}},
		{Text: "Does the place need to be easy to get to?", Options: []string{"Walking distance only", "A short drive is fine", "Willing to travel for good food", "Doesn't matter"}},
	}
	if count > len(base) {
		count = len(base)
	}
	return base[:count]
}

// fallbackPick chooses the highest-rated candidate, breaking ties by
// review count, then list order.
func fallbackPick(places []models.PlaceDetail) *models.Recommendation {
	best := 0
	for i := 1; i < len(places); i++ {
		if ratingOf(places[i]) > ratingOf(places[best]) ||
			(ratingOf(places[i]) == ratingOf(places[best]) && places[i].RatingCount > places[best].RatingCount) {
			best = i
		}
	}
	rec := &models.Recommendation{
		SelectedIndex: best,
		Reasoning: models.RecommendationReasoning{
			MainReason: fmt.Sprintf("%s has the strongest rating among the candidates.", places[best].Name),
		},
	}
	if r, ok := reviews.BestReview(places[best].Reviews); ok {
		rec.Reasoning.ReviewEvidence = truncate(r.Text, 300)
	}
	return rec
}

func ratingOf(p models.PlaceDetail) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}
