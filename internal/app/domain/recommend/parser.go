package recommend

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/FACorreiaa/go-placefinder/internal/app/models"
)

var (
	questionLineRe = regexp.MustCompile(`Question (\d+):\s*(.+)`)
	optionLineRe   = regexp.MustCompile(`^([A-D])\)\s*(.+)`)
)

// ParseQuestions extracts numbered multiple-choice questions from
// free-form model output. A question needs at least two lettered
// options to count; trailing prose between blocks is ignored.
func ParseQuestions(raw string) []models.Question {
	var questions []models.Question
	var current *models.Question

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := questionLineRe.FindStringSubmatch(line); m != nil {
			if current != nil && len(current.Options) >= 2 {
				questions = append(questions, *current)
			}
			current = &models.Question{Text: strings.TrimSpace(m[2])}
			continue
		}

		if current == nil {
			continue
		}
		if m := optionLineRe.FindStringSubmatch(line); m != nil {
			current.Options = append(current.Options, strings.TrimSpace(m[2]))
		}
	}
	if current != nil && len(current.Options) >= 2 {
		questions = append(questions, *current)
	}
	return questions
}

// CleanJSONResponse strips markdown code fences the model tends to
// wrap JSON payloads in.
func CleanJSONResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// recommendationPayload is the JSON shape the model is asked for.
type recommendationPayload struct {
	SelectedIndex  int      `json:"selected_index"`
	MainReason     string   `json:"main_reason"`
	ReviewEvidence string   `json:"review_evidence"`
	StrengthPoints []string `json:"strength_points"`
	Considerations []string `json:"considerations"`
}

// ParseRecommendation decodes the model's pick. The index is checked
// against the candidate count so a hallucinated index cannot select a
// place that was never offered.
func ParseRecommendation(raw string, candidates int) (*models.Recommendation, error) {
	var payload recommendationPayload
	if err := json.Unmarshal([]byte(CleanJSONResponse(raw)), &payload); err != nil {
		return nil, errors.Wrap(err, "decoding recommendation payload")
	}
	if payload.SelectedIndex < 0 || payload.SelectedIndex >= candidates {
		return nil, errors.Errorf("selected index %d out of range [0, %d)", payload.SelectedIndex, candidates)
	}
	return &models.Recommendation{
		SelectedIndex: payload.SelectedIndex,
		Reasoning: models.RecommendationReasoning{
			MainReason:     payload.MainReason,
			ReviewEvidence: payload.ReviewEvidence,
			StrengthPoints: payload.StrengthPoints,
			Considerations: payload.Considerations,
		},
	}, nil
}
