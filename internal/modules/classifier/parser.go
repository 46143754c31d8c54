package classifier

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/geoexplorer/core/internal/models"
)

const fallbackContextRadius = 100

// Judgment is the structured outcome of classifying a model response.
type Judgment struct {
	BusinessMentioned bool
	MentionContext    string
	Sentiment         string
	ConfidenceScore   float64
	Reasoning         string
}

// ParseJudgment extracts the judgment JSON from classifier output. Models
// often wrap the JSON in prose; the slice from the first "{" to the last "}"
// is tried before the text as a whole.
func ParseJudgment(raw string) (*Judgment, error) {
	candidate := raw
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			candidate = raw[start : end+1]
		}
	}

	var parsed struct {
		BusinessMentioned *bool           `json:"business_mentioned"`
		MentionContext    *string         `json:"mention_context"`
		Sentiment         *string         `json:"sentiment"`
		ConfidenceScore   json.RawMessage `json:"confidence_score"`
		Reasoning         *string         `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		if candidate == raw {
			return nil, err
		}
		if err2 := json.Unmarshal([]byte(raw), &parsed); err2 != nil {
			return nil, err
		}
	}

	j := &Judgment{
		Sentiment:       models.SentimentNeutral,
		ConfidenceScore: 0.5,
	}
	if parsed.BusinessMentioned != nil {
		j.BusinessMentioned = *parsed.BusinessMentioned
	}
	if parsed.MentionContext != nil {
		j.MentionContext = *parsed.MentionContext
	}
	if parsed.Sentiment != nil && strings.TrimSpace(*parsed.Sentiment) != "" {
		j.Sentiment = strings.ToLower(strings.TrimSpace(*parsed.Sentiment))
	}
	if parsed.Reasoning != nil {
		j.Reasoning = *parsed.Reasoning
	}
	if len(parsed.ConfidenceScore) > 0 {
		score, err := coerceConfidence(parsed.ConfidenceScore)
		if err != nil {
			return nil, err
		}
		j.ConfidenceScore = score
	}
	return j, nil
}

// coerceConfidence accepts either a JSON number or a numeric string.
func coerceConfidence(raw json.RawMessage) (float64, error) {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strconv.ParseFloat(strings.TrimSpace(str), 64)
	}
	return 0, errors.New("confidence_score is not a number")
}

// FallbackJudgment produces a deterministic judgment when the classifier is
// unavailable or returned garbage. A case-insensitive substring match decides
// the mention; sentiment stays neutral at 0.5 confidence.
func FallbackJudgment(response, businessName string) *Judgment {
	j := &Judgment{
		Sentiment:       models.SentimentNeutral,
		ConfidenceScore: 0.5,
		Reasoning:       "Fallback analysis used due to AI analysis failure",
	}

	name := strings.TrimSpace(businessName)
	if name == "" {
		return j
	}

	idx := strings.Index(strings.ToLower(response), strings.ToLower(name))
	if idx < 0 {
		return j
	}

	j.BusinessMentioned = true
	start := idx - fallbackContextRadius
	if start < 0 {
		start = 0
	}
	end := idx + len(name) + fallbackContextRadius
	if end > len(response) {
		end = len(response)
	}
	j.MentionContext = strings.TrimSpace(response[start:end])
	return j
}
