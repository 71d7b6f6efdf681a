package schemas

import (
	"encoding/json"
	"fmt"

	"doc-intel-server/internal/models"
)

// Decoders for every structured response shape the service expects from the
// model. Matching is structural: unknown extra fields are ignored, missing
// required fields fail. All failures wrap models.ErrInvalidResponse so the
// completion loop folds them into its retry budget.

// ParseSummary decodes and validates the summarize response shape.
func ParseSummary(data []byte) (models.SummaryResult, error) {
	var aux struct {
		Summary   *string  `json:"summary"`
		Details   *string  `json:"details"`
		Takeaways []string `json:"takeaways"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return models.SummaryResult{}, fmt.Errorf("%w: summary is not valid JSON: %v", models.ErrInvalidResponse, err)
	}
	if aux.Summary == nil || *aux.Summary == "" {
		return models.SummaryResult{}, fmt.Errorf("%w: missing 'summary' field", models.ErrInvalidResponse)
	}
	if aux.Details == nil || *aux.Details == "" {
		return models.SummaryResult{}, fmt.Errorf("%w: missing 'details' field", models.ErrInvalidResponse)
	}
	if len(aux.Takeaways) == 0 {
		return models.SummaryResult{}, fmt.Errorf("%w: missing 'takeaways' field", models.ErrInvalidResponse)
	}
	return models.SummaryResult{
		Summary:   *aux.Summary,
		Details:   *aux.Details,
		Takeaways: aux.Takeaways,
	}, nil
}

// ParseTranslation decodes and validates the single-translation response shape.
func ParseTranslation(data []byte) (models.TranslationResult, error) {
	var aux struct {
		Translation *string `json:"translation"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return models.TranslationResult{}, fmt.Errorf("%w: translation is not valid JSON: %v", models.ErrInvalidResponse, err)
	}
	if aux.Translation == nil || *aux.Translation == "" {
		return models.TranslationResult{}, fmt.Errorf("%w: missing 'translation' field", models.ErrInvalidResponse)
	}
	return models.TranslationResult{Translation: *aux.Translation}, nil
}

// TranslationListDecoder returns a decoder for a JSON array of translated
// strings that must contain exactly expectedLen items. A length mismatch is
// a validation failure like any other; the retry loop does not distinguish.
func TranslationListDecoder(expectedLen int) func(data []byte) ([]string, error) {
	return func(data []byte) ([]string, error) {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%w: translation list is not a JSON string array: %v", models.ErrInvalidResponse, err)
		}
		if len(items) != expectedLen {
			return nil, fmt.Errorf("%w: expected %d translations, got %d", models.ErrInvalidResponse, expectedLen, len(items))
		}
		for i, item := range items {
			if item == "" {
				return nil, fmt.Errorf("%w: empty translation at index %d", models.ErrInvalidResponse, i)
			}
		}
		return items, nil
	}
}

// ParseVerification decodes and validates the verify response shape.
func ParseVerification(data []byte) (models.Verification, error) {
	var aux struct {
		IsValid     *bool    `json:"isValid"`
		Issues      []string `json:"issues"`
		Score       *float64 `json:"score"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return models.Verification{}, fmt.Errorf("%w: verification is not valid JSON: %v", models.ErrInvalidResponse, err)
	}
	if aux.IsValid == nil {
		return models.Verification{}, fmt.Errorf("%w: missing 'isValid' field", models.ErrInvalidResponse)
	}
	if aux.Score == nil {
		return models.Verification{}, fmt.Errorf("%w: missing 'score' field", models.ErrInvalidResponse)
	}
	if *aux.Score < 0 || *aux.Score > 100 {
		return models.Verification{}, fmt.Errorf("%w: score %v outside 0-100", models.ErrInvalidResponse, *aux.Score)
	}
	v := models.Verification{
		IsValid:     *aux.IsValid,
		Issues:      aux.Issues,
		Score:       *aux.Score,
		Suggestions: aux.Suggestions,
	}
	if v.Issues == nil {
		v.Issues = []string{}
	}
	if v.Suggestions == nil {
		v.Suggestions = []string{}
	}
	return v, nil
}
