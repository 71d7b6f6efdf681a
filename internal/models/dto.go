package models

// TranslateRequest is the shared payload of the translate, regenerate and
// verify endpoints. Verify additionally requires Translation.
type TranslateRequest struct {
	SourceLanguage    string              `json:"sourceLanguage" binding:"required"`
	TargetLanguage    string              `json:"targetLanguage" binding:"required"`
	Original          string              `json:"original" binding:"required"`
	Translation       string              `json:"translation"`
	Samples           []TranslationSample `json:"samples"`
	Context           string              `json:"context"`
	AlternativesCount int                 `json:"alternativesCount"`
}

// TranslationResult is one generated translation candidate.
type TranslationResult struct {
	Translation string `json:"translation"`
}

// SummaryResult is the validated output of the summarize prompt.
type SummaryResult struct {
	Summary   string   `json:"summary"`
	Details   string   `json:"details"`
	Takeaways []string `json:"takeaways"`
}

// Verification is the validated output of the verify prompt.
type Verification struct {
	IsValid     bool     `json:"isValid"`
	Issues      []string `json:"issues"`
	Score       float64  `json:"score"`
	Suggestions []string `json:"suggestions"`
}

// ErrorResponse is the stable JSON error body returned by every handler.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
