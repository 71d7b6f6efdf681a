package models

import (
	"time"

	"github.com/google/uuid"
)

// Summary is a persisted summarization artifact. A row exists only for a
// generation attempt that succeeded and validated.
type Summary struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Source    string    `json:"source" db:"source"` // "pdf" or "eli"
	Title     string    `json:"title" db:"title"`
	Summary   string    `json:"summary" db:"summary"`
	Details   string    `json:"details" db:"details"`
	Takeaways []string  `json:"takeaways" db:"takeaways"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Translation is a persisted translation artifact.
type Translation struct {
	ID             uuid.UUID `json:"id" db:"id"`
	SourceLanguage string    `json:"sourceLanguage" db:"source_language"`
	TargetLanguage string    `json:"targetLanguage" db:"target_language"`
	Original       string    `json:"original" db:"original"`
	Translated     string    `json:"translated" db:"translated"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// TextExtraction records the raw text pulled out of an uploaded document.
type TextExtraction struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Filename  string    `json:"filename" db:"filename"`
	Text      string    `json:"text" db:"text"`
	PageCount int       `json:"pageCount" db:"page_count"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TranslationSample is an immutable example pair supplied by the caller to
// steer translation style. Never persisted by the core.
type TranslationSample struct {
	Original    string `json:"original"`
	Translation string `json:"translation"`
}
