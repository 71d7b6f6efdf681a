package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound         = errors.New("resource not found")
	ErrArtifactNotFound = errors.New("artifact not found")

	// Generation Errors
	ErrGenerationFailed  = errors.New("AI text generation failed")
	ErrInvalidResponse   = errors.New("AI response failed validation")
	ErrAttemptsExhausted = errors.New("generation attempts exhausted")

	// ELI Errors
	ErrActNotFound = errors.New("legal act not found")

	// Extraction Errors
	ErrExtractionFailed = errors.New("text extraction failed")

	// General Request/Server Errors
	ErrTimeout        = errors.New("request took too long")
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")
)
