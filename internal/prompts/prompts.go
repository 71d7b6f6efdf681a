// Package prompts assembles the system/user prompt pairs for every
// generation operation. All builders are pure: identical inputs produce
// byte-identical prompts.
package prompts

import (
	"fmt"
	"regexp"
	"strings"

	"doc-intel-server/internal/models"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// Normalize collapses runs of whitespace into single spaces and trims the
// result. Raw template interpolation otherwise leaves irregular indentation
// that wastes tokens and can alter model behavior.
func Normalize(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

const summarizeSystem = `
	You are a document summarization assistant. Respond with a single JSON object
	containing exactly these fields:
	"summary": a concise summary of the document, 20 to 40 words;
	"details": an extended description of the document, 60 to 100 words;
	"takeaways": an array of 1 to 4 short bullet items with the key points.
	Formatting rules: write all dates in ISO 8601 format (YYYY-MM-DD); mirror the
	language of the input document; keep a conversational tone. Output only the
	JSON object, with no surrounding text or markdown.
`

// BuildSummarize returns the prompt pair for the summarize operation. The
// user content is the raw text, verbatim.
func BuildSummarize(text string) (system, user string) {
	return Normalize(summarizeSystem), text
}

func translateSystem(sourceLang, targetLang, context string) string {
	s := fmt.Sprintf(`
		You are a professional translator from %s to %s. Translate the text you are
		given accurately, preserving meaning, tone and register. Respond with a single
		JSON object of the form {"translation": "..."} and nothing else.
	`, sourceLang, targetLang)
	if context != "" {
		s += fmt.Sprintf(` Additional context for this translation: %s.`, context)
	}
	return Normalize(s)
}

// BuildTranslate returns the prompt pair for a first-shot translation.
func BuildTranslate(req models.TranslateRequest) (system, user string) {
	system = translateSystem(req.SourceLanguage, req.TargetLanguage, req.Context)
	user = Normalize(fmt.Sprintf(
		`Translate the following text from %s to %s. Text: %s`,
		req.SourceLanguage, req.TargetLanguage, req.Original,
	))
	return system, user
}

// styleDirectives steer consecutive alternatives apart from each other. The
// list is cycled by alternative index; past the end a generic uniqueness
// directive applies.
var styleDirectives = []string{
	"focus on brevity",
	"focus on formality",
	"focus on a casual, colloquial register",
	"focus on staying as literal as possible",
	"focus on natural, idiomatic flow",
	"focus on expressive, vivid phrasing",
}

func directiveFor(index int) string {
	if index < 0 || index >= len(styleDirectives) {
		return "provide a unique variation"
	}
	return styleDirectives[index]
}

// BuildAlternative returns the prompt pair for one regeneration alternative.
// previous must hold every translation produced so far, including the
// original/current one; the anti-repetition instruction depends on it.
// Optional few-shot samples are prepended as in-context examples.
func BuildAlternative(req models.TranslateRequest, previous []string, index int) (system, user string) {
	system = translateSystem(req.SourceLanguage, req.TargetLanguage, req.Context)

	var sb strings.Builder
	if len(req.Samples) > 0 {
		sb.WriteString("Here are examples of the expected translation style. ")
		for i, s := range req.Samples {
			sb.WriteString(fmt.Sprintf("Example %d: original: %q, translation: %q. ", i+1, s.Original, s.Translation))
		}
	}
	sb.WriteString(fmt.Sprintf(
		"Translate the following text from %s to %s. Text: %s. ",
		req.SourceLanguage, req.TargetLanguage, req.Original,
	))
	if len(previous) > 0 {
		sb.WriteString("The following translations of this text have already been produced: ")
		for i, p := range previous {
			sb.WriteString(fmt.Sprintf("%d. %q ", i+1, p))
		}
		sb.WriteString("Produce a materially different alternative translation; do not repeat or trivially rephrase any of the above. ")
	}
	sb.WriteString(fmt.Sprintf("For this alternative, %s.", directiveFor(index)))

	return system, Normalize(sb.String())
}

const verifySystem = `
	You are a translation quality evaluator. Score the candidate translation on a
	0-100 scale: 90-100 excellent, 70-89 good, 50-69 acceptable, 0-49 poor.
	Evaluate on three axes: accuracy of meaning, fluency in the target language,
	and fit to the provided context. Respond with a single JSON object with exactly
	these fields: "isValid" (boolean, true if and only if the score is at least 50),
	"issues" (array of strings describing problems found), "score" (number), and
	"suggestions" (array of strings with concrete improvements). Output only the
	JSON object.
`

// BuildVerify returns the prompt pair for the verify operation.
func BuildVerify(req models.TranslateRequest) (system, user string) {
	system = Normalize(verifySystem)
	user = Normalize(fmt.Sprintf(`
		Source language: %s. Target language: %s.
		Original text: %s
		Candidate translation: %s
		Evaluate the candidate translation.
	`, req.SourceLanguage, req.TargetLanguage, req.Original, req.Translation))
	if req.Context != "" {
		user = Normalize(user + fmt.Sprintf(" Context: %s.", req.Context))
	}
	return system, user
}

// BuildBatchTranslate returns the prompt pair for one batch chunk. The model
// must answer with a JSON array of translated strings of exactly the same
// length and order as the input chunk.
func BuildBatchTranslate(sourceLang, targetLang, context string, items []string) (system, user string) {
	s := fmt.Sprintf(`
		You are a professional translator from %s to %s. Translate every text you are
		given accurately, preserving meaning, tone and register. Respond with a single
		JSON array of translated strings and nothing else.
	`, sourceLang, targetLang)
	if context != "" {
		s += fmt.Sprintf(` Additional context for these translations: %s.`, context)
	}
	system = Normalize(s)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"Translate each of the following %d texts from %s to %s. ",
		len(items), sourceLang, targetLang,
	))
	sb.WriteString("Respond with a JSON array of translated strings, in the same order and of exactly the same length as the input. Input texts: ")
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("%d. %q ", i+1, item))
	}
	return system, Normalize(sb.String())
}
