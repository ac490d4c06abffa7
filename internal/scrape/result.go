package scrape

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// isoMillis matches JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// MaxTextLength bounds the captured text, in characters.
const MaxTextLength = 5000

// ExtractResult is either captured text with its capture time, or an error message.
type ExtractResult struct {
	RawText   string
	Timestamp time.Time
	Error     string
}

// Failed reports whether the capture failed.
func (r ExtractResult) Failed() bool {
	return r.Error != ""
}

// Failure builds an error result.
func Failure(err error) ExtractResult {
	return ExtractResult{Error: err.Error()}
}

// MarshalJSON emits {"rawText","timestamp"} on success and {"error"} on failure.
func (r ExtractResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	return json.Marshal(struct {
		RawText   string `json:"rawText"`
		Timestamp string `json:"timestamp"`
	}{r.RawText, r.Timestamp.UTC().Format(isoMillis)})
}

// Report is the combined output of one scrape run.
type Report struct {
	LastUpdated time.Time
	OpenAI      ExtractResult
	Anthropic   ExtractResult
	Gemini      ExtractResult
	Grok        ExtractResult
}

// Set stores res under the provider id. Unknown ids are reported as false.
func (r *Report) Set(id string, res ExtractResult) bool {
	switch id {
	case OpenAI:
		r.OpenAI = res
	case Anthropic:
		r.Anthropic = res
	case Gemini:
		r.Gemini = res
	case Grok:
		r.Grok = res
	default:
		return false
	}
	return true
}

// Get returns the result for a provider id.
func (r Report) Get(id string) (ExtractResult, bool) {
	switch id {
	case OpenAI:
		return r.OpenAI, true
	case Anthropic:
		return r.Anthropic, true
	case Gemini:
		return r.Gemini, true
	case Grok:
		return r.Grok, true
	}
	return ExtractResult{}, false
}

// Failures counts providers whose capture failed.
func (r Report) Failures() int {
	n := 0
	for _, res := range []ExtractResult{r.OpenAI, r.Anthropic, r.Gemini, r.Grok} {
		if res.Failed() {
			n++
		}
	}
	return n
}

// MarshalJSON keeps the key order lastUpdated, openai, anthropic, gemini, grok.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		LastUpdated string        `json:"lastUpdated"`
		OpenAI      ExtractResult `json:"openai"`
		Anthropic   ExtractResult `json:"anthropic"`
		Gemini      ExtractResult `json:"gemini"`
		Grok        ExtractResult `json:"grok"`
	}{
		LastUpdated: r.LastUpdated.UTC().Format(isoMillis),
		OpenAI:      r.OpenAI,
		Anthropic:   r.Anthropic,
		Gemini:      r.Gemini,
		Grok:        r.Grok,
	})
}

// WriteReport writes the report as indented JSON. No validation, no retry.
func WriteReport(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
