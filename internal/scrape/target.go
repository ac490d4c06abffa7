// Package scrape captures raw visible text from provider pricing pages for manual transcription.
// No prices are parsed here.
package scrape

// Target is one provider pricing page.
type Target struct {
	ID   string
	Name string
	URL  string
}

// Provider IDs used as keys in the report.
const (
	OpenAI    = "openai"
	Anthropic = "anthropic"
	Gemini    = "gemini"
	Grok      = "grok"
)

// DefaultTargets are the four fixed provider pages.
var DefaultTargets = []Target{
	{ID: OpenAI, Name: "OpenAI", URL: "https://openai.com/api/pricing/"},
	{ID: Anthropic, Name: "Anthropic Claude", URL: "https://www.anthropic.com/pricing"},
	{ID: Gemini, Name: "Google Gemini", URL: "https://ai.google.dev/pricing"},
	{ID: Grok, Name: "xAI Grok", URL: "https://docs.x.ai/docs#pricing"},
}
