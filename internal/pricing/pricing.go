// Package pricing holds the provider price document and flattens it into rows.
package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Sentinel errors for load failures.
var (
	// ErrUnreachable indicates the document could not be fetched or read.
	ErrUnreachable = errors.New("pricing document unreachable")

	// ErrMalformed indicates the document does not match the expected shape.
	ErrMalformed = errors.New("pricing document malformed")
)

// Document is the parsed pricing.json.
// Providers keep the key order of the source JSON object.
type Document struct {
	LastUpdated time.Time
	Providers   []Provider
}

// Provider is an AI vendor and its priced models.
type Provider struct {
	ID     string
	Name   string
	Models []Model
}

// Model is a single priced model. Prices are per Unit.
type Model struct {
	Name        string  `json:"name"`
	InputPrice  float64 `json:"inputPrice"`
	OutputPrice float64 `json:"outputPrice"`
	Unit        string  `json:"unit"`
	Notes       string  `json:"notes,omitempty"`
}

// Row is one flattened (provider, model) pair.
type Row struct {
	ProviderID   string
	ProviderName string
	ModelName    string
	InputPrice   float64
	OutputPrice  float64
	Unit         string
	Notes        string
}

// HasNotes reports whether the row carries a note.
func (r Row) HasNotes() bool {
	return strings.TrimSpace(r.Notes) != ""
}

// accepted lastUpdated layouts
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse decodes a pricing document.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}

	doc := &Document{}
	if lu := root.Get("lastUpdated"); lu.Exists() {
		doc.LastUpdated = parseTime(lu.String())
	}

	providers := root.Get("providers")
	if !providers.IsObject() {
		return nil, fmt.Errorf("%w: providers object missing", ErrMalformed)
	}

	var parseErr error
	providers.ForEach(func(key, value gjson.Result) bool {
		p, err := parseProvider(key.String(), value)
		if err != nil {
			parseErr = err
			return false
		}
		doc.Providers = append(doc.Providers, p)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return doc, nil
}

func parseProvider(id string, value gjson.Result) (Provider, error) {
	if !value.IsObject() {
		return Provider{}, fmt.Errorf("%w: provider %q is not an object", ErrMalformed, id)
	}
	models := value.Get("models")
	if !models.IsArray() {
		return Provider{}, fmt.Errorf("%w: provider %q has no models array", ErrMalformed, id)
	}

	p := Provider{ID: id, Name: value.Get("name").String()}
	for i, m := range models.Array() {
		for _, field := range []string{"inputPrice", "outputPrice"} {
			if m.Get(field).Type != gjson.Number {
				return Provider{}, fmt.Errorf("%w: provider %q model %d: %s must be a number", ErrMalformed, id, i, field)
			}
		}
		var model Model
		if err := json.Unmarshal([]byte(m.Raw), &model); err != nil {
			return Provider{}, fmt.Errorf("%w: provider %q model %d: %v", ErrMalformed, id, i, err)
		}
		p.Models = append(p.Models, model)
	}
	return p, nil
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ProviderIDs returns provider IDs in document order.
func (d *Document) ProviderIDs() []string {
	ids := make([]string, 0, len(d.Providers))
	for _, p := range d.Providers {
		ids = append(ids, p.ID)
	}
	return ids
}

// ModelCount is the total number of models across providers.
func (d *Document) ModelCount() int {
	n := 0
	for _, p := range d.Providers {
		n += len(p.Models)
	}
	return n
}

// Flatten pairs every provider with each of its models, in provider-then-model order.
func Flatten(doc *Document) []Row {
	if doc == nil {
		return nil
	}
	rows := make([]Row, 0, doc.ModelCount())
	for _, p := range doc.Providers {
		for _, m := range p.Models {
			rows = append(rows, Row{
				ProviderID:   p.ID,
				ProviderName: p.Name,
				ModelName:    m.Name,
				InputPrice:   m.InputPrice,
				OutputPrice:  m.OutputPrice,
				Unit:         m.Unit,
				Notes:        m.Notes,
			})
		}
	}
	return rows
}
