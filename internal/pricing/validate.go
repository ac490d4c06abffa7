package pricing

import (
	"fmt"
	"strings"
)

// Issue is a problem found in a pricing document.
type Issue struct {
	ProviderID string
	Model      string
	Message    string
}

func (i Issue) String() string {
	if i.ProviderID == "" {
		return i.Message
	}
	if i.Model == "" {
		return fmt.Sprintf("%s: %s", i.ProviderID, i.Message)
	}
	return fmt.Sprintf("%s/%s: %s", i.ProviderID, i.Model, i.Message)
}

// Validate reports content problems Parse does not reject.
func Validate(doc *Document) []Issue {
	var issues []Issue
	if len(doc.Providers) == 0 {
		issues = append(issues, Issue{Message: "no providers"})
	}
	if doc.LastUpdated.IsZero() {
		issues = append(issues, Issue{Message: "lastUpdated missing or unparseable"})
	}

	for _, p := range doc.Providers {
		if strings.TrimSpace(p.Name) == "" {
			issues = append(issues, Issue{ProviderID: p.ID, Message: "provider name is empty"})
		}
		if len(p.Models) == 0 {
			issues = append(issues, Issue{ProviderID: p.ID, Message: "provider has no models"})
		}

		seen := make(map[string]bool, len(p.Models))
		for _, m := range p.Models {
			switch {
			case strings.TrimSpace(m.Name) == "":
				issues = append(issues, Issue{ProviderID: p.ID, Message: "model name is empty"})
				continue
			case seen[m.Name]:
				issues = append(issues, Issue{ProviderID: p.ID, Model: m.Name, Message: "duplicate model name"})
			}
			seen[m.Name] = true

			if m.InputPrice < 0 || m.OutputPrice < 0 {
				issues = append(issues, Issue{ProviderID: p.ID, Model: m.Name, Message: "negative price"})
			}
			if strings.TrimSpace(m.Unit) == "" {
				issues = append(issues, Issue{ProviderID: p.ID, Model: m.Name, Message: "unit is empty"})
			}
		}
	}
	return issues
}
