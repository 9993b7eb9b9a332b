package service

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// MarkupStripper removes every tag from posted text. Entities escaped by the
// policy are decoded back so the stored text stays plain.
type MarkupStripper struct {
	policy *bluemonday.Policy
}

func NewMarkupStripper() *MarkupStripper {
	return &MarkupStripper{policy: bluemonday.StrictPolicy()}
}

func (m *MarkupStripper) Strip(text string) string {
	if m == nil {
		return text
	}
	return html.UnescapeString(m.policy.Sanitize(text))
}
