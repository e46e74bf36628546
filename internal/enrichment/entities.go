package enrichment

import (
	"fmt"

	prose "github.com/jdkato/prose/v2"
)

// Tagger extracts named entities (people, organizations, places) from report
// text so reviewers can triage without reading every narrative.
type Tagger struct{}

func NewTagger() *Tagger {
	return &Tagger{}
}

// Entities returns the distinct entity mentions in order of first
// appearance.
func (t *Tagger) Entities(text string) ([]string, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze report text: %w", err)
	}

	seen := make(map[string]struct{})
	var entities []string
	for _, ent := range doc.Entities() {
		if _, ok := seen[ent.Text]; ok {
			continue
		}
		seen[ent.Text] = struct{}{}
		entities = append(entities, ent.Text)
	}

	return entities, nil
}
