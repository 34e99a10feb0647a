package intent

import (
	"strings"

	"samarth/internal/domain/dataset"
)

// Classifier evaluates an ordered rule table. It holds no mutable state and is
// safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier over rules, in priority order.
// With no rules it uses DefaultRules.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// Classify lower-cases the question and returns the first matching rule's
// intent, or Fallback with no entities when nothing matches.
func (c *Classifier) Classify(question string, snap *dataset.Snapshot) Classification {
	text := strings.ToLower(question)
	for _, rule := range c.rules {
		if entities, ok := rule.Match(text, snap); ok {
			return Classification{Intent: rule.Intent, Entities: entities}
		}
	}
	return Classification{Intent: Fallback}
}
