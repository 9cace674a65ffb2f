// Package content serves the static help-centre copy.
package content

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed faq.yaml
var faqYAML []byte

type FAQItem struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type faqDocument struct {
	FAQ []FAQItem `yaml:"faq"`
}

var (
	faqOnce  sync.Once
	faqItems []FAQItem
	faqErr   error
)

// FAQ returns the embedded help-centre questions in display order.
func FAQ() ([]FAQItem, error) {
	faqOnce.Do(func() {
		faqItems, faqErr = ParseFAQ(faqYAML)
	})
	if faqErr != nil {
		return nil, faqErr
	}
	out := make([]FAQItem, len(faqItems))
	copy(out, faqItems)
	return out, nil
}

func ParseFAQ(b []byte) ([]FAQItem, error) {
	var doc faqDocument
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse faq: %w", err)
	}
	for i, item := range doc.FAQ {
		if strings.TrimSpace(item.Question) == "" || strings.TrimSpace(item.Answer) == "" {
			return nil, fmt.Errorf("parse faq: item %d is incomplete", i)
		}
	}
	return doc.FAQ, nil
}
