package content

import (
	"strings"
	"testing"
)

func TestFAQ_Embedded(t *testing.T) {
	items, err := FAQ()
	if err != nil {
		t.Fatalf("FAQ: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	if !strings.Contains(items[2].Question, "Rota de Upcycling") {
		t.Fatalf("unexpected order: %q", items[2].Question)
	}

	items[0].Question = "changed"
	again, _ := FAQ()
	if again[0].Question == "changed" {
		t.Fatalf("FAQ must return a copy")
	}
}

func TestParseFAQ_RejectsIncomplete(t *testing.T) {
	_, err := ParseFAQ([]byte("faq:\n  - question: \"x\"\n"))
	if err == nil {
		t.Fatalf("expected error for missing answer")
	}
}
