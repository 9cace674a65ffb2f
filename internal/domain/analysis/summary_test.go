package analysis

import (
	"errors"
	"testing"
	"time"
)

func TestCardTierOf(t *testing.T) {
	cases := []struct {
		risk float64
		want CardTier
	}{
		{0.0, CardTierLow},
		{0.4, CardTierLow},
		{0.41, CardTierMedium},
		{0.7, CardTierMedium},
		{0.71, CardTierHigh},
		{1.0, CardTierHigh},
	}
	for _, c := range cases {
		if got := CardTierOf(c.risk); got != c.want {
			t.Fatalf("CardTierOf(%v): expected %s, got %s", c.risk, c.want, got)
		}
	}
}

func TestRiskPercent(t *testing.T) {
	if got := RiskPercent(0.666); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
	if got := RiskPercent(0); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestSummaryOf(t *testing.T) {
	s := SummaryOf(nil)
	if s.Score != "0.0/10" || s.StableCount != 0 || s.AtRiskCount != 0 {
		t.Fatalf("unexpected empty summary: %+v", s)
	}

	s = SummaryOf(&Resume{LongevityScore: 8.5, StableCount: 15, AtRiskCount: 4})
	if s.Score != "8.5/10" {
		t.Fatalf("expected 8.5/10, got %s", s.Score)
	}
	if s.StableCount != 15 || s.AtRiskCount != 4 {
		t.Fatalf("unexpected counts: %+v", s)
	}
}

func TestSortNewestFirstAndSplit(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	list := []Resume{
		{ID: 1, CreatedAt: base},
		{ID: 2, CreatedAt: base.Add(48 * time.Hour)},
		{ID: 3, CreatedAt: base.Add(24 * time.Hour)},
	}
	SortNewestFirst(list)

	cur, hist := SplitCurrent(list)
	if cur == nil || cur.ID != 2 {
		t.Fatalf("expected current id 2, got %+v", cur)
	}
	if len(hist) != 2 || hist[0].ID != 3 || hist[1].ID != 1 {
		t.Fatalf("unexpected history order: %+v", hist)
	}

	cur, hist = SplitCurrent(nil)
	if cur != nil || hist == nil || len(hist) != 0 {
		t.Fatalf("expected nil current and empty history")
	}
}

func TestFirstName(t *testing.T) {
	if got := FirstName("  Ana Maria Souza ", "Candidato"); got != "Ana" {
		t.Fatalf("expected Ana, got %q", got)
	}
	if got := FirstName("", "Candidato"); got != "Candidato" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestValidateAnswers(t *testing.T) {
	if err := ValidateAnswers(DefaultAnswers()); err != nil {
		t.Fatalf("default answers rejected: %v", err)
	}
	if err := ValidateAnswers([]int{1, 2}); !errors.Is(err, ErrInvalidAnswers) {
		t.Fatalf("expected ErrInvalidAnswers for short sheet, got %v", err)
	}
	bad := DefaultAnswers()
	bad[4] = 6
	if err := ValidateAnswers(bad); !errors.Is(err, ErrInvalidAnswers) {
		t.Fatalf("expected ErrInvalidAnswers for out of range, got %v", err)
	}
}

func TestNewSignup_Defaults(t *testing.T) {
	s, err := NewSignup(Signup{Name: " Ana ", Email: " Ana@Example.com ", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", s.Email)
	}
	if s.BirthDate != DefaultBirthDate {
		t.Fatalf("expected default birth date, got %q", s.BirthDate)
	}
	if s.Gender != "M" || s.Ethnicity != "B" {
		t.Fatalf("unexpected default codes: %s %s", s.Gender, s.Ethnicity)
	}
	if len(s.Answers) != len(Questions) {
		t.Fatalf("expected default answers")
	}
}

func TestNewSignup_Rejects(t *testing.T) {
	cases := []Signup{
		{Email: "a@b.c", Password: "x"},
		{Name: "A", Email: "nope", Password: "x"},
		{Name: "A", Email: "a@b.c"},
		{Name: "A", Email: "a@b.c", Password: "x", BirthDate: "01/02/2000"},
		{Name: "A", Email: "a@b.c", Password: "x", Gender: "Z"},
		{Name: "A", Email: "a@b.c", Password: "x", Ethnicity: "ZZ"},
	}
	for i, c := range cases {
		if _, err := NewSignup(c); !errors.Is(err, ErrInvalidSignup) {
			t.Fatalf("case %d: expected ErrInvalidSignup, got %v", i, err)
		}
	}
}
