package ai

import (
	"strings"
	"testing"
)

func TestParseTermsPlainArray(t *testing.T) {
	terms, err := parseTerms(`["Финансы", "крипта", "news"]`)
	if err != nil {
		t.Fatalf("parseTerms() error: %v", err)
	}
	want := []string{"финансы", "крипта", "news"}
	if len(terms) != len(want) {
		t.Fatalf("terms = %v, want %v", terms, want)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("terms[%d] = %q, want %q", i, terms[i], want[i])
		}
	}
}

func TestParseTermsToleratesSurroundingProse(t *testing.T) {
	terms, err := parseTerms("Here you go:\n[\"tech\", \"gadgets\"]\nHope that helps!")
	if err != nil {
		t.Fatalf("parseTerms() error: %v", err)
	}
	if len(terms) != 2 || terms[0] != "tech" || terms[1] != "gadgets" {
		t.Errorf("terms = %v, want [tech gadgets]", terms)
	}
}

func TestParseTermsDeduplicatesAndCaps(t *testing.T) {
	var items []string
	for i := 0; i < 15; i++ {
		items = append(items, `"term`+string(rune('a'+i))+`"`)
	}
	items = append(items, `"terma"`)
	terms, err := parseTerms("[" + strings.Join(items, ",") + "]")
	if err != nil {
		t.Fatalf("parseTerms() error: %v", err)
	}
	if len(terms) != maxExpandedTerms {
		t.Errorf("len(terms) = %d, want %d", len(terms), maxExpandedTerms)
	}
}

func TestParseTermsRejectsNonArray(t *testing.T) {
	if _, err := parseTerms("sorry, I cannot help"); err == nil {
		t.Error("parseTerms() = nil error for prose response, want error")
	}
}
