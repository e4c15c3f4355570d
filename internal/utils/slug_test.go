package utils

import "testing"

func TestSlugify(t *testing.T) {
	if got := Slugify("Interior & Exhibition"); got != "interior-and-exhibition" {
		t.Fatalf("unexpected slug: %q", got)
	}
	if got := Slugify("  Showroom / Retail  "); got != "showroom-retail" {
		t.Fatalf("unexpected slug: %q", got)
	}
	if got := Slugify("Événement!!"); got != "v-nement" {
		t.Fatalf("unexpected slug: %q", got)
	}
}

func TestSlugifyEmpty(t *testing.T) {
	if got := Slugify("   "); got != "" {
		t.Fatalf("expected empty slug, got %q", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName("LAND ROVER 3S (pilot).jsx"); got != "LAND_ROVER_3S__pilot_.jsx" {
		t.Fatalf("unexpected file name: %q", got)
	}
	if got := SanitizeFileName("abc-case-study.jsx"); got != "abc-case-study.jsx" {
		t.Fatalf("expected unchanged name, got %q", got)
	}
}
