package ghl

import (
	"strings"
	"testing"
)

func TestBucketForField(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"Insurance Provider", "Insurance"},
		{"Member ID", "Insurance"},
		{"Group Number", "Insurance"},
		{"Pain Level", "Pathology"},
		{"Reason for Consultation", "Pathology"},
		{"UFE Interest", "Pathology"},
		{"Current Medications", "Medical"},
		{"PCP Name", "Medical"},
		{"Preferred Contact Time", "Contact"},
		{"Best Email", "Contact"},
	}

	for _, tc := range cases {
		if got := BucketForField(tc.label); got != tc.want {
			t.Errorf("BucketForField(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestFormatIntakeNotesStableOrder(t *testing.T) {
	fields := []FieldPair{
		{Key: "Pain Level", Value: "7"},
		{Key: "Insurance Provider", Value: "Aetna"},
		{Key: "Best Email", Value: "a@b.com"},
		{Key: "Current Medications", Value: "None"},
	}

	first := FormatIntakeNotes(fields)
	second := FormatIntakeNotes(fields)
	if first != second {
		t.Fatal("formatting the same fields twice must be byte-stable")
	}

	if !strings.HasPrefix(first, IntakeBlockMarker) {
		t.Fatalf("intake block must start with the marker, got %q", first)
	}

	contactIdx := strings.Index(first, "Contact:")
	insuranceIdx := strings.Index(first, "Insurance:")
	pathologyIdx := strings.Index(first, "Pathology:")
	medicalIdx := strings.Index(first, "Medical:")
	if contactIdx < 0 || insuranceIdx < 0 || pathologyIdx < 0 || medicalIdx < 0 {
		t.Fatalf("expected all four buckets, got:\n%s", first)
	}
	if !(contactIdx < insuranceIdx && insuranceIdx < pathologyIdx && pathologyIdx < medicalIdx) {
		t.Fatalf("bucket order must be Contact, Insurance, Pathology, Medical:\n%s", first)
	}
}

func TestFormatIntakeNotesOmitsEmptyBuckets(t *testing.T) {
	out := FormatIntakeNotes([]FieldPair{{Key: "Pain Level", Value: "3"}})
	if strings.Contains(out, "Insurance:") || strings.Contains(out, "Medical:") {
		t.Fatalf("empty buckets must be omitted:\n%s", out)
	}
	if !strings.Contains(out, "Pathology:\nPain Level: 3") {
		t.Fatalf("expected pathology section, got:\n%s", out)
	}
}

func TestFormatIntakeNotesEmptyInput(t *testing.T) {
	if out := FormatIntakeNotes(nil); out != "" {
		t.Fatalf("no fields must render empty, got %q", out)
	}
	if out := FormatIntakeNotes([]FieldPair{{Key: "X", Value: "  "}}); out != "" {
		t.Fatalf("blank values must render empty, got %q", out)
	}
}

func TestExtractFileURLShapes(t *testing.T) {
	if got := ExtractFileURL("https://cdn.example.com/card.jpg"); got != "https://cdn.example.com/card.jpg" {
		t.Fatalf("bare URL: got %q", got)
	}

	jsonString := `{"abc-123":{"url":"https://x","meta":"ignored"}}`
	if got := ExtractFileURL(jsonString); got != "https://x" {
		t.Fatalf("JSON string: got %q", got)
	}

	parsed := map[string]interface{}{
		"abc-123": map[string]interface{}{"url": "https://y"},
	}
	if got := ExtractFileURL(parsed); got != "https://y" {
		t.Fatalf("parsed object: got %q", got)
	}

	if got := ExtractFileURL("{not valid json"); got != "" {
		t.Fatalf("malformed JSON must yield empty, got %q", got)
	}
	if got := ExtractFileURL(map[string]interface{}{"a": map[string]interface{}{"name": "no url"}}); got != "" {
		t.Fatalf("value without URL must yield empty, got %q", got)
	}
	if got := ExtractFileURL(42); got != "" {
		t.Fatalf("non-string value must yield empty, got %q", got)
	}
}

func TestFindInsuranceCardURL(t *testing.T) {
	fields := map[string]interface{}{
		"Reason for Visit":   "leg pain",
		"Insurance Card":     `{"f1":{"url":"https://cards/front.jpg"}}`,
		"Insurance Provider": "Cigna",
	}
	if got := FindInsuranceCardURL(fields); got != "https://cards/front.jpg" {
		t.Fatalf("exact label match: got %q", got)
	}

	fuzzy := map[string]interface{}{
		"Your Insurance Card Upload Photo": "https://cards/fuzzy.jpg",
	}
	if got := FindInsuranceCardURL(fuzzy); got != "https://cards/fuzzy.jpg" {
		t.Fatalf("fuzzy label match: got %q", got)
	}

	none := map[string]interface{}{
		"Insurance Provider": "Cigna",
		"Pain Level":         "4",
	}
	if got := FindInsuranceCardURL(none); got != "" {
		t.Fatalf("no card field must yield empty, got %q", got)
	}
}

func TestIsInsuranceCardField(t *testing.T) {
	for _, label := range []string{"Insurance Card", "insurance card photo", "Insurance Card Image Upload"} {
		if !IsInsuranceCardField(label) {
			t.Errorf("expected %q to be recognized", label)
		}
	}
	for _, label := range []string{"Insurance Provider", "Card Number", "Photo ID"} {
		if IsInsuranceCardField(label) {
			t.Errorf("expected %q to be rejected", label)
		}
	}
}
