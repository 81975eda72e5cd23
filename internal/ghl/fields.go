package ghl

import (
	"encoding/json"
	"strings"
)

// IntakeBlockMarker is the structural marker prefixed to every notes block the
// pipeline generates from GHL custom fields. Its presence on an appointment's
// intake notes means a GHL-sourced block was already appended, so replayed
// webhook deliveries must not append again.
const IntakeBlockMarker = "--- GHL Intake ---"

// FieldPair is a single custom field as (label, rendered value).
type FieldPair struct {
	Key   string
	Value string
}

// Keyword sets used to bucket custom fields into intake note sections.
// Matching is case-insensitive substring matching against the field label.
var (
	insuranceKeywords = []string{"insurance", "plan", "group", "member"}
	pathologyKeywords = []string{
		"pain", "symptom", "duration", "treatment", "procedure",
		"consultation", "concern",
		// embolization procedure acronyms used on intake forms
		"ufe", "pae", "gae", "hae",
	}
	medicalKeywords = []string{"medication", "allergy", "pcp", "doctor"}
)

// noteBuckets is the fixed rendering order. Contact is the catch-all bucket.
var noteBuckets = []string{"Contact", "Insurance", "Pathology", "Medical"}

// BucketForField assigns a custom field label to one of the intake note
// sections. Unmatched labels land in Contact.
func BucketForField(label string) string {
	lowered := strings.ToLower(label)
	switch {
	case containsAny(lowered, insuranceKeywords):
		return "Insurance"
	case containsAny(lowered, pathologyKeywords):
		return "Pathology"
	case containsAny(lowered, medicalKeywords):
		return "Medical"
	default:
		return "Contact"
	}
}

// FormatIntakeNotes renders custom fields as a human-readable intake block:
// one header line per non-empty bucket followed by pipe-joined "key: value"
// pairs. Bucket order is fixed so repeated runs over the same fields are
// byte-stable.
func FormatIntakeNotes(fields []FieldPair) string {
	buckets := make(map[string][]string, len(noteBuckets))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		bucket := BucketForField(key)
		buckets[bucket] = append(buckets[bucket], key+": "+value)
	}

	var sections []string
	for _, bucket := range noteBuckets {
		entries := buckets[bucket]
		if len(entries) == 0 {
			continue
		}
		sections = append(sections, bucket+":\n"+strings.Join(entries, " | "))
	}

	if len(sections) == 0 {
		return ""
	}

	return IntakeBlockMarker + "\n" + strings.Join(sections, "\n\n")
}

// Field labels recognized as holding an insurance card upload. Exact matches
// are tried first, then a looser "insurance + card/photo/image" match.
var insuranceCardFieldNames = []string{
	"insurance card",
	"insurance card photo",
	"insurance card image",
	"upload insurance card",
	"photo of insurance card",
	"insurance card front",
}

// IsInsuranceCardField reports whether a custom field label denotes an
// insurance card artifact.
func IsInsuranceCardField(label string) bool {
	lowered := strings.ToLower(strings.TrimSpace(label))
	for _, name := range insuranceCardFieldNames {
		if lowered == name {
			return true
		}
	}
	if !strings.Contains(lowered, "insurance") {
		return false
	}
	return strings.Contains(lowered, "card") ||
		strings.Contains(lowered, "photo") ||
		strings.Contains(lowered, "image")
}

// ExtractFileURL pulls the first usable URL out of a custom field value.
// Upload values arrive in three shapes: a bare URL string, a JSON-encoded
// string of {uuid: {url, ...}}, or the same shape already decoded. Malformed
// JSON is swallowed; the result is "" when no URL is found.
func ExtractFileURL(value interface{}) string {
	switch typed := value.(type) {
	case string:
		trimmed := strings.TrimSpace(typed)
		if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
			return trimmed
		}
		var decoded map[string]interface{}
		if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
			return ""
		}
		return scanUploadMap(decoded)
	case map[string]interface{}:
		return scanUploadMap(typed)
	default:
		return ""
	}
}

// FindInsuranceCardURL scans (label, value) custom field entries for an
// insurance card upload and returns its URL, or "" when none is present.
func FindInsuranceCardURL(fields map[string]interface{}) string {
	// exact label matches win over fuzzy ones
	for _, name := range insuranceCardFieldNames {
		for label, value := range fields {
			if strings.EqualFold(strings.TrimSpace(label), name) {
				if found := ExtractFileURL(value); found != "" {
					return found
				}
			}
		}
	}
	for label, value := range fields {
		if !IsInsuranceCardField(label) {
			continue
		}
		if found := ExtractFileURL(value); found != "" {
			return found
		}
	}
	return ""
}

func scanUploadMap(decoded map[string]interface{}) string {
	for _, entry := range decoded {
		item, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if rawURL, ok := item["url"].(string); ok && strings.TrimSpace(rawURL) != "" {
			return strings.TrimSpace(rawURL)
		}
	}
	return ""
}

func containsAny(value string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(value, keyword) {
			return true
		}
	}
	return false
}
