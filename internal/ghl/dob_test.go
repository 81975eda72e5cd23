package ghl

import (
	"testing"
	"time"
)

func TestNormalizeDOBAcceptedFormats(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1985-04-12", "1985-04-12"},
		{"1985-04-12T00:00:00Z", "1985-04-12"},
		{"1985-04-12T10:30:00.000Z", "1985-04-12"},
		{"04/12/1985", "1985-04-12"},
		{"4/2/1985", "1985-04-02"},
		{"Aug 18th 2022", "2022-08-18"},
		{"August 1st 1990", "1990-08-01"},
		{"Jan 2, 2001", "2001-01-02"},
		{"  1985-04-12  ", "1985-04-12"},
	}

	for _, tc := range cases {
		if got := NormalizeDOB(tc.in); got != tc.want {
			t.Errorf("NormalizeDOB(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDOBGarbageYieldsEmpty(t *testing.T) {
	for _, in := range []string{"", "not a date", "13/45/9999", "null", "   "} {
		if got := NormalizeDOB(in); got != "" {
			t.Errorf("NormalizeDOB(%q) = %q, want empty", in, got)
		}
	}
}

func TestAgeFromDOB(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	age, ok := AgeFromDOB("1985-04-12", now)
	if !ok || age != 39 {
		t.Fatalf("expected 39 (birthday not yet reached), got %d ok=%v", age, ok)
	}

	age, ok = AgeFromDOB("1985-02-28", now)
	if !ok || age != 40 {
		t.Fatalf("expected 40 (birthday passed), got %d ok=%v", age, ok)
	}

	if _, ok := AgeFromDOB("2030-01-01", now); ok {
		t.Fatal("future date of birth must not yield an age")
	}
	if _, ok := AgeFromDOB("garbage", now); ok {
		t.Fatal("unparseable date of birth must not yield an age")
	}
}
