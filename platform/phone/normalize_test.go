package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"(212) 555-0147", "+12125550147"},
		{"212-555-0147", "+12125550147"},
		{"+1 212 555 0147", "+12125550147"},
		{"  +12125550147  ", "+12125550147"},
	}
	for _, tc := range cases {
		if got := NormalizeE164(tc.in); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeE164InvalidInputPassesThrough(t *testing.T) {
	for _, in := range []string{"not a number", "123"} {
		if got := NormalizeE164(in); got != in {
			t.Errorf("NormalizeE164(%q) = %q, want input unchanged", in, got)
		}
	}
	if got := NormalizeE164("   "); got != "" {
		t.Errorf("whitespace input must trim to empty, got %q", got)
	}
}
