package models

import "testing"

func TestParseCategory_Known(t *testing.T) {
	for _, c := range Categories {
		if got := ParseCategory(string(c)); got != c {
			t.Errorf("ParseCategory(%q) = %q", c, got)
		}
	}
}

func TestParseCategory_UnknownDefaultsToMisc(t *testing.T) {
	for _, s := range []string{"", "technical", "Recipes", "SHOPPING", "misc"} {
		if got := ParseCategory(s); got != CategoryMisc {
			t.Errorf("ParseCategory(%q) = %q, want Misc", s, got)
		}
	}
}
