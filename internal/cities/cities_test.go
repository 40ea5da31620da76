package cities

import "testing"

func TestDefault_KnownAndUnknownCities(t *testing.T) {
	tbl := Default()

	if tbl.Len() < 100 {
		t.Fatalf("expected at least 100 cities, got %d", tbl.Len())
	}

	meta, ok := tbl.Lookup("Tokyo")
	if !ok {
		t.Fatalf("Tokyo missing from table")
	}
	if meta.Country != "Japan" {
		t.Fatalf("Tokyo country: got %q, want Japan", meta.Country)
	}
	if got := tbl.Country("Tokyo"); got != meta.Country {
		t.Fatalf("Country(Tokyo) = %q, want %q", got, meta.Country)
	}

	if got := tbl.Country("Atlantis"); got != UnknownCountry {
		t.Fatalf("Country(Atlantis) = %q, want %q", got, UnknownCountry)
	}
}

func TestLookup_IsCaseSensitive(t *testing.T) {
	tbl := Default()
	if _, ok := tbl.Lookup("tokyo"); ok {
		t.Fatalf("lowercase lookup should not match")
	}
}

func TestNames_SortedCopy(t *testing.T) {
	tbl := Default()
	names := tbl.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted at %d: %q > %q", i, names[i-1], names[i])
		}
	}
	names[0] = "mutated"
	if tbl.Names()[0] == "mutated" {
		t.Fatalf("Names must return a copy")
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"malformed", `{`},
		{"empty name", `[{"city":"","country":"X"}]`},
		{"duplicate", `[{"city":"A","country":"X"},{"city":"A","country":"Y"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
