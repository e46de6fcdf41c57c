package player

import "testing"

func TestNormalizePosition(t *testing.T) {
	cases := []struct {
		raw  string
		want Position
		ok   bool
	}{
		{"top", PositionTop, true},
		{"TOP", PositionTop, true},
		{"toplane", PositionTop, true},
		{"t", PositionTop, true},
		{"jungle", PositionJungle, true},
		{"jg", PositionJungle, true},
		{"jung", PositionJungle, true},
		{"mid", PositionMid, true},
		{"middle", PositionMid, true},
		{"m", PositionMid, true},
		{"adc", PositionBottom, true},
		{"bot", PositionBottom, true},
		{"AD Carry", PositionBottom, true},
		{"bottom", PositionBottom, true},
		{"sup", PositionSupport, true},
		{"support", PositionSupport, true},
		{"  support  ", PositionSupport, true},
		{"", "", false},
		{"goalkeeper", "", false},
		{"feed", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizePosition(tc.raw)
		if ok != tc.ok {
			t.Fatalf("NormalizePosition(%q) ok=%v, want %v", tc.raw, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("NormalizePosition(%q)=%s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestEquivalentPositions(t *testing.T) {
	if !EquivalentPositions("adc", "bottom") {
		t.Fatal("adc and bottom should be equivalent")
	}
	if !EquivalentPositions("JG", "jungle") {
		t.Fatal("jg and jungle should be equivalent")
	}
	if EquivalentPositions("top", "mid") {
		t.Fatal("top and mid must not be equivalent")
	}
	if EquivalentPositions("", "top") {
		t.Fatal("empty position must not match anything")
	}
}

func TestCatalogPlayerValidate(t *testing.T) {
	valid := CatalogPlayer{ID: "p-1", Team: "FNC", Position: PositionMid, Price: 7}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid player, got %v", err)
	}

	invalid := []CatalogPlayer{
		{Team: "FNC", Position: PositionMid, Price: 7},
		{ID: "p-1", Position: PositionMid, Price: 7},
		{ID: "p-1", Team: "FNC", Position: "coach", Price: 7},
		{ID: "p-1", Team: "FNC", Position: PositionMid, Price: 0},
	}
	for i, p := range invalid {
		if err := p.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
