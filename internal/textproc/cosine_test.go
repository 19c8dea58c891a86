package textproc

import (
	"math"
	"testing"
)

func TestCosine_Identity(t *testing.T) {
	tokens := Normalize("the quick brown fox")
	if got := Cosine(tokens, tokens); got != 1.0 {
		t.Errorf("expected cosine 1.0 against itself, got %v", got)
	}

	repeated := Normalize("a a a b b c d d d d")
	if got := Cosine(repeated, repeated); got != 1.0 {
		t.Errorf("expected cosine 1.0 with repeated terms, got %v", got)
	}
}

func TestCosine_Empty(t *testing.T) {
	tokens := Normalize("some words here")
	tests := []struct {
		name string
		a, b []string
	}{
		{"left empty", nil, tokens},
		{"right empty", tokens, nil},
		{"both empty", nil, nil},
		{"empty non-nil", []string{}, tokens},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Cosine(tc.a, tc.b); got != 0 {
				t.Errorf("expected 0, got %v", got)
			}
		})
	}
}

func TestCosine_SymmetricAndBounded(t *testing.T) {
	texts := []string{
		"the quick brown fox",
		"quick brown fox jumps",
		"lorem ipsum dolor sit amet",
		"the the the fox",
		"fox",
		"",
	}
	for _, a := range texts {
		for _, b := range texts {
			ta, tb := Normalize(a), Normalize(b)
			ab := Cosine(ta, tb)
			ba := Cosine(tb, ta)
			if math.Abs(ab-ba) > 1e-12 {
				t.Errorf("asymmetric for %q/%q: %v vs %v", a, b, ab, ba)
			}
			if ab < 0 || ab > 1 {
				t.Errorf("out of range for %q/%q: %v", a, b, ab)
			}
		}
	}
}

func TestCosine_KnownValue(t *testing.T) {
	// a = {the:1, quick:1, brown:1, fox:1}, b = {quick:1, brown:1, fox:1, jumps:1}
	// dot = 3, |a| = |b| = 2 -> 0.75
	got := Cosine(Normalize("the quick brown fox"), Normalize("quick brown fox jumps"))
	if math.Abs(got-0.75) > 1e-12 {
		t.Errorf("expected 0.75, got %v", got)
	}
}

func TestCosine_Disjoint(t *testing.T) {
	if got := Cosine([]string{"a", "b"}, []string{"c", "d"}); got != 0 {
		t.Errorf("expected 0 for disjoint vocabularies, got %v", got)
	}
}
