package textproc

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abcd", "abcd", 1.0},
		{"", "", 1.0},
		{"abcd", "", 0},
		{"abcd", "wxyz", 0},
		// difflib: SequenceMatcher(None, "abcd", "bcde").ratio() == 0.75
		{"abcd", "bcde", 0.75},
		// difflib: SequenceMatcher(None, "tide", "diet").ratio() == 0.25
		{"tide", "diet", 0.25},
	}
	for _, tc := range tests {
		got := Ratio(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Ratio(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"the quick brown fox", "the quick brown dog"},
		{"kitten", "sitting"},
	}
	for _, p := range pairs {
		ab, ba := Ratio(p[0], p[1]), Ratio(p[1], p[0])
		if ab < 0 || ab > 1 {
			t.Errorf("ratio out of range: %v", ab)
		}
		if math.Abs(ab-ba) > 0.2 {
			t.Errorf("ratio wildly asymmetric for %v: %v vs %v", p, ab, ba)
		}
	}
}

func TestLongestCommonSubstring(t *testing.T) {
	tests := []struct {
		a, b string
		want string
	}{
		{"the quick brown fox", "a quick brown dog", " quick brown "},
		{"abc", "xyz", ""},
		{"", "abc", ""},
		{"abcabc", "abc", "abc"},
		{"héllo wörld", "wörld", "wörld"},
	}
	for _, tc := range tests {
		if got := LongestCommonSubstring(tc.a, tc.b); got != tc.want {
			t.Errorf("LongestCommonSubstring(%q, %q) = %q, want %q", tc.a, tc.b, got, tc.want)
		}
	}
}
