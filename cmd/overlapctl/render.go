package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	overlap "github.com/kailas-cloud/overlap/pkg/sdk"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	urlColor    = color.New(color.Bold)
	highColor   = color.New(color.FgRed, color.Bold)
	midColor    = color.New(color.FgYellow)
	lowColor    = color.New(color.FgGreen)
	dimColor    = color.New(color.Faint)
)

func disableColor() { color.NoColor = true }

func scoreColor(score float64) *color.Color {
	switch {
	case score >= 0.8:
		return highColor
	case score >= 0.6:
		return midColor
	default:
		return lowColor
	}
}

// renderText writes a human-readable report.
func renderText(w io.Writer, rep *overlap.Report) {
	headerColor.Fprintf(w, "Report %s\n", rep.ID)

	if len(rep.Results) == 0 {
		fmt.Fprintln(w, rep.Message)
	}
	for i, r := range rep.Results {
		fmt.Fprintf(w, "%d. %s  %s\n", i+1,
			scoreColor(r.Score).Sprintf("%.2f", r.Score), urlColor.Sprint(r.URL))
		fmt.Fprintf(w, "   lexical %.2f", r.LexicalScore)
		if r.Sentence != nil {
			label := "sentence"
			if r.Sentence.Fallback {
				label = "substring"
			}
			fmt.Fprintf(w, ", %s %.2f", label, r.Sentence.Ratio)
		}
		fmt.Fprintln(w)
		if r.Sentence != nil && r.Sentence.Candidate != "" {
			fmt.Fprintf(w, "   %q\n", r.Sentence.Candidate)
		}
		if len(r.MissingTerms) > 0 {
			dimColor.Fprintf(w, "   missing: %s\n", strings.Join(r.MissingTerms, " "))
		}
	}

	st := rep.Stats
	dimColor.Fprintf(w, "%d queries (%d failed), %d pages, %d scored%s in %s\n",
		st.Queries, st.SearchFailures, st.Candidates, st.Scored, skippedSummary(st.Skipped),
		st.Duration.Round(1e6))
}

func skippedSummary(skipped map[string]int) string {
	if len(skipped) == 0 {
		return ""
	}
	kinds := make([]string, 0, len(skipped))
	for k := range skipped {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, skipped[k]))
	}
	return ", skipped " + strings.Join(parts, " ")
}

func renderJSON(w io.Writer, rep *overlap.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
