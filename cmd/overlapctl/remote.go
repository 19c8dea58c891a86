package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	chiTransport "github.com/kailas-cloud/overlap/internal/transport/chi"
	overlap "github.com/kailas-cloud/overlap/pkg/sdk"
)

const defaultRemoteTimeout = 60 * time.Second

func remoteCommand(c *cli.Context) error {
	text, err := readInput(c, pipedStdin())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	resp, err := postCheck(ctx, http.DefaultClient, c.String("server"), c.String("api-key"), text)
	if err != nil {
		return err
	}
	rep := fromWire(resp)
	return output(c, &rep)
}

func postCheck(
	ctx context.Context, client *http.Client, server, apiKey, text string,
) (chiTransport.CheckResponse, error) {
	body, err := json.Marshal(chiTransport.CheckRequest{Text: text})
	if err != nil {
		return chiTransport.CheckResponse{}, fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(server, "/") + "/check"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return chiTransport.CheckResponse{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return chiTransport.CheckResponse{}, fmt.Errorf("post check: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var e chiTransport.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Message != "" {
			return chiTransport.CheckResponse{}, fmt.Errorf("server returned %d %s: %s", resp.StatusCode, e.Code, e.Message)
		}
		return chiTransport.CheckResponse{}, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var out chiTransport.CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return chiTransport.CheckResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func fromWire(r chiTransport.CheckResponse) overlap.Report {
	results := make([]overlap.Result, 0, len(r.Results))
	for _, res := range r.Results {
		item := overlap.Result{
			URL:          res.URL,
			Score:        res.Score,
			LexicalScore: res.LexicalScore,
			MissingTerms: strings.Fields(res.MissingTerms),
		}
		if sm := res.Sentence; sm != nil {
			item.Sentence = &overlap.SentenceMatch{
				Source:    sm.Source,
				Candidate: sm.Candidate,
				Ratio:     sm.Ratio,
				Fallback:  sm.Fallback,
			}
		}
		results = append(results, item)
	}
	return overlap.Report{
		ID:      r.ID,
		Outcome: overlap.Outcome(r.Outcome),
		Message: r.Message,
		Results: results,
		Stats: overlap.Stats{
			Queries:        r.Stats.Queries,
			SearchFailures: r.Stats.SearchFailures,
			Candidates:     r.Stats.Candidates,
			Scored:         r.Stats.Scored,
			Skipped:        r.Stats.Skipped,
			Duration:       time.Duration(r.Stats.DurationMs) * time.Millisecond,
		},
	}
}
