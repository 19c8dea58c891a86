package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	chiTransport "github.com/kailas-cloud/overlap/internal/transport/chi"
	overlap "github.com/kailas-cloud/overlap/pkg/sdk"
)

func TestMain(m *testing.M) {
	disableColor()
	os.Exit(m.Run())
}

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range inputFlags() {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(newApp(), set, nil)
}

func TestRemoteCommandFlags(t *testing.T) {
	app := newApp()

	t.Run("server is required", func(t *testing.T) {
		t.Setenv("OVERLAP_SERVER", "")
		err := app.Run([]string{"overlapctl", "remote", "--text", "hello"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server")
	})

	t.Run("timeout has default value", func(t *testing.T) {
		var cmd *cli.Command
		for _, c := range app.Commands {
			if c.Name == "remote" {
				cmd = c
			}
		}
		require.NotNil(t, cmd)
		var timeout *cli.DurationFlag
		for _, f := range cmd.Flags {
			if d, ok := f.(*cli.DurationFlag); ok && d.Name == "timeout" {
				timeout = d
			}
		}
		require.NotNil(t, timeout)
		assert.Equal(t, defaultRemoteTimeout, timeout.Value)
	})
}

func TestCheckCommand_RequiresProvider(t *testing.T) {
	t.Setenv("SEARXNG_URL", "")
	t.Setenv("GOOGLE_API_KEY", "")

	err := newApp().Run([]string{"overlapctl", "check", "--text", "hello world"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search provider")
}

func TestSetup_InvalidLogLevel(t *testing.T) {
	err := newApp().Run([]string{"overlapctl", "--log-level", "loud", "check"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestReadInput(t *testing.T) {
	t.Run("text flag wins", func(t *testing.T) {
		got, err := readInput(newContext(t, "--text", "from flag"), strings.NewReader("from stdin"))
		require.NoError(t, err)
		assert.Equal(t, "from flag", got)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "essay.txt")
		require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))

		got, err := readInput(newContext(t, "--file", path), nil)
		require.NoError(t, err)
		assert.Equal(t, "from file", got)
	})

	t.Run("dash reads stdin", func(t *testing.T) {
		got, err := readInput(newContext(t, "--file", "-"), strings.NewReader("piped"))
		require.NoError(t, err)
		assert.Equal(t, "piped", got)
	})

	t.Run("positional args", func(t *testing.T) {
		got, err := readInput(newContext(t, "rivers", "flow"), nil)
		require.NoError(t, err)
		assert.Equal(t, "rivers flow", got)
	})

	t.Run("nothing given", func(t *testing.T) {
		_, err := readInput(newContext(t), nil)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readInput(newContext(t, "--file", filepath.Join(t.TempDir(), "nope")), nil)
		require.Error(t, err)
	})
}

func sampleReport() overlap.Report {
	return overlap.Report{
		ID:      "r-1",
		Outcome: overlap.OutcomeMatches,
		Results: []overlap.Result{{
			URL:          "https://a.example/essay",
			Score:        0.91,
			LexicalScore: 0.85,
			MissingTerms: []string{"the", "sea"},
			Sentence:     &overlap.SentenceMatch{Candidate: "rivers flow quietly", Ratio: 0.95},
		}},
		Stats: overlap.Stats{
			Queries:    2,
			Candidates: 3,
			Scored:     1,
			Skipped:    map[string]int{"status": 1, "fetch": 1},
			Duration:   1500 * time.Millisecond,
		},
	}
}

func TestRenderText(t *testing.T) {
	rep := sampleReport()
	var buf bytes.Buffer
	renderText(&buf, &rep)

	out := buf.String()
	assert.Contains(t, out, "1. 0.91  https://a.example/essay")
	assert.Contains(t, out, "lexical 0.85, sentence 0.95")
	assert.Contains(t, out, `"rivers flow quietly"`)
	assert.Contains(t, out, "missing: the sea")
	assert.Contains(t, out, "skipped fetch=1 status=1")
}

func TestRenderText_Empty(t *testing.T) {
	rep := overlap.Report{ID: "r-2", Outcome: overlap.OutcomeNoMatch, Message: "no similar content found above threshold"}
	var buf bytes.Buffer
	renderText(&buf, &rep)

	assert.Contains(t, buf.String(), "no similar content found above threshold")
}

func TestRenderJSON(t *testing.T) {
	rep := sampleReport()
	var buf bytes.Buffer
	require.NoError(t, renderJSON(&buf, &rep))

	var decoded overlap.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rep.ID, decoded.ID)
	assert.Len(t, decoded.Results, 1)
}

func TestPostCheck(t *testing.T) {
	var gotAuth string
	var gotReq chiTransport.CheckRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(chiTransport.CheckResponse{
			ID:      "r-9",
			Outcome: "matches",
			Results: []chiTransport.CheckResult{{URL: "https://b.example", Score: 0.7, MissingTerms: "a b"}},
			Stats:   chiTransport.CheckStats{Queries: 1, DurationMs: 250},
		})
	}))
	defer srv.Close()

	resp, err := postCheck(context.Background(), srv.Client(), srv.URL+"/", "secret", "some text")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "some text", gotReq.Text)

	rep := fromWire(resp)
	assert.Equal(t, "r-9", rep.ID)
	assert.Equal(t, overlap.OutcomeMatches, rep.Outcome)
	require.Len(t, rep.Results, 1)
	assert.Equal(t, []string{"a", "b"}, rep.Results[0].MissingTerms)
	assert.Equal(t, 250*time.Millisecond, rep.Stats.Duration)
}

func TestPostCheck_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
			Code:    chiTransport.ErrorCodeValidationFailed,
			Message: "empty input text",
		})
	}))
	defer srv.Close()

	_, err := postCheck(context.Background(), srv.Client(), srv.URL, "", " ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation_failed")
	assert.Contains(t, err.Error(), "empty input text")
}
