package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	overlap "github.com/kailas-cloud/overlap/pkg/sdk"
)

func checkOptions(c *cli.Context) ([]overlap.Option, error) {
	var opts []overlap.Option
	switch {
	case c.String("searxng") != "":
		opts = append(opts, overlap.WithSearxNG(c.String("searxng")))
	case c.String("google-key") != "":
		opts = append(opts, overlap.WithGoogle(c.String("google-key"), c.String("google-cx")))
	default:
		return nil, errors.New("a search provider is required: --searxng or --google-key with --google-cx")
	}

	if addr := c.String("cache"); addr != "" {
		opts = append(opts, overlap.WithCache(addr, os.Getenv("VALKEY_PASSWORD")))
	}
	if c.Bool("readability") {
		opts = append(opts, overlap.WithReadability())
	}
	if c.Bool("tfidf") {
		opts = append(opts, overlap.WithTFIDF())
	}
	if c.Int("workers") <= 0 {
		return nil, fmt.Errorf("workers must be greater than 0")
	}
	opts = append(opts,
		overlap.WithWorkers(c.Int("workers")),
		overlap.WithRanking(c.Float64("threshold"), c.Int("top-k")),
		overlap.WithLogger(slog.Default()),
	)
	return opts, nil
}

func checkCommand(c *cli.Context) error {
	text, err := readInput(c, pipedStdin())
	if err != nil {
		return err
	}

	opts, err := checkOptions(c)
	if err != nil {
		return err
	}

	client, err := overlap.New(c.Context, opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer client.Close()

	rep, err := client.Check(c.Context, text)
	if err != nil {
		return err
	}
	return output(c, &rep)
}

func output(c *cli.Context, rep *overlap.Report) error {
	w := c.App.Writer
	if c.Bool("json") {
		return renderJSON(w, rep)
	}
	renderText(w, rep)
	return nil
}
