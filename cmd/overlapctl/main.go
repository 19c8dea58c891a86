package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "overlapctl:", err)
		os.Exit(1)
	}
}

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "text",
			Aliases: []string{"t"},
			Usage:   "Text to check",
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Read the text from a file (- for stdin)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the report as JSON",
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "overlapctl",
		Usage: "Find web pages that share content with a text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "Run a check in-process against a search provider",
				Action: checkCommand,
				Flags: append(inputFlags(),
					&cli.StringFlag{
						Name:    "searxng",
						Usage:   "SearxNG base URL",
						EnvVars: []string{"SEARXNG_URL"},
					},
					&cli.StringFlag{
						Name:    "google-key",
						Usage:   "Google Custom Search API key",
						EnvVars: []string{"GOOGLE_API_KEY"},
					},
					&cli.StringFlag{
						Name:    "google-cx",
						Usage:   "Google Custom Search engine id",
						EnvVars: []string{"GOOGLE_CSE_ID"},
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Valkey/Redis address for the page cache",
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum score of a reported page",
						Value: 0.5,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of reported pages (0 = all)",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Pages fetched concurrently",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "readability",
						Usage: "Extract the main article instead of all visible text",
					},
					&cli.BoolFlag{
						Name:  "tfidf",
						Usage: "Weight terms by rarity across fetched pages",
					},
				),
			},
			{
				Name:   "remote",
				Usage:  "Send a check to a running overlap server",
				Action: remoteCommand,
				Flags: append(inputFlags(),
					&cli.StringFlag{
						Name:     "server",
						Aliases:  []string{"s"},
						Usage:    "Server base URL",
						EnvVars:  []string{"OVERLAP_SERVER"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "Bearer token",
						EnvVars: []string{"OVERLAP_API_KEY"},
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Request timeout",
						Value: defaultRemoteTimeout,
					},
				),
			},
		},
	}
}

func setup(c *cli.Context) error {
	if c.Bool("no-color") {
		disableColor()
	}

	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.String("log-level"))
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}
