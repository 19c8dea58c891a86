package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

const maxInputBytes = 1 << 20

// readInput returns the text given by --text, --file or piped stdin, in that order.
func readInput(c *cli.Context, stdin io.Reader) (string, error) {
	if t := c.String("text"); t != "" {
		return t, nil
	}

	var r io.Reader
	switch path := c.String("file"); path {
	case "":
		if c.Args().Len() > 0 {
			return strings.Join(c.Args().Slice(), " "), nil
		}
		r = stdin
	case "-":
		if stdin == nil {
			return "", errors.New("stdin is a terminal")
		}
		r = stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	if r == nil {
		return "", errors.New("no input: use --text, --file or pipe text to stdin")
	}

	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes))
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// pipedStdin returns os.Stdin unless it is an interactive terminal.
func pipedStdin() io.Reader {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return os.Stdin
}
