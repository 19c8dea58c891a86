package source

import (
	"strings"

	"github.com/kailas-cloud/overlap/internal/domain"
	"github.com/kailas-cloud/overlap/internal/textproc"
)

// Text is the submitted text of one analysis request.
type Text struct {
	raw    string
	tokens []string
}

// New validates raw input and derives its token sequence.
func New(raw string) (Text, error) {
	if strings.TrimSpace(raw) == "" {
		return Text{}, domain.ErrEmptyInput
	}
	return Text{raw: raw, tokens: textproc.Normalize(raw)}, nil
}

// Raw returns the text as submitted.
func (t *Text) Raw() string { return t.raw }

// Tokens returns the normalized token sequence. Callers must not modify it.
func (t *Text) Tokens() []string { return t.tokens }
