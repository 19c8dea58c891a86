package query

import "fmt"

// Strategy names how a query was derived from the source text.
type Strategy string

// Strategies produced by the planner.
const (
	Full Strategy = "full"
	Head Strategy = "head"
	Tail Strategy = "tail"
)

// Query is one search issued for a request.
type Query struct {
	text     string
	strategy Strategy
}

// New creates a query.
func New(text string, strategy Strategy) Query {
	return Query{text: text, strategy: strategy}
}

// Text returns the query string sent to the search provider.
func (q *Query) Text() string { return q.text }

// Strategy returns the planning strategy.
func (q *Query) Strategy() Strategy { return q.strategy }

// String formats the query for logs.
func (q *Query) String() string { return fmt.Sprintf("%s:%q", q.strategy, q.text) }
