// Package textproc holds the lexical building blocks of the overlap pipeline:
// normalization into comparable tokens, term-vector similarity (plain cosine and
// TF-IDF weighted), character-level sequence ratios and sentence matching.
//
// Everything here is pure and safe for concurrent use; the only dependency with
// state is the sentence Splitter, which is read-only after construction.
package textproc
