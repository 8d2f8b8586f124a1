// Package wordrule implements the word-level rename engine: filename
// tokenization, token classification, structural pattern signatures,
// signature similarity, cross-file selection propagation, and ordered
// rule application.
//
// Everything in this package is a pure function of its arguments. There
// is no package-level mutable state, so all functions are safe to call
// concurrently. Callers (see package session) own the selection and rule
// state and pass it in through [Options] on every call.
//
// The pieces, leaf first:
//
//   - [Tokenize] splits a name into word and separator tokens.
//   - [Classify] buckets a token into a [WordClass].
//   - [ExtractPattern] collapses digits to '#' to get a name's shape.
//   - [Similarity] scores two shapes (edit distance + marker positions).
//   - [FindSimilarTokens] extends a numeric selection to other files.
//   - [ApplyRules] rewrites one name from the current selection and rules.
package wordrule
