// Package shared holds cross-cutting utilities that belong to no single
// domain package.
//
// The testutil subpackage provides a buffered slog handler so tests can
// assert on structured log output without touching the global logger.
// Nothing here may depend on other internal packages; that keeps it safe to
// import from anywhere in the tree.
package shared
