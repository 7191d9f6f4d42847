// Package parser implements the universal stock-report ingestion engine.
//
// Given an in-memory byte buffer and a filename, the engine classifies the
// file format, extracts an ordered table of raw rows, maps free-form header
// text onto a fixed set of semantic fields, fingerprints the originating
// e-commerce platform, and normalizes each row into a StockRecord with
// row-level degradation: a bad row produces a warning, never aborts the
// batch. The engine holds no mutable state between invocations and performs
// no I/O beyond the supplied buffer, so callers may run parses concurrently.
package parser
