// Package entity provides the ordered JSON value model used across the
// mock engine.
//
// Mock collections hold ad-hoc JSON documents with no schema, so the model
// is a tagged variant over the JSON kinds (null, bool, number, string,
// array, object) rather than Go structs. Objects remember key insertion
// order, which keeps responses byte-stable across a load/serve/save
// round trip.
//
// This package contains type definitions and (de)serialization only.
// All other internal packages import entity; entity imports nothing
// internal. This keeps it the foundational layer with no cycles.
package entity
