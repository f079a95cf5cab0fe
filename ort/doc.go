// Package ort implements ORT, a line-oriented human-editable notation for
// JSON-like data.
//
// ORT is designed to be:
//   - Easy to read and edit by hand (no indentation, few quotes)
//   - Compact for arrays of uniform objects (tabular sections)
//   - Structurally round-trippable to JSON
//
// # Data Model
//
// Scalars: null, bool, number, string
// Containers: array, object (ordered keys)
//
// # Sections
//
// A document is a sequence of sections. A section is a header line ending in
// ':' followed by data lines:
//
//	name:
//	Ada
//
//	rows:id,tag:
//	1,x
//	2,y
//
//	people:name,address(city,zip):
//	Ada,(London,N1)
//
// A header that starts with ':' is anonymous; its value becomes the whole
// document:
//
//	:id,tag:
//	1,x
//	2,y
//
// # Values
//
// Empty:      null
// Array:      [v1,v2,v3]
// Object:     (k1:v1,k2:v2)
// Empty:      [] and ()
// Bool:       true / false
// Number:     42, -1.5, 2e10
// String:     anything else, with ( ) [ ] , \ escaped by a backslash
//
// Blank lines and lines starting with '#' are ignored everywhere.
package ort
