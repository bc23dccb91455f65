// Package io serializes document trees to and from the JSON stored inside a
// section's content payload.
//
// # JSON Format
//
// Every node is an object with a required "type" and optional "attrs",
// "content", "text" and "marks":
//
//	{
//	  "type": "doc",
//	  "content": [
//	    {"type": "columns", "attrs": {}, "content": [
//	      {"type": "column", "attrs": {"verticalAlign": "top"}, "content": [
//	        {"type": "paragraph", "content": [{"type": "text", "text": "left"}]}
//	      ]},
//	      {"type": "column", "attrs": {"verticalAlign": "center"}}
//	    ]}
//	  ]
//	}
//
// # Canonical Form
//
// [Serialize] writes compact JSON with keys in the order type, attrs, content,
// text, marks, and attribute keys sorted. "attrs" is written for every node
// type that declares attributes (for "columns" that is an empty object, since
// its column count is derived from the children) and omitted otherwise.
// Empty content lists are omitted.
//
// For canonical input J, Serialize(Deserialize(J)) == J byte for byte. For any
// valid tree T, Deserialize(Serialize(T)) is structurally equal to T.
//
// # Errors
//
// [Deserialize] never attempts partial recovery. Malformed JSON, unknown node
// or mark types, unknown or invalid attributes, and missing required
// attributes fail with CORRUPT_DOCUMENT carrying the node path. A tree that
// decodes cleanly but breaks a content rule (a "columns" node with no columns,
// a paragraph directly inside "columns") fails with SCHEMA_VIOLATION.
// Defaulted attributes that are absent, such as a column's verticalAlign, are
// filled in on load.
//
// [Serialize] validates the tree first and refuses to produce JSON for a tree
// that violates the schema, so an invalid tree is never persisted.
//
// # Concurrency
//
// All functions are safe for concurrent use as long as the tree being
// serialized is not mutated at the same time.
package io
