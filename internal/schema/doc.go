// Package schema declares the canonical pattern document contract (version
// 1.0) and validates raw JSON documents against it.
//
// Documents are handled as decoded JSON maps rather than structs because the
// same code paths must accept legacy files that predate the schema entirely.
// Objects are closed: any key outside the declared contract fails validation,
// with the single exception of the document metadata map, which is open by
// design. Validation reports the first offending field only.
//
// The package also owns schema-version migration. Version 1.0 is the only
// published version, so migration is chiefly the rehabilitation of undated
// legacy documents into well-formed 1.0 documents.
package schema
