// Package project owns the .ledproj container: project-level metadata and
// settings wrapped around one pattern document, saved and loaded atomically.
//
// The container versions independently of the embedded pattern document. A
// file may need container migration, schema migration, both, or neither;
// Load handles all four cases before handing the document to the converter.
//
// Saves write a sibling temp file and rename over the target, so a reader
// never sees a half-written project. Post-load geometry repair (mapping
// tables, irregular-shape cells) is delegated to collaborator interfaces and
// never fails a load; a pattern with a stale mapping table is still usable.
package project
