// Package mapping generates and validates the LED-index -> grid-cell tables
// that non-rectangular layouts need. The canvas is always a rectangular grid;
// circular, multi-ring, radial-ray and custom-position layouts are an
// interpretation layer over it, and the mapping table is the single source of
// truth for that interpretation.
//
// Table generation is deterministic: the same metadata always produces the
// same table, so regenerating a missing table on load is safe.
package mapping
