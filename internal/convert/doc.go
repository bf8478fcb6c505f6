// Package convert maps between the in-memory pattern model and the canonical
// schema 1.0 document form.
//
// ToDocument always re-validates what it built: a converter emitting a
// document that fails its own schema is a bug in this package, and the error
// says so rather than blaming the caller. FromDocument validates before
// reading anything.
//
// Only the first layer of each frame is decoded when loading; compositing
// multiple layers belongs to the editing surface, not the persistence core.
package convert
