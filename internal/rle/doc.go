// Package rle implements the run-length pixel codec used by the pattern
// document format. Runs of identical pixels become 4-byte groups
// (count, R, G, B) with counts capped at 255, and the byte stream is wrapped
// in standard base64 so it can live inside a JSON string.
//
// Decode never fails: malformed or truncated input degrades to black pixels
// and the result is always exactly the requested length.
package rle
