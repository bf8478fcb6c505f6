// Package pattern defines the in-memory model for LED animations: ordered
// frames of RGB pixels plus the matrix metadata (dimensions, color order,
// wiring, layout geometry) needed to map those pixels onto hardware.
//
// The model is deliberately dumb storage. Serialization lives in
// internal/schema and internal/convert; geometry table generation lives in
// internal/mapping. The only invariant enforced here is that every frame
// carries exactly Metadata.LEDCount() pixels.
package pattern
