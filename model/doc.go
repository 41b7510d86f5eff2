// Package model provides the data structures for a reconstructed land-register
// sheet (Grundbuch).
//
// All extraction stages produce or consume these types, making them the primary
// API for consuming extracted content.
//
// # Register Structure
//
// A [Grundbuch] holds the [Titelblatt] (court, district, sheet number) and the
// four register sections:
//
//   - [Bestandsverzeichnis] - parcels and rights attached to the property
//   - [Abteilung1] - ownership
//   - [Abteilung2] - encumbrances and restrictions
//   - [Abteilung3] - monetary charges
//
// Entries of the Bestandsverzeichnis form a tagged union: every [BvEintrag] is
// either a [BvFlurstueck] (a cadastral parcel) or a [BvRecht] (a right attached
// to a parcel). Callers switch on the concrete type.
//
// # Cancellation
//
// Each entry carries a two-layer [Cancellation] (Rötung): an automatic flag
// derived from red pixels in the scan, and an optional manual flag set by an
// operator. The manual flag always wins when present.
//
// # Problems
//
// Records own their diagnostics. Extraction warnings, consistency errors and
// informational notes are attached as [Problem] values instead of aborting the
// batch. Failures that affect a whole page are reported as [PageError] or
// [ToolError].
//
// # Geometry
//
// Geometric primitives use page millimetres with a top-left origin:
//
//   - [BBox] - bounding box with union, containment and intersection
//   - [Point] - 2D point
//   - [Textblock] - text with the rectangle it was read from
package model
