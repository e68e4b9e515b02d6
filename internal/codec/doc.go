// Package codec converts typed scalar values to and from grid-cell
// primitives and fingerprints rows for change detection.
//
// Encode and Decode form a pure function pair with a round-trip law: for
// every supported type tag, decoding an encoded value yields the original
// value. The one deliberate exception is the zero date, which decodes to
// absent. Decode is lossy by policy: a primitive that cannot be coerced to
// the declared type yields absent rather than an error, so a single bad
// cell never sinks a row.
//
// Fingerprints digest the canonical, locale-invariant string form of a
// row's cells. They are used only to detect change between an export and a
// later import, never as identity keys, so a non-cryptographic digest is
// sufficient.
package codec
