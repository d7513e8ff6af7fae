// Package differentia implements the randomly drawn fingerprints carried by
// every stratum of a hereditary stratigraphic column.
//
// A Differentia is a fixed-width unsigned value. Widths up to 64 bits are held
// inline; wider values keep their high-order bytes in an immutable tail so the
// type stays comparable with ==. Ordering is byte-lexicographic over the
// big-endian encoding, which for equal widths matches numeric order.
//
// Draws come from a Generator, a goroutine-safe wrapper around a seeded PCG
// source. Columns receive their Generator explicitly; there is no package-level
// random state.
package differentia
