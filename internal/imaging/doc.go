// Package imaging re-encodes imported image assets to fit a per-item size
// ceiling.
//
// Compression is best effort and fail open: an asset that cannot be decoded,
// or that still exceeds the ceiling after the attempt budget, passes through
// with the best bytes available rather than blocking an import.
package imaging
