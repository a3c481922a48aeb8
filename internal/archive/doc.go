// Package archive opens import archives and partitions their entries into
// document text and image assets.
//
// Documents are concatenated in archive iteration order; assets are decoded
// into content-addressable payloads keyed by their normalized archive path.
// An archive with no document entries is unusable and rejected outright,
// while individual asset failures are logged and skipped.
package archive
